package terminal

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rickgao/mtbridge/internal/history"
	"github.com/rickgao/mtbridge/internal/model"
	"github.com/rickgao/mtbridge/internal/protocol"
)

// LastTick fetches the latest tick of an instrument.
func (c *Client) LastTick(ctx context.Context, instrument string) (*model.Tick, error) {
	reply, err := c.call(ctx, protocol.OpLastTick, instrument)
	if err != nil {
		return nil, err
	}

	r := reply.Reader(2)
	tick := &model.Tick{
		Instrument: instrument,
		Date:       r.Int(),
		Ask:        r.Float(),
		Bid:        r.Float(),
		Last:       r.Float(),
		Volume:     r.Int(),
		Spread:     r.Float(),
		DateMs:     r.Int(),
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("last tick %s: %w", instrument, err)
	}
	return tick, nil
}

// Ticks fetches the last count ticks of an instrument, oldest first.
func (c *Client) Ticks(ctx context.Context, instrument string, count int) ([]model.Tick, error) {
	if count < 1 {
		return nil, fmt.Errorf("ticks %s: %w: %d", instrument, history.ErrInvalidCount, count)
	}
	if _, err := c.forward(instrument); err != nil {
		return nil, fmt.Errorf("ticks: %w", err)
	}

	page := func(ctx context.Context, p history.Page) ([]model.Tick, error) {
		reply, err := c.call(ctx, protocol.OpTicks, instrument, strconv.Itoa(p.Offset), strconv.Itoa(p.Count))
		if err != nil {
			return nil, err
		}
		return decodeRows(reply, func(r *protocol.FieldReader) model.Tick {
			ms := r.Int()
			return model.Tick{
				Instrument: instrument,
				DateMs:     ms,
				Date:       ms / 1000,
				Ask:        r.Float(),
				Bid:        r.Float(),
				Last:       r.Float(),
				Volume:     r.Int(),
			}
		})
	}

	ticks, err := history.Fetch(ctx, count, c.tickPageSize, page, func(t model.Tick) int64 { return t.DateMs })
	if err != nil {
		return nil, fmt.Errorf("ticks %s: %w", instrument, err)
	}
	c.logger.Debug("ticks fetched", "instrument", instrument, "requested", count, "received", len(ticks))
	return ticks, nil
}

// ActualBar fetches the bar currently forming.
func (c *Client) ActualBar(ctx context.Context, instrument string, tf protocol.Timeframe) (*model.Bar, error) {
	if !tf.Valid() {
		return nil, fmt.Errorf("actual bar %s: %w: %d", instrument, protocol.ErrInvalidTimeframe, tf)
	}
	reply, err := c.call(ctx, protocol.OpActualBar, instrument, tf.Arg())
	if err != nil {
		return nil, err
	}

	r := reply.Reader(2)
	bar := readBar(r, instrument)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("actual bar %s: %w", instrument, err)
	}
	return &bar, nil
}

// Bars fetches the last count bars of an instrument, oldest first.
func (c *Client) Bars(ctx context.Context, instrument string, tf protocol.Timeframe, count int) ([]model.Bar, error) {
	if count < 1 {
		return nil, fmt.Errorf("bars %s: %w: %d", instrument, history.ErrInvalidCount, count)
	}
	if !tf.Valid() {
		return nil, fmt.Errorf("bars %s: %w: %d", instrument, protocol.ErrInvalidTimeframe, tf)
	}
	if _, err := c.forward(instrument); err != nil {
		return nil, fmt.Errorf("bars: %w", err)
	}

	page := func(ctx context.Context, p history.Page) ([]model.Bar, error) {
		reply, err := c.call(ctx, protocol.OpBars, instrument, tf.Arg(), strconv.Itoa(p.Offset), strconv.Itoa(p.Count))
		if err != nil {
			return nil, err
		}
		return decodeRows(reply, func(r *protocol.FieldReader) model.Bar {
			return readBar(r, instrument)
		})
	}

	bars, err := history.Fetch(ctx, count, c.barPageSize, page, func(b model.Bar) int64 { return b.Date })
	if err != nil {
		return nil, fmt.Errorf("bars %s: %w", instrument, err)
	}
	c.logger.Debug("bars fetched", "instrument", instrument, "timeframe", tf, "requested", count, "received", len(bars))
	return bars, nil
}

// SpecificBars fetches the bar at index (0 = forming bar) for several instruments.
func (c *Client) SpecificBars(ctx context.Context, instruments []string, index int, tf protocol.Timeframe) ([]model.Bar, error) {
	if len(instruments) == 0 {
		return nil, fmt.Errorf("specific bars: %w: no instruments", ErrInvalidArgument)
	}
	if index < 0 {
		return nil, fmt.Errorf("specific bars: %w: index %d", ErrInvalidArgument, index)
	}
	if !tf.Valid() {
		return nil, fmt.Errorf("specific bars: %w: %d", protocol.ErrInvalidTimeframe, tf)
	}

	var list strings.Builder
	for _, name := range instruments {
		broker, err := c.forward(name)
		if err != nil {
			return nil, fmt.Errorf("specific bars: %w", err)
		}
		list.WriteString(broker)
		list.WriteString(protocol.RecordSep)
	}

	reply, err := c.call(ctx, protocol.OpSpecificBars, list.String(), strconv.Itoa(index), tf.Arg())
	if err != nil {
		return nil, err
	}
	return decodeRows(reply, func(r *protocol.FieldReader) model.Bar {
		return readBar(r, c.universal(r.String()))
	})
}

func readBar(r *protocol.FieldReader, instrument string) model.Bar {
	return model.Bar{
		Instrument: instrument,
		Date:       r.Int(),
		Open:       r.Float(),
		High:       r.Float(),
		Low:        r.Float(),
		Close:      r.Float(),
		Volume:     r.Int(),
	}
}
