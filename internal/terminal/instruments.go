package terminal

import (
	"context"
	"fmt"

	"github.com/rickgao/mtbridge/internal/model"
	"github.com/rickgao/mtbridge/internal/protocol"
)

// InstrumentInfo fetches the trading properties of an instrument.
func (c *Client) InstrumentInfo(ctx context.Context, instrument string) (*model.InstrumentInfo, error) {
	reply, err := c.call(ctx, protocol.OpInstrumentInfo, instrument)
	if err != nil {
		return nil, err
	}

	r := reply.Reader(2)
	info := &model.InstrumentInfo{
		Instrument:   instrument,
		Digits:       r.Int(),
		MaxLotSize:   r.Float(),
		MinLotSize:   r.Float(),
		LotStep:      r.Float(),
		Point:        r.Float(),
		TickSize:     r.Float(),
		TickValue:    r.Float(),
		SwapLong:     r.Float(),
		SwapShort:    r.Float(),
		StopLevel:    r.Int(),
		ContractSize: r.Float(),
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("instrument info %s: %w", instrument, err)
	}
	return info, nil
}

// InMarketWatch reports whether the instrument is shown in the terminal's market watch.
func (c *Client) InMarketWatch(ctx context.Context, instrument string) (bool, error) {
	return c.flag(ctx, protocol.OpInMarketWatch, instrument)
}

// TradingAllowed reports whether the instrument can be traded now.
func (c *Client) TradingAllowed(ctx context.Context, instrument string) (bool, error) {
	return c.flag(ctx, protocol.OpTradingAllowed, instrument)
}

func (c *Client) flag(ctx context.Context, op protocol.Opcode, instrument string) (bool, error) {
	reply, err := c.call(ctx, op, instrument)
	if err != nil {
		return false, err
	}
	r := reply.Reader(2)
	v := r.Bool()
	if err := r.Err(); err != nil {
		return false, fmt.Errorf("%s %s: %w", op, instrument, err)
	}
	return v, nil
}

// BrokerInstruments lists every instrument name the broker offers.
func (c *Client) BrokerInstruments(ctx context.Context) ([]string, error) {
	reply, err := c.call(ctx, protocol.OpBrokerInstruments)
	if err != nil {
		return nil, err
	}
	return reply.Values(), nil
}
