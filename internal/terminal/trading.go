package terminal

import (
	"context"
	"fmt"

	"github.com/rickgao/mtbridge/internal/model"
	"github.com/rickgao/mtbridge/internal/protocol"
)

// AllInstruments selects every instrument in ClosePositionsAsync.
const AllInstruments = "***"

// OpenOrder places a market or pending order. On success the result carries the
// new ticket; a rejected order returns a *protocol.TerminalError with the
// terminal's order error number.
func (c *Client) OpenOrder(ctx context.Context, req model.OrderRequest) (*model.OrderResult, error) {
	orderType, err := model.ParseOrderType(string(req.Type))
	if err != nil {
		return nil, fmt.Errorf("open order: %w: %v", ErrInvalidArgument, err)
	}
	if req.Volume <= 0 {
		return nil, fmt.Errorf("open order: %w: volume %v", ErrInvalidArgument, req.Volume)
	}
	if req.Slippage < 0 {
		return nil, fmt.Errorf("open order: %w: slippage %d", ErrInvalidArgument, req.Slippage)
	}

	reply, err := c.call(ctx, protocol.OpOpenOrder,
		req.Instrument,
		string(orderType),
		protocol.FormatFloat(req.Volume),
		protocol.FormatFloat(req.OpenPrice),
		protocol.FormatInt(req.Slippage),
		protocol.FormatInt(req.MagicNumber),
		protocol.FormatFloat(req.StopLoss),
		protocol.FormatFloat(req.TakeProfit),
		protocol.Sanitize(req.Comment),
		protocol.FormatBool(req.Market),
	)
	if err != nil {
		return nil, err
	}

	r := reply.Reader(3)
	result := &model.OrderResult{
		Message:    reply.Field(2),
		Ticket:     r.Int(),
		OrderError: reply.Field(4),
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("open order: %w", err)
	}

	c.logger.Info("order opened",
		"instrument", req.Instrument,
		"type", orderType,
		"volume", req.Volume,
		"ticket", result.Ticket,
	)
	return result, nil
}

// ClosePosition closes a position completely.
func (c *Client) ClosePosition(ctx context.Context, ticket int64) (*model.OrderResult, error) {
	return c.trade(ctx, protocol.OpClosePosition, ticket, protocol.FormatInt(ticket))
}

// ClosePositionPartial closes volume lots of a position.
func (c *Client) ClosePositionPartial(ctx context.Context, ticket int64, volume float64) (*model.OrderResult, error) {
	if volume <= 0 {
		return nil, fmt.Errorf("close position partial: %w: volume %v", ErrInvalidArgument, volume)
	}
	return c.trade(ctx, protocol.OpClosePositionPartial, ticket, protocol.FormatInt(ticket), protocol.FormatFloat(volume))
}

// DeleteOrder deletes a pending order.
func (c *Client) DeleteOrder(ctx context.Context, ticket int64) (*model.OrderResult, error) {
	return c.trade(ctx, protocol.OpDeleteOrder, ticket, protocol.FormatInt(ticket))
}

// ClosePositionBy closes a position against an opposite one.
func (c *Client) ClosePositionBy(ctx context.Context, ticket, opposite int64) (*model.OrderResult, error) {
	return c.trade(ctx, protocol.OpClosePositionBy, ticket, protocol.FormatInt(ticket), protocol.FormatInt(opposite))
}

// SetPositionSLTP sets stop loss and take profit of a position.
func (c *Client) SetPositionSLTP(ctx context.Context, ticket int64, sl, tp float64) (*model.OrderResult, error) {
	return c.trade(ctx, protocol.OpSetPositionSLTP, ticket, protocol.FormatInt(ticket), protocol.FormatFloat(sl), protocol.FormatFloat(tp))
}

// SetOrderSLTP sets stop loss and take profit of a pending order.
func (c *Client) SetOrderSLTP(ctx context.Context, ticket int64, sl, tp float64) (*model.OrderResult, error) {
	return c.trade(ctx, protocol.OpSetOrderSLTP, ticket, protocol.FormatInt(ticket), protocol.FormatFloat(sl), protocol.FormatFloat(tp))
}

// ResetPositionSLTP removes stop loss and take profit from a position.
func (c *Client) ResetPositionSLTP(ctx context.Context, ticket int64) (*model.OrderResult, error) {
	return c.trade(ctx, protocol.OpResetPositionSLTP, ticket, protocol.FormatInt(ticket))
}

// ResetOrderSLTP removes stop loss and take profit from a pending order.
func (c *Client) ResetOrderSLTP(ctx context.Context, ticket int64) (*model.OrderResult, error) {
	return c.trade(ctx, protocol.OpResetOrderSLTP, ticket, protocol.FormatInt(ticket))
}

// ChangeOrder moves a pending order to a new price with new stops.
func (c *Client) ChangeOrder(ctx context.Context, ticket int64, price, sl, tp float64) (*model.OrderResult, error) {
	return c.trade(ctx, protocol.OpChangeOrder, ticket,
		protocol.FormatInt(ticket), protocol.FormatFloat(price), protocol.FormatFloat(sl), protocol.FormatFloat(tp))
}

// ClosePositionsAsync asks the terminal to close every position of instrument
// (AllInstruments for all) with the given magic number (-1 for any). The
// terminal acknowledges before the positions are closed.
func (c *Client) ClosePositionsAsync(ctx context.Context, instrument string, magic int64) (*model.OrderResult, error) {
	target := AllInstruments
	if instrument != AllInstruments {
		broker, err := c.forward(instrument)
		if err != nil {
			return nil, fmt.Errorf("close positions async: %w", err)
		}
		target = broker
	}
	return c.trade(ctx, protocol.OpClosePositionsAsync, -1, target, protocol.FormatInt(magic))
}

func (c *Client) trade(ctx context.Context, op protocol.Opcode, ticket int64, args ...string) (*model.OrderResult, error) {
	reply, err := c.call(ctx, op, args...)
	if err != nil {
		return nil, err
	}
	c.logger.Info("trade command accepted", "opcode", op, "ticket", ticket)
	return &model.OrderResult{
		Ticket:  ticket,
		Message: reply.Field(2),
	}, nil
}
