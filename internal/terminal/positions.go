package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/rickgao/mtbridge/internal/model"
	"github.com/rickgao/mtbridge/internal/protocol"
)

// PendingOrders lists resting orders.
func (c *Client) PendingOrders(ctx context.Context) ([]model.PendingOrder, error) {
	reply, err := c.call(ctx, protocol.OpPendingOrders)
	if err != nil {
		return nil, err
	}
	return decodeRows(reply, func(r *protocol.FieldReader) model.PendingOrder {
		return model.PendingOrder{
			Ticket:      r.Int(),
			Instrument:  c.universal(r.String()),
			OrderType:   r.String(),
			MagicNumber: r.Int(),
			Volume:      r.Float(),
			OpenPrice:   r.Float(),
			StopLoss:    r.Float(),
			TakeProfit:  r.Float(),
			Comment:     r.String(),
		}
	})
}

// OpenPositions lists open positions.
func (c *Client) OpenPositions(ctx context.Context) ([]model.Position, error) {
	reply, err := c.call(ctx, protocol.OpOpenPositions)
	if err != nil {
		return nil, err
	}
	return decodeRows(reply, func(r *protocol.FieldReader) model.Position {
		return model.Position{
			Ticket:       r.Int(),
			Instrument:   c.universal(r.String()),
			OrderTicket:  r.Int(),
			PositionType: r.String(),
			MagicNumber:  r.Int(),
			Volume:       r.Float(),
			OpenPrice:    r.Float(),
			OpenTime:     r.Int(),
			StopLoss:     r.Float(),
			TakeProfit:   r.Float(),
			Comment:      r.String(),
			Profit:       r.Float(),
			Swap:         r.Float(),
			Commission:   r.Float(),
		}
	})
}

// ClosedPositions lists positions closed within [from, to].
func (c *Client) ClosedPositions(ctx context.Context, from, to time.Time) ([]model.ClosedPosition, error) {
	if from.After(to) {
		return nil, fmt.Errorf("closed positions: %w: from %s is after to %s", ErrInvalidArgument, from, to)
	}
	reply, err := c.call(ctx, protocol.OpClosedPositionsWindow, protocol.FormatWindowTime(from), protocol.FormatWindowTime(to))
	if err != nil {
		return nil, err
	}
	return decodeRows(reply, func(r *protocol.FieldReader) model.ClosedPosition {
		return model.ClosedPosition{
			Ticket:       r.Int(),
			Instrument:   c.universal(r.String()),
			PositionType: r.String(),
			MagicNumber:  r.Int(),
			Volume:       r.Float(),
			OpenPrice:    r.Float(),
			OpenTime:     r.Int(),
			StopLoss:     r.Float(),
			TakeProfit:   r.Float(),
			ClosePrice:   r.Float(),
			CloseTime:    r.Int(),
			Comment:      r.String(),
			Profit:       r.Float(),
			Swap:         r.Float(),
			Commission:   r.Float(),
		}
	})
}

// AllClosedPositions lists the complete closed position history.
func (c *Client) AllClosedPositions(ctx context.Context) ([]model.ClosedPosition, error) {
	reply, err := c.call(ctx, protocol.OpAllClosedPositions)
	if err != nil {
		return nil, err
	}
	return decodeRows(reply, func(r *protocol.FieldReader) model.ClosedPosition {
		return model.ClosedPosition{
			Ticket:       r.Int(),
			Instrument:   c.universal(r.String()),
			OrderTicket:  r.Int(),
			PositionType: r.String(),
			MagicNumber:  r.Int(),
			Volume:       r.Float(),
			OpenPrice:    r.Float(),
			OpenTime:     r.Int(),
			StopLoss:     r.Float(),
			TakeProfit:   r.Float(),
			ClosePrice:   r.Float(),
			CloseTime:    r.Int(),
			Comment:      r.String(),
			Profit:       r.Float(),
			Swap:         r.Float(),
			Commission:   r.Float(),
		}
	})
}

// DeletedOrders lists pending orders deleted within [from, to].
func (c *Client) DeletedOrders(ctx context.Context, from, to time.Time) ([]model.DeletedOrder, error) {
	if from.After(to) {
		return nil, fmt.Errorf("deleted orders: %w: from %s is after to %s", ErrInvalidArgument, from, to)
	}
	reply, err := c.call(ctx, protocol.OpDeletedOrdersWindow, protocol.FormatWindowTime(from), protocol.FormatWindowTime(to))
	if err != nil {
		return nil, err
	}
	return decodeRows(reply, c.readDeletedOrder)
}

// AllDeletedOrders lists every deleted pending order.
func (c *Client) AllDeletedOrders(ctx context.Context) ([]model.DeletedOrder, error) {
	reply, err := c.call(ctx, protocol.OpAllDeletedOrders)
	if err != nil {
		return nil, err
	}
	return decodeRows(reply, c.readDeletedOrder)
}

func (c *Client) readDeletedOrder(r *protocol.FieldReader) model.DeletedOrder {
	return model.DeletedOrder{
		Ticket:      r.Int(),
		Instrument:  c.universal(r.String()),
		OrderType:   r.String(),
		MagicNumber: r.Int(),
		Volume:      r.Float(),
		OpenPrice:   r.Float(),
		OpenTime:    r.Int(),
		StopLoss:    r.Float(),
		TakeProfit:  r.Float(),
		DeletePrice: r.Float(),
		DeleteTime:  r.Int(),
		Comment:     r.String(),
	}
}
