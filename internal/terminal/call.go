package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/rickgao/mtbridge/internal/protocol"
)

var (
	// ErrInvalidArgument is returned for arguments rejected before any I/O.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownOpcode is returned for an opcode missing from the catalogue.
	ErrUnknownOpcode = errors.New("unknown opcode")
)

// call runs one catalogue operation. When the schema marks the first argument as
// an instrument it is translated to the broker name before sending.
func (c *Client) call(ctx context.Context, op protocol.Opcode, args ...string) (*protocol.Reply, error) {
	schema, ok := protocol.Lookup(op)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOpcode, op)
	}
	if len(args) != schema.Args {
		return nil, fmt.Errorf("%s: %w: want %d arguments, got %d", schema.Name, ErrInvalidArgument, schema.Args, len(args))
	}

	if schema.Instrument {
		broker, err := c.forward(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", schema.Name, err)
		}
		translated := make([]string, len(args))
		copy(translated, args)
		translated[0] = broker
		args = translated
	}

	raw, err := c.sender.Send(ctx, op, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", schema.Name, err)
	}

	reply, err := protocol.Decode(raw, op)
	if err != nil {
		c.logger.Debug("terminal rejected command", "opcode", op, "err", err)
		return nil, fmt.Errorf("%s: %w", schema.Name, err)
	}
	if err := reply.Require(schema.MinFields); err != nil {
		return nil, fmt.Errorf("%s: %w", schema.Name, err)
	}
	return reply, nil
}

// Call runs any catalogue operation and returns the decoded reply. Instrument
// arguments are translated as for the typed operations.
func (c *Client) Call(ctx context.Context, op protocol.Opcode, args ...string) (*protocol.Reply, error) {
	return c.call(ctx, op, args...)
}

func (c *Client) forward(universal string) (string, error) {
	tr, err := c.sender.Instruments()
	if err != nil {
		return "", err
	}
	return tr.Forward(universal)
}

// universal maps a broker name from a reply back to its universal name, keeping
// the broker name when the map does not know it.
func (c *Client) universal(broker string) string {
	tr, err := c.sender.Instruments()
	if err != nil {
		return broker
	}
	return tr.ReverseOr(broker)
}

// decodeRows reads every record of a multi-row reply with fn.
func decodeRows[T any](reply *protocol.Reply, fn func(r *protocol.FieldReader) T) ([]T, error) {
	rows := reply.Rows()
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v := fn(r)
		if err := r.Err(); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
