package connection

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/mtbridge/internal/protocol"
)

// Send frames one command, writes it and waits for the complete reply. Calls are
// serialized; a caller queued behind another command can give up through ctx.
//
// The reply is returned raw, sentinel included. Timeout, socket error and context
// cancellation fault the connection.
func (m *Manager) Send(ctx context.Context, op protocol.Opcode, args ...string) (string, error) {
	if err := m.inflight.Acquire(ctx, 1); err != nil {
		return "", &CommandError{Opcode: op, Err: err}
	}
	defer m.inflight.Release(1)

	m.mu.Lock()
	conn := m.conn
	inbound := m.inbound
	readErr := m.readErr
	timeout := m.timeout
	state := m.state
	session := m.session
	m.mu.Unlock()

	id := uuid.New()
	if state != Connected || conn == nil {
		return "", &CommandError{Opcode: op, ID: id, Err: ErrNotWritable}
	}

	// A pending read error means the terminal already dropped us.
	select {
	case err := <-readErr:
		m.fault(conn, err)
		return "", &CommandError{Opcode: op, ID: id, Err: fmt.Errorf("%w: %w", ErrNotWritable, err)}
	default:
	}
	drain(inbound)

	frame := protocol.BuildFrame(op, m.cfg.AuthCode, args...)
	m.logger.Debug("sending command",
		"opcode", op,
		"id", id,
		"session", session,
	)

	start := time.Now()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	conn.SetWriteDeadline(start.Add(timeout))
	if _, err := io.WriteString(conn, frame); err != nil {
		m.fault(conn, err)
		return "", &CommandError{Opcode: op, ID: id, Err: fmt.Errorf("%w: %w", ErrCommandFailed, err)}
	}

	out := await(ctx, inbound, readErr, timer.C)
	if !out.Completed() {
		m.fault(conn, out.Err)
		return "", &CommandError{Opcode: op, ID: id, Raw: out.Partial, Err: out.Err}
	}

	m.logger.Debug("command complete",
		"opcode", op,
		"id", id,
		"bytes", len(out.Reply),
		"duration", time.Since(start),
	)
	return out.Reply, nil
}

// await accumulates the reply. Exactly one of reply complete, socket error,
// timer or context resolves it.
func await(ctx context.Context, inbound <-chan []byte, readErr <-chan error, timer <-chan time.Time) Outcome {
	var buf strings.Builder
	for {
		select {
		case chunk := <-inbound:
			buf.Write(chunk)
			if protocol.Complete(buf.String()) {
				return Outcome{Reply: buf.String()}
			}
		case err := <-readErr:
			// Data read before the failure is already queued.
			for pending := true; pending; {
				select {
				case chunk := <-inbound:
					buf.Write(chunk)
				default:
					pending = false
				}
			}
			if protocol.Complete(buf.String()) {
				return Outcome{Reply: buf.String()}
			}
			return Outcome{Partial: buf.String(), Err: fmt.Errorf("%w: %w", ErrCommandFailed, err)}
		case <-timer:
			return Outcome{Partial: buf.String(), Err: ErrCommandTimeout}
		case <-ctx.Done():
			return Outcome{Partial: buf.String(), Err: ctx.Err()}
		}
	}
}

// drain discards data that arrived while no command was outstanding.
func drain(inbound <-chan []byte) {
	for {
		select {
		case <-inbound:
		default:
			return
		}
	}
}
