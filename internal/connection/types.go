package connection

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rickgao/mtbridge/internal/instrument"
	"github.com/rickgao/mtbridge/internal/protocol"
)

// Errors
var (
	ErrAddressInvalid     = errors.New("invalid terminal address")
	ErrInstrumentMapEmpty = instrument.ErrEmptyMap
	ErrConnectFailed      = errors.New("connect failed")
	ErrHandshakeTimeout   = errors.New("handshake timeout")
	ErrAlreadyConnected   = errors.New("already connected")
	ErrNotConnected       = errors.New("not connected")
	ErrNotWritable        = errors.New("socket not writable")
	ErrCommandTimeout     = errors.New("command timeout")
	ErrCommandFailed      = errors.New("command failed")
	ErrInvalidTimeout     = errors.New("timeout must be positive")
)

// State is the connection lifecycle state.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
	Faulted
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Faulted:
		return "faulted"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Config configures a Manager.
type Config struct {
	Host        string            // Terminal host (default 127.0.0.1)
	Port        int               // Terminal port (default 1111)
	AuthCode    string            // Appended to every command (default "None")
	Timeout     time.Duration     // Handshake and per-command bound
	Instruments map[string]string // Universal -> broker names, must be non-empty
	ReadBuffer  int               // Socket read chunk size
}

// DefaultConfig returns the terminal's stock settings.
func DefaultConfig() Config {
	return Config{
		Host:       "127.0.0.1",
		Port:       1111,
		AuthCode:   protocol.DefaultAuthCode,
		Timeout:    10 * time.Second,
		ReadBuffer: 64 * 1024,
	}
}

// CommandError is a transport failure of one command. It carries the attempted
// opcode and whatever part of the reply had arrived.
type CommandError struct {
	Opcode protocol.Opcode
	ID     uuid.UUID
	Raw    string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("command %s: %v (partial reply %q)", e.Opcode, e.Err, e.Raw)
	}
	return fmt.Sprintf("command %s: %v", e.Opcode, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Outcome is the single resolution of one command: a complete reply, or a failure
// with whatever had been accumulated.
type Outcome struct {
	Reply   string
	Partial string
	Err     error
}

// Completed reports whether the command produced a full reply.
func (o Outcome) Completed() bool { return o.Err == nil }
