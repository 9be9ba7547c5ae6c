package terminal

import (
	"context"
	"log/slog"
	"time"

	"github.com/rickgao/mtbridge/internal/history"
	"github.com/rickgao/mtbridge/internal/instrument"
	"github.com/rickgao/mtbridge/internal/protocol"
)

// Sender is the command channel the client runs on. *connection.Manager
// implements it.
type Sender interface {
	Send(ctx context.Context, op protocol.Opcode, args ...string) (string, error)
	Instruments() (*instrument.Translator, error)
}

// Client exposes the terminal operations.
type Client struct {
	sender Sender
	logger *slog.Logger

	tickPageSize int
	barPageSize  int
	serverTZ     *time.Location
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a terminal client.
func NewClient(sender Sender, opts ...ClientOption) *Client {
	c := &Client{
		sender:       sender,
		logger:       slog.Default(),
		tickPageSize: history.DefaultTickPageSize,
		barPageSize:  history.DefaultBarPageSize,
		serverTZ:     time.UTC,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTickPageSize sets the number of ticks requested per page.
func WithTickPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.tickPageSize = n
		}
	}
}

// WithBarPageSize sets the number of bars requested per page.
func WithBarPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.barPageSize = n
		}
	}
}

// WithServerLocation sets the zone used to interpret broker server time.
func WithServerLocation(loc *time.Location) ClientOption {
	return func(c *Client) {
		if loc != nil {
			c.serverTZ = loc
		}
	}
}
