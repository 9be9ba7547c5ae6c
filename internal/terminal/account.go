package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/rickgao/mtbridge/internal/model"
	"github.com/rickgao/mtbridge/internal/protocol"
)

// CheckConnection asks the terminal whether the bridge is alive.
func (c *Client) CheckConnection(ctx context.Context) (bool, error) {
	reply, err := c.call(ctx, protocol.OpCheckConnection)
	if err != nil {
		return false, err
	}
	return reply.Field(1) == "OK", nil
}

// AccountInfo fetches the static account properties.
func (c *Client) AccountInfo(ctx context.Context) (*model.AccountInfo, error) {
	reply, err := c.call(ctx, protocol.OpAccountInfo)
	if err != nil {
		return nil, err
	}

	r := reply.Reader(2)
	info := &model.AccountInfo{
		Name:         r.String(),
		Login:        r.String(),
		Currency:     r.String(),
		Type:         r.String(),
		Leverage:     r.Int(),
		TradeAllowed: r.Bool(),
		LimitOrders:  r.Int(),
		MarginCall:   r.Float(),
		MarginClose:  r.Float(),
		Company:      r.String(),
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("account info: %w", err)
	}
	return info, nil
}

// AccountStatus fetches balance, equity and margin figures.
func (c *Client) AccountStatus(ctx context.Context) (*model.AccountStatus, error) {
	reply, err := c.call(ctx, protocol.OpAccountStatus)
	if err != nil {
		return nil, err
	}

	r := reply.Reader(2)
	status := &model.AccountStatus{
		Balance:     r.Float(),
		Equity:      r.Float(),
		Profit:      r.Float(),
		Margin:      r.Float(),
		MarginLevel: r.Float(),
		MarginFree:  r.Float(),
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("account status: %w", err)
	}
	return status, nil
}

// ServerTime returns the broker server clock.
func (c *Client) ServerTime(ctx context.Context) (time.Time, error) {
	reply, err := c.call(ctx, protocol.OpServerTime)
	if err != nil {
		return time.Time{}, err
	}
	t, err := protocol.ParseServerTime(reply.Field(2), c.serverTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("server time: %w", err)
	}
	return t, nil
}

// LicenseType returns the bridge license ("Demo" or "Licensed").
func (c *Client) LicenseType(ctx context.Context) (string, error) {
	reply, err := c.call(ctx, protocol.OpLicenseType)
	if err != nil {
		return "", err
	}
	return reply.Field(3), nil
}

// TerminalConnected reports whether the terminal is connected to its broker server.
func (c *Client) TerminalConnected(ctx context.Context) (bool, error) {
	reply, err := c.call(ctx, protocol.OpTerminalConnected)
	if err != nil {
		return false, err
	}
	return reply.Field(1) == "1", nil
}

// TerminalType reports the terminal platform.
func (c *Client) TerminalType(ctx context.Context) (model.TerminalKind, error) {
	reply, err := c.call(ctx, protocol.OpTerminalType)
	if err != nil {
		return "", err
	}
	if reply.Field(1) == "1" {
		return model.TerminalMT4, nil
	}
	return model.TerminalMT5, nil
}

// SwitchAutotrading turns terminal autotrading on or off.
func (c *Client) SwitchAutotrading(ctx context.Context, on bool) error {
	arg := "Off"
	if on {
		arg = "On"
	}
	_, err := c.call(ctx, protocol.OpSwitchAutotrading, arg)
	return err
}

// SetGlobal sets a terminal global variable.
func (c *Client) SetGlobal(ctx context.Context, name string, value float64) error {
	if name == "" {
		return fmt.Errorf("set global: %w: empty name", ErrInvalidArgument)
	}
	_, err := c.call(ctx, protocol.OpSetGlobal, protocol.Sanitize(name), protocol.FormatFloat(value))
	return err
}

// GetGlobal reads a terminal global variable.
func (c *Client) GetGlobal(ctx context.Context, name string) (float64, error) {
	if name == "" {
		return 0, fmt.Errorf("get global: %w: empty name", ErrInvalidArgument)
	}
	reply, err := c.call(ctx, protocol.OpGetGlobal, protocol.Sanitize(name))
	if err != nil {
		return 0, err
	}
	r := reply.Reader(3)
	v := r.Float()
	if err := r.Err(); err != nil {
		return 0, fmt.Errorf("get global: %w", err)
	}
	return v, nil
}
