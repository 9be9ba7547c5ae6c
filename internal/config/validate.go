package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rickgao/mtbridge/internal/instrument"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Validate checks that all required fields are set and values are valid.
func (c *BridgeConfig) Validate() error {
	if c.Terminal.Host == "" {
		return errors.New("terminal.host is required")
	}
	if c.Terminal.Port < 1 || c.Terminal.Port > 65535 {
		return fmt.Errorf("terminal.port must be between 1 and 65535, got %d", c.Terminal.Port)
	}
	if c.Terminal.Timeout <= 0 {
		return errors.New("terminal.timeout must be > 0")
	}
	if strings.ContainsAny(c.Terminal.AuthCode, "^!$") {
		return errors.New("terminal.auth_code must not contain ^, ! or $")
	}

	switch c.InstrumentSource.Kind {
	case SourceConfig:
		if len(c.Instruments) == 0 {
			return errors.New("instruments must not be empty")
		}
		if _, err := instrument.NewTranslator(c.Instruments); err != nil {
			return fmt.Errorf("instruments: %w", err)
		}
	case SourceDatabase:
		if !tableName.MatchString(c.InstrumentSource.Table) {
			return fmt.Errorf("instrument_source.table %q is not a valid table name", c.InstrumentSource.Table)
		}
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("instrument_source.kind must be %q or %q, got %q", SourceConfig, SourceDatabase, c.InstrumentSource.Kind)
	}

	if c.History.TickPageSize < 1 {
		return errors.New("history.tick_page_size must be >= 1")
	}
	if c.History.BarPageSize < 1 {
		return errors.New("history.bar_page_size must be >= 1")
	}

	if c.Poller.Enabled {
		if c.Poller.Interval <= 0 {
			return errors.New("poller.interval must be > 0")
		}
		if c.Poller.Timeout <= 0 {
			return errors.New("poller.timeout must be > 0")
		}
		// A deadline that expires mid-command faults the shared connection.
		if c.Poller.Timeout < c.Terminal.Timeout {
			return fmt.Errorf("poller.timeout (%s) must be >= terminal.timeout (%s)", c.Poller.Timeout, c.Terminal.Timeout)
		}
	}

	if c.Stream.Enabled {
		if !strings.HasPrefix(c.Stream.Path, "/") {
			return fmt.Errorf("stream.path must start with /, got %q", c.Stream.Path)
		}
		if c.Stream.SendBuffer < 1 {
			return errors.New("stream.send_buffer must be >= 1")
		}
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
