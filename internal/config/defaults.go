package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultTerminalHost     = "127.0.0.1"
	DefaultTerminalPort     = 1111
	DefaultAuthCode         = "None"
	DefaultTerminalTimeout  = 10 * time.Second
	DefaultReadBuffer       = 64 * 1024
	DefaultInstrumentSource = SourceConfig
	DefaultInstrumentTable  = "instruments"
	DefaultTickPageSize     = 2000
	DefaultBarPageSize      = 2000
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 4
	DefaultMinConns         = 1
	DefaultPollInterval     = 1 * time.Second
	DefaultStreamListen     = "127.0.0.1:15558"
	DefaultStreamPath       = "/"
	DefaultSendBuffer       = 256
	DefaultPingInterval     = 30 * time.Second
	DefaultHealthPort       = 8080
)

func (c *BridgeConfig) applyDefaults() {
	// Terminal defaults
	if c.Terminal.Host == "" {
		c.Terminal.Host = DefaultTerminalHost
	}
	if c.Terminal.Port == 0 {
		c.Terminal.Port = DefaultTerminalPort
	}
	if c.Terminal.AuthCode == "" {
		c.Terminal.AuthCode = DefaultAuthCode
	}
	if c.Terminal.Timeout == 0 {
		c.Terminal.Timeout = DefaultTerminalTimeout
	}
	if c.Terminal.ReadBuffer == 0 {
		c.Terminal.ReadBuffer = DefaultReadBuffer
	}

	// Instrument source defaults
	if c.InstrumentSource.Kind == "" {
		c.InstrumentSource.Kind = DefaultInstrumentSource
	}
	if c.InstrumentSource.Table == "" {
		c.InstrumentSource.Table = DefaultInstrumentTable
	}

	// History defaults
	if c.History.TickPageSize == 0 {
		c.History.TickPageSize = DefaultTickPageSize
	}
	if c.History.BarPageSize == 0 {
		c.History.BarPageSize = DefaultBarPageSize
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Timeout == 0 {
		// Room to queue behind one command and then run its own.
		c.Poller.Timeout = 2 * c.Terminal.Timeout
	}

	// Stream defaults
	if c.Stream.Listen == "" {
		c.Stream.Listen = DefaultStreamListen
	}
	if c.Stream.Path == "" {
		c.Stream.Path = DefaultStreamPath
	}
	if c.Stream.SendBuffer == 0 {
		c.Stream.SendBuffer = DefaultSendBuffer
	}
	if c.Stream.PingInterval == 0 {
		c.Stream.PingInterval = DefaultPingInterval
	}

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
}
