package config

import "time"

// BridgeConfig is the root configuration for a bridge instance.
type BridgeConfig struct {
	Terminal         TerminalConfig         `yaml:"terminal"`
	Instruments      map[string]string      `yaml:"instruments"`
	InstrumentSource InstrumentSourceConfig `yaml:"instrument_source"`
	History          HistoryConfig          `yaml:"history"`
	Database         DBConfig               `yaml:"database"`
	Poller           PollerConfig           `yaml:"poller"`
	Stream           StreamConfig           `yaml:"stream"`
	Health           HealthConfig           `yaml:"health"`
}

// TerminalConfig holds the terminal socket settings.
type TerminalConfig struct {
	Host       string        `yaml:"host"`
	Port       int           `yaml:"port"`
	AuthCode   string        `yaml:"auth_code"`
	Timeout    time.Duration `yaml:"timeout"`
	ReadBuffer int           `yaml:"read_buffer"`
}

// Instrument map sources.
const (
	SourceConfig   = "config"
	SourceDatabase = "database"
)

// InstrumentSourceConfig selects where the universal→broker instrument map comes from.
// With kind "config" the inline instruments section is used.
type InstrumentSourceConfig struct {
	Kind  string `yaml:"kind"`
	Table string `yaml:"table"`
}

// HistoryConfig holds page sizes for bulk history requests.
type HistoryConfig struct {
	TickPageSize int `yaml:"tick_page_size"`
	BarPageSize  int `yaml:"bar_page_size"`
}

// DBConfig holds a single database connection. Only read when the instrument map
// comes from the database.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PollerConfig holds quote poller settings. An empty instrument list polls every
// mapped instrument.
type PollerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"interval"`
	Timeout     time.Duration `yaml:"timeout"`
	Instruments []string      `yaml:"instruments"`
}

// StreamConfig holds the quote stream WebSocket server settings.
type StreamConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Listen       string        `yaml:"listen"`
	Path         string        `yaml:"path"`
	SendBuffer   int           `yaml:"send_buffer"`
	PingInterval time.Duration `yaml:"ping_interval"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}
