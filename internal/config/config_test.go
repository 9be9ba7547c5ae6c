package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
terminal:
  host: 10.0.0.5
  port: 1112
  auth_code: secret
  timeout: 3s
instruments:
  EURUSD: EURUSD.pro
  XAUUSD: GOLD
poller:
  enabled: true
  interval: 500ms
  instruments: [EURUSD]
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Terminal.Host != "10.0.0.5" {
		t.Errorf("Terminal.Host = %q, want %q", cfg.Terminal.Host, "10.0.0.5")
	}
	if cfg.Terminal.Port != 1112 {
		t.Errorf("Terminal.Port = %d, want %d", cfg.Terminal.Port, 1112)
	}
	if cfg.Terminal.Timeout != 3*time.Second {
		t.Errorf("Terminal.Timeout = %v, want %v", cfg.Terminal.Timeout, 3*time.Second)
	}
	if cfg.Instruments["XAUUSD"] != "GOLD" {
		t.Errorf("Instruments[XAUUSD] = %q, want %q", cfg.Instruments["XAUUSD"], "GOLD")
	}
	if !cfg.Poller.Enabled || cfg.Poller.Interval != 500*time.Millisecond {
		t.Errorf("Poller = %+v", cfg.Poller)
	}
	if len(cfg.Poller.Instruments) != 1 || cfg.Poller.Instruments[0] != "EURUSD" {
		t.Errorf("Poller.Instruments = %v, want [EURUSD]", cfg.Poller.Instruments)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_AUTH_CODE", "secret123")
	t.Setenv("TEST_DB_PASSWORD", "dbpass")

	yaml := `
terminal:
  auth_code: ${TEST_AUTH_CODE}
instrument_source:
  kind: database
database:
  host: localhost
  name: bridge
  user: bridge
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Terminal.AuthCode != "secret123" {
		t.Errorf("Terminal.AuthCode = %q, want %q", cfg.Terminal.AuthCode, "secret123")
	}
	if cfg.Database.Password != "dbpass" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "dbpass")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instruments:
  EURUSD: EURUSD
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.Terminal.Host != DefaultTerminalHost {
		t.Errorf("Terminal.Host = %q, want default %q", cfg.Terminal.Host, DefaultTerminalHost)
	}
	if cfg.Terminal.Port != DefaultTerminalPort {
		t.Errorf("Terminal.Port = %d, want default %d", cfg.Terminal.Port, DefaultTerminalPort)
	}
	if cfg.Terminal.AuthCode != DefaultAuthCode {
		t.Errorf("Terminal.AuthCode = %q, want default %q", cfg.Terminal.AuthCode, DefaultAuthCode)
	}
	if cfg.Terminal.Timeout != DefaultTerminalTimeout {
		t.Errorf("Terminal.Timeout = %v, want default %v", cfg.Terminal.Timeout, DefaultTerminalTimeout)
	}
	if cfg.InstrumentSource.Kind != SourceConfig {
		t.Errorf("InstrumentSource.Kind = %q, want default %q", cfg.InstrumentSource.Kind, SourceConfig)
	}
	if cfg.History.TickPageSize != DefaultTickPageSize {
		t.Errorf("History.TickPageSize = %d, want default %d", cfg.History.TickPageSize, DefaultTickPageSize)
	}
	if cfg.Stream.Listen != DefaultStreamListen || cfg.Stream.Path != DefaultStreamPath {
		t.Errorf("Stream = %+v, want default listen %q path %q", cfg.Stream, DefaultStreamListen, DefaultStreamPath)
	}
	if cfg.Health.Port != DefaultHealthPort {
		t.Errorf("Health.Port = %d, want default %d", cfg.Health.Port, DefaultHealthPort)
	}
	if cfg.Poller.Timeout != 2*DefaultTerminalTimeout {
		t.Errorf("Poller.Timeout = %v, want %v", cfg.Poller.Timeout, 2*DefaultTerminalTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with defaults: %v", err)
	}
}

func TestLoadWithDefaults_PollTimeoutFollowsTerminal(t *testing.T) {
	yaml := `
terminal:
  timeout: 30s
instruments:
  EURUSD: EURUSD
poller:
  enabled: true
`
	cfg, err := LoadAndValidate(writeTempFile(t, yaml))
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Poller.Timeout != time.Minute {
		t.Errorf("Poller.Timeout = %v, want %v", cfg.Poller.Timeout, time.Minute)
	}
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTempFile(t, "terminal:\n  port: 1111\n")

	_, err := LoadAndValidate(path)
	if err == nil || !strings.Contains(err.Error(), "instruments must not be empty") {
		t.Fatalf("LoadAndValidate() error = %v, want empty instruments error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() BridgeConfig {
		return BridgeConfig{
			Terminal:         TerminalConfig{Host: "127.0.0.1", Port: 1111, AuthCode: "None", Timeout: time.Second},
			Instruments:      map[string]string{"EURUSD": "EURUSD"},
			InstrumentSource: InstrumentSourceConfig{Kind: SourceConfig, Table: "instruments"},
			History:          HistoryConfig{TickPageSize: 2000, BarPageSize: 2000},
			Health:           HealthConfig{Port: 8080},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *BridgeConfig)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *BridgeConfig) {},
			wantErr: "",
		},
		{
			name:    "missing terminal host",
			mutate:  func(c *BridgeConfig) { c.Terminal.Host = "" },
			wantErr: "terminal.host is required",
		},
		{
			name:    "terminal port out of range",
			mutate:  func(c *BridgeConfig) { c.Terminal.Port = 70000 },
			wantErr: "terminal.port must be between 1 and 65535, got 70000",
		},
		{
			name:    "auth code with delimiter",
			mutate:  func(c *BridgeConfig) { c.Terminal.AuthCode = "a^b" },
			wantErr: "terminal.auth_code must not contain ^, ! or $",
		},
		{
			name:    "empty instruments",
			mutate:  func(c *BridgeConfig) { c.Instruments = nil },
			wantErr: "instruments must not be empty",
		},
		{
			name: "instruments differing only in case",
			mutate: func(c *BridgeConfig) {
				c.Instruments = map[string]string{"EURUSD": "EURUSD.a", "eurusd": "EURUSD.b"}
			},
			wantErr: "instruments: instrument mapped twice: EURUSD",
		},
		{
			name:    "unknown source",
			mutate:  func(c *BridgeConfig) { c.InstrumentSource.Kind = "file" },
			wantErr: `instrument_source.kind must be "config" or "database", got "file"`,
		},
		{
			name: "database source without password",
			mutate: func(c *BridgeConfig) {
				c.InstrumentSource.Kind = SourceDatabase
				c.Database = DBConfig{Host: "localhost", Name: "db", User: "user", MaxConns: 4}
			},
			wantErr: "database.password is required",
		},
		{
			name: "database source bad table",
			mutate: func(c *BridgeConfig) {
				c.InstrumentSource.Kind = SourceDatabase
				c.InstrumentSource.Table = "instruments; drop"
			},
			wantErr: `instrument_source.table "instruments; drop" is not a valid table name`,
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *BridgeConfig) {
				c.InstrumentSource.Kind = SourceDatabase
				c.Database = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 2, MinConns: 5}
			},
			wantErr: "database.min_conns (5) cannot exceed max_conns (2)",
		},
		{
			name: "database source valid without inline map",
			mutate: func(c *BridgeConfig) {
				c.Instruments = nil
				c.InstrumentSource.Kind = SourceDatabase
				c.InstrumentSource.Table = "public.instruments"
				c.Database = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 4, MinConns: 1}
			},
			wantErr: "",
		},
		{
			name:    "zero tick page size",
			mutate:  func(c *BridgeConfig) { c.History.TickPageSize = 0 },
			wantErr: "history.tick_page_size must be >= 1",
		},
		{
			name: "enabled poller without interval",
			mutate: func(c *BridgeConfig) {
				c.Poller = PollerConfig{Enabled: true, Timeout: time.Second}
			},
			wantErr: "poller.interval must be > 0",
		},
		{
			name: "poller timeout shorter than terminal timeout",
			mutate: func(c *BridgeConfig) {
				c.Terminal.Timeout = 10 * time.Second
				c.Poller = PollerConfig{Enabled: true, Interval: time.Second, Timeout: 5 * time.Second}
			},
			wantErr: "poller.timeout (5s) must be >= terminal.timeout (10s)",
		},
		{
			name: "poller timeout equal to terminal timeout",
			mutate: func(c *BridgeConfig) {
				c.Poller = PollerConfig{Enabled: true, Interval: time.Second, Timeout: time.Second}
			},
			wantErr: "",
		},
		{
			name: "stream path without slash",
			mutate: func(c *BridgeConfig) {
				c.Stream = StreamConfig{Enabled: true, Listen: "127.0.0.1:0", Path: "quotes", SendBuffer: 8}
			},
			wantErr: `stream.path must start with /, got "quotes"`,
		},
		{
			name:    "health port",
			mutate:  func(c *BridgeConfig) { c.Health.Port = 0 },
			wantErr: "health.port must be between 1 and 65535, got 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
