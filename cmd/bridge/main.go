package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/mtbridge/internal/config"
	"github.com/rickgao/mtbridge/internal/connection"
	"github.com/rickgao/mtbridge/internal/database"
	"github.com/rickgao/mtbridge/internal/model"
	"github.com/rickgao/mtbridge/internal/poller"
	"github.com/rickgao/mtbridge/internal/stream"
	"github.com/rickgao/mtbridge/internal/terminal"
	"github.com/rickgao/mtbridge/internal/version"
)

// reconnectInterval is how often a faulted terminal connection is retried.
const reconnectInterval = 5 * time.Second

func main() {
	configPath := flag.String("config", "configs/bridge.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := newLogger()
	slog.SetDefault(logger)

	logger.Info("starting bridge",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	instruments, err := loadInstruments(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load instrument map", "error", err)
		os.Exit(1)
	}

	// Connect to the terminal
	connCfg := connection.Config{
		Host:        cfg.Terminal.Host,
		Port:        cfg.Terminal.Port,
		AuthCode:    cfg.Terminal.AuthCode,
		Timeout:     cfg.Terminal.Timeout,
		Instruments: instruments,
		ReadBuffer:  cfg.Terminal.ReadBuffer,
	}
	mgr := connection.NewManager(connCfg, logger)

	logger.Info("connecting to terminal", "addr", mgr.Addr())
	if err := mgr.Connect(ctx); err != nil {
		logger.Error("failed to connect to terminal", "error", err)
		os.Exit(1)
	}
	defer mgr.Disconnect()

	client := terminal.NewClient(mgr,
		terminal.WithLogger(logger),
		terminal.WithTickPageSize(cfg.History.TickPageSize),
		terminal.WithBarPageSize(cfg.History.BarPageSize),
	)

	if kind, err := client.TerminalType(ctx); err != nil {
		logger.Warn("failed to query terminal type", "error", err)
	} else {
		logger.Info("terminal ready", "type", kind, "session", mgr.SessionID())
	}

	g, gctx := errgroup.WithContext(ctx)

	// Quote stream
	var hub *stream.Hub
	var streamServer *http.Server
	if cfg.Stream.Enabled {
		hub = stream.NewHub(stream.Config{
			SendBuffer:   cfg.Stream.SendBuffer,
			PingInterval: cfg.Stream.PingInterval,
		}, logger, stream.WithSession(mgr.SessionID))

		mux := http.NewServeMux()
		mux.Handle(cfg.Stream.Path, hub)
		streamServer = &http.Server{Addr: cfg.Stream.Listen, Handler: mux}

		g.Go(func() error { return hub.Run(gctx) })
		g.Go(func() error {
			logger.Info("starting stream server", "listen", cfg.Stream.Listen, "path", cfg.Stream.Path)
			if err := streamServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("stream server: %w", err)
			}
			return nil
		})
	}

	// Quote poller
	var quotePoller *poller.Poller
	if cfg.Poller.Enabled {
		var source poller.InstrumentSource = poller.StaticInstruments(cfg.Poller.Instruments)
		if len(cfg.Poller.Instruments) == 0 {
			tr, err := mgr.Instruments()
			if err != nil {
				logger.Error("failed to read instrument map", "error", err)
				os.Exit(1)
			}
			source = poller.StaticInstruments(tr.Universal())
		}

		var handler poller.TickHandler = poller.TickHandlerFunc(func(t model.Tick) error {
			logger.Debug("quote", "instrument", t.Instrument, "bid", t.Bid, "ask", t.Ask)
			return nil
		})
		if hub != nil {
			handler = hub
		}

		quotePoller = poller.New(poller.Config{
			Interval: cfg.Poller.Interval,
			Timeout:  cfg.Poller.Timeout,
		}, client, source, handler, logger)
		if err := quotePoller.Start(gctx); err != nil {
			logger.Error("failed to start poller", "error", err)
			os.Exit(1)
		}
	}

	// Reconnect after faults
	g.Go(func() error {
		superviseConnection(gctx, mgr, logger)
		return nil
	})

	// Health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(client, mgr, hub, quotePoller, 2*cfg.Terminal.Timeout),
	}
	g.Go(func() error {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})

	// Shut servers down once the group is cancelled
	g.Go(func() error {
		<-gctx.Done()

		logger.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if quotePoller != nil {
			quotePoller.Stop(shutdownCtx)
		}
		if streamServer != nil {
			streamServer.Shutdown(shutdownCtx)
		}
		healthServer.Shutdown(shutdownCtx)
		return nil
	})

	logger.Info("bridge running",
		"terminal", mgr.Addr(),
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	if err := g.Wait(); err != nil {
		logger.Error("bridge stopped with error", "error", err)
		mgr.Disconnect()
		os.Exit(1)
	}

	logger.Info("bridge stopped")
}

// loadInstruments returns the universal→broker map from the configured source.
func loadInstruments(ctx context.Context, cfg *config.BridgeConfig, logger *slog.Logger) (map[string]string, error) {
	if cfg.InstrumentSource.Kind != config.SourceDatabase {
		return cfg.Instruments, nil
	}

	logger.Info("loading instrument map from database",
		"host", cfg.Database.Host,
		"database", cfg.Database.Name,
		"table", cfg.InstrumentSource.Table,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	m, err := database.LoadInstrumentMap(ctx, pool, cfg.InstrumentSource.Table)
	if err != nil {
		return nil, err
	}
	logger.Info("instrument map loaded", "instruments", len(m))
	return m, nil
}

// superviseConnection reconnects the terminal after a fault or a failed reconnect.
func superviseConnection(ctx context.Context, mgr *connection.Manager, logger *slog.Logger) {
	ticker := time.NewTicker(reconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		state := mgr.State()
		if state == connection.Connected || state == connection.Connecting {
			continue
		}
		logger.Warn("terminal connection lost, reconnecting", "addr", mgr.Addr(), "state", state)
		if err := mgr.Connect(ctx); err != nil {
			logger.Warn("reconnect failed", "error", err)
			continue
		}
		logger.Info("terminal reconnected", "session", mgr.SessionID())
	}
}
