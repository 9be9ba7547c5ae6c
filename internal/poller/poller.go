package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/mtbridge/internal/model"
)

// TickSource fetches the latest tick of an instrument. *terminal.Client
// implements it.
type TickSource interface {
	LastTick(ctx context.Context, instrument string) (*model.Tick, error)
}

// InstrumentSource provides the universal instrument names to poll.
type InstrumentSource interface {
	Instruments() []string
}

// StaticInstruments is a fixed instrument list.
type StaticInstruments []string

func (s StaticInstruments) Instruments() []string { return s }

// TickHandler receives fetched ticks.
type TickHandler interface {
	HandleTick(tick model.Tick) error
}

// TickHandlerFunc is a function adapter for TickHandler.
type TickHandlerFunc func(model.Tick) error

func (f TickHandlerFunc) HandleTick(t model.Tick) error {
	return f(t)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Poll interval (default: 1s)
	Timeout  time.Duration // Per-request timeout (default: 5s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: time.Second,
		Timeout:  5 * time.Second,
	}
}

// Stats counts poller activity since start.
type Stats struct {
	Cycles    int64
	Forwarded int64
	Errors    int64
}

// Poller periodically fetches last ticks through the terminal client.
type Poller struct {
	cfg         Config
	source      TickSource
	instruments InstrumentSource
	handler     TickHandler
	logger      *slog.Logger

	// last DateMs forwarded per instrument; touched only by the poll loop
	last map[string]int64

	cycles    atomic.Int64
	forwarded atomic.Int64
	errors    atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, source TickSource, instruments InstrumentSource, handler TickHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Poller{
		cfg:         cfg,
		source:      source,
		instruments: instruments,
		handler:     handler,
		logger:      logger,
		last:        make(map[string]int64),
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("quote poller started",
		"interval", p.cfg.Interval,
		"instruments", len(p.instruments.Instruments()),
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("quote poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns activity counters.
func (p *Poller) Stats() Stats {
	return Stats{
		Cycles:    p.cycles.Load(),
		Forwarded: p.forwarded.Load(),
		Errors:    p.errors.Load(),
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches the last tick of every instrument in turn.
func (p *Poller) pollAll() {
	start := time.Now()

	instruments := p.instruments.Instruments()
	if len(instruments) == 0 {
		p.logger.Debug("no instruments to poll")
		return
	}

	var forwarded, failed int
	for _, name := range instruments {
		if p.ctx.Err() != nil {
			return
		}

		sent, err := p.pollInstrument(name)
		if err != nil {
			p.logger.Warn("failed to poll instrument",
				"instrument", name,
				"err", err,
			)
			failed++
			continue
		}
		if sent {
			forwarded++
		}
	}

	p.cycles.Add(1)
	p.forwarded.Add(int64(forwarded))
	p.errors.Add(int64(failed))

	p.logger.Debug("poll cycle complete",
		"instruments", len(instruments),
		"forwarded", forwarded,
		"errors", failed,
		"duration", time.Since(start),
	)
}

// pollInstrument fetches one tick and forwards it when it is new.
func (p *Poller) pollInstrument(name string) (bool, error) {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	tick, err := p.source.LastTick(ctx, name)
	if err != nil {
		return false, err
	}

	stamp := tick.DateMs
	if stamp == 0 {
		stamp = tick.Date * 1000
	}
	if prev, ok := p.last[name]; ok && stamp <= prev {
		return false, nil
	}

	if p.handler != nil {
		if err := p.handler.HandleTick(*tick); err != nil {
			return false, err
		}
	}
	p.last[name] = stamp

	return true, nil
}
