package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rickgao/mtbridge/internal/instrument"
	"github.com/rickgao/mtbridge/internal/model"
)

// ErrBacklog is returned by HandleTick when the hub cannot accept more quotes.
var ErrBacklog = errors.New("stream backlog full")

// Config holds hub settings.
type Config struct {
	SendBuffer   int           // queued messages per client (default: 256)
	PingInterval time.Duration // ping period; clients must pong within 10/9 of it (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SendBuffer:   256,
		PingInterval: 30 * time.Second,
	}
}

type clientCommand struct {
	client *client
	cmd    Command
}

// Hub fans quotes out to WebSocket clients.
type Hub struct {
	cfg     Config
	logger  *slog.Logger
	session func() uuid.UUID

	upgrader websocket.Upgrader

	register   chan *client
	unregister chan *client
	commands   chan clientCommand
	broadcast  chan model.Tick
	done       chan struct{}

	// Owned by the Run loop.
	clients map[*client]struct{}

	count atomic.Int32
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithSession sets the source of the session id stamped on quotes.
func WithSession(fn func() uuid.UUID) HubOption {
	return func(h *Hub) {
		if fn != nil {
			h.session = fn
		}
	}
}

// NewHub creates a hub. Run must be called before clients connect.
func NewHub(cfg Config, logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.SendBuffer < 1 {
		cfg.SendBuffer = def.SendBuffer
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}

	h := &Hub{
		cfg:     cfg,
		logger:  logger,
		session: func() uuid.UUID { return uuid.Nil },
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		commands:   make(chan clientCommand),
		broadcast:  make(chan model.Tick, 1024),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// HandleTick queues a tick for broadcast without blocking.
func (h *Hub) HandleTick(t model.Tick) error {
	select {
	case h.broadcast <- t:
		return nil
	default:
		return ErrBacklog
	}
}

// ServeHTTP upgrades the request to a WebSocket stream client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("stream upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.cfg.SendBuffer),
		all:  true,
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// Run is the hub loop. It returns when ctx is done, after disconnecting every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return nil

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Add(1)
			h.logger.Info("stream client connected", "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.logger.Info("stream client disconnected", "clients", len(h.clients))
			}

		case cc := <-h.commands:
			if _, ok := h.clients[cc.client]; ok {
				h.apply(cc.client, cc.cmd)
			}

		case t := <-h.broadcast:
			h.publish(t)
		}
	}
}

func (h *Hub) publish(t model.Tick) {
	if len(h.clients) == 0 {
		return
	}
	message, err := json.Marshal(NewQuote(t, h.session()))
	if err != nil {
		h.logger.Error("marshal quote", "instrument", t.Instrument, "err", err)
		return
	}

	name := instrument.Normalize(t.Instrument)
	for c := range h.clients {
		if !c.wants(name) {
			continue
		}
		select {
		case c.send <- message:
		default:
			// Client too slow, disconnect to prevent Hub blocking
			h.logger.Warn("dropping slow stream client", "instrument", t.Instrument)
			h.drop(c)
		}
	}
}

// apply updates the client's subscriptions and acknowledges. Subscribe with no
// instruments restores the full stream; unsubscribe with none stops it.
func (h *Hub) apply(c *client, cmd Command) {
	var reply Reply
	switch cmd.Action {
	case ActionSubscribe:
		if len(cmd.Instruments) == 0 {
			c.all = true
			c.instruments = nil
		} else {
			if c.all || c.instruments == nil {
				c.all = false
				c.instruments = make(map[string]struct{})
			}
			for _, name := range cmd.Instruments {
				c.instruments[instrument.Normalize(name)] = struct{}{}
			}
		}
		reply.Type = TypeSubscribed
	case ActionUnsubscribe:
		if len(cmd.Instruments) == 0 || c.all {
			c.all = false
			c.instruments = make(map[string]struct{})
		}
		for _, name := range cmd.Instruments {
			delete(c.instruments, instrument.Normalize(name))
		}
		reply.Type = TypeUnsubscribed
	default:
		reply.Type = TypeError
		reply.Error = "unknown action " + cmd.Action
	}
	reply.All = c.all
	reply.Instruments = subscriptions(c)

	message, err := json.Marshal(reply)
	if err != nil {
		return
	}
	select {
	case c.send <- message:
	default:
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
}

func (h *Hub) pongWait() time.Duration {
	return h.cfg.PingInterval * 10 / 9
}

func subscriptions(c *client) []string {
	out := make([]string, 0, len(c.instruments))
	for name := range c.instruments {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
