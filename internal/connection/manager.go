package connection

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/rickgao/mtbridge/internal/instrument"
	"github.com/rickgao/mtbridge/internal/protocol"
)

// Manager owns the socket to one terminal.
type Manager struct {
	cfg    Config
	logger *slog.Logger

	// One command in flight.
	inflight *semaphore.Weighted

	mu          sync.Mutex
	state       State
	conn        net.Conn
	session     uuid.UUID
	timeout     time.Duration
	instruments *instrument.Translator
	inbound     chan []byte
	readErr     chan error
	done        chan struct{}
}

// NewManager creates a disconnected Manager.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.AuthCode == "" {
		cfg.AuthCode = def.AuthCode
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.ReadBuffer <= 0 {
		cfg.ReadBuffer = def.ReadBuffer
	}

	return &Manager{
		cfg:      cfg,
		logger:   logger,
		inflight: semaphore.NewWeighted(1),
		timeout:  cfg.Timeout,
	}
}

// Addr returns host:port of the terminal.
func (m *Manager) Addr() string {
	return net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
}

// Connect opens the socket and waits for the terminal greeting. The instrument
// map is validated before any network activity.
func (m *Manager) Connect(ctx context.Context) error {
	instruments, err := instrument.NewTranslator(m.cfg.Instruments)
	if err != nil {
		return err
	}
	if m.cfg.Host == "" {
		return fmt.Errorf("%w: empty host", ErrAddressInvalid)
	}
	if m.cfg.Port < 1 || m.cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrAddressInvalid, m.cfg.Port)
	}

	m.mu.Lock()
	if m.state == Connected || m.state == Connecting {
		m.mu.Unlock()
		return ErrAlreadyConnected
	}
	m.state = Connecting
	timeout := m.timeout
	m.mu.Unlock()

	addr := m.Addr()
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		m.setState(Disconnected)
		return fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	inbound := make(chan []byte, 64)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	go m.readLoop(conn, inbound, readErr, done)

	// The terminal greets a new client with unsolicited data.
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var handshakeErr error
	select {
	case <-inbound:
	case err := <-readErr:
		handshakeErr = fmt.Errorf("%w: %w", ErrConnectFailed, err)
	case <-timer.C:
		handshakeErr = fmt.Errorf("%w: %s", ErrHandshakeTimeout, protocol.ErrorText(protocol.CodeHandshake))
	case <-ctx.Done():
		handshakeErr = ctx.Err()
	}
	if handshakeErr != nil {
		close(done)
		conn.Close()
		m.setState(Disconnected)
		return handshakeErr
	}

	m.mu.Lock()
	m.conn = conn
	m.inbound = inbound
	m.readErr = readErr
	m.done = done
	m.instruments = instruments
	m.session = uuid.New()
	m.state = Connected
	session := m.session
	m.mu.Unlock()

	m.logger.Info("terminal connected",
		"addr", addr,
		"session", session,
		"instruments", instruments.Len(),
	)
	return nil
}

// Disconnect tears the socket down. It fails only when no connection was made.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Disconnected {
		return ErrNotConnected
	}
	m.teardownLocked(Disconnected)
	m.instruments = nil

	m.logger.Info("terminal disconnected", "session", m.session)
	return nil
}

// SetTimeout changes the bound used by subsequent commands.
func (m *Manager) SetTimeout(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, d)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return ErrNotConnected
	}
	m.timeout = d
	return nil
}

// Timeout returns the current command timeout.
func (m *Manager) Timeout() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeout
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsConnected reports whether commands can be sent.
func (m *Manager) IsConnected() bool {
	return m.State() == Connected
}

// SessionID identifies the current connection. It changes on every Connect.
func (m *Manager) SessionID() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Instruments returns the translator bound to the current connection.
func (m *Manager) Instruments() (*instrument.Translator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.instruments == nil {
		return nil, ErrNotConnected
	}
	return m.instruments, nil
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// fault closes conn and marks the manager Faulted, unless a newer connection
// has replaced it meanwhile.
func (m *Manager) fault(conn net.Conn, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != conn {
		return
	}
	m.teardownLocked(Faulted)
	m.logger.Warn("terminal connection faulted",
		"session", m.session,
		"err", cause,
	)
}

func (m *Manager) teardownLocked(next State) {
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.inbound = nil
	m.readErr = nil
	m.state = next
}

// readLoop forwards socket data until the socket fails or done is closed.
func (m *Manager) readLoop(conn net.Conn, inbound chan<- []byte, readErr chan<- error, done <-chan struct{}) {
	buf := make([]byte, m.cfg.ReadBuffer)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case inbound <- chunk:
			case <-done:
				return
			}
		}
		if err != nil {
			select {
			case <-done:
			case readErr <- err:
			default:
			}
			return
		}
	}
}
