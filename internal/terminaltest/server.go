// Package terminaltest provides a fake terminal for tests: a TCP listener that
// greets clients and answers framed commands through a handler.
package terminaltest

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Close tells the server to drop the client instead of replying.
const Close = "<close>"

// Handler returns the reply for one received frame. An empty reply leaves the
// client waiting.
type Handler func(frame string) string

// Server is a fake terminal.
type Server struct {
	ln       net.Listener
	greeting string
	handler  Handler

	chunked bool

	accepts atomic.Int32

	mu     sync.Mutex
	frames []string
	conns  []net.Conn
}

// Option configures a Server.
type Option func(*Server)

// WithChunkedReplies splits every reply into two writes.
func WithChunkedReplies() Option {
	return func(s *Server) { s.chunked = true }
}

// NewServer starts a fake terminal on a loopback port. An empty greeting makes
// the server silent on connect. The server stops when the test ends.
func NewServer(t testing.TB, greeting string, handler Handler, opts ...Option) *Server {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &Server{ln: ln, greeting: greeting, handler: handler}
	for _, opt := range opts {
		opt(s)
	}
	go s.acceptLoop()

	t.Cleanup(s.Stop)
	return s
}

// Port returns the listening port.
func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Accepts returns the number of accepted connections.
func (s *Server) Accepts() int {
	return int(s.accepts.Load())
}

// Frames returns every frame received so far.
func (s *Server) Frames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.frames...)
}

// Stop closes the listener and every client connection.
func (s *Server) Stop() {
	s.ln.Close()
	s.mu.Lock()
	for _, c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.accepts.Add(1)
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer conn.Close()

	if s.greeting != "" {
		if _, err := conn.Write([]byte(s.greeting)); err != nil {
			return
		}
	}

	r := bufio.NewReader(conn)
	for {
		frame, err := r.ReadString('!')
		if err != nil {
			return
		}
		s.mu.Lock()
		s.frames = append(s.frames, frame)
		s.mu.Unlock()

		reply := s.handler(frame)
		switch {
		case reply == Close:
			return
		case reply == "":
		case s.chunked:
			mid := len(reply) / 2
			conn.Write([]byte(reply[:mid]))
			time.Sleep(20 * time.Millisecond)
			conn.Write([]byte(reply[mid:]))
		default:
			conn.Write([]byte(reply))
		}
	}
}

// Opcode returns the opcode of a frame.
func Opcode(frame string) string {
	op, _, _ := strings.Cut(frame, "^")
	return op
}

// Args returns the arguments of a frame, auth code excluded.
func Args(frame string) []string {
	fields := strings.Split(strings.TrimSuffix(frame, "^!"), "^")
	if len(fields) < 3 {
		return nil
	}
	return fields[2 : len(fields)-1]
}

// EchoOK answers every command with <opcode>^OK^!.
func EchoOK(frame string) string {
	return Opcode(frame) + "^OK^!"
}
