// Package server implements the line-based TCP front end: one dedicated
// acceptor goroutine hands every connection to a worker-pool job that reads
// a single request line, dispatches it against the engine, and writes back
// one framed response line.
package server

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/iamNilotpal/kvs/internal/enginehandle"
	"github.com/iamNilotpal/kvs/internal/pool"
	"go.uber.org/zap"
)

const noneSentinel = "NONE"

// Server accepts connections on a single TCP address and dispatches
// requests into a worker pool backed by an enginehandle.Engine.
type Server struct {
	addr   string
	engine enginehandle.Engine
	pool   *pool.Pool
	log    *zap.SugaredLogger

	mu       sync.Mutex
	listener net.Listener
	quit     chan struct{}
	wg       sync.WaitGroup
}

// New builds a Server. Start must be called to begin accepting
// connections.
func New(addr string, eng enginehandle.Engine, workers int, log *zap.SugaredLogger) *Server {
	return &Server{
		addr:   addr,
		engine: eng,
		pool:   pool.New(workers, log),
		log:    log,
		quit:   make(chan struct{}),
	}
}

// Start binds the listen address and spawns the acceptor goroutine. It
// returns once the listener is bound, before any connections are accepted.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: failed to listen on %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop()

	s.log.Infow("server listening", "addr", s.addr)
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
				s.log.Errorw("accept failed", "error", err)
				return
			}
		}

		connLog := s.log.With("connID", uuid.NewString())
		s.pool.Spawn(func() {
			s.handleConnection(conn, connLog)
		})

		select {
		case <-s.quit:
			return
		default:
		}
	}
}

// handleConnection reads exactly one request line, dispatches it, and
// writes exactly one response line before closing the connection. EXIT is
// the one command that never writes a reply: it signals the server to
// shut down instead.
func (s *Server) handleConnection(conn net.Conn, log *zap.SugaredLogger) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		log.Debugw("connection closed before sending a request", "error", err)
		return
	}
	line = strings.TrimRight(line, "\r\n")

	tag, body := s.dispatch(line, log)
	if tag == "" {
		return
	}

	response := tag + ":" + base64.StdEncoding.EncodeToString([]byte(body)) + "\n"
	if _, err := conn.Write([]byte(response)); err != nil {
		log.Errorw("failed to write response", "error", err)
	}
}

func (s *Server) dispatch(line string, log *zap.SugaredLogger) (tag, body string) {
	parts := strings.SplitN(line, ":", 3)
	switch parts[0] {
	case "GET":
		if len(parts) < 2 {
			return "ERR", "Command not recognized"
		}
		value, ok, err := s.engine.Get(parts[1])
		if err != nil {
			log.Errorw("get failed", "key", parts[1], "error", err)
			return "ERR", "Error getting value"
		}
		if !ok {
			return "OK", noneSentinel
		}
		return "OK", value

	case "SET":
		if len(parts) < 3 {
			return "ERR", "Command not recognized"
		}
		if err := s.engine.Set(parts[1], parts[2]); err != nil {
			log.Errorw("set failed", "key", parts[1], "error", err)
			return "ERR", "Error setting key"
		}
		return "OK", ""

	case "REMOVE":
		if len(parts) < 2 {
			return "ERR", "Command not recognized"
		}
		if err := s.engine.Remove(parts[1]); err != nil {
			log.Warnw("remove failed", "key", parts[1], "error", err)
			return "ERR", "Key not found"
		}
		return "OK", ""

	case "EXIT":
		log.Infow("received EXIT, shutting down")
		s.Stop()
		return "", ""

	default:
		return "ERR", "Command not recognized"
	}
}

// Stop signals the acceptor to exit and closes the listener, unblocking
// any in-flight Accept call.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.quit:
		return
	default:
		close(s.quit)
	}
	if s.listener != nil {
		s.listener.Close()
	}
}

// Wait blocks until the acceptor goroutine has exited and every worker has
// drained its queue.
func (s *Server) Wait() {
	s.wg.Wait()
	s.pool.Stop()
}
