// Package broadcast serves read-only table state to websocket spectators.
// The server is a display adapter like any other: it observes engine
// events and pushes a fresh snapshot to every connected client.
package broadcast

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/tablestakes/internal/game"
)

// SnapshotFunc produces the table state sent to spectators. The caller
// decides the visibility (masked or revealed hole cards).
type SnapshotFunc func() game.TableState

// Frame is the JSON message pushed to spectators on every event.
type Frame struct {
	Type  game.EventType  `json:"type"`
	At    time.Time       `json:"at"`
	State game.TableState `json:"state"`
}

// Server is a websocket fan-out hub for spectators.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	snapshot SnapshotFunc
	logger   *log.Logger

	mu    sync.RWMutex
	conns map[*websocket.Conn]bool

	httpServer *http.Server
}

// NewServer creates a spectator server listening on addr.
func NewServer(addr string, snapshot SnapshotFunc, logger *log.Logger) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		snapshot: snapshot,
		logger:   logger.WithPrefix("broadcast"),
		conns:    make(map[*websocket.Conn]bool),
	}
}

// Run serves spectators until the context is cancelled, then shuts the
// listener down and closes every connection.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("spectator server listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)

		s.mu.Lock()
		for conn := range s.conns {
			_ = conn.Close()
		}
		s.conns = make(map[*websocket.Conn]bool)
		s.mu.Unlock()
		return nil
	})
	return g.Wait()
}

// OnEvent implements game.Observer by pushing a fresh snapshot to every
// spectator. Clients that fail a write are dropped.
func (s *Server) OnEvent(event game.Event) {
	frame := Frame{
		Type:  event.EventType(),
		At:    event.Timestamp(),
		State: s.snapshot(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteJSON(frame); err != nil {
			s.logger.Debug("dropping spectator", "err", err)
			_ = conn.Close()
			delete(s.conns, conn)
		}
	}
}

// ClientCount returns the number of connected spectators.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	// Send current state immediately so a late joiner isn't blank until
	// the next event.
	initial := Frame{Type: "state", At: time.Now(), State: s.snapshot()}
	if err := conn.WriteJSON(initial); err != nil {
		_ = conn.Close()
		return
	}

	s.mu.Lock()
	s.conns[conn] = true
	total := len(s.conns)
	s.mu.Unlock()
	s.logger.Info("spectator connected", "total", total)

	// Spectators are write-only; the read loop just detects disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		s.mu.Lock()
		if s.conns[conn] {
			delete(s.conns, conn)
			_ = conn.Close()
		}
		total := len(s.conns)
		s.mu.Unlock()
		s.logger.Info("spectator disconnected", "total", total)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
