package posefeed

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/tochemey/goakt/v3/actor"
	"go.uber.org/zap"
)

const (
	// PosesPath is where estimators connect. Every text message is one frame.
	PosesPath  = "/poses"
	HealthPath = "/healthz"

	maxMessageSize = 1 << 20
)

// Server accepts pose frames over websocket and forwards them to the pose actor.
type Server struct {
	pid      *actor.PID
	logger   *zap.Logger
	router   *mux.Router
	upgrader websocket.Upgrader
	clients  atomic.Int64

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool // Set once Serve has shut down, later upgrades are refused
}

// NewServer builds the HTTP routes of the pose feed.
func NewServer(pid *actor.PID, logger *zap.Logger) *Server {
	s := &Server{
		pid:    pid,
		logger: logger.Named("posefeed"),
		router: mux.NewRouter(),
		conns:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			// Estimators usually run in a page served from another origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.router.HandleFunc(PosesPath, s.handlePoses).Methods(http.MethodGet)
	s.router.HandleFunc(HealthPath, s.handleHealth).Methods(http.MethodGet)
	return s
}

// Handler returns the router, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Clients returns the number of connected estimators.
func (s *Server) Clients() int64 {
	return s.clients.Load()
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("pose feed server failed: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully and closes the estimator connections still open.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("pose feed listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.closeConns()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("pose feed server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// Shutdown leaves hijacked connections alone.
		s.closeConns()
		if err != nil {
			return fmt.Errorf("pose feed shutdown failed: %w", err)
		}
		return nil
	}
}

func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for conn := range s.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		delete(s.conns, conn)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","clients":%d}`, s.Clients())
}

func (s *Server) handlePoses(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	if !s.track(conn) {
		return
	}
	defer s.untrack(conn)
	conn.SetReadLimit(maxMessageSize)

	log := s.logger.With(
		zap.String("conn", uuid.NewString()),
		zap.String("remote", conn.RemoteAddr().String()),
	)
	s.clients.Add(1)
	defer s.clients.Add(-1)
	log.Info("estimator connected")

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("estimator connection lost", zap.Error(err))
			} else {
				log.Info("estimator disconnected")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if err := Submit(r.Context(), s.pid, data); err != nil {
			log.Debug("ignoring pose message", zap.Error(err))
		}
	}
}
