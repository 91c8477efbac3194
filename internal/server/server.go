// Package server hosts remote single-player sessions over WebSocket. Each
// connection gets its own engine; sessions never interact.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/hersh/blockfall/internal/game"
	"github.com/hersh/blockfall/internal/protocol"
)

// Config controls the listener and every session's engine.
type Config struct {
	Addr          string
	FrameInterval time.Duration
	MaxSessions   int
	Game          game.Config
}

type Server struct {
	cfg      Config
	logger   *log.Logger
	hub      *Hub
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
}

func New(cfg Config, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:    cfg,
		logger: logger,
		hub:    newHub(cfg.MaxSessions),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Sessions returns the number of connected sessions.
func (s *Server) Sessions() int {
	return s.hub.Count()
}

// Handler serves /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleConnection)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "ws", "/ws")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "sessions", s.hub.Count())
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close ends every session.
func (s *Server) Close() {
	s.cancel()
	s.hub.closeAll()
}

func (s *Server) handleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "err", err)
		return
	}

	id := s.hub.generateSessionID()
	logger := s.logger.With("session", id)

	g, err := game.New(s.cfg.Game, game.WithLogger(logger))
	if err != nil {
		s.reject(conn, err.Error())
		return
	}

	sess := newSession(id, conn, g, logger)
	if err := s.hub.add(sess); err != nil {
		logger.Warn("rejecting connection", "err", err)
		s.reject(conn, err.Error())
		return
	}
	defer s.hub.remove(id)

	sess.send(protocol.Envelope{
		Type:    protocol.MsgAssignID,
		Payload: protocol.AssignIDPayload{SessionID: id},
	})
	logger.Info("connected", "remote", r.RemoteAddr)

	go sess.writePump()
	go sess.run(s.ctx, s.cfg.FrameInterval)

	sess.readPump()
	sess.close()
	logger.Info("disconnected")
}

// reject tells the client why and closes the connection without a session.
func (s *Server) reject(conn *websocket.Conn, msg string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteJSON(protocol.Envelope{
		Type:    protocol.MsgError,
		Payload: protocol.ErrorPayload{Message: msg},
	})
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseTryAgainLater, msg))
	conn.Close()
}
