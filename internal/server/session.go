package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/hersh/blockfall/internal/game"
	"github.com/hersh/blockfall/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Session is one connection playing one independent game. The game is
// touched only by the run goroutine; the read pump reaches it through
// channels.
type Session struct {
	id     string
	conn   *websocket.Conn
	game   *game.Game
	logger *log.Logger

	sendCh  chan []byte
	intents chan game.Intent
	resets  chan struct{}
	done    chan struct{}

	closeOnce sync.Once
}

func newSession(id string, conn *websocket.Conn, g *game.Game, logger *log.Logger) *Session {
	return &Session{
		id:      id,
		conn:    conn,
		game:    g,
		logger:  logger,
		sendCh:  make(chan []byte, 256),
		intents: make(chan game.Intent, 64),
		resets:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// send marshals an envelope and queues it.
func (s *Session) send(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		s.logger.Error("marshal failed", "type", env.Type, "err", err)
		return
	}
	select {
	case s.sendCh <- data:
	default:
		s.logger.Warn("send channel full, dropping message", "type", env.Type)
	}
}

func (s *Session) sendError(msg string) {
	s.send(protocol.Envelope{
		Type:    protocol.MsgError,
		Payload: protocol.ErrorPayload{Message: msg},
	})
}

// close ends the session once; the pumps notice and exit.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// run owns the game: it applies forwarded intents on the next frame, steps
// the engine every interval, and pushes a snapshot whenever it changed.
func (s *Session) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	sent := s.game.Revision()
	s.send(protocol.Envelope{
		Type:    protocol.MsgSnapshot,
		Payload: protocol.SnapshotPayload{Snapshot: s.game.Snapshot()},
	})
	reported := false

	for {
		select {
		case <-ctx.Done():
			s.close()
			return
		case <-s.done:
			return
		case in := <-s.intents:
			s.game.Enqueue(in)
		case <-s.resets:
			s.game.Reset()
			reported = false
			s.logger.Info("new game")
		case now := <-ticker.C:
			snap := s.game.Frame(now.Sub(last))
			last = now
			if rev := s.game.Revision(); rev != sent {
				sent = rev
				s.send(protocol.Envelope{
					Type:    protocol.MsgSnapshot,
					Payload: protocol.SnapshotPayload{Snapshot: snap},
				})
			}
			if snap.GameOver && !reported {
				reported = true
				s.send(protocol.Envelope{
					Type:    protocol.MsgGameOver,
					Payload: protocol.GameOverPayload{Score: snap.Score, Lines: snap.Lines},
				})
			}
		}
	}
}

// writePump sends queued messages and keepalive pings to the WebSocket.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.sendCh:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// readPump reads client messages until the connection drops.
func (s *Session) readPump() {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("read failed", "err", err)
			}
			return
		}

		env, err := protocol.Decode(message)
		if err != nil {
			s.sendError(err.Error())
			continue
		}
		s.handleMessage(env)
	}
}

// handleMessage dispatches a client message.
func (s *Session) handleMessage(env protocol.RawEnvelope) {
	switch env.Type {
	case protocol.MsgIntent:
		var payload protocol.IntentPayload
		if err := env.Into(&payload); err != nil {
			s.sendError(err.Error())
			return
		}
		select {
		case s.intents <- payload.Intent:
		case <-s.done:
		}

	case protocol.MsgNewGame:
		select {
		case s.resets <- struct{}{}:
		default:
			// a reset is already pending
		}

	default:
		s.logger.Debug("unknown message type", "type", env.Type)
		s.sendError("unknown message type " + string(env.Type))
	}
}
