// Package netclient connects to a blockfall server and mirrors the remote
// session's latest state.
package netclient

import (
	"encoding/json"
	"errors"
	"fmt"
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
	maxMessageSize = 65536
)

// ErrDisconnected is reported once the connection is gone.
var ErrDisconnected = errors.New("disconnected from server")

// Client manages the WebSocket connection to the game server.
type Client struct {
	conn   *websocket.Conn
	logger *log.Logger
	sendCh chan []byte
	done   chan struct{}

	mu        sync.Mutex
	sessionID string
	latest    game.Snapshot
	hasLatest bool
	err       error
	closed    bool
}

// Dial connects to the given server URL.
func Dial(serverURL string, logger *log.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", serverURL, err)
	}
	return newClient(conn, logger), nil
}

func newClient(conn *websocket.Conn, logger *log.Logger) *Client {
	return &Client{
		conn:   conn,
		logger: logger,
		sendCh: make(chan []byte, 256),
		done:   make(chan struct{}),
	}
}

// Start launches the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// Send marshals and queues an envelope for the server.
func (c *Client) Send(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		c.logger.Error("marshal failed", "type", env.Type, "err", err)
		return
	}
	select {
	case c.sendCh <- data:
	default:
		c.logger.Warn("send channel full, dropping message", "type", env.Type)
	}
}

// Enqueue forwards an intent to the remote session.
func (c *Client) Enqueue(in game.Intent) {
	c.Send(protocol.Envelope{
		Type:    protocol.MsgIntent,
		Payload: protocol.IntentPayload{Intent: in},
	})
}

// Reset asks the server for a new game and forgets the old snapshot.
func (c *Client) Reset() {
	c.mu.Lock()
	c.hasLatest = false
	c.mu.Unlock()
	c.Send(protocol.Envelope{
		Type:    protocol.MsgNewGame,
		Payload: protocol.NewGamePayload{},
	})
}

// Frame returns the latest snapshot pushed by the server. The server runs
// the clock, so elapsed is ignored.
func (c *Client) Frame(time.Duration) (game.Snapshot, bool) {
	return c.Latest()
}

// Latest returns the most recent snapshot, if one has arrived.
func (c *Client) Latest() (game.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.hasLatest
}

// SessionID returns the id the server assigned, or "" before assignment.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Err returns why the connection ended, or nil while it is alive.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close shuts down the client connection.
func (c *Client) Close() {
	c.shutdown(nil)
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.conn.Close()
}

func (c *Client) shutdown(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if err != nil {
		c.err = err
	}
	close(c.done)
}

// readPump reads server messages and records the latest state.
func (c *Client) readPump() {
	defer func() {
		c.shutdown(ErrDisconnected)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read failed", "err", err)
			}
			return
		}

		env, err := protocol.Decode(message)
		if err != nil {
			c.logger.Warn("bad message from server", "err", err)
			continue
		}
		c.handleMessage(env)
	}
}

func (c *Client) handleMessage(env protocol.RawEnvelope) {
	switch env.Type {
	case protocol.MsgAssignID:
		var payload protocol.AssignIDPayload
		if err := env.Into(&payload); err != nil {
			c.logger.Warn("bad assign_id", "err", err)
			return
		}
		c.mu.Lock()
		c.sessionID = payload.SessionID
		c.mu.Unlock()
		c.logger.Info("connected", "session", payload.SessionID)

	case protocol.MsgSnapshot:
		var payload protocol.SnapshotPayload
		if err := env.Into(&payload); err != nil {
			c.logger.Warn("bad snapshot", "err", err)
			return
		}
		c.mu.Lock()
		c.latest = payload.Snapshot
		c.hasLatest = true
		c.mu.Unlock()

	case protocol.MsgGameOver:
		var payload protocol.GameOverPayload
		if err := env.Into(&payload); err == nil {
			c.logger.Info("game over", "score", payload.Score, "lines", payload.Lines)
		}

	case protocol.MsgError:
		var payload protocol.ErrorPayload
		if err := env.Into(&payload); err == nil {
			c.logger.Warn("server error", "message", payload.Message)
		}

	default:
		c.logger.Debug("unknown message type", "type", env.Type)
	}
}

// writePump writes queued messages and keepalive pings to the WebSocket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.shutdown(fmt.Errorf("write: %w", err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown(fmt.Errorf("ping: %w", err))
				return
			}
		case <-c.done:
			return
		}
	}
}
