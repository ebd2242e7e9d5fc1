// internal/server/handlers/events.go

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Feed delivers pipeline events to subscribers
type Feed interface {
	Subscribe(fn func(data []byte)) (func(), error)
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Events buffered per client before new ones are dropped
	SendBuffer int
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
		SendBuffer:     256,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type eventClient struct {
	conn   *websocket.Conn
	config WebSocketConfig
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	stop   func()
}

// EventsWebSocketHandler streams completed run events to websocket clients.
// The stream is read-only; anything the client sends is discarded.
func EventsWebSocketHandler(feed Feed, config WebSocketConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if feed == nil {
			respondWithError(w, http.StatusServiceUnavailable, "Event stream is disabled", nil)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("failed to upgrade to websocket", "error", err)
			return
		}

		client := &eventClient{
			conn:   conn,
			config: config,
			send:   make(chan []byte, config.SendBuffer),
			done:   make(chan struct{}),
		}

		stop, err := feed.Subscribe(client.deliver)
		if err != nil {
			slog.Error("failed to subscribe to events", "error", err)
			conn.Close()
			return
		}
		client.stop = stop

		welcome, _ := json.Marshal(map[string]interface{}{
			"type": "welcome",
			"time": time.Now().UTC(),
		})
		client.deliver(welcome)

		go client.writePump()
		go client.readPump()

		slog.Info("websocket client connected", "remote", r.RemoteAddr)
	}
}

// deliver queues data without blocking the publisher; slow clients lose events
func (c *eventClient) deliver(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		slog.Warn("dropping event for slow websocket client")
	}
}

func (c *eventClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket error", "error", err)
			}
			return
		}
	}
}

func (c *eventClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *eventClient) close() {
	c.once.Do(func() {
		c.stop()
		close(c.done)
		c.conn.Close()
	})
}
