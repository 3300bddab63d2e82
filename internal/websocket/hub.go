package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"axom-backend/internal/logger"
	"axom-backend/internal/models"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HistorySource supplies the snapshot sent to each new connection.
type HistorySource interface {
	History() []models.Turn
}

// client owns one connection. Only writePump writes to conn; send is closed by the hub
// when the client is unregistered.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans session updates out to every connected client. Updates arrive either from the
// Redis channel (Start) or directly through the SessionObserver methods. Delivery never
// blocks: a client whose send buffer is full is dropped.
type Hub struct {
	mu          sync.Mutex
	connections map[*client]struct{}
	redisClient *redis.Client
	history     HistorySource
}

// NewHub creates a hub. redisClient may be nil, in which case Start is a no-op.
func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		connections: make(map[*client]struct{}),
		redisClient: redisClient,
	}
}

// SetHistorySource is called once the session exists; the session itself may observe the hub.
func (h *Hub) SetHistorySource(src HistorySource) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = src
}

// Start relays models.UpdatesChannel until ctx is cancelled.
func (h *Hub) Start(ctx context.Context) {
	if h.redisClient == nil {
		return
	}
	go h.subscribeToPubSub(ctx)
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnw("WebSocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.registerConnection(c)

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) registerConnection(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[c] = struct{}{}
	if h.history != nil {
		if data, err := json.Marshal(models.NewHistoryMessage(h.history.History())); err == nil {
			c.send <- data
		}
	}

	logger.Infow("WebSocket connected", "remote", c.conn.RemoteAddr().String(), "total", len(h.connections))
}

func (h *Hub) unregisterConnection(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked must be called with h.mu held. It is a no-op for clients already removed.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.connections[c]; !ok {
		return
	}
	delete(h.connections, c)
	close(c.send)
	c.conn.Close()

	logger.Infow("WebSocket disconnected", "remote", c.conn.RemoteAddr().String(), "total", len(h.connections))
}

// readPump discards client frames and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer h.unregisterConnection(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Warnw("WebSocket write failed", "remote", c.conn.RemoteAddr().String(), "error", err)
			h.unregisterConnection(c)
			return
		}
	}
}

// ConnectionCount reports the number of open client connections.
func (h *Hub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

func (h *Hub) subscribeToPubSub(ctx context.Context) {
	pubsub := h.redisClient.Subscribe(ctx, models.UpdatesChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.connections {
		select {
		case c.send <- data:
		default:
			logger.Warnw("WebSocket client too slow, dropping", "remote", c.conn.RemoteAddr().String())
			h.removeLocked(c)
		}
	}
}

// Send broadcasts msg to every client.
func (h *Hub) Send(msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to encode WebSocket message", err)
		return
	}
	h.broadcast(data)
}

// ExchangeRecorded lets the hub observe the session directly when Redis is not configured.
func (h *Hub) ExchangeRecorded(ctx context.Context, ex models.Exchange) {
	h.Send(models.NewExchangeMessage(ex))
}

func (h *Hub) SessionReset(ctx context.Context, at time.Time, history []models.Turn) {
	h.Send(models.NewResetMessage(at, history))
}
