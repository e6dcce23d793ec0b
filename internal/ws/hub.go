package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/quocanhngo/signalsender/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisChannel = "signalsender:events"

	// publishTimeout bounds the Redis round trip on the caller's path
	publishTimeout = 500 * time.Millisecond
)

// Hub manages dashboard WebSocket connections and fans alert events out to
// them. With a Redis client, events go through Redis Pub/Sub so every server
// instance delivers them; without one, delivery is local only.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	// Channels for registering/unregistering clients
	register   chan *Client
	unregister chan *Client

	// Channel for broadcasting messages to local clients
	broadcast chan []byte

	// Redis client for Pub/Sub, nil for single-instance mode
	rdb *redis.Client

	// closed when Run returns
	done chan struct{}

	log *zap.Logger
}

// NewHub creates a new WebSocket Hub. rdb may be nil.
func NewHub(rdb *redis.Client, log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		rdb:        rdb,
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the Hub's main event loop
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case data := <-h.broadcast:
			h.broadcastToLocal(data)
		}
	}
}

// Register queues a client for registration with the hub. It reports false
// once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish sends an event to every connected dashboard. A Redis publish waits
// at most publishTimeout before falling back to local delivery, and a full
// local queue drops the event.
func (h *Hub) Publish(event *model.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("Error marshaling event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	if h.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := h.rdb.Publish(ctx, redisChannel, data).Err()
		cancel()
		if err == nil {
			return
		}
		h.log.Warn("Error publishing to Redis, delivering locally", zap.Error(err))
	}

	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("Live feed queue full, dropping event", zap.String("type", event.Type))
	}
}

// ClientCount returns the number of connections on this instance
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.log.Info("✅ Dashboard connected", zap.String("remote", client.Remote), zap.Int("connections", len(h.clients)))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.log.Info("❌ Dashboard disconnected", zap.String("remote", client.Remote))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// broadcastToLocal sends data to all connected local clients
func (h *Hub) broadcastToLocal(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, close connection
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// subscribeRedis delivers events published by any instance to local clients
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	h.log.Info("📡 Redis Pub/Sub subscriber started")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			select {
			case h.broadcast <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}
}
