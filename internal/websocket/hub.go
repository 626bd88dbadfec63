package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"research-link-be/internal/model"
	"research-link-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// clusterChannel carries cross-instance deliveries. Every instance
// subscribes and forwards to the users it holds locally.
const clusterChannel = "cluster_events"

// broadcastTarget marks a cluster message meant for every connection.
const broadcastTarget = "*"

// Hub tracks live websocket connections per user and fans notifications
// out to them. With redis configured it also relays across instances,
// since a user's socket may be held by a different process.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	// nil in single-node setups
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.relayFromCluster()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "client connected", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers a notification to one user. It implements the delivery
// interface the notification engine pushes through.
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	data := envelope(notification)

	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()
	h.deliver(clients, data)

	// Publish regardless of a local hit: the same user may also be
	// connected to another instance.
	h.publishToCluster(userID.String(), data)
}

// Broadcast delivers a notification to every connected client.
func (h *Hub) Broadcast(notification model.Notification) {
	data := envelope(notification)

	h.mu.RLock()
	all := make([]*Client, 0, len(h.clients))
	for _, clients := range h.clients {
		all = append(all, clients...)
	}
	h.mu.RUnlock()
	h.deliver(all, data)

	h.publishToCluster(broadcastTarget, data)
}

func envelope(notification model.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// deliver writes to each client without blocking. A full buffer means a
// stalled reader; the client gets dropped and the peer reconnects. Only
// the unregister path in Run closes the Send channel, so a drop here
// cannot race into a double close.
func (h *Hub) deliver(clients []*Client, data []byte) {
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "send buffer full, dropping client", map[string]interface{}{"user_id": client.UserID})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) publishToCluster(target string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"target_user_id": target,
		"message":        data,
	})
	h.rdb.Publish(context.Background(), clusterChannel, payload)
}

func (h *Hub) relayFromCluster() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("cluster message parse error: %v", err)
			continue
		}

		if payload.TargetUserID == broadcastTarget {
			h.mu.RLock()
			all := make([]*Client, 0, len(h.clients))
			for _, clients := range h.clients {
				all = append(all, clients...)
			}
			h.mu.RUnlock()
			h.deliver(all, payload.Message)
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}
		h.mu.RLock()
		clients := h.clients[uid]
		h.mu.RUnlock()
		h.deliver(clients, payload.Message)
	}
}
