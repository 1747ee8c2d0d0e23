package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Event types pushed to dashboard clients.
const (
	TypeSignedIn      = "signed_in"
	TypeSignedOut     = "signed_out"
	TypeRecordCreated = "record_created"
	TypeRecordDeleted = "record_deleted"
)

// Event is a change notification scoped to one user. Kind and RecordID are
// set for record events only.
type Event struct {
	Type     string `json:"type"`
	Kind     string `json:"kind,omitempty"`
	RecordID string `json:"record_id,omitempty"`
}

// Hub fans change notifications out to connected dashboard clients, keyed by
// user. When Redis is configured, events are mirrored over pub/sub so every
// instance sees them.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	UserID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		UserID: userID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if userClients, ok := h.clients[client.UserID]; ok {
		delete(userClients, client)
		if len(userClients) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	close(client.Send)
}

// Publish sends an event to every client of the given user. A nil hub is a
// no-op so services can run without one wired.
func (h *Hub) Publish(userID string, evt Event) {
	if h == nil {
		return
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}

	if h.redis != nil {
		if err := h.redis.Publish(context.Background(), redisChannel(userID), payload).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "ledger:*:events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		userID := userIDFromChannel(msg.Channel)
		h.mu.RLock()
		clients := h.clients[userID]
		h.mu.RUnlock()
		for client := range clients {
			select {
			case client.Send <- []byte(msg.Payload):
			default:
			}
		}
	}
}

func redisChannel(userID string) string {
	return "ledger:" + userID + ":events"
}

func userIDFromChannel(ch string) string {
	// ledger:{user}:events
	const prefix = "ledger:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
