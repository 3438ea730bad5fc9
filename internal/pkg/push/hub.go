package push

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub maintains the set of connected clients and pushes notifications to them
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]bool

	// Outbound notifications waiting for delivery
	deliver chan *Notification

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Logger for Hub operations
	logger zerolog.Logger
}

// Notification represents a push notification sent over WebSocket
type Notification struct {
	// User this notification is addressed to
	UserID int64 `json:"-"`

	// Category of the notification: "application", "visit_request",
	// "trainer_assignment", "material", "opportunity", "account"
	Category string `json:"category"`

	Title string `json:"title"`
	Body  string `json:"body"`

	// Optional in-app link for the notification
	ActionURL string `json:"actionUrl,omitempty"`

	// Timestamp when the notification was created
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		deliver:    make(chan *Notification, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[int64]map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and deliveries
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case notification := <-h.deliver:
			h.deliverNotification(notification)
		}
	}
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := client.userID
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[*Client]bool)
	}
	h.clients[userID][client] = true

	h.logger.Info().
		Int64("userID", userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Push client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := client.userID
	if _, ok := h.clients[userID]; ok {
		if _, ok := h.clients[userID][client]; ok {
			delete(h.clients[userID], client)
			close(client.send)

			// If no more connections for this user, clean up
			if len(h.clients[userID]) == 0 {
				delete(h.clients, userID)
			}

			h.logger.Info().
				Int64("userID", userID).
				Str("addr", client.conn.RemoteAddr().String()).
				Msg("Push client unregistered")
		}
	}
}

// deliverNotification sends a notification to all connections of its target user
func (h *Hub) deliverNotification(notification *Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[notification.UserID]
	if !ok {
		h.logger.Debug().
			Int64("userID", notification.UserID).
			Str("category", notification.Category).
			Msg("No active connections for notification target")
		return
	}

	data, err := json.Marshal(notification)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("userID", notification.UserID).
			Msg("Failed to marshal notification")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
			// Delivered
		default:
			// Client's send buffer is full, they might be slow or disconnected
			h.mu.RUnlock()
			h.unregister <- client
			h.mu.RLock()
		}
	}

	h.logger.Debug().
		Int64("userID", notification.UserID).
		Int("connectionCount", len(clients)).
		Msg("Notification delivered")
}

// SendToUser queues a notification for delivery to a user's connections.
// Delivery is best effort and never blocks the caller.
func (h *Hub) SendToUser(notification *Notification) {
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now()
	}
	select {
	case h.deliver <- notification:
	default:
		h.logger.Warn().
			Int64("userID", notification.UserID).
			Str("category", notification.Category).
			Msg("Push delivery queue full, notification dropped")
	}
}

// ConnectionCount returns the number of active connections for a user
func (h *Hub) ConnectionCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[userID]; ok {
		return len(clients)
	}
	return 0
}
