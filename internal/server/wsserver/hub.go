package wsserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Bollo444/SyncSphere-sub004/internal/events"
	"github.com/Bollo444/SyncSphere-sub004/internal/server/identity"
	"github.com/Bollo444/SyncSphere-sub004/internal/telemetry/metric"
)

// Hub tracks open connections per user and fans bus events out to the
// owning user's connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	upgrader websocket.Upgrader
	metrics  *metric.Registry
	logger   *slog.Logger
}

// NewHub creates a hub. metrics may be nil.
func NewHub(metrics *metric.Registry, logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Bearer authentication guards the endpoint; a
			// cross-origin page cannot forge a token.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		metrics: metrics,
		logger:  logger,
	}
}

// ServeHTTP upgrades an authenticated request to a WebSocket
// connection. The auth middleware must run before the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(h, conn, id.UserID)
	h.register(client)
	go client.writePump()
	go client.readPump()
}

// Run consumes bus events until ctx is cancelled or the channel
// closes, then drops every connection.
func (h *Hub) Run(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case e, ok := <-ch:
			if !ok {
				h.closeAll()
				return
			}
			h.broadcast(e)
		}
	}
}

// ConnectionCount reports the number of open connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total()
}

// broadcast delivers e to every connection owned by the event's user.
// A full client queue drops the event for that client only.
func (h *Hub) broadcast(e events.Event) {
	if e.UserID == "" {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("encoding event failed", "kind", e.Kind, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[e.UserID] {
		select {
		case client.send <- raw:
			if h.metrics != nil {
				h.metrics.WSMessages.Inc()
			}
		default:
			h.logger.Warn("event dropped for slow websocket client",
				"kind", e.Kind, "client_id", client.id, "user_id", client.userID)
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	total := h.total()
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSConnections.Set(float64(total))
	}
	h.logger.Info("websocket client connected",
		"client_id", c.id, "user_id", c.userID, "connections", total)
}

// unregister removes c and closes its send queue. Safe to call more
// than once for the same client.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	removed := false
	if set, ok := h.clients[c.userID]; ok {
		if _, member := set[c]; member {
			delete(set, c)
			close(c.send)
			removed = true
			if len(set) == 0 {
				delete(h.clients, c.userID)
			}
		}
	}
	total := h.total()
	h.mu.Unlock()

	if !removed {
		return
	}
	if h.metrics != nil {
		h.metrics.WSConnections.Set(float64(total))
	}
	h.logger.Info("websocket client disconnected",
		"client_id", c.id, "user_id", c.userID, "connections", total)
}

// closeAll closes every connection; the read pumps unwind and
// unregister their clients.
func (h *Hub) closeAll() {
	h.mu.RLock()
	var conns []*websocket.Conn
	for _, set := range h.clients {
		for client := range set {
			conns = append(conns, client.conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.Close()
	}
}

// total counts connections. Callers hold h.mu.
func (h *Hub) total() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
