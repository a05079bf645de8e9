package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"designer-dashboard-backend/config"
	"designer-dashboard-backend/internal/editor"
	"designer-dashboard-backend/internal/logging"
	"designer-dashboard-backend/internal/metrics"
	"designer-dashboard-backend/internal/model"
	"designer-dashboard-backend/internal/reactive"
)

// DesignerSource is the designer store as seen by the hub.
type DesignerSource interface {
	Designers() []model.Designer
	Subscribe(fn func(reactive.Event)) func()
}

// ObjectSource is the object store as seen by the hub and its controllers.
type ObjectSource interface {
	editor.Scene
	Objects() []model.SceneObject
	Subscribe(fn func(reactive.Event)) func()
}

// Hub fans store events out to every connected scene and gives each
// connection its own drag controller.
type Hub struct {
	designers  DesignerSource
	objects    ObjectSource
	committer  editor.Committer
	sendBuffer int
	log        *zap.Logger
	upgrader   websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.RWMutex
	clients     map[*client]struct{}
	unsubscribe []func()
	closed      bool

	// sessions counts connections whose read loop, including the commit
	// on disconnect, has not finished yet.
	sessions sync.WaitGroup
}

// NewHub creates a hub subscribed to both stores. Close releases it.
func NewHub(cfg config.WebSocketConfig, designers DesignerSource, objects ObjectSource, committer editor.Committer, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		designers:  designers,
		objects:    objects,
		committer:  committer,
		sendBuffer: cfg.SendBuffer,
		log:        logging.OrNop(log).Named("live"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are enforced by the CORS middleware.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		ctx:     ctx,
		cancel:  cancel,
		clients: make(map[*client]struct{}),
	}
	if h.sendBuffer <= 0 {
		h.sendBuffer = 64
	}
	h.unsubscribe = []func(){
		designers.Subscribe(h.broadcast),
		objects.Subscribe(h.broadcast),
	}
	return h
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newClient(h, conn)
	if !h.register(c) {
		_ = conn.Close()
		return
	}
	defer h.sessions.Done()
	defer h.unregister(c)

	c.sendJSON(eventMessage(reactive.Event{
		Collection: reactive.CollectionDesigners, Op: reactive.OpLoad, Data: h.designers.Designers(),
	}))
	c.sendJSON(eventMessage(reactive.Event{
		Collection: reactive.CollectionObjects, Op: reactive.OpLoad, Data: h.objects.Objects(),
	}))

	go c.writePump()
	c.readPump(h.ctx)
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unsubscribes from the stores, drops every connection and waits
// until each connection has handed its pending drag commit to the committer.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, unsubscribe := range h.unsubscribe {
		unsubscribe()
	}
	for _, c := range clients {
		c.close()
	}
	h.cancel()
	h.sessions.Wait()
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.sessions.Add(1)
	metrics.LiveConnections.Inc()
	h.log.Debug("client connected", zap.String("remote", c.conn.RemoteAddr().String()))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	c.close()
	if ok {
		metrics.LiveConnections.Dec()
		h.log.Debug("client disconnected", zap.String("remote", c.conn.RemoteAddr().String()))
	}
}

// broadcast sends ev to every client. Clients that cannot keep up are dropped.
func (h *Hub) broadcast(ev reactive.Event) {
	data, err := json.Marshal(eventMessage(ev))
	if err != nil {
		h.log.Error("failed to encode event", zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.send(data)
	}
}
