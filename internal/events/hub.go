package events

import (
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/agentfs/agentfs/internal/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans artifact events out to websocket subscribers and the log.
// Events are queued on a bounded channel; when the queue is full the event
// is dropped rather than blocking the emitting operation.
type Hub struct {
	logger *logging.Logger

	queue chan Event
	done  chan struct{}

	mu          sync.RWMutex
	subscribers map[*websocket.Conn]struct{}
	dropped     uint64
	onDrop      func()
}

// NewHub creates a hub with the given queue capacity and starts its
// dispatch loop.
func NewHub(logger *logging.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 256
	}
	h := &Hub{
		logger:      logger.Named("events"),
		queue:       make(chan Event, buffer),
		done:        make(chan struct{}),
		subscribers: make(map[*websocket.Conn]struct{}),
	}
	go h.run()
	return h
}

// Emit queues an artifact event. Never blocks; drops when the queue is full.
func (h *Hub) Emit(kind Kind, path string, bytes int) {
	select {
	case h.queue <- newEvent(kind, path, bytes):
	default:
		h.mu.Lock()
		h.dropped++
		hook := h.onDrop
		h.mu.Unlock()
		if hook != nil {
			hook()
		}
	}
}

// OnDrop registers a callback invoked each time an event is discarded.
func (h *Hub) OnDrop(fn func()) {
	h.mu.Lock()
	h.onDrop = fn
	h.mu.Unlock()
}

// Dropped returns the number of events discarded due to a full queue.
func (h *Hub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Close stops the dispatch loop and disconnects subscribers.
func (h *Hub) Close() {
	close(h.done)
	h.mu.Lock()
	for conn := range h.subscribers {
		conn.Close()
	}
	h.subscribers = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()
}

// HandleStream upgrades an HTTP request to a websocket subscription.
func (h *Hub) HandleStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.subscribers[conn] = struct{}{}
	h.mu.Unlock()

	// Drain the read side so close frames are processed; drop the
	// subscriber when the peer goes away.
	go func() {
		defer h.unsubscribe(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return
		case event := <-h.queue:
			h.dispatch(event)
		}
	}
}

func (h *Hub) dispatch(event Event) {
	h.logger.Debug("artifact event",
		zap.String("kind", string(event.Kind)),
		zap.String("path", event.Path),
		zap.Int("bytes", event.Bytes),
	)

	payload, err := sonic.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to encode event", zap.Error(err))
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subscribers))
	for conn := range h.subscribers {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.unsubscribe(conn)
		}
	}
}

func (h *Hub) unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.subscribers[conn]; ok {
		delete(h.subscribers, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
