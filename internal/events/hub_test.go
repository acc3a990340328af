package events

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentfs/agentfs/internal/logging"
)

// newStoppedHub builds a hub whose dispatch loop never runs, so the queue
// stays full once filled and the drop path is deterministic.
func newStoppedHub(buffer int) *Hub {
	return &Hub{
		logger:      logging.NewNop().Named("events"),
		queue:       make(chan Event, buffer),
		done:        make(chan struct{}),
		subscribers: make(map[*websocket.Conn]struct{}),
	}
}

func newStreamServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/events/stream", h.HandleStream)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForSubscribers polls until the hub sees the expected subscriber count;
// registration and removal happen on the server side of the upgrade.
func waitForSubscribers(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		n := len(h.subscribers)
		h.mu.RUnlock()
		if n == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("subscriber count never reached %d", want)
}

func TestHubDropsWhenQueueFull(t *testing.T) {
	h := newStoppedHub(1)

	var hookCalls int
	h.OnDrop(func() { hookCalls++ })

	h.Emit(ArtifactWrite, "/work/a.txt", 1)
	h.Emit(ArtifactWrite, "/work/b.txt", 2)
	h.Emit(ArtifactRead, "/work/c.txt", 3)

	assert.Equal(t, uint64(2), h.Dropped())
	assert.Equal(t, 2, hookCalls)
}

func TestHubEmitNeverBlocks(t *testing.T) {
	h := newStoppedHub(1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Emit(ArtifactWrite, "/work/f.txt", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full queue")
	}
	assert.Equal(t, uint64(999), h.Dropped())
}

func TestHubBroadcastsToSubscribers(t *testing.T) {
	h := NewHub(logging.NewNop(), 16)
	defer h.Close()

	srv := newStreamServer(t, h)
	conn := dialStream(t, srv)
	waitForSubscribers(t, h, 1)

	h.Emit(ArtifactWrite, "/work/file.txt", 42)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event Event
	require.NoError(t, sonic.Unmarshal(payload, &event))
	assert.Equal(t, ArtifactWrite, event.Kind)
	assert.Equal(t, "/work/file.txt", event.Path)
	assert.Equal(t, 42, event.Bytes)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.At.IsZero())
}

func TestHubRemovesClosedSubscribers(t *testing.T) {
	h := NewHub(logging.NewNop(), 16)
	defer h.Close()

	srv := newStreamServer(t, h)
	conn := dialStream(t, srv)
	waitForSubscribers(t, h, 1)

	conn.Close()
	waitForSubscribers(t, h, 0)

	// Emitting with no subscribers must not block or panic.
	h.Emit(ArtifactRead, "/work/gone.txt", 7)
	assert.Equal(t, uint64(0), h.Dropped())
}
