// Package progress fans orchestration state transitions out to websocket
// listeners.
package progress

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"YTM4A/internal/domain/models"
	"YTM4A/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub is a mutex-guarded set of subscribers. Publish never blocks: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu      sync.Mutex
	subs    map[chan models.ProgressEvent]struct{}
	buffer  int
	dropped int
	log     *logger.Logger

	upgrader websocket.Upgrader
}

// NewHub creates a hub whose subscribers buffer up to buffer events.
func NewHub(buffer int, l *logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	return &Hub{
		subs:   make(map[chan models.ProgressEvent]struct{}),
		buffer: buffer,
		log:    l.Component("progress"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Listeners are browser extensions with their own origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Publish delivers ev to every subscriber with room in its buffer.
func (h *Hub) Publish(ev models.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.dropped++
		}
	}
}

// Subscribe registers a listener. The returned cancel func must be called
// once; it closes the channel.
func (h *Hub) Subscribe() (<-chan models.ProgressEvent, func()) {
	ch := make(chan models.ProgressEvent, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of active listeners.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped returns how many deliveries were skipped for slow listeners.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// ServeWS upgrades the request and streams events as JSON text frames until
// the client goes away. ?request_id= limits the stream to one request.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", logger.Error(err))
		return
	}
	defer conn.Close()

	only := r.URL.Query().Get("request_id")
	events, cancel := h.Subscribe()
	defer cancel()

	// Reader: handles pongs and notices when the peer closes.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case ev := <-events:
			if only != "" && ev.RequestID != only {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
