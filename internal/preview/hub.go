// Package preview mirrors flushed frames to browsers over websocket and lets
// them raise the draw interrupt over HTTP.
package preview

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	bigtypes "github.com/coreman2200/big-types"
)

// Hub is a bigtypes.Transport. Every write goes to Next first, when set;
// frames that made it out are then broadcast to /ws clients.
type Hub struct {
	Next bigtypes.Transport
	// Trigger raises the interrupt line and reports whether it was idle.
	Trigger func() bool
	// Stats, when set, is included in /health.
	Stats func() any

	mu        sync.RWMutex
	wmu       sync.Mutex // one writer per websocket conn
	clients   map[*websocket.Conn]bool
	frameID   uint64
	cmds      uint64
	last      []byte
	startTime time.Time
	log       zerolog.Logger
}

type hello struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	FrameID uint64 `json:"frame_id"`
}

type frame struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	Pix     []byte `json:"pix"`
}

func NewHub(next bigtypes.Transport, log zerolog.Logger) *Hub {
	return &Hub{
		Next:      next,
		clients:   map[*websocket.Conn]bool{},
		startTime: time.Now(),
		log:       log,
	}
}

func (h *Hub) WriteCmd(cmd byte) error {
	if h.Next != nil {
		if err := h.Next.WriteCmd(cmd); err != nil {
			return err
		}
	}
	h.mu.Lock()
	h.cmds++
	h.mu.Unlock()
	return nil
}

func (h *Hub) WriteData(p []byte) error {
	if h.Next != nil {
		if err := h.Next.WriteData(p); err != nil {
			return err
		}
	}
	h.mu.Lock()
	h.frameID++
	h.last = append(h.last[:0], p...)
	msg := frame{T: time.Now().UnixNano(), FrameID: h.frameID, Pix: h.last}
	b, _ := json.Marshal(msg)
	h.mu.Unlock()

	h.broadcast(b)
	return nil
}

// LastFrame returns a copy of the most recent frame.
func (h *Hub) LastFrame() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]byte(nil), h.last...)
}

func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/irq", h.HandleIRQ)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	b, _ := json.Marshal(hello{Width: bigtypes.Width, Height: bigtypes.Height, FrameID: h.frameID})
	h.mu.Unlock()
	h.write(conn, b)

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleIRQ raises the interrupt line: 202 when pended, 409 when an event was
// already pending.
func (h *Hub) HandleIRQ(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.Trigger == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if h.Trigger() {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	w.WriteHeader(http.StatusConflict)
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := map[string]any{
		"frame_id": h.frameID,
		"commands": h.cmds,
		"uptime_s": time.Since(h.startTime).Seconds(),
		"clients":  len(h.clients),
	}
	h.mu.RUnlock()
	if h.Stats != nil {
		resp["stats"] = h.Stats()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Hub) broadcast(b []byte) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		h.write(c, b)
	}
}

func (h *Hub) write(c *websocket.Conn, b []byte) {
	h.wmu.Lock()
	defer h.wmu.Unlock()
	c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
		h.log.Debug().Err(err).Msg("write frame")
	}
}
