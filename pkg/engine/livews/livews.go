// Package livews is a websocket spectator bridge: it fans out the engine's search
// results to any number of connected viewers, independent of the UCI stdin/stdout
// loop a GUI drives the engine with. It generalizes the teacher's board-to-engine
// livechess bridge into an engine-to-viewer one.
package livews

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/seekerror/logw"

	"github.com/rookery-chess/pinion/pkg/search"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Update is the JSON shape streamed to every connected viewer.
type Update struct {
	FEN   string `json:"fen"`
	Depth int    `json:"depth"`
	Score int    `json:"score"`
	PV    string `json:"pv"`
	Nodes uint64 `json:"nodes"`
}

// Hub tracks connected viewers and fans search results out to all of them.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

// ServeHTTP upgrades the request to a websocket and registers the connection as a
// viewer until it disconnects or the handler's read loop errors.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logw.Errorf(r.Context(), "livews: upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	go h.drain(conn)
}

// drain discards any message a viewer sends and deregisters the connection once it
// disconnects; viewers are read-only consumers, but the connection must still be read
// from to observe the close.
func (h *Hub) drain(conn *websocket.Conn) {
	defer h.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Broadcast sends one search result to every connected viewer, dropping any connection
// that fails to accept the write.
func (h *Hub) Broadcast(ctx context.Context, fen string, r search.Result) {
	u := Update{
		FEN:   fen,
		Depth: r.Depth,
		Score: int(r.Score),
		PV:    pvString(r),
		Nodes: r.Nodes,
	}
	payload, err := json.Marshal(u)
	if err != nil {
		logw.Errorf(ctx, "livews: marshal update: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}

func pvString(r search.Result) string {
	s := ""
	for i, m := range r.PV {
		if i > 0 {
			s += " "
		}
		s += m.String()
	}
	return s
}
