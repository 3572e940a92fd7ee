// Package websocket pushes game events to connected displays and drives the
// game clock.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/luckydraw/internal/logger"
	"github.com/abrezinsky/luckydraw/internal/models"
	"github.com/abrezinsky/luckydraw/internal/services"
)

// MsgGameSnapshot is sent to a client right after it connects
const MsgGameSnapshot = "game_snapshot"

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	// Displays connect from other devices on the LAN
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GameSource is the part of the game service the hub drives and reports
type GameSource interface {
	Step(ctx context.Context, dt time.Duration)
	ActiveGames() []services.GameStatus
}

// Hub fans game events out to displays. A display may follow one program
// (?program=<id>) or all of them.
type Hub struct {
	log   logger.Logger
	games GameSource

	mu      sync.RWMutex
	clients map[*Client]struct{}

	broadcast  chan models.WSMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

// Client is one connected display
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan models.WSMessage
	program int // 0 follows every program
}

// New creates a hub. games may be nil when no animation loop is needed.
func New(log logger.Logger, games GameSource) *Hub {
	return &Hub{
		log:        log,
		games:      games,
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan models.WSMessage, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled, then disconnects everyone
func (h *Hub) Run(ctx context.Context) {
	defer h.stop()
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("Display connected", "program", client.program, "total_clients", total)
			h.sendSnapshot(client)

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("Display disconnected", "total_clients", total)

		case message := <-h.broadcast:
			program, scoped := programOf(message.Payload)
			h.mu.Lock()
			for client := range h.clients {
				if scoped && client.program != 0 && client.program != program {
					continue
				}
				select {
				case client.send <- message:
				default:
					h.log.Warn("Dropping slow display", "program", client.program)
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for client := range h.clients {
			h.drop(client)
		}
		h.mu.Unlock()
	})
}

// drop removes client and closes its queue. Caller holds h.mu.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// programOf finds the program a message belongs to. Messages without one go
// to every display.
func programOf(payload interface{}) (int, bool) {
	switch p := payload.(type) {
	case services.GameStatus:
		return p.ProgramID, true
	case *services.GameStatus:
		if p != nil {
			return p.ProgramID, true
		}
	case map[string]interface{}:
		if id, ok := p["program_id"].(int); ok {
			return id, true
		}
	}
	return 0, false
}

// sendSnapshot tells a new display which games are running so it can join
// mid-animation
func (h *Hub) sendSnapshot(client *Client) {
	games := []services.GameStatus{}
	if h.games != nil {
		for _, g := range h.games.ActiveGames() {
			if client.program == 0 || g.ProgramID == client.program {
				games = append(games, g)
			}
		}
	}
	select {
	case client.send <- models.WSMessage{Type: MsgGameSnapshot, Payload: games}:
	default:
	}
}

// BroadcastMessage queues a message for every interested display. It never
// blocks once the hub has stopped.
func (h *Hub) BroadcastMessage(msgType string, payload interface{}) {
	select {
	case h.broadcast <- models.WSMessage{Type: msgType, Payload: payload}:
	case <-h.done:
	}
}

// ClientCount returns the number of connected displays
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// readPump keeps the connection alive. Displays are read-only; games are
// driven through the HTTP API, so anything they send is only logged.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			return
		}
		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Ignoring display message", "type", msg.Type)
		}
	}
}

// writePump writes queued messages and pings until the queue is closed
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.hub.log.Debug("Write failed", "type", message.Type, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades a display connection. An optional program query parameter
// limits the display to that program's events.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	program := 0
	if raw := r.URL.Query().Get("program"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			http.Error(w, "invalid program", http.StatusBadRequest)
			return
		}
		program = id
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan models.WSMessage, sendBuffer),
		program: program,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// RunAnimations advances every running game once per interval until ctx is
// cancelled. Each step is given the real time elapsed since the previous one.
func (h *Hub) RunAnimations(ctx context.Context, interval time.Duration) {
	if h.games == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			h.log.Info("Animation loop stopped")
			return
		case now := <-ticker.C:
			h.games.Step(ctx, now.Sub(last))
			last = now
		}
	}
}
