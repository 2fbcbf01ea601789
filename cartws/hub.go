package cartws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"voltwear/models"
)

// Client is one open storefront tab subscribed to its session's cart.
type Client struct {
	Send      chan []byte
	SessionID string

	conn wsConn
}

// wsConn is the subset of *websocket.Conn the pumps need.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

type broadcastMsg struct {
	SessionID string
	Data      []byte
}

// Hub fans cart updates out to every tab of a browsing session.
type Hub struct {
	sessions   map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, 64),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.sessions[c.SessionID] == nil {
				h.sessions[c.SessionID] = make(map[*Client]bool)
			}
			h.sessions[c.SessionID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.sessions[c.SessionID]; conns != nil {
				if conns[c] {
					delete(conns, c)
					close(c.Send)
				}
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.sessions[m.SessionID] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.sessions[m.SessionID], c)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// cartEvent is the payload pushed on every committed mutation.
type cartEvent struct {
	Action    string              `json:"action"` // "cart"
	Cart      *models.CartSession `json:"cart"`
	Timestamp int64               `json:"timestamp"`
}

// CartChanged implements the cart service's notifier. It never blocks:
// a full broadcast queue drops the event, and the tab catches up on its
// next fetch.
func (h *Hub) CartChanged(sessionID string, sess *models.CartSession) {
	data, err := json.Marshal(cartEvent{
		Action:    "cart",
		Cart:      sess,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		log.Println("cartws marshal:", err)
		return
	}
	select {
	case h.broadcast <- broadcastMsg{SessionID: sessionID, Data: data}:
	default:
	}
}
