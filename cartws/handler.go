package cartws

import (
	"log"
	"net/http"

	"voltwear/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler upgrades GET /ws/cart and streams cart updates for
// the caller's browsing session.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sid := utils.GetSessionIDFromRequest(r)
		if sid == "" {
			http.Error(w, "Missing cart session", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("cartws upgrade:", err)
			return
		}

		client := &Client{
			Send:      make(chan []byte, 256),
			SessionID: sid,
			conn:      conn,
		}

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.conn.Close()
	for msg := range c.Send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump discards inbound frames; the stream is one-way. Its job is
// to notice the tab going away.
func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
