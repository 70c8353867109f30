package demoserver

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// hub fans change notifications out to every connected client.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]bool)}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *hub) broadcast(kind, orderID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	message := gin.H{"type": kind, "order_id": orderID}
	for conn := range h.clients {
		if err := conn.WriteJSON(message); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// handleWebSocket authenticates via the token query parameter (browsers
// cannot set headers on websocket dials), sends the connected ack and keeps
// the connection registered until it drops. Inbound messages such as
// subscribe_order are accepted and ignored; every client gets every event.
func (s *Server) handleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if _, err := s.validateToken(token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteJSON(gin.H{"type": "connected", "user_id": c.Query("user_id")}); err != nil {
			return
		}
		s.hub.add(conn)
		defer s.hub.remove(conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
