package realtime

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// Handler upgrades authenticated requests and registers the client in the
// rooms chosen by the caller.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts browser origins listed in allowedOrigins. "*" allows
// any origin.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	allowed := map[string]bool{}
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[strings.TrimRight(origin, "/")]
			},
		},
	}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, rooms ...string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[realtime] upgrade: %v", err)
		return
	}
	c := NewClient(h.hub, conn, rooms...)
	h.hub.Register(c)
	go c.WritePump()
	go c.ReadPump()
}
