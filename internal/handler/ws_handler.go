package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/quocanhngo/signalsender/internal/ws"
	"go.uber.org/zap"
)

// WSHandler handles live feed WebSocket connections
type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewWSHandler creates the handler. checkOrigin may be nil to accept any origin.
func NewWSHandler(hub *ws.Hub, checkOrigin func(r *http.Request) bool, log *zap.Logger) *WSHandler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: log,
	}
}

// HandleWebSocket upgrades HTTP to WebSocket and subscribes the connection to
// alert events. Client connects with: ws://host/ws
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade error", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, c.ClientIP())
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// OriginChecker accepts requests without an Origin header and those whose
// origin is in the allowed list. A "*" entry allows everything.
func OriginChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}
