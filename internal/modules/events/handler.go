package events

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"leadflow/internal/middleware"
	"leadflow/internal/pkg/jwt"
)

const (
	pingInterval = 30 * time.Second
	readWait     = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Non-browser clients send no Origin header; browsers must come from
	// the same allow list the CORS middleware uses.
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return middleware.OriginAllowed(origin)
	},
}

// Handler upgrades GET /leads/ws?token=JWT to a websocket and streams lead
// change events for the authenticated owner. Authentication happens via
// query parameter because browsers cannot set headers on websocket
// connects.
type Handler struct {
	hub        *Hub
	jwtService *jwt.Service
	log        *zap.Logger
}

func NewHandler(hub *Hub, jwtService *jwt.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		hub:        hub,
		jwtService: jwtService,
		log:        log,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads/ws", h.Serve)
}

func (h *Handler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required"})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	// The deadline is armed before the first ping so a client that never
	// answers cannot hold the read goroutine open indefinitely.
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	ownerID := claims.UserID
	cl := h.hub.Register(ownerID, conn)
	h.log.Info("owner connected to event feed", zap.Int64("owner_id", ownerID))

	defer func() {
		h.hub.Drop(ownerID, cl)
		h.log.Info("owner disconnected from event feed", zap.Int64("owner_id", ownerID))
	}()

	go h.pingLoop(cl)
	h.readLoop(conn, ownerID)
}

func (h *Handler) pingLoop(cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := cl.ping(); err != nil {
			// Closing here unblocks the read loop when the peer is gone.
			cl.close()
			return
		}
	}
}

// readLoop drains client frames until the connection closes. The feed is
// one-way; inbound payloads are discarded.
func (h *Handler) readLoop(conn *websocket.Conn, ownerID int64) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("websocket read error", zap.Int64("owner_id", ownerID), zap.Error(err))
			}
			return
		}
	}
}
