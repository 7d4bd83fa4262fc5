package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"signaling-service/internal/models"
	"signaling-service/internal/observability"
	"signaling-service/internal/telemetry"
)

// Handler upgrades HTTP requests to websocket sessions.
type Handler struct {
	hub        *Hub
	dispatcher *Dispatcher
	audit      *telemetry.AuditEmitter
}

// NewHandler constructs a Handler.
func NewHandler(hub *Hub, dispatcher *Dispatcher, audit *telemetry.AuditEmitter) *Handler {
	return &Handler{hub: hub, dispatcher: dispatcher, audit: audit}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 << 10,
	WriteBufferSize: 64 << 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and starts the session pumps.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("signaling-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		ID:          uuid.NewString(),
		Conn:        conn,
		Send:        make(chan models.Event, sendQueueSize),
		IP:          observability.IPFromRequest(c.Request),
		ConnectedAt: time.Now(),
		hub:         h.hub,
		dispatcher:  h.dispatcher,
		quit:        make(chan struct{}),
	}
	h.hub.add(client)

	observability.IncWSActive()
	detail := "ip " + client.IP
	if reqID := observability.RequestIDFromRequest(c.Request); reqID != "" {
		detail += " request_id " + reqID
	}
	h.audit.Emit(ctx, "ws_connect", detail, client.ID)
	log.Printf("user connected: %s", client.ID)

	go client.writePump()
	go client.readPump()

	// The session id doubles as the signaling identity, so the client
	// needs it before it can address anyone.
	h.hub.SendTo(client.ID, models.NewEvent(models.EvConnected, models.UserRef{UserID: client.ID}))
}
