package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mycareerchoices/compass-backend/internal/events"
	"github.com/mycareerchoices/compass-backend/internal/middleware"
	ws "github.com/mycareerchoices/compass-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler pushes server events to connected students.
type WSHandler struct {
	publisher *events.Publisher
	log       zerolog.Logger
	upgrader  websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(publisher *events.Publisher, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		publisher: publisher,
		log:       log.With().Str("component", "ws_handler").Logger(),
		upgrader:  buildUpgrader(allowedOrigins),
	}
}

// NotificationStream godoc
// WS /ws/v1/notifications
// Upgrades to WebSocket and forwards the student's event channel until the
// client disconnects.
func (h *WSHandler) NotificationStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	studentID := claims.UserID
	wsLog := h.log.With().Int("student_id", studentID).Logger()
	wsLog.Info().Msg("Student connected")

	sub := h.publisher.Subscribe(c.Request.Context(), studentID)
	defer sub.Close()

	// Reader goroutine: consumes client frames and hands actions to the main
	// loop so the connection has a single writer.
	done := make(chan struct{})
	actions := make(chan ws.Action, 4)
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			select {
			case actions <- msg.Action:
			default:
			}
		}
	}()

	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Connection closed")
			return
		case action := <-actions:
			if action == ws.ActionPing {
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			} else {
				_ = ws.WriteError(conn, "unknown action")
			}
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var event events.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				wsLog.Warn().Err(err).Msg("Malformed event payload")
				continue
			}
			if err := ws.WriteTyped(conn, ws.NotificationResponse{
				Event:   ws.EventNotification,
				Payload: event,
			}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, dropping connection")
				return
			}
		}
	}
}
