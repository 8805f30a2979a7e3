package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// Notification streams are mostly idle; the read deadline is refreshed on
// every client frame, so it only needs to outlive the frontend's ping cadence.
const (
	writeTimeout = 10 * time.Second
	readTimeout  = 5 * time.Minute
)

// WriteTyped sends a typed response frame over the WebSocket.
func WriteTyped(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(v)
}

// WriteError sends an ErrorResponse frame over the WebSocket.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON reads and decodes one client frame, refreshing the read deadline.
func ReadJSON(conn *websocket.Conn, v any) error {
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	return conn.ReadJSON(v)
}
