package websocket

// Actions (client → server).

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// Events (server → client).

type Event string

const (
	EventError        Event = "error"
	EventPong         Event = "pong"
	EventNotification Event = "notification"
)

// NotificationResponse wraps one pushed event, e.g. a result access change.
type NotificationResponse struct {
	Event   Event `json:"event"`
	Payload any   `json:"payload"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
