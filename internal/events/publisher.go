package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mycareerchoices/compass-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Event types pushed to connected clients.
const (
	TypeResultAccessUpdated = "result_access_updated"
)

// Event is one notification delivered on a student's channel.
type Event struct {
	Type      string `json:"type"`
	StudentID int    `json:"student_id"`
	CanView   bool   `json:"can_view"`
}

// Publisher fans events out over Redis pub/sub so every server instance
// holding the student's WebSocket sees them.
type Publisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewPublisher creates a new Publisher.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{
		rdb: rdb,
		log: log.With().Str("component", "events").Logger(),
	}
}

// Publish sends an event on the student's channel. Delivery is best effort;
// a student with no open socket simply misses the push and sees the new
// state on their next request.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	channel := config.CacheKey.StudentEventsChannel(event.StudentID)
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	p.log.Debug().Str("type", event.Type).Int("student_id", event.StudentID).Msg("Event published")
	return nil
}

// Subscribe opens a pub/sub subscription on one student's channel. The
// caller owns the returned PubSub and must Close it.
func (p *Publisher) Subscribe(ctx context.Context, studentID int) *redis.PubSub {
	return p.rdb.Subscribe(ctx, config.CacheKey.StudentEventsChannel(studentID))
}
