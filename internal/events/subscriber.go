package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SubscribeGraded delivers grading events to handler. Malformed payloads
// are logged and dropped.
func SubscribeGraded(conn *nats.Conn, subject string, handler func(ctx context.Context, event GradedEvent), logger zerolog.Logger) (*nats.Subscription, error) {
	if subject == "" {
		subject = DefaultGradedSubject
	}
	log := logger.With().Str("component", "events_subscriber").Str("subject", subject).Logger()

	return conn.Subscribe(subject, func(msg *nats.Msg) {
		var event GradedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Warn().Err(err).Msg("discarding malformed grading event")
			return
		}
		handler(context.Background(), event)
	})
}
