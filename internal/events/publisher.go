// Package events publishes grading lifecycle events so downstream
// consumers (dashboards, notifiers) can react without polling the API.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// DefaultGradedSubject is the NATS subject grading outcomes are sent on.
const DefaultGradedSubject = "aula.submissions.graded"

// GradedEvent announces that a submission reached a terminal state.
type GradedEvent struct {
	SubmissionID uint      `json:"submission_id"`
	ActivityID   uint      `json:"activity_id"`
	CourseID     uint      `json:"course_id"`
	StudentID    uint      `json:"student_id"`
	Status       string    `json:"status"`
	Score        int       `json:"score"`
	GradedAt     time.Time `json:"graded_at"`
}

// Publisher emits grading events. Implementations must be safe to call
// from concurrent gradings.
type Publisher interface {
	PublishGraded(ctx context.Context, event GradedEvent) error
}

type natsPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSPublisher builds a Publisher over an established NATS connection.
func NewNATSPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) Publisher {
	if subject == "" {
		subject = DefaultGradedSubject
	}
	return &natsPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "events_publisher").Logger(),
	}
}

func (p *natsPublisher) PublishGraded(ctx context.Context, event GradedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return err
	}
	p.logger.Debug().
		Uint("submission_id", event.SubmissionID).
		Str("status", event.Status).
		Msg("grading event published")
	return nil
}
