package nats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName    = "planr_events"
	subjectPrefix = "planr"

	// Event types
	EventTypeDraft    = "draft"
	EventTypeNav      = "nav"
	EventTypeComplete = "complete"
)

// SubjectForSession returns the wildcard subject for all events of a session.
// Example: "planr.family-week.>"
func SubjectForSession(session string) string {
	return fmt.Sprintf("%s.%s.>", subjectPrefix, session)
}

// SubjectForEvent returns the subject for one event type in a session.
// Example: "planr.family-week.nav"
func SubjectForEvent(session, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, session, eventType)
}

// SessionFromSubject extracts the session name from an event subject.
func SessionFromSubject(subject string) (string, bool) {
	parts := strings.Split(subject, ".")
	if len(parts) != 3 || parts[0] != subjectPrefix {
		return "", false
	}
	return parts[1], true
}

// SetupStream creates or updates the stream holding all planr events.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + ".>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   365 * 24 * time.Hour,
	})
}
