package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gosimple/slug"
	"github.com/mark3labs/planr/internal/logger"
	"github.com/mark3labs/planr/internal/nats"
	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/wizard"
	"github.com/nats-io/nats.go/jetstream"
)

// ErrNotFound is returned when a session has no events.
var ErrNotFound = errors.New("session not found")

// Event is one entry of the append-only wizard session log.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session"`
	Type      string    `json:"type"`   // draft, nav, complete
	Action    string    `json:"action"` // nav: the wizard op that produced the snapshot
	Data      string    `json:"data"`   // JSON payload: plan for draft, snapshot for nav
}

// Store persists wizard sessions as events in JetStream.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a Store on the given JetStream context and stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{
		js:     js,
		stream: stream,
	}
}

// Name normalizes a free-form label into a session name usable in a subject.
func Name(raw string) string {
	return slug.Make(raw)
}

// PublishEvent appends an event to the log.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Session == "" || event.Session != Name(event.Session) {
		return nil, fmt.Errorf("invalid session name %q", event.Session)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Session, event.Type)
	logger.Debug("Publishing event: session=%s type=%s action=%s", event.Session, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// SaveDraft records the full plan as edited so far.
func (s *Store) SaveDraft(ctx context.Context, session string, p *plan.Plan) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	_, err = s.PublishEvent(ctx, Event{
		Session: session,
		Type:    nats.EventTypeDraft,
		Action:  "save",
		Data:    string(data),
	})
	return err
}

// SaveProgress records the engine's navigation state after op.
func (s *Store) SaveProgress(ctx context.Context, session string, op wizard.Op, snap wizard.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	_, err = s.PublishEvent(ctx, Event{
		Session: session,
		Type:    nats.EventTypeNav,
		Action:  string(op),
		Data:    string(data),
	})
	return err
}

// MarkComplete records a completion event.
func (s *Store) MarkComplete(ctx context.Context, session string) error {
	_, err := s.PublishEvent(ctx, Event{
		Session: session,
		Type:    nats.EventTypeComplete,
		Action:  "complete",
	})
	return err
}

// State is a session reconstructed from its events.
type State struct {
	Session     string
	Plan        *plan.Plan
	Progress    wizard.Snapshot
	HasProgress bool
	Complete    bool
	Completions int
	UpdatedAt   time.Time
	Events      int
}

// Apply folds one event into the state.
func (st *State) Apply(event Event) {
	st.Events++
	if event.Timestamp.After(st.UpdatedAt) {
		st.UpdatedAt = event.Timestamp
	}

	switch event.Type {
	case nats.EventTypeDraft:
		var p plan.Plan
		if err := json.Unmarshal([]byte(event.Data), &p); err != nil {
			logger.Warn("Skipping unreadable draft in %s (id=%s): %v", st.Session, event.ID, err)
			return
		}
		st.Plan = &p

	case nats.EventTypeNav:
		var snap wizard.Snapshot
		if err := json.Unmarshal([]byte(event.Data), &snap); err != nil {
			logger.Warn("Skipping unreadable snapshot in %s (id=%s): %v", st.Session, event.ID, err)
			return
		}
		st.Progress = snap
		st.HasProgress = true
		if event.Action == string(wizard.OpReset) {
			st.Complete = false
		}

	case nats.EventTypeComplete:
		st.Complete = true
		st.Completions++
	}
}

// LoadState replays all events of a session.
func (s *Store) LoadState(ctx context.Context, session string) (*State, error) {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: nats.SubjectForSession(session),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}
	defer func() {
		if err := s.stream.DeleteConsumer(ctx, consumer.CachedInfo().Name); err != nil {
			logger.Debug("Failed to delete replay consumer: %v", err)
		}
	}()

	state := &State{Session: session}

	const batchSize = 500
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				if meta, merr := msg.Metadata(); merr == nil {
					logger.Warn("Skipping malformed event (seq=%d): %v", meta.Sequence.Stream, err)
				}
				_ = msg.Ack()
				continue
			}
			if event.ID == "" {
				if meta, err := msg.Metadata(); err == nil {
					event.ID = fmt.Sprintf("%d", meta.Sequence.Stream)
				}
			}
			state.Apply(event)
			_ = msg.Ack()
		}
		if err := msgs.Error(); err != nil {
			logger.Debug("Fetch for session %s ended: %v", session, err)
		}
		if count < batchSize {
			break
		}
	}

	if state.Events == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, session)
	}

	logger.Debug("Loaded session %s: %d events", session, state.Events)
	return state, nil
}

// ListSessions returns the names of all sessions with at least one event.
func (s *Store) ListSessions(ctx context.Context) ([]string, error) {
	info, err := s.stream.Info(ctx, jetstream.WithSubjectFilter(nats.SubjectForSession("*")))
	if err != nil {
		return nil, fmt.Errorf("reading stream info: %w", err)
	}

	seen := make(map[string]struct{})
	for subject := range info.State.Subjects {
		if name, ok := nats.SessionFromSubject(subject); ok {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
