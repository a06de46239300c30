package session

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/planr/internal/nats"
	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	conn, err := nats.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewStore(conn.JetStream, conn.Stream)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	session := "family-week"

	p := plan.New(plan.Weekly)
	p.Settings.Name = "Family week"
	p.AddParticipant("Ada", "parent")

	require.NoError(t, store.SaveDraft(ctx, session, p))
	require.NoError(t, store.SaveProgress(ctx, session, wizard.OpNext, wizard.Snapshot{Current: 1, Completed: []int{0}}))

	p.AddTask("Dishes", "Ada", "Mon")
	require.NoError(t, store.SaveDraft(ctx, session, p))
	require.NoError(t, store.SaveProgress(ctx, session, wizard.OpNext, wizard.Snapshot{Current: 2, Completed: []int{0, 1}}))
	require.NoError(t, store.MarkComplete(ctx, session))

	state, err := store.LoadState(ctx, session)
	require.NoError(t, err)

	assert.Equal(t, 5, state.Events)
	require.NotNil(t, state.Plan)
	assert.Equal(t, "Family week", state.Plan.Settings.Name)
	assert.Len(t, state.Plan.Tasks, 1, "latest draft wins")
	assert.True(t, state.HasProgress)
	assert.Equal(t, 2, state.Progress.Current)
	assert.Equal(t, []int{0, 1}, state.Progress.Completed)
	assert.True(t, state.Complete)
	assert.Equal(t, 1, state.Completions)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	require.NoError(t, store.MarkComplete(ctx, "alpha"))
	require.NoError(t, store.SaveProgress(ctx, "beta", wizard.OpGoTo, wizard.Snapshot{Current: 3}))

	alpha, err := store.LoadState(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, 1, alpha.Events)
	assert.False(t, alpha.HasProgress)

	names, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestStore_LoadMissingSession(t *testing.T) {
	store := setupStore(t)

	_, err := store.LoadState(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RejectsInvalidSessionName(t *testing.T) {
	store := setupStore(t)

	err := store.MarkComplete(context.Background(), "has.dots")
	assert.ErrorContains(t, err, "invalid session name")
}

func TestState_ApplyResetClearsComplete(t *testing.T) {
	st := &State{Session: "s"}
	now := time.Now()

	st.Apply(Event{Type: nats.EventTypeComplete, Timestamp: now})
	require.True(t, st.Complete)

	st.Apply(Event{Type: nats.EventTypeNav, Action: string(wizard.OpReset), Data: `{"current":0,"completed":[]}`, Timestamp: now.Add(time.Second)})
	assert.False(t, st.Complete)
	assert.Equal(t, 1, st.Completions)
	assert.Equal(t, now.Add(time.Second), st.UpdatedAt)
}

func TestState_ApplySkipsBadPayload(t *testing.T) {
	st := &State{Session: "s"}
	st.Apply(Event{Type: nats.EventTypeDraft, Data: "{not json"})

	assert.Nil(t, st.Plan)
	assert.Equal(t, 1, st.Events)
}

func TestName(t *testing.T) {
	assert.Equal(t, "family-week-2", Name("Family Week #2"))
}
