package mcpserver

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/planr/internal/nats"
	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/session"
	"github.com/mark3labs/planr/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	srv, err := New(opts)
	require.NoError(t, err)
	return srv
}

func call(t *testing.T, h toolHandler, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	result, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func TestStatus_FreshPlan(t *testing.T) {
	srv := newTestServer(t, Options{})

	text := extractText(call(t, srv.handleStatus, "wizard-status", nil))
	assert.Contains(t, text, "Step 1 of 5: General (config)")
	assert.Contains(t, text, "Progress: 20%")
	assert.Contains(t, text, "Can proceed: no")
	assert.Contains(t, text, "Completed: none")
	assert.Contains(t, text, "- plan name is required")
}

func TestNext_BlockedIsNotAnError(t *testing.T) {
	srv := newTestServer(t, Options{})

	result := call(t, srv.handleNext, "wizard-next", nil)
	assert.False(t, result.IsError)
	assert.Contains(t, extractText(result), "wizard-next changed nothing.")
	assert.Equal(t, 0, srv.Snapshot().Current)
}

func TestConfigureAddAndWalkToCompletion(t *testing.T) {
	srv := newTestServer(t, Options{})

	result := call(t, srv.handleConfigure, "plan-configure", map[string]any{
		"name":   "Family week",
		"period": "Monthly",
	})
	require.False(t, result.IsError, extractText(result))
	assert.Equal(t, "Updated name, period.", extractText(result))
	assert.Equal(t, plan.Monthly, srv.plan.Settings.Period)

	text := extractText(call(t, srv.handleNext, "wizard-next", nil))
	assert.Contains(t, text, "Now on step 2 of 5: Participants.")
	assert.Contains(t, text, "Completed: config")

	result = call(t, srv.handleAdd, "plan-add", map[string]any{
		"step":   "users",
		"fields": []any{"Ada", " parent "},
	})
	require.False(t, result.IsError, extractText(result))
	assert.Equal(t, "Added to users: Ada · parent (1 entries)", extractText(result))

	text = extractText(call(t, srv.handleSkip, "wizard-skip", nil))
	assert.Contains(t, text, "Wizard complete.", "only optional steps remain after participants")
	assert.Equal(t, 1, srv.Completions())
	assert.Equal(t, 1, srv.Snapshot().Current)
}

func TestSkip_BlockedOnRequiredStep(t *testing.T) {
	srv := newTestServer(t, Options{})

	text := extractText(call(t, srv.handleSkip, "wizard-skip", nil))
	assert.Contains(t, text, "wizard-skip changed nothing.")
	assert.Contains(t, text, "- plan name is required")
	assert.Zero(t, srv.Completions())
}

func TestGoTo(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		name    string
		step    string
		want    int
		isError bool
	}{
		{name: "by id", step: "milestones", want: 3},
		{name: "by number", step: "2", want: 1},
		{name: "out of range number is ignored", step: "9", want: 1},
		{name: "unknown id", step: "weather", want: 1, isError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, srv.handleGoTo, "wizard-goto", map[string]any{"step": tt.step})
			assert.Equal(t, tt.isError, result.IsError, extractText(result))
			assert.Equal(t, tt.want, srv.Snapshot().Current)
		})
	}
}

func TestGoTo_MissingArgument(t *testing.T) {
	srv := newTestServer(t, Options{})
	result := call(t, srv.handleGoTo, "wizard-goto", map[string]any{})
	assert.True(t, result.IsError)
}

func TestPrevAndReset(t *testing.T) {
	p := plan.New(plan.Weekly)
	p.Settings.Name = "x"
	srv := newTestServer(t, Options{Plan: p})

	text := extractText(call(t, srv.handlePrev, "wizard-prev", nil))
	assert.Contains(t, text, "wizard-prev changed nothing.")

	call(t, srv.handleNext, "wizard-next", nil)
	call(t, srv.handlePrev, "wizard-prev", nil)
	assert.Equal(t, wizard.Snapshot{Current: 0, Completed: []int{0}}, srv.Snapshot())

	text = extractText(call(t, srv.handleReset, "wizard-reset", nil))
	assert.Contains(t, text, "Wizard reset.")
	assert.Equal(t, wizard.Snapshot{Current: 0, Completed: []int{}}, srv.Snapshot())
	assert.Equal(t, "x", srv.plan.Settings.Name, "reset keeps plan data")
}

func TestLockOnComplete(t *testing.T) {
	p := plan.New(plan.Weekly)
	p.Settings.Name = "x"
	p.AddParticipant("Ada", "")
	srv := newTestServer(t, Options{
		Plan:           p,
		LockOnComplete: true,
		Resume:         &wizard.Snapshot{Current: 4, Completed: []int{0, 1, 2, 3}},
	})

	text := extractText(call(t, srv.handleNext, "wizard-next", nil))
	assert.Contains(t, text, "Wizard complete.")
	assert.Contains(t, text, "Finished: yes")

	text = extractText(call(t, srv.handlePrev, "wizard-prev", nil))
	assert.Contains(t, text, "The wizard is finished.")
	assert.Equal(t, 4, srv.Snapshot().Current)

	call(t, srv.handleReset, "wizard-reset", nil)
	assert.False(t, srv.Snapshot().Finished)
}

func TestAdd_Errors(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing step", args: map[string]any{"fields": []any{"a"}}},
		{name: "missing fields", args: map[string]any{"step": "tasks"}},
		{name: "required field blank", args: map[string]any{"step": "tasks", "fields": []any{" ", "Ada"}}},
		{name: "step without list", args: map[string]any{"step": "config", "fields": []any{"a"}}},
		{name: "step without list and blank field", args: map[string]any{"step": "config", "fields": []any{""}}},
		{name: "unknown step without fields", args: map[string]any{"step": "bogus", "fields": []any{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, srv.handleAdd, "plan-add", tt.args)
			assert.True(t, result.IsError)
		})
	}
	assert.Empty(t, srv.plan.Tasks)
}

func TestRemove(t *testing.T) {
	p := plan.New(plan.Weekly)
	p.AddShoppingItem("Milk", "2")
	p.AddShoppingItem("Eggs", "")
	srv := newTestServer(t, Options{Plan: p})

	result := call(t, srv.handleRemove, "plan-remove", map[string]any{"step": "shopping", "index": float64(3)})
	assert.True(t, result.IsError)

	result = call(t, srv.handleRemove, "plan-remove", map[string]any{"step": "shopping", "index": float64(1)})
	require.False(t, result.IsError, extractText(result))
	assert.Equal(t, "Removed from shopping: Milk · 2", extractText(result))
	assert.Equal(t, []plan.ShoppingItem{{Name: "Eggs"}}, srv.plan.Shopping)
}

func TestConfigure_NoArguments(t *testing.T) {
	srv := newTestServer(t, Options{})
	result := call(t, srv.handleConfigure, "plan-configure", map[string]any{})
	assert.True(t, result.IsError)
}

func TestShow(t *testing.T) {
	p := plan.New(plan.Weekly)
	p.Settings.Name = "Family week"
	srv := newTestServer(t, Options{Plan: p})

	text := extractText(call(t, srv.handleShow, "plan-show", nil))
	assert.Contains(t, text, "name: Family week")
	assert.Contains(t, text, "period: weekly")
}

func TestTransitionsArePersisted(t *testing.T) {
	ctx := context.Background()
	conn, err := nats.Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	store := session.NewStore(conn.JetStream, conn.Stream)

	srv := newTestServer(t, Options{Session: "agent-plan", Recorder: store})

	call(t, srv.handleConfigure, "plan-configure", map[string]any{"name": "Agent plan"})
	call(t, srv.handleNext, "wizard-next", nil)
	call(t, srv.handleAdd, "plan-add", map[string]any{"step": "users", "fields": []any{"Ada"}})
	call(t, srv.handleSkip, "wizard-skip", nil)

	state, err := store.LoadState(ctx, "agent-plan")
	require.NoError(t, err)
	require.NotNil(t, state.Plan)
	assert.Equal(t, "Agent plan", state.Plan.Settings.Name)
	assert.Len(t, state.Plan.Participants, 1)
	assert.True(t, state.HasProgress)
	assert.Equal(t, 1, state.Progress.Current)
	assert.True(t, state.Complete)
}

func TestStartStop(t *testing.T) {
	srv := newTestServer(t, Options{})

	port, err := srv.Start(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, port)
	assert.Contains(t, srv.URL(), "/mcp")

	_, err = srv.Start(context.Background())
	assert.Error(t, err)

	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
}
