package planwizard

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	drafts    int
	ops       []wizard.Op
	snaps     []wizard.Snapshot
	completes int
	err       error
}

func (f *fakeRecorder) SaveDraft(_ context.Context, _ string, _ *plan.Plan) error {
	f.drafts++
	return f.err
}

func (f *fakeRecorder) SaveProgress(_ context.Context, _ string, op wizard.Op, snap wizard.Snapshot) error {
	f.ops = append(f.ops, op)
	f.snaps = append(f.snaps, snap)
	return f.err
}

func (f *fakeRecorder) MarkComplete(_ context.Context, _ string) error {
	f.completes++
	return f.err
}

var (
	keyEnter    = tea.KeyPressMsg{Code: tea.KeyEnter}
	keyEsc      = tea.KeyPressMsg{Code: tea.KeyEscape}
	keyTab      = tea.KeyPressMsg{Code: tea.KeyTab}
	keyCtrlC    = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	keyCtrlS    = tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	keyCtrlX    = tea.KeyPressMsg{Code: 'x', Mod: tea.ModCtrl}
	keyAltDigit = func(d rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: d, Mod: tea.ModAlt} }
)

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func newModel(t *testing.T, opts Options) *Model {
	t.Helper()
	m, err := New(context.Background(), opts)
	require.NoError(t, err)
	m.Init()
	return m
}

// readyPlan has valid settings and one participant.
func readyPlan() *plan.Plan {
	p := plan.New(plan.Weekly)
	p.Settings.Name = "Family week"
	p.AddParticipant("Ada", "parent")
	return p
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNew_UnknownStartStep(t *testing.T) {
	_, err := New(context.Background(), Options{StartStep: "nope"})
	assert.ErrorIs(t, err, wizard.ErrInitialStep)
}

func TestNew_StartStep(t *testing.T) {
	m := newModel(t, Options{Plan: readyPlan(), StartStep: plan.StepTasks})
	assert.Equal(t, plan.StepTasks, m.currentID())
}

func TestConfigStep_TypingOpensGate(t *testing.T) {
	m := newModel(t, Options{})
	assert.False(t, m.Engine().CanProceed(), "empty name keeps the gate closed")

	m.Update(keyEnter)
	assert.Equal(t, 0, m.Engine().CurrentStep())
	assert.Equal(t, "Resolve the problems above to continue", m.status)

	typeText(m, "Family week")
	assert.Equal(t, "Family week", m.Plan().Settings.Name)
	assert.True(t, m.Engine().CanProceed())

	m.Update(keyEnter)
	assert.Equal(t, 1, m.Engine().CurrentStep())
	assert.True(t, m.Engine().IsStepCompleted(0))
}

func TestConfigStep_InvalidPeriod(t *testing.T) {
	m := newModel(t, Options{})
	typeText(m, "Trip")
	m.Update(keyTab)
	m.configForm.inputs[1].SetValue("daily")
	m.syncSettings()

	assert.False(t, m.Engine().CanProceed())
	assert.Contains(t, m.Plan().Problems(plan.StepConfig), "period must be weekly or monthly")
}

func TestListStep_AddThenAdvance(t *testing.T) {
	p := plan.New(plan.Weekly)
	p.Settings.Name = "Family week"
	m := newModel(t, Options{Plan: p, StartStep: plan.StepUsers})

	m.Update(keyEnter)
	assert.Equal(t, plan.StepUsers, m.currentID(), "no participants blocks the gate")

	typeText(m, "Ada")
	m.Update(keyTab)
	typeText(m, "parent")
	m.Update(keyEnter)

	require.Len(t, m.Plan().Participants, 1)
	assert.Equal(t, plan.Participant{Name: "Ada", Role: "parent"}, m.Plan().Participants[0])
	assert.True(t, m.listForms[plan.StepUsers].empty(), "form clears after add")
	assert.Equal(t, plan.StepUsers, m.currentID(), "adding does not advance")

	m.Update(keyEnter)
	assert.Equal(t, plan.StepTasks, m.currentID())
}

func TestListStep_RequiredFieldMissing(t *testing.T) {
	m := newModel(t, Options{Plan: readyPlan(), StartStep: plan.StepTasks})

	m.Update(keyTab)
	typeText(m, "Ada")
	m.Update(keyEnter)

	assert.Empty(t, m.Plan().Tasks)
	assert.True(t, m.statusBad)
	assert.Contains(t, m.status, "title is required")
}

func TestListStep_RemoveLast(t *testing.T) {
	p := readyPlan()
	p.AddParticipant("Bo", "child")
	m := newModel(t, Options{Plan: p, StartStep: plan.StepUsers})

	m.Update(keyCtrlX)
	require.Len(t, m.Plan().Participants, 1)
	assert.Equal(t, "Ada", m.Plan().Participants[0].Name)
}

func TestSkip_CompletesFromFirstOptional(t *testing.T) {
	m := newModel(t, Options{Plan: readyPlan(), StartStep: plan.StepTasks})

	_, cmd := m.Update(keyCtrlS)
	assert.True(t, m.Completed())
	assert.True(t, isQuit(cmd), "completion quits the program")
	assert.Equal(t, plan.StepTasks, m.currentID(), "skip completion leaves the step alone")
}

func TestSkip_RequiredStepStillGated(t *testing.T) {
	p := plan.New(plan.Weekly)
	p.Settings.Name = "Family week"
	m := newModel(t, Options{Plan: p, StartStep: plan.StepUsers})

	m.Update(keyCtrlS)
	assert.False(t, m.Completed())
	assert.Equal(t, plan.StepUsers, m.currentID())
	assert.Equal(t, "Resolve the problems above to continue", m.status)

	p.AddParticipant("Ada", "")
	m.Update(keyCtrlS)
	assert.True(t, m.Completed(), "only optional steps follow participants")
}

func TestFinishedLockedWizard(t *testing.T) {
	rec := &fakeRecorder{}
	m := newModel(t, Options{
		Plan:           readyPlan(),
		Recorder:       rec,
		Session:        "s",
		LockOnComplete: true,
		Resume:         &wizard.Snapshot{Current: 4, Completed: []int{0, 1, 2, 3, 4}, Finished: true},
	})
	require.True(t, m.Engine().Finished())

	for _, key := range []tea.KeyPressMsg{keyEnter, keyCtrlS} {
		m.status = ""
		_, cmd := m.Update(key)
		assert.Nil(t, cmd)
		assert.Equal(t, finishedStatus, m.status)
		assert.True(t, m.statusBad)
		assert.False(t, m.Completed())
	}
	assert.Empty(t, rec.ops)
	assert.Zero(t, rec.completes)
}

func TestEsc_BackThenCancel(t *testing.T) {
	m := newModel(t, Options{Plan: readyPlan(), StartStep: plan.StepUsers})

	m.Update(keyEsc)
	assert.False(t, m.Cancelled())
	assert.Equal(t, 0, m.Engine().CurrentStep())

	_, cmd := m.Update(keyEsc)
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Cancelled())
	assert.False(t, m.Completed())
}

func TestCtrlC_Cancels(t *testing.T) {
	rec := &fakeRecorder{}
	m := newModel(t, Options{Plan: readyPlan(), Recorder: rec, Session: "s"})

	_, cmd := m.Update(keyCtrlC)
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Cancelled())
	assert.Equal(t, 1, rec.drafts, "pending edits are saved on cancel")
}

func TestJump_RespectsReachability(t *testing.T) {
	m := newModel(t, Options{Plan: readyPlan()})

	m.Update(keyAltDigit('4'))
	assert.Equal(t, 0, m.Engine().CurrentStep())
	assert.Equal(t, "Step 4 is not reachable yet", m.status)

	m.Update(keyEnter)
	m.Update(keyEnter)
	require.Equal(t, 2, m.Engine().CurrentStep())

	m.Update(keyAltDigit('1'))
	assert.Equal(t, 0, m.Engine().CurrentStep())

	m.Update(keyAltDigit('3'))
	assert.Equal(t, 2, m.Engine().CurrentStep(), "one past the furthest completed step")
}

func TestFullRun_PersistsEveryTransition(t *testing.T) {
	rec := &fakeRecorder{}
	m := newModel(t, Options{Plan: readyPlan(), Recorder: rec, Session: "family-week"})

	var cmd tea.Cmd
	for i := 0; i < 5; i++ {
		_, cmd = m.Update(keyEnter)
	}

	assert.True(t, m.Completed())
	assert.True(t, isQuit(cmd))
	assert.Equal(t, []wizard.Op{wizard.OpNext, wizard.OpNext, wizard.OpNext, wizard.OpNext, wizard.OpNext}, rec.ops)
	assert.Equal(t, 1, rec.completes)
	assert.Equal(t, 5, rec.drafts)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, rec.snaps[4].Completed)
	assert.Equal(t, 100, m.Engine().Progress())
}

func TestRecorderError_ShownAsStatus(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	m := newModel(t, Options{Plan: readyPlan(), Recorder: rec, Session: "s"})

	m.Update(keyEnter)
	assert.Equal(t, 1, m.Engine().CurrentStep(), "navigation does not depend on persistence")
	assert.True(t, m.statusBad)
	assert.Contains(t, m.status, "disk full")
}

func TestResume_RestoresSnapshot(t *testing.T) {
	m := newModel(t, Options{
		Plan:   readyPlan(),
		Resume: &wizard.Snapshot{Current: 3, Completed: []int{0, 1, 2}},
	})

	assert.Equal(t, plan.StepMilestones, m.currentID())
	assert.True(t, reachable(m.Engine(), 3))
}

func TestNotesEdited(t *testing.T) {
	m := newModel(t, Options{Plan: readyPlan()})

	m.Update(NotesEditedMsg{Notes: "  bring snacks\n"})
	assert.Equal(t, "bring snacks", m.Plan().Settings.Notes)
}

func TestView_ShowsStateOfEngine(t *testing.T) {
	m := newModel(t, Options{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	out := m.View().Content
	require.NotNil(t, out)

	body := m.renderStep()
	assert.Contains(t, body, "plan name is required")
	assert.Contains(t, body, "20%")
	assert.Contains(t, body, labelCancel)
	assert.NotContains(t, body, labelSkip)

	m.Engine().GoToStep(4)
	body = m.renderStep()
	assert.Contains(t, body, labelFinish)
	assert.Contains(t, body, labelSkip)
	assert.Contains(t, body, "Nothing added yet")
}
