// Package planwizard is the interactive front end of the plan wizard: a
// bubbletea program that renders the engine's state and turns key presses
// into engine operations and plan edits.
package planwizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/planr/internal/logger"
	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/wizard"
)

const finishedStatus = "The wizard is finished. Run 'planr resume --reset' to change navigation"

// ErrCancelled is returned by Run when the user leaves before completion.
var ErrCancelled = errors.New("wizard cancelled by user")

// Recorder persists wizard sessions. *session.Store implements it.
type Recorder interface {
	SaveDraft(ctx context.Context, session string, p *plan.Plan) error
	SaveProgress(ctx context.Context, session string, op wizard.Op, snap wizard.Snapshot) error
	MarkComplete(ctx context.Context, session string) error
}

// Options configures a wizard run.
type Options struct {
	Plan           *plan.Plan       // plan to edit; a fresh weekly plan when nil
	Session        string           // session name used with Recorder
	Recorder       Recorder         // optional persistence
	Resume         *wizard.Snapshot // navigation state to restore
	StartStep      string           // step id to start on and reset to
	LockOnComplete bool
}

// Result is what a finished wizard run produced.
type Result struct {
	Plan      *plan.Plan
	Completed bool
	Snapshot  wizard.Snapshot
}

// Model is the bubbletea model of the plan wizard.
type Model struct {
	ctx      context.Context
	engine   *wizard.Engine
	plan     *plan.Plan
	session  string
	recorder Recorder

	configForm *form
	listForms  map[string]*form
	progress   progress.Model

	width  int
	height int

	completed bool
	cancelled bool
	status    string
	statusBad bool
}

// New builds a wizard model around opts.Plan.
func New(ctx context.Context, opts Options) (*Model, error) {
	p := opts.Plan
	if p == nil {
		p = plan.New(plan.Weekly)
	}

	m := &Model{
		ctx:      ctx,
		plan:     p,
		session:  opts.Session,
		recorder: opts.Recorder,
		width:    80,
		height:   24,
	}

	steps := plan.Steps(p)
	initial := 0
	if opts.StartStep != "" {
		initial = -1
		for i, s := range steps {
			if s.ID == opts.StartStep {
				initial = i
				break
			}
		}
		if initial < 0 {
			return nil, fmt.Errorf("%w: unknown step %q", wizard.ErrInitialStep, opts.StartStep)
		}
	}

	engine, err := wizard.New(steps,
		wizard.WithInitialStep(initial),
		wizard.WithOnComplete(m.onComplete),
		wizard.WithObserver(m.onTransition),
		wizard.WithLockOnComplete(opts.LockOnComplete),
	)
	if err != nil {
		return nil, err
	}
	if opts.Resume != nil {
		engine.Restore(*opts.Resume)
	}
	m.engine = engine

	m.configForm = newForm(
		[]string{"Plan name", "Period (weekly or monthly)", "Start date (YYYY-MM-DD, optional)"},
		[]string{"Family week", string(plan.Weekly), "2026-01-05"},
	)
	m.configForm.setValues(p.Settings.Name, string(p.Settings.Period), p.Settings.StartDate)

	m.listForms = make(map[string]*form)
	for _, s := range steps {
		fields := plan.Fields(s.ID)
		if fields == nil {
			continue
		}
		labels := make([]string, len(fields))
		for i, f := range fields {
			labels[i] = strings.ToUpper(f[:1]) + f[1:]
			if i == 0 {
				labels[i] += " (required)"
			}
		}
		m.listForms[s.ID] = newForm(labels, nil)
	}

	m.progress = progress.New(
		progress.WithDefaultBlend(),
		progress.WithoutPercentage(),
		progress.WithWidth(40),
	)
	m.resize()

	return m, nil
}

// Engine exposes the underlying navigation engine.
func (m *Model) Engine() *wizard.Engine { return m.engine }

// Plan returns the plan being edited.
func (m *Model) Plan() *plan.Plan { return m.plan }

// Completed reports whether the wizard ran past its last step.
func (m *Model) Completed() bool { return m.completed }

// Cancelled reports whether the user left the wizard.
func (m *Model) Cancelled() bool { return m.cancelled }

// Run starts a standalone bubbletea program for the wizard and blocks until
// it exits. ErrCancelled is returned, with the partial result, when the user
// leaves before completion.
func Run(ctx context.Context, opts Options) (*Result, error) {
	m, err := New(ctx, opts)
	if err != nil {
		return nil, err
	}

	finalModel, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	wm, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", finalModel)
	}

	res := &Result{
		Plan:      wm.plan,
		Completed: wm.completed,
		Snapshot:  wm.engine.Snapshot(),
	}
	if wm.cancelled {
		return res, ErrCancelled
	}
	return res, nil
}

// Init focuses the form of the starting step.
func (m *Model) Init() tea.Cmd {
	return m.focusForm()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case NotesEditedMsg:
		m.plan.Settings.Notes = strings.TrimSpace(msg.Notes)
		m.setStatus("Notes updated", false)
		m.saveDraft()
		return m, nil

	case editorFailedMsg:
		m.setStatus("Editor failed: "+msg.err.Error(), true)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, m.currentForm().update(msg)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		m.syncSettings()
		m.saveDraft()
		m.cancelled = true
		return m, tea.Quit

	case "esc":
		if m.engine.IsFirstStep() {
			m.syncSettings()
			m.saveDraft()
			m.cancelled = true
			return m, tea.Quit
		}
		m.status = ""
		m.engine.PrevStep()
		return m, m.focusForm()

	case "enter":
		return m, m.submit()

	case "ctrl+s":
		m.syncSettings()
		// Skipping from a required step must not bypass its gate.
		if !m.engine.IsOptionalStep() && !m.engine.CanProceed() {
			m.setStatus("Resolve the problems above to continue", true)
			return m, nil
		}
		if m.engine.Finished() {
			m.setStatus(finishedStatus, true)
			return m, nil
		}
		m.status = ""
		m.engine.SkipOptionalSteps()
		return m, m.afterNav()

	case "ctrl+e":
		if m.currentID() == plan.StepConfig {
			return m, m.editNotes()
		}
		return m, nil

	case "ctrl+x":
		m.removeLast()
		return m, nil

	case "tab", "down":
		return m, m.currentForm().next()

	case "shift+tab", "up":
		return m, m.currentForm().prev()
	}

	if n, ok := jumpTarget(key); ok {
		if !reachable(m.engine, n) {
			m.setStatus(fmt.Sprintf("Step %d is not reachable yet", n+1), true)
			return m, nil
		}
		m.syncSettings()
		m.status = ""
		m.engine.GoToStep(n)
		return m, m.focusForm()
	}

	cmd := m.currentForm().update(msg)
	if m.currentID() == plan.StepConfig {
		m.syncSettings()
	}
	return m, cmd
}

// submit adds the pending entry on list steps and otherwise advances.
func (m *Model) submit() tea.Cmd {
	id := m.currentID()
	if f, ok := m.listForms[id]; ok && !f.empty() {
		if err := m.plan.Add(id, f.values()...); err != nil {
			m.setStatus(err.Error(), true)
			return nil
		}
		f.clear()
		m.setStatus("Added "+m.lastEntry(id), false)
		m.saveDraft()
		return f.focusFirst()
	}

	m.syncSettings()
	if m.engine.Finished() {
		m.setStatus(finishedStatus, true)
		return nil
	}
	before := m.engine.CurrentStep()
	m.status = ""
	m.engine.NextStep()
	if !m.completed && m.engine.CurrentStep() == before {
		m.setStatus("Resolve the problems above to continue", true)
	}
	return m.afterNav()
}

func (m *Model) afterNav() tea.Cmd {
	if m.completed {
		return tea.Quit
	}
	return m.focusForm()
}

func (m *Model) removeLast() {
	id := m.currentID()
	entries := m.plan.Entries(id)
	if len(entries) == 0 {
		return
	}
	m.plan.RemoveAt(id, len(entries)-1)
	m.setStatus("Removed "+entries[len(entries)-1], false)
	m.saveDraft()
}

func (m *Model) lastEntry(id string) string {
	entries := m.plan.Entries(id)
	if len(entries) == 0 {
		return ""
	}
	return entries[len(entries)-1]
}

// syncSettings copies the config form into the plan so the step's gate sees
// what is on screen.
func (m *Model) syncSettings() {
	v := m.configForm.values()
	m.plan.Settings.Name = v[0]
	m.plan.Settings.Period = plan.Period(strings.ToLower(v[1]))
	m.plan.Settings.StartDate = v[2]
}

func (m *Model) currentID() string {
	return m.engine.CurrentStepData().ID
}

func (m *Model) currentForm() *form {
	if f, ok := m.listForms[m.currentID()]; ok {
		return f
	}
	return m.configForm
}

func (m *Model) focusForm() tea.Cmd {
	m.configForm.blur()
	for _, f := range m.listForms {
		f.blur()
	}
	return m.currentForm().focusFirst()
}

func (m *Model) resize() {
	w := m.modalWidth() - 10
	m.configForm.setWidth(w)
	for _, f := range m.listForms {
		f.setWidth(w)
	}
	m.progress.SetWidth(min(w, 60))
}

func (m *Model) setStatus(s string, bad bool) {
	m.status = s
	m.statusBad = bad
}

func (m *Model) onComplete() {
	m.completed = true
}

// onTransition persists every engine state change when a recorder is set.
func (m *Model) onTransition(t wizard.Transition) {
	logger.Debug("wizard %s: %s %d -> %d (completed=%t)", m.session, t.Op, t.From, t.To, t.Completed)
	if m.recorder == nil {
		return
	}
	m.saveDraft()
	if err := m.recorder.SaveProgress(m.ctx, m.session, t.Op, m.engine.Snapshot()); err != nil {
		logger.Error("Failed to save progress: %v", err)
		m.setStatus("Could not save progress: "+err.Error(), true)
	}
	if t.Completed {
		if err := m.recorder.MarkComplete(m.ctx, m.session); err != nil {
			logger.Error("Failed to mark session complete: %v", err)
		}
	}
}

func (m *Model) saveDraft() {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.SaveDraft(m.ctx, m.session, m.plan); err != nil {
		logger.Error("Failed to save draft: %v", err)
		m.setStatus("Could not save draft: "+err.Error(), true)
	}
}

// NotesEditedMsg carries the notes text back from the external editor.
type NotesEditedMsg struct {
	Notes string
}

type editorFailedMsg struct{ err error }

// editNotes opens $EDITOR on the plan notes.
func (m *Model) editNotes() tea.Cmd {
	tmp, err := os.CreateTemp("", "planr_notes_*.md")
	if err != nil {
		m.setStatus("Cannot create notes file: "+err.Error(), true)
		return nil
	}
	if _, err := tmp.WriteString(m.plan.Settings.Notes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		m.setStatus("Cannot write notes file: "+err.Error(), true)
		return nil
	}
	_ = tmp.Close()

	cmd, err := editor.Command("planr", tmp.Name())
	if err != nil {
		_ = os.Remove(tmp.Name())
		m.setStatus("No editor available: "+err.Error(), true)
		return nil
	}

	path := tmp.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(path) }()
		if err != nil {
			return editorFailedMsg{err: err}
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return editorFailedMsg{err: err}
		}
		return NotesEditedMsg{Notes: string(content)}
	})
}

// View renders the wizard.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := m.renderModal(m.renderStep())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

func (m *Model) renderStep() string {
	e := m.engine
	step := e.CurrentStepData()
	var sections []string

	sections = append(sections, renderStepper(e))
	pct := e.Progress()
	sections = append(sections, m.progress.ViewAs(float64(pct)/100)+styleLabel.Render(fmt.Sprintf(" %d%%", pct)))
	sections = append(sections, "")

	heading := step.Icon + " " + step.Label
	if step.Optional {
		heading += styleStepOptional.Render(" (optional)")
	}
	sections = append(sections, styleSectionTitle.Render(heading), "")

	if step.ID == plan.StepConfig {
		sections = append(sections, m.configForm.view())
		notes := "none"
		if n := m.plan.Settings.Notes; n != "" {
			notes = fmt.Sprintf("%d lines", strings.Count(n, "\n")+1)
		}
		sections = append(sections, "", styleLabel.Render("Notes: ")+styleEntry.Render(notes))
	} else {
		entries := m.plan.Entries(step.ID)
		if len(entries) == 0 {
			sections = append(sections, styleEmpty.Render("Nothing added yet"))
		}
		for i, entry := range entries {
			sections = append(sections, styleEntry.Render(fmt.Sprintf("%2d. %s", i+1, entry)))
		}
		sections = append(sections, "", m.currentForm().view())
	}

	if !e.CanProceed() {
		sections = append(sections, "")
		for _, p := range m.plan.Problems(step.ID) {
			sections = append(sections, styleProblem.Render("✗ "+p))
		}
	}

	if m.status != "" {
		style := styleStatus
		if m.statusBad {
			style = styleStatusWarn
		}
		sections = append(sections, "", style.Render(m.status))
	}

	bar := NewButtonBar(navButtons(e.IsFirstStep(), e.IsLastStep(), e.IsOptionalStep(), e.CanProceed()))
	bar.SetWidth(m.modalWidth() - 6)
	sections = append(sections, "", bar.Render(), "", m.hints())

	return strings.Join(sections, "\n")
}

func (m *Model) hints() string {
	e := m.engine
	back := "back"
	if e.IsFirstStep() {
		back = "cancel"
	}
	pairs := []string{"enter", "next", "tab", "field", "esc", back}
	if _, ok := m.listForms[m.currentID()]; ok {
		pairs[1] = "add/next"
		pairs = append(pairs, "ctrl+x", "remove last")
	}
	if e.IsOptionalStep() {
		pairs = append(pairs, "ctrl+s", "skip")
	}
	if m.currentID() == plan.StepConfig && os.Getenv("EDITOR") != "" {
		pairs = append(pairs, "ctrl+e", "notes")
	}
	pairs = append(pairs, "alt+1-9", "jump")
	return renderHintBar(pairs...)
}

// renderModal wraps the step content in the centered modal with a title.
func (m *Model) renderModal(body string) string {
	e := m.engine
	title := fmt.Sprintf("Plan Wizard - Step %d of %d: %s", e.CurrentStep()+1, e.TotalSteps(), e.CurrentStepData().Label)
	content := styleModalTitle.Render(title) + "\n\n" + body

	modal := styleModalContainer.Width(m.modalWidth()).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m *Model) modalWidth() int {
	return min(max(m.width-10, 60), 100)
}
