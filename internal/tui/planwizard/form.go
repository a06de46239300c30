package planwizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// inputStyles is shared by every text input of the wizard.
var inputStyles = textinput.Styles{
	Focused: textinput.StyleState{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgBase)),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgSubtle)),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(th.Tertiary)),
	},
	Blurred: textinput.StyleState{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgSubtle)),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(th.BgSurface2)),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted)),
	},
	Cursor: textinput.CursorStyle{
		Color: lipgloss.Color(th.Primary),
		Shape: tea.CursorBar,
		Blink: true,
	},
}

// form is a vertical stack of labelled single-line inputs with one focused.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(labels, placeholders []string) *form {
	f := &form{labels: labels}
	for i := range labels {
		in := textinput.New()
		in.Prompt = "› "
		if i < len(placeholders) {
			in.Placeholder = placeholders[i]
		}
		in.SetStyles(inputStyles)
		in.SetWidth(50)
		f.inputs = append(f.inputs, in)
	}
	return f
}

// focusFirst focuses the first input and blurs the rest.
func (f *form) focusFirst() tea.Cmd {
	f.focus = 0
	return f.updateFocus()
}

func (f *form) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// next moves focus down, wrapping around.
func (f *form) next() tea.Cmd {
	f.focus = (f.focus + 1) % len(f.inputs)
	return f.updateFocus()
}

// prev moves focus up, wrapping around.
func (f *form) prev() tea.Cmd {
	f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
	return f.updateFocus()
}

func (f *form) updateFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

// update forwards msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// values returns the trimmed input values in field order.
func (f *form) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = strings.TrimSpace(in.Value())
	}
	return out
}

// empty reports whether every input is blank.
func (f *form) empty() bool {
	for _, v := range f.values() {
		if v != "" {
			return false
		}
	}
	return true
}

func (f *form) setValues(vals ...string) {
	for i := range f.inputs {
		v := ""
		if i < len(vals) {
			v = vals[i]
		}
		f.inputs[i].SetValue(v)
	}
}

func (f *form) clear() {
	f.setValues()
}

func (f *form) setWidth(w int) {
	for i := range f.inputs {
		f.inputs[i].SetWidth(w)
	}
}

func (f *form) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styleLabel.Render(f.labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
	}
	return b.String()
}
