package planwizard

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // enabled
	ButtonDisabled                    // grayed out
	ButtonFocused                     // highlighted as the default action
)

// Button is one entry of the navigation bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar lays out navigation buttons centered in a fixed width.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
	}
}

// SetWidth updates the width the bar is centered in.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Buttons returns the buttons in display order.
func (b *ButtonBar) Buttons() []Button {
	return b.buttons
}

// Render renders the bar.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	base := lipgloss.NewStyle().
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	normalStyle := base.
		Foreground(lipgloss.Color(th.FgBase)).
		Background(lipgloss.Color(th.BgSurface0))

	disabledStyle := base.
		Foreground(lipgloss.Color(th.FgMuted)).
		Background(lipgloss.Color(th.BgMantle))

	focusedStyle := base.
		Foreground(lipgloss.Color(th.BgBase)).
		Background(lipgloss.Color(th.Tertiary)).
		Bold(true)

	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, disabledStyle.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, focusedStyle.Render(btn.Label))
		default:
			rendered = append(rendered, normalStyle.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// Button labels.
const (
	labelBack   = "← Back"
	labelCancel = "Cancel"
	labelSkip   = "Skip ⇥"
	labelNext   = "Next →"
	labelFinish = "Finish ✓"
)

// navButtons builds the Back/Skip/Next set for the active step. Back turns
// into Cancel on the first step, Skip only appears on optional steps and
// Next is disabled while the step's gate is closed.
func navButtons(first, last, optional, canProceed bool) []Button {
	buttons := make([]Button, 0, 3)

	if first {
		buttons = append(buttons, Button{Label: labelCancel, State: ButtonNormal})
	} else {
		buttons = append(buttons, Button{Label: labelBack, State: ButtonNormal})
	}

	if optional {
		buttons = append(buttons, Button{Label: labelSkip, State: ButtonNormal})
	}

	next := Button{Label: labelNext, State: ButtonFocused}
	if last {
		next.Label = labelFinish
	}
	if !canProceed {
		next.State = ButtonDisabled
	}
	return append(buttons, next)
}
