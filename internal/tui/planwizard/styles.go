package planwizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/planr/internal/tui/theme"
)

var th = theme.Current()

var (
	colorPrimary       = lipgloss.Color(th.Primary)
	colorSecondary     = lipgloss.Color(th.Tertiary)
	colorText          = lipgloss.Color(th.FgBase)
	colorBase          = lipgloss.Color(th.BgBase)
	colorSubtext0      = lipgloss.Color(th.FgSubtle)
	colorSubtext1      = lipgloss.Color(th.FgBright)
	colorSurface2      = lipgloss.Color(th.BgSurface2)
	colorGreen         = lipgloss.Color(th.Success)
	colorRed           = lipgloss.Color(th.Error)
	colorYellow        = lipgloss.Color(th.Warning)
	colorBorderFocused = colorSecondary
)

var (
	styleModalContainer = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorderFocused).
				Background(colorBase).
				Padding(1, 2)

	styleModalTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Align(lipgloss.Center)

	styleSectionTitle = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Bold(true)

	styleLabel = lipgloss.NewStyle().Foreground(colorSubtext0)
	styleEntry = lipgloss.NewStyle().Foreground(colorText)
	styleEmpty = lipgloss.NewStyle().Foreground(colorSurface2).Italic(true)
)

// Stepper styles
var (
	styleStepCurrent = lipgloss.NewStyle().
				Foreground(colorBase).
				Background(colorPrimary).
				Bold(true).
				Padding(0, 1)

	styleStepDone     = lipgloss.NewStyle().Foreground(colorGreen)
	styleStepPending  = lipgloss.NewStyle().Foreground(colorSubtext1)
	styleStepOptional = lipgloss.NewStyle().Foreground(colorSurface2)
)

var (
	styleProblem    = lipgloss.NewStyle().Foreground(colorRed)
	styleStatus     = lipgloss.NewStyle().Foreground(colorGreen)
	styleStatusWarn = lipgloss.NewStyle().Foreground(colorYellow)
)

// Hint bar styles
var (
	styleHintKey = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Bold(true)

	styleHintDesc = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleHintSeparator = lipgloss.NewStyle().
				Foreground(colorSurface2)
)

// renderHintBar renders key-description pairs separated by bullets:
// renderHintBar("enter", "next", "esc", "back") gives "enter next • esc back".
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + styleHintSeparator.Render("•") + " ")
		}
		b.WriteString(styleHintKey.Render(pairs[i]) + " " + styleHintDesc.Render(pairs[i+1]))
	}
	return b.String()
}
