// Package theme holds the color palette shared by planr's terminal output.
package theme

// Theme defines the color palette. Colors are #RRGGBB hex strings.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string
}

var current = NewCatppuccinMocha()

// Current returns the active theme.
func Current() *Theme {
	return current
}
