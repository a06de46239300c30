// Package render turns plans into terminal output: rendered markdown,
// highlighted YAML and unified diffs.
package render

import (
	"io"
	"os"
	"strings"

	"charm.land/glamour/v2"
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/colorprofile"
)

// Plain reports whether w should receive uncolored output.
func Plain(w io.Writer) bool {
	p := colorprofile.Detect(w, os.Environ())
	return p == colorprofile.NoTTY || p == colorprofile.ASCII
}

// Markdown renders md for the terminal, wrapped at width. When plain is set
// the notty style is used so no escape sequences are emitted. Rendering
// failures fall back to the source text.
func Markdown(md string, width int, plain bool) string {
	if width <= 0 || width > 120 {
		width = 120
	}

	style := "dark"
	if plain {
		style = "notty"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	rendered, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSuffix(rendered, "\n")
}

// YAML highlights YAML source for a true-color or 256-color terminal.
// Plain output returns the source unchanged.
func YAML(src string, plain bool) string {
	if plain {
		return src
	}

	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Get("terminal256")
	}
	style := styles.Get("catppuccin-mocha")
	if style == nil {
		style = styles.Fallback
	}

	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	var b strings.Builder
	if err := formatter.Format(&b, style, it); err != nil {
		return src
	}
	return b.String()
}

// Diff returns a unified diff from a to b, or "" when they are equal.
func Diff(aLabel, bLabel, a, b string) string {
	return udiff.Unified(aLabel, bLabel, a, b)
}
