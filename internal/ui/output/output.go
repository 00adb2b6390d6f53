// Package output provides termenv helpers shared by the logger and the CLI renderers.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Palette used across terminal output.
const (
	Slate  = "#94A3B8"
	Yellow = "#EAB308"
	Red    = "#EF4444"
	Green  = "#22C55E"
	Cyan   = "#06B6D4"
)

// Icons used across terminal output.
const (
	Warning = "!"
	Cross   = "✗"
	Check   = "✓"
)

// ColorProfile returns the color profile for the current environment.
// NO_COLOR disables colors.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a termenv.Output for w using ColorProfile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)
	return termenv.NewOutput(w, opts...)
}

// NewPlain creates a termenv.Output for w that never emits escape sequences.
func NewPlain(w io.Writer) *termenv.Output {
	return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
}

// Paint renders s in the given hex color.
func Paint(out *termenv.Output, s, hex string) string {
	return out.String(s).Foreground(out.Color(hex)).String()
}
