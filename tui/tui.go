// Package tui configures terminal styling for tapview's CLI output.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Color modes accepted by ConfigureColor.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorProfile picks the lipgloss color profile for output written to out.
//
// In auto mode NO_COLOR or a non-terminal out disables color, while
// CLICOLOR_FORCE=1 or COLORTERM=truecolor forces full color.
func ColorProfile(mode string, out *os.File) termenv.Profile {
	switch mode {
	case ColorNever:
		return termenv.Ascii
	case ColorAlways:
		return termenv.TrueColor
	}

	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		return termenv.TrueColor
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return termenv.Ascii
	}
	if out == nil || !(isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return termenv.Ascii
	}
	return termenv.NewOutput(out).EnvColorProfile()
}

// ConfigureColor applies ColorProfile to the default lipgloss renderer.
func ConfigureColor(mode string, out *os.File) {
	lipgloss.SetColorProfile(ColorProfile(mode, out))
}
