package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/tapview/tui/theme"
)

// PrettyLogger writes short user-facing status lines, as opposed to the
// structured logs produced by NewLogger. Colors follow the active theme.
type PrettyLogger struct {
	w     io.Writer
	theme *theme.Theme
}

// NewPrettyLogger creates a pretty logger writing to stderr.
func NewPrettyLogger() *PrettyLogger {
	return &PrettyLogger{w: os.Stderr, theme: theme.DefaultTheme}
}

// WithWriter sets a custom writer for pretty output
func (p *PrettyLogger) WithWriter(w io.Writer) *PrettyLogger {
	p.w = w
	return p
}

// WithTheme replaces the theme used for styling.
func (p *PrettyLogger) WithTheme(t *theme.Theme) *PrettyLogger {
	p.theme = t
	return p
}

// Success prints message after a check mark.
func (p *PrettyLogger) Success(message string) {
	fmt.Fprintf(p.w, "%s %s\n", p.theme.Success.Render("✓"), message)
}

// Warn prints message after a warning sign.
func (p *PrettyLogger) Warn(message string) {
	fmt.Fprintf(p.w, "%s %s\n", p.theme.Warning.Render("⚠"), p.theme.Warning.Render(message))
}

// Error prints message after a cross. The message is not styled so backend
// text reaches the terminal unchanged.
func (p *PrettyLogger) Error(message string) {
	fmt.Fprintf(p.w, "%s %s\n", p.theme.Error.Render("✗"), message)
}

// Hint prints a muted follow-up line, usually after Error.
func (p *PrettyLogger) Hint(message string) {
	fmt.Fprintln(p.w, p.theme.Muted.Render(message))
}

// Field prints a key-value pair.
func (p *PrettyLogger) Field(key string, value interface{}) {
	fmt.Fprintf(p.w, "%s: %s\n", p.theme.Muted.Render(key), p.theme.Bold.Render(fmt.Sprint(value)))
}
