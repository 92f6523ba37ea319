// Package theme holds the lipgloss styles shared by tapview's CLI output.
package theme

import (
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EnvTheme selects the palette ("kanagawa" or "terminal").
const EnvTheme = "TAPVIEW_THEME"

const defaultThemeName = "kanagawa"

// --- Kanagawa Dragon palette ---
const (
	kanagawaGreen     = "#98BB6C"
	kanagawaYellow    = "#FF9E3B"
	kanagawaRed       = "#FF5D62"
	kanagawaOrange    = "#FFA066"
	kanagawaCyan      = "#7E9CD8"
	kanagawaViolet    = "#957FB8"
	kanagawaPink      = "#D27E99"
	kanagawaMutedText = "#727169"
	kanagawaBorder    = "#363646"
)

// --- Terminal (ANSI-friendly) palette ---
const (
	terminalGreen     = "2"
	terminalYellow    = "3"
	terminalRed       = "1"
	terminalOrange    = "208"
	terminalCyan      = "6"
	terminalViolet    = "5"
	terminalPink      = "13"
	terminalMutedText = "8"
	terminalBorder    = "8"
)

// Colors encapsulates the palette used by a theme.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Orange    lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	Violet    lipgloss.TerminalColor
	Pink      lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
}

// Theme holds the pre-configured styles.
type Theme struct {
	Colors Colors

	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold   lipgloss.Style
	Normal lipgloss.Style
	Muted  lipgloss.Style

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableBorder lipgloss.Style

	Accent lipgloss.Style

	// Tag category headings, keyed by category name
	Categories map[string]lipgloss.Style
}

var themeRegistry = map[string]func() Colors{
	"kanagawa": newKanagawaColors,
	"terminal": newTerminalColors,
}

// DefaultTheme is the theme selected by TAPVIEW_THEME.
var DefaultTheme = NewThemeWithName(os.Getenv(EnvTheme))

// NewThemeWithName constructs a theme from a palette name, falling back to
// the default palette for unknown names.
func NewThemeWithName(name string) *Theme {
	key := strings.ToLower(strings.TrimSpace(name))
	builder, ok := themeRegistry[key]
	if !ok {
		builder = themeRegistry[defaultThemeName]
	}
	return newThemeFromColors(builder())
}

func newThemeFromColors(colors Colors) *Theme {
	return &Theme{
		Colors: colors,
		Header: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),
		Success: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),
		Info: lipgloss.NewStyle().
			Foreground(colors.Cyan).
			Bold(true),
		Bold: lipgloss.NewStyle().
			Bold(true),
		Normal: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().
			Faint(true),
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),
		TableRow: lipgloss.NewStyle().
			Padding(0, 1),
		TableBorder: lipgloss.NewStyle().
			Foreground(colors.Border),
		Accent: lipgloss.NewStyle().
			Foreground(colors.Violet).
			Bold(true),
		Categories: map[string]lipgloss.Style{
			"tag":       lipgloss.NewStyle().Foreground(colors.Cyan).Bold(true),
			"service":   lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
			"mark":      lipgloss.NewStyle().Foreground(colors.Orange).Bold(true),
			"generated": lipgloss.NewStyle().Foreground(colors.Pink).Bold(true),
		},
	}
}

func newKanagawaColors() Colors {
	return Colors{
		Green:     lipgloss.Color(kanagawaGreen),
		Yellow:    lipgloss.Color(kanagawaYellow),
		Red:       lipgloss.Color(kanagawaRed),
		Orange:    lipgloss.Color(kanagawaOrange),
		Cyan:      lipgloss.Color(kanagawaCyan),
		Violet:    lipgloss.Color(kanagawaViolet),
		Pink:      lipgloss.Color(kanagawaPink),
		MutedText: lipgloss.Color(kanagawaMutedText),
		Border:    lipgloss.Color(kanagawaBorder),
	}
}

func newTerminalColors() Colors {
	return Colors{
		Green:     lipgloss.Color(terminalGreen),
		Yellow:    lipgloss.Color(terminalYellow),
		Red:       lipgloss.Color(terminalRed),
		Orange:    lipgloss.Color(terminalOrange),
		Cyan:      lipgloss.Color(terminalCyan),
		Violet:    lipgloss.Color(terminalViolet),
		Pink:      lipgloss.Color(terminalPink),
		MutedText: lipgloss.Color(terminalMutedText),
		Border:    lipgloss.Color(terminalBorder),
	}
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether color is a CSS hex color like "#ff0000".
func ValidColor(color string) bool {
	return hexColor.MatchString(color)
}

// Swatch renders a colored dot followed by the color value. Values that are
// not hex colors are rendered without a dot.
func Swatch(color string) string {
	if !ValidColor(color) {
		return color
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
	return dot + " " + color
}

// RenderCategory renders a tag category heading.
func RenderCategory(category string) string {
	style, ok := DefaultTheme.Categories[category]
	if !ok {
		style = DefaultTheme.Bold
	}
	return style.Render(category)
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}
