package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tapview/tui/components/table"
	"github.com/grovetools/tapview/tui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	helpMaxWidth = 80
	helpMinWidth = 40
)

// helpWidth clamps the width of w, when it is a terminal, to a readable range.
func helpWidth(w io.Writer) int {
	f, _ := w.(*os.File)
	width := table.TerminalWidth(f)
	if width < helpMinWidth || width > helpMaxWidth {
		return helpMaxWidth
	}
	return width
}

// SetStyledHelp applies the themed help output to a command and, through
// cobra's inheritance, to its subcommands.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		renderHelp(c.OutOrStdout(), c, helpWidth(c.OutOrStdout())-2)
	})
}

// helpStyles derives the help page styles from the active theme.
type helpStyles struct {
	title, section, name, flag, muted lipgloss.Style
}

func newHelpStyles(t *theme.Theme) helpStyles {
	return helpStyles{
		title:   lipgloss.NewStyle().Bold(true).Italic(true).Foreground(t.Colors.Orange),
		section: lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Orange),
		name:    lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Cyan),
		flag:    lipgloss.NewStyle().Foreground(t.Colors.Violet),
		muted:   t.Muted,
	}
}

// entry is one row of a two-column help section.
type entry struct {
	key, text string
}

func renderHelp(w io.Writer, cmd *cobra.Command, width int) {
	st := newHelpStyles(theme.DefaultTheme)
	body := lipgloss.NewStyle().PaddingLeft(1)

	var blocks []string
	blocks = append(blocks, st.title.Render(strings.ToUpper(cmd.CommandPath())))

	description := cmd.Long
	if description == "" {
		description = cmd.Short
	}
	if description != "" {
		blocks = append(blocks, lipgloss.NewStyle().Width(width).Render(description))
	}

	var usage []string
	if cmd.Runnable() {
		usage = append(usage, cmd.UseLine())
	}
	if cmd.HasSubCommands() {
		usage = append(usage, cmd.CommandPath()+" [command]")
	}
	if len(usage) > 0 {
		blocks = append(blocks, "", st.section.Render("USAGE"), strings.Join(usage, "\n"))
	}

	var commands []entry
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			commands = append(commands, entry{sub.Name(), sub.Short})
		}
	}
	if len(commands) > 0 {
		blocks = append(blocks, "", st.section.Render("COMMANDS"), columns(commands, st.name, width))
	}

	var flags []entry
	visit := func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		text := f.Usage
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
			text += st.muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
		}
		flags = append(flags, entry{flagName(f), text})
	}
	cmd.LocalFlags().VisitAll(visit)
	cmd.InheritedFlags().VisitAll(visit)
	if len(flags) > 0 {
		blocks = append(blocks, "", st.section.Render("FLAGS"), columns(flags, st.flag, width))
	}

	if cmd.Example != "" {
		lines := strings.Split(cmd.Example, "\n")
		for i, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), "#") {
				lines[i] = st.muted.Render(strings.TrimSpace(line))
			}
		}
		blocks = append(blocks, "", st.section.Render("EXAMPLES"), strings.Join(lines, "\n"))
	}

	if cmd.HasSubCommands() {
		blocks = append(blocks, "", fmt.Sprintf("Use \"%s [command] --help\" for more information.", cmd.CommandPath()))
	}

	fmt.Fprintln(w, body.Render(lipgloss.JoinVertical(lipgloss.Left, blocks...)))
}

// columns lays out entries with the keys aligned and the text wrapped to the
// remaining width.
func columns(entries []entry, keyStyle lipgloss.Style, width int) string {
	keyWidth := 0
	for _, e := range entries {
		keyWidth = max(keyWidth, lipgloss.Width(e.key))
	}
	textWidth := max(width-keyWidth-2, 20)

	rows := make([]string, len(entries))
	for i, e := range entries {
		key := keyStyle.Width(keyWidth + 2).Render(e.key)
		text := lipgloss.NewStyle().Width(textWidth).Render(e.text)
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Top, key, text)
	}
	return strings.Join(rows, "\n")
}

// flagName formats a flag as "-f, --flag", indenting long-only flags to line up.
func flagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return "    --" + f.Name
}
