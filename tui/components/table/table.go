// Package table renders lipgloss tables in tapview's theme.
package table

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/tapview/tui/theme"
	"golang.org/x/term"
)

// Builder collects headers, rows and column styling and renders them as one
// table. The zero value is not usable; start with NewBuilder.
type Builder struct {
	theme    *theme.Theme
	headers  []string
	rows     [][]string
	bordered bool
	width    int
	muted    map[int]bool
	numeric  map[int]bool
	empty    string
}

// NewBuilder returns a bordered builder using the default theme.
func NewBuilder() *Builder {
	return &Builder{
		theme:    theme.DefaultTheme,
		bordered: true,
		muted:    map[int]bool{},
		numeric:  map[int]bool{},
	}
}

// WithTheme sets the theme
func (b *Builder) WithTheme(t *theme.Theme) *Builder {
	b.theme = t
	return b
}

// WithBorder enables or disables the border
func (b *Builder) WithBorder(bordered bool) *Builder {
	b.bordered = bordered
	return b
}

// WithMutedColumns renders the given columns faint, e.g. labels and
// secondary counters.
func (b *Builder) WithMutedColumns(cols ...int) *Builder {
	for _, c := range cols {
		b.muted[c] = true
	}
	return b
}

// WithNumericColumns right-aligns the given columns.
func (b *Builder) WithNumericColumns(cols ...int) *Builder {
	for _, c := range cols {
		b.numeric[c] = true
	}
	return b
}

// WithHeaders sets the table headers
func (b *Builder) WithHeaders(headers ...string) *Builder {
	b.headers = headers
	return b
}

// WithRows appends the table rows
func (b *Builder) WithRows(rows ...[]string) *Builder {
	b.rows = append(b.rows, rows...)
	return b
}

// WithWidth caps the table width. Non-positive widths are ignored.
func (b *Builder) WithWidth(width int) *Builder {
	b.width = width
	return b
}

// WithEmptyMessage sets the line rendered instead of a table without rows.
func (b *Builder) WithEmptyMessage(msg string) *Builder {
	b.empty = msg
	return b
}

// Build creates the styled lipgloss table.
func (b *Builder) Build() *ltable.Table {
	t := b.theme
	if t == nil {
		t = theme.DefaultTheme
	}

	tbl := ltable.New().Headers(b.headers...).Rows(b.rows...)
	if b.width > 0 {
		tbl = tbl.Width(b.width)
	}
	if b.bordered {
		tbl = tbl.Border(lipgloss.RoundedBorder()).BorderStyle(t.TableBorder)
	} else {
		tbl = tbl.Border(lipgloss.HiddenBorder()).
			BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderColumn(false).
			BorderHeader(false)
	}

	return tbl.StyleFunc(func(row, col int) lipgloss.Style {
		style := t.TableRow
		switch {
		case row == ltable.HeaderRow:
			style = t.TableHeader
		case b.muted[col]:
			style = style.Foreground(t.Colors.MutedText)
		}
		if b.numeric[col] {
			style = style.Align(lipgloss.Right)
		}
		return style
	})
}

// Render builds the table and renders it, or the empty message when there
// are no rows and one was set.
func (b *Builder) Render() string {
	if len(b.rows) == 0 && b.empty != "" {
		t := b.theme
		if t == nil {
			t = theme.DefaultTheme
		}
		return t.Muted.Render(b.empty)
	}
	return b.Build().Render()
}

// TerminalWidth returns the width of f when it is a terminal, or zero.
func TerminalWidth(f *os.File) int {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
