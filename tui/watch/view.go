package watch

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/grovetools/tapview/pkg/models"
	"github.com/grovetools/tapview/tui/components/table"
)

// View renders the watch view.
func (m Model) View() string {
	if m.help.ShowAll {
		return m.help.View(m.keys)
	}

	sections := []string{m.viewHeader(), m.viewStreams()}
	if m.detail {
		if d := m.viewDetail(); d != "" {
			sections = append(sections, d)
		}
	}
	sections = append(sections, m.viewFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader() string {
	t := m.theme

	query := m.query
	if query == "" {
		query = "all streams"
	}
	refreshed := "loading"
	if !m.lastRefresh.IsZero() {
		refreshed = "refreshed " + humanize.Time(m.lastRefresh)
	}
	title := t.Accent.Render("tapview") + "  " + t.Bold.Render(query) + "  " + t.Muted.Render(refreshed)

	stats := t.Muted.Render("no statistics yet")
	if s := m.root.Status(); s != nil {
		jobs := t.Success.Render("idle")
		if s.Busy() {
			jobs = t.Warning.Render("busy")
		}
		stats = fmt.Sprintf("%s streams  %s packets  %s pcaps  jobs %s",
			humanize.Comma(int64(s.StreamCount)),
			humanize.Comma(int64(s.PacketCount)),
			humanize.Comma(int64(s.PcapCount)),
			jobs)
	}

	marks := m.root.GroupedTags().Names(models.CategoryMark)
	markLine := t.Muted.Render("marks:") + " none"
	if len(marks) > 0 {
		markLine = t.Muted.Render("marks:") + " " + strings.Join(marks, ", ")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, stats, markLine, "")
}

func (m Model) viewStreams() string {
	rows := m.rows()
	colors := m.tagColors()

	first, last := m.visibleRange(len(rows))
	out := make([][]string, 0, last-first)
	for i := first; i < last; i++ {
		r := rows[i]
		marker := "  "
		if i == m.cursor {
			marker = "›" + marker[1:]
		}
		if m.selected[r.Stream.ID] {
			marker = marker[:len(marker)-1] + "●"
		}
		out = append(out, []string{
			marker,
			strconv.FormatUint(r.Stream.ID, 10),
			r.Stream.Protocol,
			hostPort(r.Stream.Client),
			hostPort(r.Stream.Server),
			humanize.Bytes(r.Stream.Client.Bytes + r.Stream.Server.Bytes),
			renderTags(r.Tags, colors),
		})
	}

	rendered := table.NewBuilder().
		WithTheme(m.theme).
		WithBorder(false).
		WithHeaders("", "ID", "PROTO", "CLIENT", "SERVER", "BYTES", "TAGS").
		WithRows(out...).
		WithNumericColumns(1, 5).
		WithWidth(m.width).
		WithEmptyMessage("No streams match").
		Render()

	if res := m.streams.Result(); res != nil && res.MoreResults {
		rendered += "\n" + m.theme.Muted.Render("more results not shown")
	}
	return rendered
}

// visibleRange returns the window of rows that fits the terminal and keeps
// the cursor in view.
func (m Model) visibleRange(n int) (int, int) {
	if m.height <= 0 {
		return 0, n
	}
	room := m.height - 12
	if m.detail {
		room -= 8
	}
	room = max(room, 3)
	if n <= room {
		return 0, n
	}
	first := max(m.cursor-room+1, 0)
	return first, min(first+room, n)
}

func (m Model) viewDetail() string {
	s := m.open.Stream()
	if s == nil {
		return ""
	}
	t := m.theme
	colors := m.tagColors()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", t.Bold.Render(fmt.Sprintf("Stream %d", s.Stream.ID)), s.Stream.Protocol)
	fmt.Fprintf(&b, "%s → %s\n", hostPort(s.Stream.Client), hostPort(s.Stream.Server))
	fmt.Fprintf(&b, "%s %s, %s %s\n",
		t.Muted.Render("client sent"), humanize.Bytes(s.Stream.Client.Bytes),
		t.Muted.Render("server sent"), humanize.Bytes(s.Stream.Server.Bytes))
	if !s.Stream.FirstPacket.IsZero() {
		fmt.Fprintf(&b, "%s %s\n", t.Muted.Render("first packet"), s.Stream.FirstPacket.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(&b, "%s %s\n", t.Muted.Render("tags"), orNone(renderTags(s.Tags, colors)))
	converters := orNone(strings.Join(s.Converters, ", "))
	if s.ActiveConverter != "" {
		converters += " (showing " + s.ActiveConverter + ")"
	}
	fmt.Fprintf(&b, "%s %s\n", t.Muted.Render("converters"), converters)
	fmt.Fprintf(&b, "%s %d", t.Muted.Render("chunks"), len(s.Data))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Colors.Border).
		Padding(0, 1).
		Render(b.String())
}

func (m Model) viewFooter() string {
	t := m.theme
	var lines []string
	switch m.pending {
	case inputMark:
		lines = append(lines, t.Info.Render("Add to")+" "+m.input.View())
	case inputUnmark:
		lines = append(lines, t.Info.Render("Remove from")+" "+m.input.View())
	}
	if m.err != nil {
		lines = append(lines, t.Error.Render(m.err.Error()))
	} else if m.notice != "" {
		lines = append(lines, t.Success.Render(m.notice))
	}
	lines = append(lines, m.help.View(m.keys))
	return "\n" + strings.Join(lines, "\n")
}

// tagColors maps tag names to their colors from the cached tag list.
func (m Model) tagColors() map[string]string {
	tags := m.root.Tags()
	colors := make(map[string]string, len(tags))
	for _, tag := range tags {
		colors[tag.Name] = tag.Color
	}
	return colors
}

func renderTags(tags []string, colors map[string]string) string {
	parts := make([]string, 0, len(tags))
	for _, name := range tags {
		style := lipgloss.NewStyle()
		if c, ok := colors[name]; ok && c != "" {
			style = style.Foreground(lipgloss.Color(c))
		}
		parts = append(parts, style.Render(name))
	}
	return strings.Join(parts, " ")
}

func hostPort(hp models.HostPort) string {
	return net.JoinHostPort(hp.Host, strconv.Itoa(int(hp.Port)))
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func markNotice(msg markedMsg) string {
	streams := "1 stream"
	if msg.count != 1 {
		streams = fmt.Sprintf("%d streams", msg.count)
	}
	if msg.add {
		return fmt.Sprintf("Added %s to %s", streams, msg.name)
	}
	return fmt.Sprintf("Removed %s from %s", streams, msg.name)
}
