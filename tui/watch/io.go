package watch

import (
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/tapview/pkg/models"
	"github.com/grovetools/tapview/pkg/store"
)

// tickMsg triggers the next scheduled refresh.
type tickMsg time.Time

// refreshedMsg is sent when a refresh of every collection and the stream
// page finished. scheduled refreshes re-arm the ticker.
type refreshedMsg struct {
	err       error
	at        time.Time
	scheduled bool
}

// changeMsg carries one store notification.
type changeMsg store.Change

type streamOpenedMsg struct {
	id  uint64
	err error
}

type markedMsg struct {
	name  string
	count int
	add   bool
	err   error
}

func (m Model) tick() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh fetches every collection, then the first page of the query.
func (m Model) refresh(scheduled bool) tea.Cmd {
	ctx, root, page, query := m.ctx, m.root, m.streams, m.query
	return func() tea.Msg {
		err := root.RefreshAll(ctx)
		if serr := root.SearchStreams(ctx, query, 0, page); err == nil {
			err = serr
		}
		return refreshedMsg{err: err, at: time.Now(), scheduled: scheduled}
	}
}

// waitForChange blocks until the store reports a change. A closed
// subscription ends the loop.
func waitForChange(ch <-chan store.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

func (m Model) openStream(id uint64) tea.Cmd {
	ctx, root, open := m.ctx, m.root, m.open
	return func() tea.Msg {
		return streamOpenedMsg{id: id, err: root.OpenStream(ctx, id, "", open)}
	}
}

// applyMark adds ids to the mark name, creating it when it does not exist
// yet, or removes them from it. The store patches the stream page locally.
func (m Model) applyMark(name string, ids []uint64, add bool) tea.Cmd {
	ctx, root, color := m.ctx, m.root, m.markColor
	return func() tea.Msg {
		var err error
		switch {
		case !add:
			err = root.MarkTagDel(ctx, name, ids)
		case slices.Contains(root.GroupedTags().Names(models.CategoryMark), name):
			err = root.MarkTagAdd(ctx, name, ids)
		default:
			err = root.MarkTagNew(ctx, name, ids, color)
		}
		return markedMsg{name: name, count: len(ids), add: add, err: err}
	}
}
