// Package watch is the interactive live view of a backend: statistics, the
// stream page of one query, and mark editing on selected streams. It polls
// the root store and redraws on every change the store reports.
package watch

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/tapview/pkg/models"
	"github.com/grovetools/tapview/pkg/store"
	"github.com/grovetools/tapview/tui/theme"
)

// DefaultInterval is used when Config.Interval is zero.
const DefaultInterval = 5 * time.Second

// Config configures a watch Model.
type Config struct {
	Root *store.Root
	// Streams receives the search results. It should be registered with
	// Root as a marker so mark changes patch it.
	Streams *store.StreamsStore
	Query   string
	// Interval between scheduled refreshes. Negative disables polling.
	Interval  time.Duration
	MarkColor string
	Context   context.Context
	Theme     *theme.Theme
}

type inputAction int

const (
	inputNone inputAction = iota
	inputMark
	inputUnmark
)

// Model is the bubbletea model of the watch view.
type Model struct {
	ctx       context.Context
	root      *store.Root
	streams   *store.StreamsStore
	open      *store.StreamStore
	changes   chan store.Change
	query     string
	interval  time.Duration
	markColor string
	theme     *theme.Theme

	keys    KeyMap
	help    help.Model
	input   textinput.Model
	pending inputAction

	cursor   int
	selected map[uint64]bool
	detail   bool
	width    int
	height   int

	lastRefresh time.Time
	err         error
	notice      string
}

// New creates the model, subscribes it to the root store and registers its
// open-stream store as a marker. Call Close when the program ends.
func New(cfg Config) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	th := cfg.Theme
	if th == nil {
		th = theme.DefaultTheme
	}
	streams := cfg.Streams
	if streams == nil {
		streams = store.NewStreamsStore()
		cfg.Root.AddMarker(streams)
	}

	open := store.NewStreamStore()
	cfg.Root.AddMarker(open)

	ti := textinput.New()
	ti.Placeholder = "mark name"
	ti.Prompt = "mark/"
	ti.CharLimit = 128

	return Model{
		ctx:       ctx,
		root:      cfg.Root,
		streams:   streams,
		open:      open,
		changes:   cfg.Root.Subscribe(),
		query:     cfg.Query,
		interval:  interval,
		markColor: cfg.MarkColor,
		theme:     th,
		keys:      defaultKeyMap,
		help:      help.New(),
		input:     ti,
		selected:  make(map[uint64]bool),
	}
}

// Close ends the store subscription. It is safe to call more than once.
func (m Model) Close() {
	m.root.Unsubscribe(m.changes)
}

// Init starts the first refresh and the change listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(true), waitForChange(m.changes))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case tickMsg:
		return m, m.refresh(true)

	case refreshedMsg:
		m.err = msg.err
		m.lastRefresh = msg.at
		m.clampCursor()
		if msg.scheduled {
			return m, m.tick()
		}
		return m, nil

	case changeMsg:
		m.clampCursor()
		return m, waitForChange(m.changes)

	case streamOpenedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.detail = false
			return m, nil
		}
		m.err = nil
		m.detail = true
		return m, nil

	case markedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = markNotice(msg)
		m.selected = make(map[uint64]bool)
		return m, nil

	case tea.KeyMsg:
		if m.pending != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll {
		m.help.ShowAll = false
		return m, nil
	}

	rows := m.rows()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = true

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(rows)-1, 0)

	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(rows) {
			id := rows[m.cursor].Stream.ID
			if m.selected[id] {
				delete(m.selected, id)
			} else {
				m.selected[id] = true
			}
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		}

	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(rows) {
			return m, m.openStream(rows[m.cursor].Stream.ID)
		}

	case key.Matches(msg, m.keys.Close):
		if m.detail {
			m.detail = false
			m.open.Clear()
		}

	case key.Matches(msg, m.keys.Mark), key.Matches(msg, m.keys.Unmark):
		if len(m.targets()) == 0 {
			m.notice = "No stream to mark"
			return m, nil
		}
		m.pending = inputMark
		if key.Matches(msg, m.keys.Unmark) {
			m.pending = inputUnmark
		}
		m.notice = ""
		blink := m.input.Focus()
		return m, blink

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh(false)
	}

	return m, nil
}

// updateInput feeds keys to the mark name prompt.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.endInput()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		add := m.pending == inputMark
		m.endInput()
		if value == "" {
			return m, nil
		}
		return m, m.applyMark(models.CategoryMark.Qualify(value), m.targets(), add)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endInput() {
	m.pending = inputNone
	m.input.Blur()
	m.input.Reset()
}

// rows returns the current stream page.
func (m Model) rows() []models.StreamResult {
	res := m.streams.Result()
	if res == nil {
		return nil
	}
	return res.Results
}

// targets returns the selected stream ids, or the stream under the cursor
// when nothing is selected.
func (m Model) targets() []uint64 {
	if len(m.selected) > 0 {
		ids := make([]uint64, 0, len(m.selected))
		for id := range m.selected {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		return ids
	}
	rows := m.rows()
	if m.cursor < len(rows) {
		return []uint64{rows[m.cursor].Stream.ID}
	}
	return nil
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
