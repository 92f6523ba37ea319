// Package profiling records nested wall-clock spans for a single tapctl run
// and prints them as a table when the run ends.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/grovetools/tapview/tui/components/table"
)

// Stopper ends a span started with Start.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	depth    int
	start    time.Time
	duration time.Duration
	done     bool
}

// Profiler collects spans in start order. Spans nest by call order: a span
// started while another is open becomes its child.
type Profiler struct {
	mu      sync.Mutex
	enabled bool
	started time.Time
	spans   []*span
	open    []*span
}

var defaultProfiler = &Profiler{}

// Enable turns on the global profiler. Spans started before Enable are not
// recorded.
func Enable() {
	defaultProfiler.Enable()
}

// Start opens a span on the global profiler.
func Start(name string) Stopper {
	return defaultProfiler.Start(name)
}

// Summarize writes the global profiler's spans to w.
func Summarize(w io.Writer) {
	defaultProfiler.Summarize(w)
}

// Enable starts recording.
func (p *Profiler) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return
	}
	p.enabled = true
	p.started = time.Now()
}

// Start opens a span. It is a no-op until the profiler is enabled.
func (p *Profiler) Start(name string) Stopper {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return noopStopper{}
	}
	s := &span{name: name, depth: len(p.open), start: time.Now()}
	p.spans = append(p.spans, s)
	p.open = append(p.open, s)
	return &stopper{p: p, s: s}
}

func (p *Profiler) stop(s *span) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	s.duration = time.Since(s.start)
	for i := len(p.open) - 1; i >= 0; i-- {
		if p.open[i] == s {
			p.open = append(p.open[:i], p.open[i+1:]...)
			break
		}
	}
}

// Summarize writes one row per span with its share of the total run time.
// Spans still open are measured up to now.
func (p *Profiler) Summarize(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled || len(p.spans) == 0 {
		return
	}

	total := time.Since(p.started)
	rows := make([][]string, 0, len(p.spans))
	for _, s := range p.spans {
		d := s.duration
		if !s.done {
			d = time.Since(s.start)
		}
		share := 0.0
		if total > 0 {
			share = float64(d) / float64(total) * 100
		}
		rows = append(rows, []string{
			strings.Repeat("  ", s.depth) + s.name,
			d.Round(100 * time.Microsecond).String(),
			fmt.Sprintf("%.1f%%", share),
		})
	}

	fmt.Fprintln(w, table.NewBuilder().
		WithHeaders("SPAN", "DURATION", "SHARE").
		WithRows(rows...).
		WithMutedColumns(2).
		Render())
	fmt.Fprintf(w, "total %s\n", total.Round(100*time.Microsecond))
}

type stopper struct {
	p *Profiler
	s *span
}

func (s *stopper) Stop() {
	s.p.stop(s.s)
}

type noopStopper struct{}

func (noopStopper) Stop() {}
