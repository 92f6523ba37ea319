package logging

import (
	"io"
	"os"
	"sync/atomic"
)

// sink is the stderr destination shared by every logger. Loggers hold the
// sink itself, so retargeting it affects loggers created earlier too.
type sink struct {
	target atomic.Pointer[io.Writer]
}

func newSink(w io.Writer) *sink {
	s := &sink{}
	s.target.Store(&w)
	return s
}

func (s *sink) Write(p []byte) (int, error) {
	return (*s.target.Load()).Write(p)
}

func (s *sink) swap(w io.Writer) io.Writer {
	return *s.target.Swap(&w)
}

var stderrSink = newSink(os.Stderr)

// SetGlobalOutput retargets the stderr sink of every logger built by
// NewLogger.
func SetGlobalOutput(w io.Writer) {
	stderrSink.swap(w)
}

// RedirectOutput retargets the stderr sink to w and returns a func that
// restores the previous target.
func RedirectOutput(w io.Writer) (restore func()) {
	prev := stderrSink.swap(w)
	return func() { stderrSink.swap(prev) }
}

// GetGlobalOutput returns the shared stderr sink.
func GetGlobalOutput() io.Writer {
	return stderrSink
}
