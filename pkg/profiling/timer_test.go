package profiling

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledProfilerRecordsNothing(t *testing.T) {
	p := &Profiler{}
	p.Start("fetch tags").Stop()

	var buf bytes.Buffer
	p.Summarize(&buf)
	assert.Empty(t, buf.String())
}

func TestSpansNestByCallOrder(t *testing.T) {
	p := &Profiler{}
	p.Enable()

	outer := p.Start("tags add")
	p.Start("add tag").Stop()
	inner := p.Start("update tags")
	inner.Stop()
	inner.Stop()
	outer.Stop()
	p.Start("close").Stop()

	assert.Len(t, p.spans, 4)
	assert.Equal(t, []int{0, 1, 1, 0}, []int{p.spans[0].depth, p.spans[1].depth, p.spans[2].depth, p.spans[3].depth})
	assert.Empty(t, p.open)

	var buf bytes.Buffer
	p.Summarize(&buf)
	out := buf.String()
	assert.Contains(t, out, "SPAN")
	assert.Contains(t, out, "add tag")
	assert.Contains(t, out, "total ")
}
