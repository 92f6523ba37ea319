package store

import (
	"sync"

	"github.com/grovetools/tapview/pkg/models"
)

// StreamStore owns the single stream currently opened for inspection.
type StreamStore struct {
	mu     sync.RWMutex
	stream *models.StreamData
}

// NewStreamStore creates an empty StreamStore.
func NewStreamStore() *StreamStore {
	return &StreamStore{}
}

// Set replaces the open stream. A nil stream closes it.
func (s *StreamStore) Set(stream *models.StreamData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stream = stream.Clone()
}

// Stream returns a copy of the open stream, or nil if none is open.
func (s *StreamStore) Stream() *models.StreamData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stream.Clone()
}

// Clear closes the open stream.
func (s *StreamStore) Clear() {
	s.Set(nil)
}

// ApplyTagDelta patches the open stream if the filter includes it.
func (s *StreamStore) ApplyTagDelta(name string, filter StreamFilter, add bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil || !filter.Includes(s.stream.Stream.ID) {
		return 0
	}
	tags, changed := applyTag(s.stream.Tags, name, add)
	if !changed {
		return 0
	}
	s.stream.Tags = tags
	return 1
}

// StreamsStore owns the current page of stream search results.
type StreamsStore struct {
	mu     sync.RWMutex
	result *models.StreamsResult
}

// NewStreamsStore creates an empty StreamsStore.
func NewStreamsStore() *StreamsStore {
	return &StreamsStore{}
}

// Set replaces the result page.
func (s *StreamsStore) Set(result *models.StreamsResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result.Clone()
}

// Result returns a copy of the result page, or nil if none is loaded.
func (s *StreamsStore) Result() *models.StreamsResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result.Clone()
}

// Clear drops the result page.
func (s *StreamsStore) Clear() {
	s.Set(nil)
}

// ApplyTagDelta patches every result row the filter includes.
func (s *StreamsStore) ApplyTagDelta(name string, filter StreamFilter, add bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return 0
	}
	changed := 0
	for i := range s.result.Results {
		row := &s.result.Results[i]
		if !filter.Includes(row.Stream.ID) {
			continue
		}
		tags, ok := applyTag(row.Tags, name, add)
		if ok {
			row.Tags = tags
			changed++
		}
	}
	return changed
}

var (
	_ TagMarker = (*StreamStore)(nil)
	_ TagMarker = (*StreamsStore)(nil)
)
