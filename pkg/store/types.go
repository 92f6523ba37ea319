// Package store holds the client-side cache of backend state: the root store
// with its collections and actions, and the stream stores it patches when tag
// membership changes.
package store

import (
	"slices"
)

// Field names a cached part of the root store.
type Field string

const (
	FieldStatus       Field = "status"
	FieldPcaps        Field = "pcaps"
	FieldTags         Field = "tags"
	FieldConverters   Field = "converters"
	FieldClientConfig Field = "client_config"
	FieldPcapOverIP   Field = "pcap_over_ip"
	// FieldStreams and FieldStream are reported after a search or stream load
	// replaced the page or stream held by a stream store.
	FieldStreams Field = "streams"
	FieldStream  Field = "stream"
	// FieldMarks is reported after a local tag membership patch.
	FieldMarks Field = "marks"
)

// Change is broadcast to subscribers whenever a field is replaced.
type Change struct {
	Field Field
	// Tag is the tag name for FieldMarks changes.
	Tag string
}

// StreamFilter selects the streams a tag delta applies to.
// The zero value selects every stream.
type StreamFilter struct {
	ids map[uint64]struct{}
}

// AllStreams returns a filter selecting every stream.
func AllStreams() StreamFilter {
	return StreamFilter{}
}

// Streams returns a filter selecting exactly the given ids.
// With no ids it selects nothing.
func Streams(ids ...uint64) StreamFilter {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return StreamFilter{ids: set}
}

// All reports whether the filter selects every stream.
func (f StreamFilter) All() bool {
	return f.ids == nil
}

// Includes reports whether the stream with the given id is selected.
func (f StreamFilter) Includes(id uint64) bool {
	if f.ids == nil {
		return true
	}
	_, ok := f.ids[id]
	return ok
}

// IDs returns the selected ids in ascending order, or nil for AllStreams.
func (f StreamFilter) IDs() []uint64 {
	if f.ids == nil {
		return nil
	}
	ids := make([]uint64, 0, len(f.ids))
	for id := range f.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// TagMarker is implemented by stores that own streams and can apply a tag
// membership change to them without contacting the backend.
type TagMarker interface {
	// ApplyTagDelta adds (add=true) or removes the tag name on every owned
	// stream the filter includes. It returns how many streams changed.
	ApplyTagDelta(name string, filter StreamFilter, add bool) int
}

// applyTag returns tags with name added or removed. Adding a present name or
// removing an absent one leaves tags untouched.
func applyTag(tags []string, name string, add bool) ([]string, bool) {
	current := slices.Contains(tags, name)
	switch {
	case add && !current:
		return append(tags, name), true
	case !add && current:
		return slices.DeleteFunc(slices.Clone(tags), func(t string) bool { return t == name }), true
	}
	return tags, false
}
