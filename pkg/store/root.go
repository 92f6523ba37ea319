package store

import (
	"slices"
	"sync"

	"github.com/grovetools/tapview/logging"
	"github.com/grovetools/tapview/pkg/api"
	"github.com/grovetools/tapview/pkg/models"
	"github.com/sirupsen/logrus"
)

// Root caches the backend collections and exposes the actions that change
// them. Each collection is nil until its first successful fetch and is then
// replaced wholesale by every later fetch.
type Root struct {
	client api.Client
	logger *logrus.Entry

	mu                  sync.RWMutex
	markers             []TagMarker
	status              *models.Statistics
	pcaps               []models.PcapInfo
	tags                []models.TagInfo
	converters          []models.ConverterStatistics
	clientConfig        *models.ClientConfig
	pcapOverIPEndpoints []models.PcapOverIPEndpoint

	subMu       sync.Mutex
	subscribers map[chan Change]struct{}
}

// Option configures a Root.
type Option func(*Root)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *logrus.Entry) Option {
	return func(r *Root) {
		r.logger = logger
	}
}

// WithMarkers registers the stores patched by UpdateMark.
func WithMarkers(markers ...TagMarker) Option {
	return func(r *Root) {
		r.markers = append(r.markers, markers...)
	}
}

// New creates a Root backed by client.
func New(client api.Client, opts ...Option) *Root {
	r := &Root{
		client:      client,
		subscribers: make(map[chan Change]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewLogger("store")
	}
	return r
}

// AddMarker registers another store to be patched by UpdateMark.
func (r *Root) AddMarker(m TagMarker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers = append(r.markers, m)
}

// Status returns the cached statistics, or nil if not loaded.
func (r *Root) Status() *models.Statistics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.status == nil {
		return nil
	}
	s := *r.status
	return &s
}

// Pcaps returns the cached pcap list, or nil if not loaded.
func (r *Root) Pcaps() []models.PcapInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.pcaps)
}

// Tags returns the cached tag list, or nil if not loaded.
func (r *Root) Tags() []models.TagInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneTags(r.tags)
}

// Converters returns the cached converter statistics, or nil if not loaded.
func (r *Root) Converters() []models.ConverterStatistics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.converters == nil {
		return nil
	}
	out := make([]models.ConverterStatistics, len(r.converters))
	for i, c := range r.converters {
		c.Processes = slices.Clone(c.Processes)
		out[i] = c
	}
	return out
}

// ClientConfig returns the cached client configuration, or nil if not loaded.
func (r *Root) ClientConfig() *models.ClientConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clientConfig.Clone()
}

// PcapOverIPEndpoints returns the cached endpoint list, or nil if not loaded.
func (r *Root) PcapOverIPEndpoints() []models.PcapOverIPEndpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.pcapOverIPEndpoints)
}

// GroupedTags partitions the cached tags by category. It is recomputed on
// every call.
func (r *Root) GroupedTags() GroupedTags {
	return GroupTags(r.Tags(), r.logger)
}

// Subscribe creates a new subscription channel for change notifications.
func (r *Root) Subscribe() chan Change {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	ch := make(chan Change, 32)
	r.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (r *Root) Unsubscribe(ch chan Change) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	if _, ok := r.subscribers[ch]; !ok {
		return
	}
	delete(r.subscribers, ch)
	close(ch)
}

func (r *Root) broadcast(c Change) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for ch := range r.subscribers {
		select {
		case ch <- c:
		default:
			// Slow subscribers miss updates rather than stall actions
		}
	}
}

// replace stores a fetched value under the write lock and notifies subscribers.
func (r *Root) replace(field Field, set func()) {
	r.mu.Lock()
	set()
	r.mu.Unlock()
	r.broadcast(Change{Field: field})
}

func cloneTags(tags []models.TagInfo) []models.TagInfo {
	if tags == nil {
		return nil
	}
	out := make([]models.TagInfo, len(tags))
	for i, t := range tags {
		t.Converters = slices.Clone(t.Converters)
		out[i] = t
	}
	return out
}

// loaded turns a nil slice from the client into an empty one, so a
// successful fetch of an empty collection is distinguishable from "not loaded".
func loaded[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
