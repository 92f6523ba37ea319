package mocks

import (
	"context"
	"sync"

	"github.com/grovetools/tapview/pkg/api"
	"github.com/grovetools/tapview/pkg/models"
)

// MockClient is a mock implementation of api.Client for testing.
// Unset functions succeed with empty results. Every call is recorded by name.
type MockClient struct {
	GetStatusFunc              func(ctx context.Context) (*models.Statistics, error)
	GetTagsFunc                func(ctx context.Context) ([]models.TagInfo, error)
	GetPcapsFunc               func(ctx context.Context) ([]models.PcapInfo, error)
	GetConvertersFunc          func(ctx context.Context) ([]models.ConverterStatistics, error)
	GetClientConfigFunc        func(ctx context.Context) (*models.ClientConfig, error)
	PostClientConfigFunc       func(ctx context.Context, cfg models.ClientConfig) (*models.ClientConfig, error)
	GetPcapOverIPEndpointsFunc func(ctx context.Context) ([]models.PcapOverIPEndpoint, error)
	AddPcapOverIPEndpointFunc  func(ctx context.Context, address string) error
	DelPcapOverIPEndpointFunc  func(ctx context.Context, address string) error
	AddTagFunc                 func(ctx context.Context, name, query, color string) error
	DelTagFunc                 func(ctx context.Context, name string) error
	ChangeTagColorFunc         func(ctx context.Context, name, color string) error
	ChangeTagDefinitionFunc    func(ctx context.Context, name, definition string) error
	ChangeTagNameFunc          func(ctx context.Context, name, newName string) error
	ConverterTagSetFunc        func(ctx context.Context, name string, converters []string) error
	ResetConverterFunc         func(ctx context.Context, name string) error
	MarkTagNewFunc             func(ctx context.Context, name string, streams []uint64, color string) error
	MarkTagAddFunc             func(ctx context.Context, name string, streams []uint64) error
	MarkTagDelFunc             func(ctx context.Context, name string, streams []uint64) error
	SearchStreamsFunc          func(ctx context.Context, query string, page uint) (*models.StreamsResult, error)
	GetStreamFunc              func(ctx context.Context, id uint64, converter string) (*models.StreamData, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockClient) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns the names of the methods called so far, in order.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how many times the named method was called.
func (m *MockClient) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

// GetStatus calls the mock function
func (m *MockClient) GetStatus(ctx context.Context) (*models.Statistics, error) {
	m.record("GetStatus")
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(ctx)
	}
	return &models.Statistics{}, nil
}

// GetTags calls the mock function
func (m *MockClient) GetTags(ctx context.Context) ([]models.TagInfo, error) {
	m.record("GetTags")
	if m.GetTagsFunc != nil {
		return m.GetTagsFunc(ctx)
	}
	return []models.TagInfo{}, nil
}

// GetPcaps calls the mock function
func (m *MockClient) GetPcaps(ctx context.Context) ([]models.PcapInfo, error) {
	m.record("GetPcaps")
	if m.GetPcapsFunc != nil {
		return m.GetPcapsFunc(ctx)
	}
	return []models.PcapInfo{}, nil
}

// GetConverters calls the mock function
func (m *MockClient) GetConverters(ctx context.Context) ([]models.ConverterStatistics, error) {
	m.record("GetConverters")
	if m.GetConvertersFunc != nil {
		return m.GetConvertersFunc(ctx)
	}
	return []models.ConverterStatistics{}, nil
}

// GetClientConfig calls the mock function
func (m *MockClient) GetClientConfig(ctx context.Context) (*models.ClientConfig, error) {
	m.record("GetClientConfig")
	if m.GetClientConfigFunc != nil {
		return m.GetClientConfigFunc(ctx)
	}
	return &models.ClientConfig{}, nil
}

// PostClientConfig calls the mock function
func (m *MockClient) PostClientConfig(ctx context.Context, cfg models.ClientConfig) (*models.ClientConfig, error) {
	m.record("PostClientConfig")
	if m.PostClientConfigFunc != nil {
		return m.PostClientConfigFunc(ctx, cfg)
	}
	return &cfg, nil
}

// GetPcapOverIPEndpoints calls the mock function
func (m *MockClient) GetPcapOverIPEndpoints(ctx context.Context) ([]models.PcapOverIPEndpoint, error) {
	m.record("GetPcapOverIPEndpoints")
	if m.GetPcapOverIPEndpointsFunc != nil {
		return m.GetPcapOverIPEndpointsFunc(ctx)
	}
	return []models.PcapOverIPEndpoint{}, nil
}

// AddPcapOverIPEndpoint calls the mock function
func (m *MockClient) AddPcapOverIPEndpoint(ctx context.Context, address string) error {
	m.record("AddPcapOverIPEndpoint")
	if m.AddPcapOverIPEndpointFunc != nil {
		return m.AddPcapOverIPEndpointFunc(ctx, address)
	}
	return nil
}

// DelPcapOverIPEndpoint calls the mock function
func (m *MockClient) DelPcapOverIPEndpoint(ctx context.Context, address string) error {
	m.record("DelPcapOverIPEndpoint")
	if m.DelPcapOverIPEndpointFunc != nil {
		return m.DelPcapOverIPEndpointFunc(ctx, address)
	}
	return nil
}

// AddTag calls the mock function
func (m *MockClient) AddTag(ctx context.Context, name, query, color string) error {
	m.record("AddTag")
	if m.AddTagFunc != nil {
		return m.AddTagFunc(ctx, name, query, color)
	}
	return nil
}

// DelTag calls the mock function
func (m *MockClient) DelTag(ctx context.Context, name string) error {
	m.record("DelTag")
	if m.DelTagFunc != nil {
		return m.DelTagFunc(ctx, name)
	}
	return nil
}

// ChangeTagColor calls the mock function
func (m *MockClient) ChangeTagColor(ctx context.Context, name, color string) error {
	m.record("ChangeTagColor")
	if m.ChangeTagColorFunc != nil {
		return m.ChangeTagColorFunc(ctx, name, color)
	}
	return nil
}

// ChangeTagDefinition calls the mock function
func (m *MockClient) ChangeTagDefinition(ctx context.Context, name, definition string) error {
	m.record("ChangeTagDefinition")
	if m.ChangeTagDefinitionFunc != nil {
		return m.ChangeTagDefinitionFunc(ctx, name, definition)
	}
	return nil
}

// ChangeTagName calls the mock function
func (m *MockClient) ChangeTagName(ctx context.Context, name, newName string) error {
	m.record("ChangeTagName")
	if m.ChangeTagNameFunc != nil {
		return m.ChangeTagNameFunc(ctx, name, newName)
	}
	return nil
}

// ConverterTagSet calls the mock function
func (m *MockClient) ConverterTagSet(ctx context.Context, name string, converters []string) error {
	m.record("ConverterTagSet")
	if m.ConverterTagSetFunc != nil {
		return m.ConverterTagSetFunc(ctx, name, converters)
	}
	return nil
}

// ResetConverter calls the mock function
func (m *MockClient) ResetConverter(ctx context.Context, name string) error {
	m.record("ResetConverter")
	if m.ResetConverterFunc != nil {
		return m.ResetConverterFunc(ctx, name)
	}
	return nil
}

// MarkTagNew calls the mock function
func (m *MockClient) MarkTagNew(ctx context.Context, name string, streams []uint64, color string) error {
	m.record("MarkTagNew")
	if m.MarkTagNewFunc != nil {
		return m.MarkTagNewFunc(ctx, name, streams, color)
	}
	return nil
}

// MarkTagAdd calls the mock function
func (m *MockClient) MarkTagAdd(ctx context.Context, name string, streams []uint64) error {
	m.record("MarkTagAdd")
	if m.MarkTagAddFunc != nil {
		return m.MarkTagAddFunc(ctx, name, streams)
	}
	return nil
}

// MarkTagDel calls the mock function
func (m *MockClient) MarkTagDel(ctx context.Context, name string, streams []uint64) error {
	m.record("MarkTagDel")
	if m.MarkTagDelFunc != nil {
		return m.MarkTagDelFunc(ctx, name, streams)
	}
	return nil
}

// SearchStreams calls the mock function
func (m *MockClient) SearchStreams(ctx context.Context, query string, page uint) (*models.StreamsResult, error) {
	m.record("SearchStreams")
	if m.SearchStreamsFunc != nil {
		return m.SearchStreamsFunc(ctx, query, page)
	}
	return &models.StreamsResult{Results: []models.StreamResult{}}, nil
}

// GetStream calls the mock function
func (m *MockClient) GetStream(ctx context.Context, id uint64, converter string) (*models.StreamData, error) {
	m.record("GetStream")
	if m.GetStreamFunc != nil {
		return m.GetStreamFunc(ctx, id, converter)
	}
	return &models.StreamData{Stream: models.Stream{ID: id}}, nil
}

// Close is a no-op.
func (m *MockClient) Close() error {
	return nil
}

// Ensure MockClient implements api.Client.
var _ api.Client = (*MockClient)(nil)
