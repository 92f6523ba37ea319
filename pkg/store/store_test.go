package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/grovetools/tapview/errors"
	"github.com/grovetools/tapview/pkg/api"
	"github.com/grovetools/tapview/pkg/api/mocks"
	"github.com/grovetools/tapview/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot(client api.Client, opts ...Option) (*Root, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts = append([]Option{WithLogger(logrus.NewEntry(logger))}, opts...)
	return New(client, opts...), hook
}

func badRequest(body string) error {
	return &api.HTTPError{
		Method:   http.MethodPut,
		Path:     "/api/tags",
		Message:  "request failed with status code 400",
		Response: &api.Response{StatusCode: http.StatusBadRequest, Body: []byte(body)},
	}
}

func TestSnapshotsStartUnloaded(t *testing.T) {
	r, _ := newTestRoot(&mocks.MockClient{})

	assert.Nil(t, r.Status())
	assert.Nil(t, r.Pcaps())
	assert.Nil(t, r.Tags())
	assert.Nil(t, r.Converters())
	assert.Nil(t, r.ClientConfig())
	assert.Nil(t, r.PcapOverIPEndpoints())
}

func TestFetchActionsReplaceCache(t *testing.T) {
	client := &mocks.MockClient{
		GetStatusFunc: func(ctx context.Context) (*models.Statistics, error) {
			return &models.Statistics{StreamCount: 7}, nil
		},
		GetTagsFunc: func(ctx context.Context) ([]models.TagInfo, error) {
			return []models.TagInfo{{Name: "tag/a", Converters: []string{"c"}}}, nil
		},
		GetPcapsFunc: func(ctx context.Context) ([]models.PcapInfo, error) {
			return nil, nil
		},
		GetConvertersFunc: func(ctx context.Context) ([]models.ConverterStatistics, error) {
			return []models.ConverterStatistics{{Name: "conv", Processes: []models.ProcessStats{{Pid: 1}}}}, nil
		},
		GetClientConfigFunc: func(ctx context.Context) (*models.ClientConfig, error) {
			return &models.ClientConfig{AutoInsertLimitToQuery: true}, nil
		},
		GetPcapOverIPEndpointsFunc: func(ctx context.Context) ([]models.PcapOverIPEndpoint, error) {
			return []models.PcapOverIPEndpoint{{Address: "10.0.0.1:57012"}}, nil
		},
	}
	r, _ := newTestRoot(client)
	ctx := context.Background()

	require.NoError(t, r.RefreshAll(ctx))

	assert.Equal(t, 7, r.Status().StreamCount)
	assert.Equal(t, "tag/a", r.Tags()[0].Name)
	assert.NotNil(t, r.Pcaps(), "an empty fetch is loaded, not nil")
	assert.Empty(t, r.Pcaps())
	assert.Equal(t, "conv", r.Converters()[0].Name)
	assert.True(t, r.ClientConfig().AutoInsertLimitToQuery)
	assert.Equal(t, "10.0.0.1:57012", r.PcapOverIPEndpoints()[0].Address)

	// Snapshots are copies
	tags := r.Tags()
	tags[0].Converters[0] = "mutated"
	assert.Equal(t, "c", r.Tags()[0].Converters[0])
	status := r.Status()
	status.StreamCount = 0
	assert.Equal(t, 7, r.Status().StreamCount)
}

func TestRefreshAllAttemptsEverything(t *testing.T) {
	first := stderrors.New("status down")
	client := &mocks.MockClient{
		GetStatusFunc: func(ctx context.Context) (*models.Statistics, error) {
			return nil, first
		},
		GetTagsFunc: func(ctx context.Context) ([]models.TagInfo, error) {
			return nil, stderrors.New("tags down")
		},
	}
	r, _ := newTestRoot(client)

	err := r.RefreshAll(context.Background())
	assert.Equal(t, first, err)
	assert.Equal(t, []string{
		"GetStatus", "GetPcaps", "GetTags", "GetConverters", "GetClientConfig", "GetPcapOverIPEndpoints",
	}, client.Calls())
	assert.NotNil(t, r.Pcaps())
	assert.Nil(t, r.Tags())
}

func TestGroupedTags(t *testing.T) {
	client := &mocks.MockClient{
		GetTagsFunc: func(ctx context.Context) ([]models.TagInfo, error) {
			return []models.TagInfo{
				{Name: "tag/a"},
				{Name: "service/http"},
				{Name: "tag/b"},
				{Name: "mark/x"},
				{Name: "weird/z"},
			}, nil
		},
	}
	r, hook := newTestRoot(client)
	require.NoError(t, r.UpdateTags(context.Background()))

	groups := r.GroupedTags()
	assert.Len(t, groups, 4)
	assert.Equal(t, []string{"tag/a", "tag/b"}, groups.Names(models.CategoryTag))
	assert.Equal(t, []string{"service/http"}, groups.Names(models.CategoryService))
	assert.Equal(t, []string{"mark/x"}, groups.Names(models.CategoryMark))
	assert.Empty(t, groups[models.CategoryGenerated])

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "Tag weird/z has unsupported type" {
			warned = true
		}
	}
	assert.True(t, warned, "unknown categories are reported")
}

func TestGroupedTagsEmpty(t *testing.T) {
	r, _ := newTestRoot(&mocks.MockClient{})

	groups := r.GroupedTags()
	assert.Len(t, groups, 4)
	for _, c := range models.TagCategories {
		assert.NotNil(t, groups[c])
		assert.Empty(t, groups[c])
	}
}

func TestMutationRefreshesAfterSuccess(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		act     func(r *Root) error
		calls   []string
		refresh string
	}{
		{"add tag", func(r *Root) error { return r.AddTag(ctx, "tag/a", "port:1", "#fff") }, []string{"AddTag", "GetTags"}, "tags"},
		{"change color", func(r *Root) error { return r.ChangeTagColor(ctx, "tag/a", "#000") }, []string{"ChangeTagColor", "GetTags"}, "tags"},
		{"change query", func(r *Root) error { return r.ChangeTagDefinition(ctx, "tag/a", "port:2") }, []string{"ChangeTagDefinition", "GetTags"}, "tags"},
		{"rename", func(r *Root) error { return r.ChangeTagName(ctx, "tag/a", "tag/b") }, []string{"ChangeTagName", "GetTags"}, "tags"},
		{"converters", func(r *Root) error { return r.SetTagConverters(ctx, "tag/a", []string{"c"}) }, []string{"ConverterTagSet", "GetTags"}, "tags"},
		{"reset converter", func(r *Root) error { return r.ResetConverter(ctx, "c") }, []string{"ResetConverter", "GetConverters"}, "converters"},
		{"add endpoint", func(r *Root) error { return r.AddPcapOverIPEndpoint(ctx, "h:1") }, []string{"AddPcapOverIPEndpoint", "GetPcapOverIPEndpoints"}, "endpoints"},
		{"del endpoint", func(r *Root) error { return r.DelPcapOverIPEndpoint(ctx, "h:1") }, []string{"DelPcapOverIPEndpoint", "GetPcapOverIPEndpoints"}, "endpoints"},
		{"mark new", func(r *Root) error { return r.MarkTagNew(ctx, "mark/m", []uint64{1}, "#fff") }, []string{"MarkTagNew", "GetTags"}, "tags"},
		{"mark add", func(r *Root) error { return r.MarkTagAdd(ctx, "mark/m", []uint64{1}) }, []string{"MarkTagAdd", "GetTags"}, "tags"},
		{"mark del", func(r *Root) error { return r.MarkTagDel(ctx, "mark/m", []uint64{1}) }, []string{"MarkTagDel", "GetTags"}, "tags"},
		{"del tag", func(r *Root) error { return r.DelTag(ctx, "tag/a") }, []string{"DelTag", "GetTags"}, "tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mocks.MockClient{}
			r, _ := newTestRoot(client)

			require.NoError(t, tt.act(r))
			assert.Equal(t, tt.calls, client.Calls())

			switch tt.refresh {
			case "tags":
				assert.NotNil(t, r.Tags())
			case "converters":
				assert.NotNil(t, r.Converters())
			case "endpoints":
				assert.NotNil(t, r.PcapOverIPEndpoints())
			}
		})
	}
}

func TestFailedMutationSkipsRefresh(t *testing.T) {
	client := &mocks.MockClient{
		AddTagFunc: func(ctx context.Context, name, query, color string) error {
			return badRequest("invalid query")
		},
	}
	r, _ := newTestRoot(client)

	err := r.AddTag(context.Background(), "tag/a", "port:", "#fff")
	require.Error(t, err)
	assert.Equal(t, "invalid query", err.Error())
	assert.Equal(t, []string{"AddTag"}, client.Calls())
	assert.Nil(t, r.Tags(), "the cache is untouched")
}

func TestFailedMarkSkipsLocalPatch(t *testing.T) {
	client := &mocks.MockClient{
		MarkTagAddFunc: func(ctx context.Context, name string, streams []uint64) error {
			return badRequest("unknown tag")
		},
	}
	open := NewStreamStore()
	open.Set(&models.StreamData{Stream: models.Stream{ID: 5}})
	r, _ := newTestRoot(client, WithMarkers(open))

	require.Error(t, r.MarkTagAdd(context.Background(), "mark/m", []uint64{5}))
	assert.Empty(t, open.Stream().Tags)
}

func TestErrorNormalization(t *testing.T) {
	plain := stderrors.New("decode failed")
	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantStatus int
		backend    bool
	}{
		{"body is the message", badRequest("bad request"), "bad request", 400, true},
		{"body kept verbatim", badRequest("bad request \n"), "bad request \n", 400, true},
		{"empty body uses transport message", badRequest(""), "request failed with status code 400", 400, true},
		{"whitespace body kept", badRequest(" \n"), " \n", 400, true},
		{"no response", &api.HTTPError{Message: "Network Error"}, "Network Error", 0, true},
		{"wrapped http error", fmt.Errorf("ctx: %w", badRequest("nope")), "nope", 400, true},
		{"other errors unchanged", plain, "decode failed", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mocks.MockClient{
				GetStatusFunc: func(ctx context.Context) (*models.Statistics, error) {
					return nil, tt.err
				},
			}
			r, _ := newTestRoot(client)

			err := r.UpdateStatus(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())

			var backendErr *errors.BackendError
			if tt.backend {
				require.True(t, stderrors.As(err, &backendErr))
				assert.Equal(t, tt.wantStatus, backendErr.StatusCode)
				assert.Equal(t, errors.ErrCodeBackend, errors.GetCode(err))
			} else {
				assert.Same(t, plain, err)
			}
			assert.Nil(t, r.Status())
		})
	}
}

func TestBackendErrorKeepsStructuredBody(t *testing.T) {
	client := &mocks.MockClient{
		DelTagFunc: func(ctx context.Context, name string) error {
			return badRequest(`{"error":"tag is referenced"}`)
		},
	}
	r, _ := newTestRoot(client)

	err := r.DelTag(context.Background(), "tag/a")
	var backendErr *errors.BackendError
	require.True(t, stderrors.As(err, &backendErr))

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, backendErr.JSON(&body))
	assert.Equal(t, "tag is referenced", body.Error)
}

func TestFailedRefreshLeavesCacheStale(t *testing.T) {
	calls := 0
	client := &mocks.MockClient{
		GetTagsFunc: func(ctx context.Context) ([]models.TagInfo, error) {
			calls++
			if calls > 1 {
				return nil, &api.HTTPError{Message: "Network Error"}
			}
			return []models.TagInfo{{Name: "tag/old"}}, nil
		},
	}
	r, _ := newTestRoot(client)
	require.NoError(t, r.UpdateTags(context.Background()))

	err := r.AddTag(context.Background(), "tag/new", "port:1", "#fff")
	require.Error(t, err)
	assert.Equal(t, "Network Error", err.Error())
	assert.Equal(t, "tag/old", r.Tags()[0].Name)
}

func TestAddClientConfigStoresEcho(t *testing.T) {
	client := &mocks.MockClient{
		PostClientConfigFunc: func(ctx context.Context, cfg models.ClientConfig) (*models.ClientConfig, error) {
			assert.True(t, cfg.AutoInsertLimitToQuery)
			return &models.ClientConfig{AutoInsertLimitToQuery: false}, nil
		},
	}
	r, _ := newTestRoot(client)

	require.NoError(t, r.AddClientConfig(context.Background(), models.ClientConfig{AutoInsertLimitToQuery: true}))
	assert.False(t, r.ClientConfig().AutoInsertLimitToQuery, "the echoed value wins")
}

func TestClientConfigSnapshotCopiesExtra(t *testing.T) {
	client := &mocks.MockClient{
		GetClientConfigFunc: func(ctx context.Context) (*models.ClientConfig, error) {
			return &models.ClientConfig{Extra: map[string]json.RawMessage{"Theme": json.RawMessage(`"dark"`)}}, nil
		},
	}
	r, _ := newTestRoot(client)
	require.NoError(t, r.GetClientConfig(context.Background()))

	snap := r.ClientConfig()
	snap.Extra["Theme"] = json.RawMessage(`"light"`)
	assert.JSONEq(t, `"dark"`, string(r.ClientConfig().Extra["Theme"]))
}

func TestDelTagClearsTagFromAllStreams(t *testing.T) {
	open := NewStreamStore()
	open.Set(&models.StreamData{Stream: models.Stream{ID: 1}, Tags: []string{"tag/a", "tag/b"}})
	list := NewStreamsStore()
	list.Set(&models.StreamsResult{Results: []models.StreamResult{
		{Stream: models.Stream{ID: 2}, Tags: []string{"tag/a"}},
		{Stream: models.Stream{ID: 3}, Tags: []string{"tag/b"}},
	}})
	r, _ := newTestRoot(&mocks.MockClient{}, WithMarkers(open, list))

	require.NoError(t, r.DelTag(context.Background(), "tag/a"))

	assert.Equal(t, []string{"tag/b"}, open.Stream().Tags)
	res := list.Result()
	assert.Empty(t, res.Results[0].Tags)
	assert.Equal(t, []string{"tag/b"}, res.Results[1].Tags)
}

func TestMarkTagPatchesOnlySelectedStreams(t *testing.T) {
	list := NewStreamsStore()
	list.Set(&models.StreamsResult{Results: []models.StreamResult{
		{Stream: models.Stream{ID: 1}},
		{Stream: models.Stream{ID: 2}},
		{Stream: models.Stream{ID: 3}, Tags: []string{"mark/m"}},
	}})
	r, _ := newTestRoot(&mocks.MockClient{})
	r.AddMarker(list)
	ctx := context.Background()

	require.NoError(t, r.MarkTagAdd(ctx, "mark/m", []uint64{1, 3}))
	res := list.Result()
	assert.Equal(t, []string{"mark/m"}, res.Results[0].Tags)
	assert.Empty(t, res.Results[1].Tags)
	assert.Equal(t, []string{"mark/m"}, res.Results[2].Tags, "adding is idempotent")

	require.NoError(t, r.MarkTagDel(ctx, "mark/m", []uint64{3}))
	res = list.Result()
	assert.Equal(t, []string{"mark/m"}, res.Results[0].Tags)
	assert.Empty(t, res.Results[2].Tags)
}

func TestSubscriptions(t *testing.T) {
	r, _ := newTestRoot(&mocks.MockClient{})
	ch := r.Subscribe()

	require.NoError(t, r.UpdateStatus(context.Background()))
	assert.Equal(t, Change{Field: FieldStatus}, <-ch)

	r.UpdateMark("mark/m", AllStreams(), true)
	assert.Equal(t, Change{Field: FieldMarks, Tag: "mark/m"}, <-ch)

	r.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)

	// Unsubscribing twice is harmless
	r.Unsubscribe(ch)
	require.NoError(t, r.UpdateStatus(context.Background()))
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	r, _ := newTestRoot(&mocks.MockClient{})
	ch := r.Subscribe()
	defer r.Unsubscribe(ch)

	for i := 0; i < cap(ch)+10; i++ {
		require.NoError(t, r.UpdatePcaps(context.Background()))
	}
	assert.Len(t, ch, cap(ch))
}

func TestSearchStreamsFillsRegisteredStore(t *testing.T) {
	client := &mocks.MockClient{
		SearchStreamsFunc: func(ctx context.Context, query string, page uint) (*models.StreamsResult, error) {
			assert.Equal(t, "port:80", query)
			assert.Equal(t, uint(1), page)
			return &models.StreamsResult{Results: []models.StreamResult{
				{Stream: models.Stream{ID: 1}},
				{Stream: models.Stream{ID: 2}, Tags: []string{"mark/x"}},
			}}, nil
		},
	}
	page := NewStreamsStore()
	r, _ := newTestRoot(client, WithMarkers(page))
	ch := r.Subscribe()
	defer r.Unsubscribe(ch)

	require.NoError(t, r.SearchStreams(context.Background(), "port:80", 1, page))
	assert.Equal(t, Change{Field: FieldStreams}, <-ch)
	require.Len(t, page.Result().Results, 2)

	require.NoError(t, r.MarkTagAdd(context.Background(), "mark/x", []uint64{1}))
	rows := page.Result().Results
	assert.Equal(t, []string{"mark/x"}, rows[0].Tags)
	assert.Equal(t, []string{"mark/x"}, rows[1].Tags)
}

func TestOpenStreamFailureKeepsStore(t *testing.T) {
	client := &mocks.MockClient{
		GetStreamFunc: func(ctx context.Context, id uint64, converter string) (*models.StreamData, error) {
			if id == 9 {
				return nil, badRequest("stream not found")
			}
			return &models.StreamData{Stream: models.Stream{ID: id}, ActiveConverter: converter}, nil
		},
	}
	open := NewStreamStore()
	r, _ := newTestRoot(client)
	r.AddMarker(open)

	require.NoError(t, r.OpenStream(context.Background(), 4, "b64", open))
	assert.Equal(t, "b64", open.Stream().ActiveConverter)

	err := r.OpenStream(context.Background(), 9, "", open)
	require.Error(t, err)
	assert.Equal(t, "stream not found", err.Error())
	assert.Equal(t, uint64(4), open.Stream().Stream.ID)

	r.UpdateMark("mark/y", Streams(4), true)
	assert.Equal(t, []string{"mark/y"}, open.Stream().Tags)
}

func TestUpdateMarkLogsSelection(t *testing.T) {
	r, hook := newTestRoot(&mocks.MockClient{})

	r.UpdateMark("mark/a", Streams(7, 3), true)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, []uint64{3, 7}, hook.LastEntry().Data["streams"])

	r.UpdateMark("mark/a", AllStreams(), false)
	assert.Equal(t, "all", hook.LastEntry().Data["streams"])
}
