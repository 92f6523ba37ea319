package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/grovetools/tapview/pkg/models"
	"github.com/grovetools/tapview/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory stand-in for the analysis backend's REST API.
type fakeBackend struct {
	mu        sync.Mutex
	tags      []models.TagInfo
	endpoints []models.PcapOverIPEndpoint
	clientCfg models.ClientConfig
	resets    []string
	marks     map[string][]string
	searches  []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, string) {
	t.Helper()
	b := &fakeBackend{
		tags: []models.TagInfo{
			{Name: "tag/http", Definition: "port:80", Color: "#00ff00", MatchingCount: 1200},
			{Name: "service/dns", Definition: "port:53", Color: "#0000ff"},
		},
		clientCfg: models.ClientConfig{
			Extra: map[string]json.RawMessage{"DefaultConverter": json.RawMessage(`"pretty-http"`)},
		},
		marks: make(map[string][]string),
	}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)
	return b, srv.URL
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := r.URL.Query()
	switch r.URL.Path + " " + r.Method {
	case "/api/status.json GET":
		writeJSON(w, models.Statistics{StreamCount: 4213, PacketCount: 99000, PcapCount: 2, TaggingJobRunning: true})
	case "/api/pcaps.json GET":
		writeJSON(w, []models.PcapInfo{{Filename: "capture-1.pcap", Filesize: 5 << 20, PacketCount: 1234}})
	case "/api/tags GET":
		writeJSON(w, b.tags)
	case "/api/tags PUT":
		for _, t := range b.tags {
			if t.Name == q.Get("name") {
				writeText(w, http.StatusBadRequest, "tag already exists")
				return
			}
		}
		b.tags = append(b.tags, models.TagInfo{Name: q.Get("name"), Definition: q.Get("query"), Color: q.Get("color")})
	case "/api/tags DELETE":
		b.tags = deleteTag(b.tags, q.Get("name"))
	case "/api/tags PATCH":
		i := b.find(q.Get("name"))
		if i < 0 {
			writeText(w, http.StatusBadRequest, "unknown tag")
			return
		}
		switch q.Get("method") {
		case "change_color":
			b.tags[i].Color = q.Get("color")
		case "change_query":
			b.tags[i].Definition = q.Get("query")
		case "change_name":
			b.tags[i].Name = q.Get("new_name")
		case "converter_set":
			b.tags[i].Converters = q["converters"]
		case "mark_add", "mark_del":
			b.marks[q.Get("method")] = q["streams"]
		}
	case "/api/search.json POST":
		body, _ := io.ReadAll(r.Body)
		b.searches = append(b.searches, string(body))
		writeJSON(w, models.StreamsResult{
			Results: []models.StreamResult{{
				Stream: models.Stream{ID: 12, Protocol: "TCP", Client: models.HostPort{Host: "10.0.0.1", Port: 4242}, Server: models.HostPort{Host: "10.0.0.2", Port: 80}},
				Tags:   []string{"tag/http"},
			}},
			MoreResults: q.Get("page") == "0",
		})
	case "/api/converters GET":
		writeJSON(w, []models.ConverterStatistics{{Name: "pretty-http", CachedStreamCount: 10, Processes: []models.ProcessStats{{Running: true, Pid: 42}}}})
	case "/api/converters/reset POST":
		b.resets = append(b.resets, q.Get("converter"))
	case "/api/clientconfig GET":
		writeJSON(w, b.clientCfg)
	case "/api/clientconfig POST":
		if err := json.NewDecoder(r.Body).Decode(&b.clientCfg); err != nil {
			writeText(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, b.clientCfg)
	case "/api/pcap-over-ip GET":
		writeJSON(w, b.endpoints)
	case "/api/pcap-over-ip PUT":
		b.endpoints = append(b.endpoints, models.PcapOverIPEndpoint{Address: q.Get("address")})
	case "/api/pcap-over-ip DELETE":
		kept := b.endpoints[:0]
		for _, e := range b.endpoints {
			if e.Address != q.Get("address") {
				kept = append(kept, e)
			}
		}
		b.endpoints = kept
	default:
		http.NotFound(w, r)
	}
}

func (b *fakeBackend) find(name string) int {
	for i, t := range b.tags {
		if t.Name == name {
			return i
		}
	}
	return -1
}

func deleteTag(tags []models.TagInfo, name string) []models.TagInfo {
	kept := tags[:0]
	for _, t := range tags {
		if t.Name != name {
			kept = append(kept, t)
		}
	}
	return kept
}

// writeText answers with msg as the body, byte for byte.
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// run executes tapctl against url and returns stdout and stderr.
func run(t *testing.T, url string, args ...string) (string, string, error) {
	t.Helper()
	testutil.Isolate(t)

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--server", url}, args...))

	executed, err := root.ExecuteContextC(context.Background())
	if err != nil {
		report(executed, err)
	}
	return stdout.String(), stderr.String(), err
}

func TestStatusTable(t *testing.T) {
	_, url := newFakeBackend(t)

	out, _, err := run(t, url, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "4,213")
	assert.Contains(t, out, "99,000")
	assert.Contains(t, out, "running")
}

func TestStatusJSON(t *testing.T) {
	_, url := newFakeBackend(t)

	out, _, err := run(t, url, "status", "--json")
	require.NoError(t, err)

	var status models.Statistics
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, 4213, status.StreamCount)
	assert.True(t, status.TaggingJobRunning)
}

func TestTimingSummary(t *testing.T) {
	_, url := newFakeBackend(t)

	_, errOut, err := run(t, url, "--timing", "status")
	require.NoError(t, err)
	assert.Contains(t, errOut, "update status")
	assert.Contains(t, errOut, "tapctl status")
}

func TestPcaps(t *testing.T) {
	_, url := newFakeBackend(t)

	out, _, err := run(t, url, "pcaps")
	require.NoError(t, err)
	assert.Contains(t, out, "capture-1.pcap")
	assert.Contains(t, out, "5.2 MB")
	assert.Contains(t, out, "1,234")
}

func TestTagsListAndGrouped(t *testing.T) {
	_, url := newFakeBackend(t)

	out, _, err := run(t, url, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "tag/http")
	assert.Contains(t, out, "1,200")

	out, _, err = run(t, url, "tags", "--grouped", "--json")
	require.NoError(t, err)
	var grouped map[string][]models.TagInfo
	require.NoError(t, json.Unmarshal([]byte(out), &grouped))
	assert.Len(t, grouped, 4)
	assert.Equal(t, "service/dns", grouped["service"][0].Name)
	assert.Empty(t, grouped["mark"])
}

func TestTagsLifecycle(t *testing.T) {
	b, url := newFakeBackend(t)

	_, stderr, err := run(t, url, "tags", "add", "ssh", "port:22", "--color", "#ff0000")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Created tag/ssh")

	_, _, err = run(t, url, "tags", "color", "tag/ssh", "#00ff00")
	require.NoError(t, err)
	_, _, err = run(t, url, "tags", "query", "tag/ssh", "port:2222")
	require.NoError(t, err)
	_, _, err = run(t, url, "tags", "converters", "tag/ssh", "a", "b")
	require.NoError(t, err)
	_, _, err = run(t, url, "tags", "rename", "tag/ssh", "tag/secure-shell")
	require.NoError(t, err)

	b.mu.Lock()
	i := b.find("tag/secure-shell")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "#00ff00", b.tags[i].Color)
	assert.Equal(t, "port:2222", b.tags[i].Definition)
	assert.Equal(t, []string{"a", "b"}, b.tags[i].Converters)
	b.mu.Unlock()

	_, _, err = run(t, url, "tags", "del", "tag/secure-shell")
	require.NoError(t, err)
	assert.Equal(t, -1, b.find("tag/secure-shell"))
}

func TestTagsAddBackendErrorIsVerbatim(t *testing.T) {
	_, url := newFakeBackend(t)

	_, stderr, err := run(t, url, "tags", "add", "tag/http", "port:80")
	require.Error(t, err)
	assert.Equal(t, "tag already exists", err.Error())
	assert.Contains(t, stderr, "tag already exists")
}

func TestTagsAddRejectsBadColor(t *testing.T) {
	_, url := newFakeBackend(t)

	_, stderr, err := run(t, url, "tags", "add", "x", "port:1", "--color", "red")
	require.Error(t, err)
	assert.Contains(t, stderr, "not a #rrggbb color")
}

func TestMarkCommands(t *testing.T) {
	b, url := newFakeBackend(t)

	_, _, err := run(t, url, "mark", "new", "suspicious", "3", "5,8")
	require.NoError(t, err)
	i := b.find("mark/suspicious")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "id:3,5,8", b.tags[i].Definition)

	_, _, err = run(t, url, "mark", "add", "suspicious", "9")
	require.NoError(t, err)
	assert.Equal(t, []string{"9"}, b.marks["mark_add"])

	_, _, err = run(t, url, "mark", "del", "mark/suspicious", "3", "5")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "5"}, b.marks["mark_del"])

	_, stderr, err := run(t, url, "mark", "add", "suspicious", "abc")
	require.Error(t, err)
	assert.Contains(t, stderr, `invalid stream id "abc"`)
}

func TestConverters(t *testing.T) {
	b, url := newFakeBackend(t)

	out, _, err := run(t, url, "converters")
	require.NoError(t, err)
	assert.Contains(t, out, "pretty-http")
	assert.Contains(t, out, "1/1")

	_, _, err = run(t, url, "converters", "reset", "pretty-http")
	require.NoError(t, err)
	assert.Equal(t, []string{"pretty-http"}, b.resets)
}

func TestClientConfig(t *testing.T) {
	b, url := newFakeBackend(t)

	_, _, err := run(t, url, "config", "set")
	require.Error(t, err)

	out, _, err := run(t, url, "config", "set", "--auto-insert-limit", "--json")
	require.NoError(t, err)
	assert.True(t, b.clientCfg.AutoInsertLimitToQuery)

	var cfg models.ClientConfig
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.True(t, cfg.AutoInsertLimitToQuery)
	assert.JSONEq(t, `"pretty-http"`, string(b.clientCfg.Extra["DefaultConverter"]),
		"settings unknown to tapctl survive a set")

	out, _, err = run(t, url, "config", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "true")
	assert.Contains(t, out, "DefaultConverter")
}

func TestPcapOverIP(t *testing.T) {
	_, url := newFakeBackend(t)

	_, _, err := run(t, url, "pcap-over-ip", "add", "10.0.0.1:57012")
	require.NoError(t, err)

	out, _, err := run(t, url, "pcap-over-ip", "list", "--json")
	require.NoError(t, err)
	var endpoints []models.PcapOverIPEndpoint
	require.NoError(t, json.Unmarshal([]byte(out), &endpoints))
	require.Len(t, endpoints, 1)
	assert.Equal(t, "10.0.0.1:57012", endpoints[0].Address)

	_, _, err = run(t, url, "pcap-over-ip", "del", "10.0.0.1:57012")
	require.NoError(t, err)

	out, _, err = run(t, url, "pcap-over-ip", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "10.0.0.1")
}

func TestEmptyErrorBodyFallsBackToStatusMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, stderr, err := run(t, srv.URL, "status")
	require.Error(t, err)
	assert.Equal(t, "request failed with status code "+strconv.Itoa(http.StatusServiceUnavailable), err.Error())
	assert.True(t, strings.Contains(stderr, "503"))
}

func TestParseStreamIDs(t *testing.T) {
	ids, err := parseStreamIDs([]string{"1", "2, 3", ""})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	_, err = parseStreamIDs([]string{","})
	assert.Error(t, err)

	_, err = parseStreamIDs([]string{"-1"})
	assert.Error(t, err)
}


func TestStreams(t *testing.T) {
	b, url := newFakeBackend(t)

	out, _, err := run(t, url, "streams", "tag:http")
	require.NoError(t, err)
	assert.Contains(t, out, "10.0.0.1:4242")
	assert.Contains(t, out, "tag/http")
	assert.Contains(t, out, "More results on page 1")
	assert.Equal(t, []string{"tag:http"}, b.searches)

	out, _, err = run(t, url, "streams", "--page", "1", "--json")
	require.NoError(t, err)
	var res models.StreamsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Results, 1)
	assert.Equal(t, uint64(12), res.Results[0].Stream.ID)
	assert.False(t, res.MoreResults)
}

func TestWatchRejectsNonInteractiveUse(t *testing.T) {
	_, url := newFakeBackend(t)

	_, stderr, err := run(t, url, "watch", "--json")
	require.Error(t, err)
	assert.Contains(t, stderr, "no JSON output")

	_, stderr, err = run(t, url, "watch", "--interval", "0s")
	require.Error(t, err)
	assert.Contains(t, stderr, "must be positive")
}
