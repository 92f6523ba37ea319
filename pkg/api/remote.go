package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/grovetools/tapview/pkg/models"
)

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is kept.
const maxErrorBody = 1 << 20

// socketBaseURL is the dummy host used for Unix socket HTTP requests.
// The actual connection goes through the socket, not this URL.
const socketBaseURL = "http://unix"

// Config holds the settings for a RemoteClient.
type Config struct {
	// BaseURL of the backend, e.g. http://localhost:8080. Ignored when SocketPath is set.
	BaseURL string

	// SocketPath dials the backend over a Unix socket instead of TCP.
	SocketPath string

	// Timeout for each request (default: 30s)
	Timeout time.Duration

	// UserAgent sent with every request; empty leaves Go's default.
	UserAgent string
}

// RemoteClient implements Client by calling the backend's HTTP API.
type RemoteClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewRemoteClient creates a new RemoteClient for the backend described by cfg.
func NewRemoteClient(cfg Config) (*RemoteClient, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: false,
		MaxIdleConns:      10,
		IdleConnTimeout:   90 * time.Second,
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if cfg.SocketPath != "" {
		socketPath := cfg.SocketPath
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		}
		baseURL = socketBaseURL
	} else {
		if baseURL == "" {
			return nil, fmt.Errorf("backend address is required")
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid backend address %q: %w", cfg.BaseURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("invalid backend address %q: scheme must be http or https", cfg.BaseURL)
		}
	}

	return &RemoteClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
	}, nil
}

// BaseURL returns the address requests are sent to.
func (c *RemoteClient) BaseURL() string {
	return c.baseURL
}

// textBody is sent as-is instead of being JSON encoded.
type textBody string

// do sends one request and decodes a JSON response into out when out is non-nil.
// Transport failures and non-2xx answers are returned as *HTTPError.
func (c *RemoteClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	contentType := "application/json"
	switch b := body.(type) {
	case nil:
	case textBody:
		reqBody = strings.NewReader(string(b))
		contentType = "text/plain; charset=utf-8"
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if out != nil {
		req.Header.Set("Accept", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(method, path, resp.StatusCode, data)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// GetStatus returns the backend's aggregate statistics.
func (c *RemoteClient) GetStatus(ctx context.Context) (*models.Statistics, error) {
	var status models.Statistics
	if err := c.do(ctx, http.MethodGet, "/api/status.json", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetTags returns every tag known to the backend.
func (c *RemoteClient) GetTags(ctx context.Context) ([]models.TagInfo, error) {
	tags := []models.TagInfo{}
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// GetPcaps returns the imported capture files.
func (c *RemoteClient) GetPcaps(ctx context.Context) ([]models.PcapInfo, error) {
	pcaps := []models.PcapInfo{}
	if err := c.do(ctx, http.MethodGet, "/api/pcaps.json", nil, nil, &pcaps); err != nil {
		return nil, err
	}
	return pcaps, nil
}

// GetConverters returns per-converter statistics.
func (c *RemoteClient) GetConverters(ctx context.Context) ([]models.ConverterStatistics, error) {
	converters := []models.ConverterStatistics{}
	if err := c.do(ctx, http.MethodGet, "/api/converters", nil, nil, &converters); err != nil {
		return nil, err
	}
	return converters, nil
}

// GetClientConfig returns the stored client configuration.
func (c *RemoteClient) GetClientConfig(ctx context.Context) (*models.ClientConfig, error) {
	var cfg models.ClientConfig
	if err := c.do(ctx, http.MethodGet, "/api/clientconfig", nil, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PostClientConfig stores cfg and returns the configuration echoed by the backend.
func (c *RemoteClient) PostClientConfig(ctx context.Context, cfg models.ClientConfig) (*models.ClientConfig, error) {
	var stored models.ClientConfig
	if err := c.do(ctx, http.MethodPost, "/api/clientconfig", nil, cfg, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetPcapOverIPEndpoints returns the configured pcap-over-IP sources.
func (c *RemoteClient) GetPcapOverIPEndpoints(ctx context.Context) ([]models.PcapOverIPEndpoint, error) {
	endpoints := []models.PcapOverIPEndpoint{}
	if err := c.do(ctx, http.MethodGet, "/api/pcap-over-ip", nil, nil, &endpoints); err != nil {
		return nil, err
	}
	return endpoints, nil
}

// AddPcapOverIPEndpoint registers a new pcap-over-IP source.
func (c *RemoteClient) AddPcapOverIPEndpoint(ctx context.Context, address string) error {
	return c.do(ctx, http.MethodPut, "/api/pcap-over-ip", url.Values{"address": {address}}, nil, nil)
}

// DelPcapOverIPEndpoint removes a pcap-over-IP source.
func (c *RemoteClient) DelPcapOverIPEndpoint(ctx context.Context, address string) error {
	return c.do(ctx, http.MethodDelete, "/api/pcap-over-ip", url.Values{"address": {address}}, nil, nil)
}

// AddTag creates a tag defined by query.
func (c *RemoteClient) AddTag(ctx context.Context, name, query, color string) error {
	return c.do(ctx, http.MethodPut, "/api/tags", url.Values{
		"name":  {name},
		"query": {query},
		"color": {color},
	}, nil, nil)
}

// DelTag deletes a tag.
func (c *RemoteClient) DelTag(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/api/tags", url.Values{"name": {name}}, nil, nil)
}

// patchTag applies one of the backend's tag modification methods.
func (c *RemoteClient) patchTag(ctx context.Context, name, method string, params url.Values) error {
	query := url.Values{
		"name":   {name},
		"method": {method},
	}
	for k, v := range params {
		query[k] = v
	}
	return c.do(ctx, http.MethodPatch, "/api/tags", query, nil, nil)
}

// ChangeTagColor sets a tag's display color.
func (c *RemoteClient) ChangeTagColor(ctx context.Context, name, color string) error {
	return c.patchTag(ctx, name, "change_color", url.Values{"color": {color}})
}

// ChangeTagDefinition replaces a tag's query.
func (c *RemoteClient) ChangeTagDefinition(ctx context.Context, name, definition string) error {
	return c.patchTag(ctx, name, "change_query", url.Values{"query": {definition}})
}

// ChangeTagName renames a tag.
func (c *RemoteClient) ChangeTagName(ctx context.Context, name, newName string) error {
	return c.patchTag(ctx, name, "change_name", url.Values{"new_name": {newName}})
}

// ConverterTagSet replaces the converters attached to a tag.
func (c *RemoteClient) ConverterTagSet(ctx context.Context, name string, converters []string) error {
	return c.patchTag(ctx, name, "converter_set", url.Values{"converters": converters})
}

// ResetConverter drops the converter's cached output and restarts it.
func (c *RemoteClient) ResetConverter(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/api/converters/reset", url.Values{"converter": {name}}, nil, nil)
}

// MarkTagNew creates a mark tag whose query selects exactly streams.
func (c *RemoteClient) MarkTagNew(ctx context.Context, name string, streams []uint64, color string) error {
	return c.AddTag(ctx, name, MarkQuery(streams), color)
}

// MarkTagAdd adds streams to a mark tag.
func (c *RemoteClient) MarkTagAdd(ctx context.Context, name string, streams []uint64) error {
	return c.patchTag(ctx, name, "mark_add", url.Values{"streams": formatIDs(streams)})
}

// MarkTagDel removes streams from a mark tag.
func (c *RemoteClient) MarkTagDel(ctx context.Context, name string, streams []uint64) error {
	return c.patchTag(ctx, name, "mark_del", url.Values{"streams": formatIDs(streams)})
}

// SearchStreams posts query as plain text and returns the requested page.
func (c *RemoteClient) SearchStreams(ctx context.Context, query string, page uint) (*models.StreamsResult, error) {
	var res models.StreamsResult
	params := url.Values{"page": {strconv.FormatUint(uint64(page), 10)}}
	if err := c.do(ctx, http.MethodPost, "/api/search.json", params, textBody(query), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetStream returns one stream and its payload.
func (c *RemoteClient) GetStream(ctx context.Context, id uint64, converter string) (*models.StreamData, error) {
	var params url.Values
	if converter != "" {
		params = url.Values{"converter": {converter}}
	}
	var stream models.StreamData
	path := "/api/stream/" + strconv.FormatUint(id, 10) + ".json"
	if err := c.do(ctx, http.MethodGet, path, params, nil, &stream); err != nil {
		return nil, err
	}
	return &stream, nil
}

// Close cleans up any resources used by the client.
func (c *RemoteClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// MarkQuery returns the tag query matching exactly the given stream ids.
func MarkQuery(streams []uint64) string {
	return "id:" + strings.Join(formatIDs(streams), ",")
}

func formatIDs(ids []uint64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatUint(id, 10)
	}
	return out
}

// Ensure RemoteClient implements Client interface.
var _ Client = (*RemoteClient)(nil)
