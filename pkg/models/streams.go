package models

import (
	"slices"
	"time"
)

// HostPort is one side of a reconstructed conversation.
type HostPort struct {
	Host  string `json:"Host"`
	Port  uint16 `json:"Port"`
	Bytes uint64 `json:"Bytes"`
}

// Stream is the metadata of one reconstructed network conversation.
type Stream struct {
	ID          uint64    `json:"ID"`
	Protocol    string    `json:"Protocol"`
	Client      HostPort  `json:"Client"`
	Server      HostPort  `json:"Server"`
	FirstPacket time.Time `json:"FirstPacket"`
	LastPacket  time.Time `json:"LastPacket"`
	Index       string    `json:"Index"`
}

// Data is one chunk of stream payload in a single direction.
type Data struct {
	Direction int       `json:"Direction"`
	Content   string    `json:"Content"`
	Time      time.Time `json:"Time"`
}

// StreamData is a single stream opened for inspection.
type StreamData struct {
	Stream          Stream   `json:"Stream"`
	Data            []Data   `json:"Data"`
	Tags            []string `json:"Tags"`
	Converters      []string `json:"Converters"`
	ActiveConverter string   `json:"ActiveConverter"`
}

// Clone returns a deep copy of the tag and payload slices.
func (s *StreamData) Clone() *StreamData {
	if s == nil {
		return nil
	}
	c := *s
	c.Data = slices.Clone(s.Data)
	c.Tags = slices.Clone(s.Tags)
	c.Converters = slices.Clone(s.Converters)
	return &c
}

// StreamResult is one row of a stream search.
type StreamResult struct {
	Stream Stream   `json:"Stream"`
	Tags   []string `json:"Tags"`
}

// StreamsResult is a page of stream search results.
type StreamsResult struct {
	Debug       []string       `json:"Debug"`
	Results     []StreamResult `json:"Results"`
	Offset      uint           `json:"Offset"`
	MoreResults bool           `json:"MoreResults"`
}

// Clone returns a deep copy of the result page.
func (r *StreamsResult) Clone() *StreamsResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Debug = slices.Clone(r.Debug)
	c.Results = make([]StreamResult, len(r.Results))
	for i, res := range r.Results {
		c.Results[i] = StreamResult{Stream: res.Stream, Tags: slices.Clone(res.Tags)}
	}
	return &c
}
