// Package models defines the payloads exchanged with the traffic analysis backend.
package models

import (
	"encoding/json"
	"maps"
	"strings"
	"time"
)

// Statistics is the aggregate health and index snapshot reported by the backend.
type Statistics struct {
	IndexCount          int  `json:"IndexCount"`
	IndexLockCount      uint `json:"IndexLockCount"`
	PcapCount           int  `json:"PcapCount"`
	ImportJobCount      int  `json:"ImportJobCount"`
	StreamCount         int  `json:"StreamCount"`
	StreamRecordCount   int  `json:"StreamRecordCount"`
	PacketCount         int  `json:"PacketCount"`
	MergeJobRunning     bool `json:"MergeJobRunning"`
	TaggingJobRunning   bool `json:"TaggingJobRunning"`
	ConverterJobRunning bool `json:"ConverterJobRunning"`
}

// Busy reports whether any background job is currently running.
func (s Statistics) Busy() bool {
	return s.MergeJobRunning || s.TaggingJobRunning || s.ConverterJobRunning || s.ImportJobCount > 0
}

// PcapInfo describes one imported capture file.
type PcapInfo struct {
	Filename           string    `json:"Filename"`
	Filesize           uint64    `json:"Filesize"`
	PacketTimestampMin time.Time `json:"PacketTimestampMin"`
	PacketTimestampMax time.Time `json:"PacketTimestampMax"`
	ParseTime          time.Time `json:"ParseTime"`
	PacketCount        uint      `json:"PacketCount"`
}

// PcapOverIPEndpoint is a remote capture source the backend pulls packets from.
type PcapOverIPEndpoint struct {
	Address          string    `json:"Address"`
	LastConnected    time.Time `json:"LastConnected"`
	LastDisconnected time.Time `json:"LastDisconnected"`
	ReceivedPackets  uint64    `json:"ReceivedPackets"`
}

// Connected reports whether the endpoint's last connection is still open.
func (e PcapOverIPEndpoint) Connected() bool {
	return !e.LastConnected.IsZero() && e.LastConnected.After(e.LastDisconnected)
}

// ClientConfig holds settings the backend stores on behalf of its clients.
// The backend treats it as an opaque document, so keys this client does not
// know are kept in Extra and sent back unchanged.
type ClientConfig struct {
	AutoInsertLimitToQuery bool `json:"AutoInsertLimitToQuery"`

	Extra map[string]json.RawMessage `json:"-"`
}

const autoInsertLimitKey = "AutoInsertLimitToQuery"

// MarshalJSON writes the known settings merged over Extra.
func (c ClientConfig) MarshalJSON() ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(c.Extra)+1)
	maps.Copy(doc, c.Extra)
	v, err := json.Marshal(c.AutoInsertLimitToQuery)
	if err != nil {
		return nil, err
	}
	doc[autoInsertLimitKey] = v
	return json.Marshal(doc)
}

// UnmarshalJSON decodes the known settings and keeps every other key in Extra.
func (c *ClientConfig) UnmarshalJSON(data []byte) error {
	type known ClientConfig
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	// encoding/json matches field names case-insensitively
	maps.DeleteFunc(doc, func(key string, _ json.RawMessage) bool {
		return strings.EqualFold(key, autoInsertLimitKey)
	})
	k.Extra = nil
	if len(doc) > 0 {
		k.Extra = doc
	}
	*c = ClientConfig(k)
	return nil
}

// Clone returns a copy that shares no map with c.
func (c *ClientConfig) Clone() *ClientConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Extra = maps.Clone(c.Extra)
	return &out
}
