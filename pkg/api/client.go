// Package api provides a client for the traffic analysis backend's REST API.
// Callers depend on the Client interface; RemoteClient talks HTTP to a running
// backend over TCP or a Unix socket.
package api

import (
	"context"

	"github.com/grovetools/tapview/pkg/models"
)

// Client defines the backend operations the state store consumes.
type Client interface {
	// GetStatus returns the backend's aggregate statistics.
	GetStatus(ctx context.Context) (*models.Statistics, error)

	// GetTags returns every tag known to the backend.
	GetTags(ctx context.Context) ([]models.TagInfo, error)

	// GetPcaps returns the imported capture files.
	GetPcaps(ctx context.Context) ([]models.PcapInfo, error)

	// GetConverters returns per-converter statistics.
	GetConverters(ctx context.Context) ([]models.ConverterStatistics, error)

	// GetClientConfig returns the stored client configuration.
	GetClientConfig(ctx context.Context) (*models.ClientConfig, error)

	// PostClientConfig stores cfg and returns the configuration the backend kept.
	PostClientConfig(ctx context.Context, cfg models.ClientConfig) (*models.ClientConfig, error)

	GetPcapOverIPEndpoints(ctx context.Context) ([]models.PcapOverIPEndpoint, error)
	AddPcapOverIPEndpoint(ctx context.Context, address string) error
	DelPcapOverIPEndpoint(ctx context.Context, address string) error

	AddTag(ctx context.Context, name, query, color string) error
	DelTag(ctx context.Context, name string) error
	ChangeTagColor(ctx context.Context, name, color string) error
	ChangeTagDefinition(ctx context.Context, name, definition string) error
	ChangeTagName(ctx context.Context, name, newName string) error

	// ConverterTagSet replaces the converters attached to a tag.
	ConverterTagSet(ctx context.Context, name string, converters []string) error

	// ResetConverter drops the converter's cached output and restarts it.
	ResetConverter(ctx context.Context, name string) error

	// MarkTagNew creates a mark tag whose initial members are streams.
	MarkTagNew(ctx context.Context, name string, streams []uint64, color string) error
	MarkTagAdd(ctx context.Context, name string, streams []uint64) error
	MarkTagDel(ctx context.Context, name string, streams []uint64) error

	// SearchStreams runs a stream query and returns one page of results.
	SearchStreams(ctx context.Context, query string, page uint) (*models.StreamsResult, error)

	// GetStream returns one stream with its payload, rendered by converter
	// when it is non-empty.
	GetStream(ctx context.Context, id uint64, converter string) (*models.StreamData, error)

	// Close cleans up any resources used by the client.
	Close() error
}
