package store

import (
	"context"

	"github.com/grovetools/tapview/pkg/models"
	"github.com/grovetools/tapview/pkg/profiling"
	"github.com/sirupsen/logrus"
)

// UpdateStatus fetches the backend statistics.
func (r *Root) UpdateStatus(ctx context.Context) error {
	defer profiling.Start("update status").Stop()
	status, err := r.client.GetStatus(ctx)
	if err != nil {
		return r.handleError("update status", err)
	}
	r.replace(FieldStatus, func() { r.status = status })
	return nil
}

// UpdateTags fetches the tag list.
func (r *Root) UpdateTags(ctx context.Context) error {
	defer profiling.Start("update tags").Stop()
	tags, err := r.client.GetTags(ctx)
	if err != nil {
		return r.handleError("update tags", err)
	}
	tags = cloneTags(loaded(tags))
	r.replace(FieldTags, func() { r.tags = tags })
	r.logger.WithField("count", len(tags)).Debug("Tags updated")
	return nil
}

// UpdatePcaps fetches the list of imported capture files.
func (r *Root) UpdatePcaps(ctx context.Context) error {
	defer profiling.Start("update pcaps").Stop()
	pcaps, err := r.client.GetPcaps(ctx)
	if err != nil {
		return r.handleError("update pcaps", err)
	}
	pcaps = loaded(pcaps)
	r.replace(FieldPcaps, func() { r.pcaps = pcaps })
	return nil
}

// UpdateConverters fetches the converter statistics.
func (r *Root) UpdateConverters(ctx context.Context) error {
	defer profiling.Start("update converters").Stop()
	converters, err := r.client.GetConverters(ctx)
	if err != nil {
		return r.handleError("update converters", err)
	}
	converters = loaded(converters)
	r.replace(FieldConverters, func() { r.converters = converters })
	return nil
}

// GetClientConfig fetches the stored client configuration.
func (r *Root) GetClientConfig(ctx context.Context) error {
	defer profiling.Start("get client config").Stop()
	cfg, err := r.client.GetClientConfig(ctx)
	if err != nil {
		return r.handleError("get client config", err)
	}
	r.replace(FieldClientConfig, func() { r.clientConfig = cfg })
	return nil
}

// AddClientConfig submits cfg and caches the configuration echoed back.
func (r *Root) AddClientConfig(ctx context.Context, cfg models.ClientConfig) error {
	defer profiling.Start("add client config").Stop()
	stored, err := r.client.PostClientConfig(ctx, cfg)
	if err != nil {
		return r.handleError("add client config", err)
	}
	r.replace(FieldClientConfig, func() { r.clientConfig = stored })
	return nil
}

// UpdatePcapOverIPEndpoints fetches the pcap-over-IP endpoint list.
func (r *Root) UpdatePcapOverIPEndpoints(ctx context.Context) error {
	defer profiling.Start("update pcap-over-ip endpoints").Stop()
	endpoints, err := r.client.GetPcapOverIPEndpoints(ctx)
	if err != nil {
		return r.handleError("update pcap-over-ip endpoints", err)
	}
	endpoints = loaded(endpoints)
	r.replace(FieldPcapOverIP, func() { r.pcapOverIPEndpoints = endpoints })
	return nil
}

// AddPcapOverIPEndpoint registers an endpoint and refetches the endpoint list.
func (r *Root) AddPcapOverIPEndpoint(ctx context.Context, address string) error {
	return r.mutate(ctx, "add pcap-over-ip endpoint", func() error {
		return r.client.AddPcapOverIPEndpoint(ctx, address)
	}, nil, r.UpdatePcapOverIPEndpoints)
}

// DelPcapOverIPEndpoint removes an endpoint and refetches the endpoint list.
func (r *Root) DelPcapOverIPEndpoint(ctx context.Context, address string) error {
	return r.mutate(ctx, "delete pcap-over-ip endpoint", func() error {
		return r.client.DelPcapOverIPEndpoint(ctx, address)
	}, nil, r.UpdatePcapOverIPEndpoints)
}

// AddTag creates a tag and refetches the tag list.
func (r *Root) AddTag(ctx context.Context, name, query, color string) error {
	return r.mutate(ctx, "add tag", func() error {
		return r.client.AddTag(ctx, name, query, color)
	}, nil, r.UpdateTags)
}

// DelTag deletes a tag, removes it from every cached stream and refetches
// the tag list.
func (r *Root) DelTag(ctx context.Context, name string) error {
	return r.mutate(ctx, "delete tag", func() error {
		return r.client.DelTag(ctx, name)
	}, func() {
		r.UpdateMark(name, AllStreams(), false)
	}, r.UpdateTags)
}

// ChangeTagColor sets a tag's color and refetches the tag list.
func (r *Root) ChangeTagColor(ctx context.Context, name, color string) error {
	return r.mutate(ctx, "change tag color", func() error {
		return r.client.ChangeTagColor(ctx, name, color)
	}, nil, r.UpdateTags)
}

// ChangeTagDefinition replaces a tag's query and refetches the tag list.
func (r *Root) ChangeTagDefinition(ctx context.Context, name, definition string) error {
	return r.mutate(ctx, "change tag definition", func() error {
		return r.client.ChangeTagDefinition(ctx, name, definition)
	}, nil, r.UpdateTags)
}

// ChangeTagName renames a tag and refetches the tag list.
func (r *Root) ChangeTagName(ctx context.Context, name, newName string) error {
	return r.mutate(ctx, "change tag name", func() error {
		return r.client.ChangeTagName(ctx, name, newName)
	}, nil, r.UpdateTags)
}

// SetTagConverters attaches converters to a tag and refetches the tag list.
func (r *Root) SetTagConverters(ctx context.Context, name string, converters []string) error {
	return r.mutate(ctx, "set tag converters", func() error {
		return r.client.ConverterTagSet(ctx, name, converters)
	}, nil, r.UpdateTags)
}

// ResetConverter resets a converter and refetches the converter statistics.
func (r *Root) ResetConverter(ctx context.Context, name string) error {
	return r.mutate(ctx, "reset converter", func() error {
		return r.client.ResetConverter(ctx, name)
	}, nil, r.UpdateConverters)
}

// MarkTagNew creates a mark tag holding streams, tags the cached streams
// locally and refetches the tag list.
func (r *Root) MarkTagNew(ctx context.Context, name string, streams []uint64, color string) error {
	return r.mutate(ctx, "create mark", func() error {
		return r.client.MarkTagNew(ctx, name, streams, color)
	}, func() {
		r.UpdateMark(name, Streams(streams...), true)
	}, r.UpdateTags)
}

// MarkTagAdd adds streams to a mark tag, tags the cached streams locally and
// refetches the tag list.
func (r *Root) MarkTagAdd(ctx context.Context, name string, streams []uint64) error {
	return r.mutate(ctx, "add streams to mark", func() error {
		return r.client.MarkTagAdd(ctx, name, streams)
	}, func() {
		r.UpdateMark(name, Streams(streams...), true)
	}, r.UpdateTags)
}

// MarkTagDel removes streams from a mark tag, untags the cached streams
// locally and refetches the tag list.
func (r *Root) MarkTagDel(ctx context.Context, name string, streams []uint64) error {
	return r.mutate(ctx, "remove streams from mark", func() error {
		return r.client.MarkTagDel(ctx, name, streams)
	}, func() {
		r.UpdateMark(name, Streams(streams...), false)
	}, r.UpdateTags)
}

// UpdateMark adds or removes the tag name on the cached streams selected by
// filter, in every registered stream store. No backend call is made.
func (r *Root) UpdateMark(name string, filter StreamFilter, add bool) {
	r.mu.RLock()
	markers := append([]TagMarker(nil), r.markers...)
	r.mu.RUnlock()

	changed := 0
	for _, m := range markers {
		changed += m.ApplyTagDelta(name, filter, add)
	}
	var streams interface{} = "all"
	if !filter.All() {
		streams = filter.IDs()
	}
	r.logger.WithFields(logrus.Fields{
		"tag":     name,
		"add":     add,
		"streams": streams,
		"changed": changed,
	}).Debug("Applied tag membership locally")
	r.broadcast(Change{Field: FieldMarks, Tag: name})
}

// SearchStreams runs query and replaces the page held by dst. Stream pages
// are not cached by the root itself; dst should be registered as a marker so
// later mark changes reach it.
func (r *Root) SearchStreams(ctx context.Context, query string, page uint, dst *StreamsStore) error {
	defer profiling.Start("search streams").Stop()
	res, err := r.client.SearchStreams(ctx, query, page)
	if err != nil {
		return r.handleError("search streams", err)
	}
	dst.Set(res)
	r.broadcast(Change{Field: FieldStreams})
	return nil
}

// OpenStream loads one stream, rendered by converter when non-empty, into dst.
func (r *Root) OpenStream(ctx context.Context, id uint64, converter string, dst *StreamStore) error {
	defer profiling.Start("open stream").Stop()
	stream, err := r.client.GetStream(ctx, id, converter)
	if err != nil {
		return r.handleError("open stream", err)
	}
	dst.Set(stream)
	r.broadcast(Change{Field: FieldStream})
	return nil
}

// RefreshAll fetches every collection. All fetches are attempted; the first
// error is returned.
func (r *Root) RefreshAll(ctx context.Context) error {
	var first error
	for _, update := range []func(context.Context) error{
		r.UpdateStatus,
		r.UpdatePcaps,
		r.UpdateTags,
		r.UpdateConverters,
		r.GetClientConfig,
		r.UpdatePcapOverIPEndpoints,
	} {
		if err := update(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// mutate runs call and, only if it succeeds, applies local and then refresh.
// refresh reports its own, already normalized, errors.
// TODO: drop the refresh once tag and endpoint changes arrive through push
// notifications reliably.
func (r *Root) mutate(ctx context.Context, action string, call func() error, local func(), refresh func(context.Context) error) error {
	defer profiling.Start(action).Stop()
	if err := call(); err != nil {
		return r.handleError(action, err)
	}
	r.logger.WithField("action", action).Debug("Backend accepted change")
	if local != nil {
		local()
	}
	return refresh(ctx)
}
