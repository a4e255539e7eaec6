package simpleexport

import "context"

// NoopEventSink is an event sink that discards all events
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-op event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) ExportCreated(ctx context.Context, export *Export) error {
	return nil
}

func (n *NoopEventSink) ExportPublished(ctx context.Context, export *Export) error {
	return nil
}

func (n *NoopEventSink) PublicationDeleted(ctx context.Context, export *Export, physical bool) error {
	return nil
}
