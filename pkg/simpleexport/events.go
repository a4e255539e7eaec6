package simpleexport

import (
	"context"
	"log/slog"
)

// LogEventSink logs export lifecycle events through slog.
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates an event sink that logs to the given logger, or to
// slog.Default when nil.
func NewLogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger}
}

func (l *LogEventSink) ExportCreated(ctx context.Context, export *Export) error {
	l.logger.InfoContext(ctx, "export created",
		"export_id", export.ID,
		"operation", export.Operation,
		"creator_id", export.CreatorID)
	return nil
}

func (l *LogEventSink) ExportPublished(ctx context.Context, export *Export) error {
	l.logger.InfoContext(ctx, "export published",
		"export_id", export.ID,
		"content_hash", export.ContentHash,
		"file_size", export.FileSize)
	return nil
}

func (l *LogEventSink) PublicationDeleted(ctx context.Context, export *Export, physical bool) error {
	l.logger.InfoContext(ctx, "publication deleted",
		"export_id", export.ID,
		"content_hash", export.ContentHash,
		"reclaimed", physical)
	return nil
}
