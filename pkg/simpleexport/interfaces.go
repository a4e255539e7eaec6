package simpleexport

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Archive defines the interface for content-addressed blob backends. Objects
// are keyed by (namespace, content hash); the namespace partitions the store
// per owner while the hash makes identical payloads collapse to one key.
type Archive interface {
	// Publish uploads the local file at path under the given namespace. The
	// file's basename is expected to already be its content hash; publishing
	// the same content twice is idempotent.
	Publish(ctx context.Context, namespace, path, mimeType string) error

	// DeletePublication removes the object at the namespace/hash key. It
	// returns ErrObjectNotFound (possibly wrapped) when the object is absent.
	DeletePublication(ctx context.Context, namespace, contentHash string) error

	// GetDownloadURL returns a time-limited URL for downloading the object,
	// with the given filename suggested to the client.
	GetDownloadURL(ctx context.Context, namespace, contentHash, downloadFilename string) (string, error)

	// Download streams the object directly.
	Download(ctx context.Context, namespace, contentHash string) (io.ReadCloser, error)
}

// Repository defines the interface for export persistence. Soft-deleted rows
// are kept forever; filters that exclude them take an includeDeleted flag.
type Repository interface {
	CreateExport(ctx context.Context, export *Export) error
	GetExport(ctx context.Context, id uuid.UUID, includeDeleted bool) (*Export, error)
	UpdateExport(ctx context.Context, export *Export) error

	// ListExportsByCreator returns the creator's exports, newest first.
	ListExportsByCreator(ctx context.Context, creatorID uuid.UUID, includeDeleted bool) ([]*Export, error)

	// ListExpiredExports returns exports whose expiry is set and has passed.
	ListExpiredExports(ctx context.Context, now time.Time, includeDeleted bool) ([]*Export, error)

	// HasLiveReferrer reports whether any non-deleted export other than
	// excludeID references the given content hash.
	HasLiveReferrer(ctx context.Context, contentHash string, excludeID uuid.UUID) (bool, error)
}

// EventSink defines the interface for export lifecycle event handling
type EventSink interface {
	// ExportCreated is fired when an export record is created
	ExportCreated(ctx context.Context, export *Export) error

	// ExportPublished is fired when an export's payload reaches the archive
	ExportPublished(ctx context.Context, export *Export) error

	// PublicationDeleted is fired when an export is soft-deleted; physical
	// reports whether the backing blob was removed from the archive
	PublicationDeleted(ctx context.Context, export *Export, physical bool) error
}
