package simpleexport

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the simple-export library
type Service interface {
	// Export lifecycle operations
	CreateExport(ctx context.Context, req CreateExportRequest) (*Export, error)
	SetFilepath(ctx context.Context, export *Export, path string) error
	Publish(ctx context.Context, export *Export) error
	SetStatus(ctx context.Context, export *Export, status ExportStatus) error

	// Reclamation operations
	DeletePublication(ctx context.Context, export *Export) error
	GetExpired(ctx context.Context, includeDeleted bool) ([]*Export, error)
	SweepExpired(ctx context.Context) (*SweepResult, error)

	// Lookup operations
	GetExport(ctx context.Context, req GetExportRequest) (*Export, error)
	ListExportsByRole(ctx context.Context, roleID uuid.UUID, includeDeleted bool) ([]*Export, error)

	// Download access
	GetDownloadURL(ctx context.Context, export *Export) (string, error)
}

// SweepResult summarizes one expiry sweep run
type SweepResult struct {
	// Swept counts exports that were soft-deleted during the run.
	Swept int

	// Reclaimed counts blobs physically removed from the archive.
	Reclaimed int

	// Failed maps export IDs to the error that aborted their sweep step.
	Failed map[uuid.UUID]error
}
