package simpleexport

import (
	"time"

	"github.com/google/uuid"
)

// CreateExportRequest contains parameters for creating an export
type CreateExportRequest struct {
	Operation    string
	CreatorID    uuid.UUID
	Label        string
	CollectionID *uuid.UUID
	MimeType     string
	Meta         map[string]interface{}

	// FilePath, when set, stages the file immediately on creation.
	FilePath string

	// ExpiresAfter overrides DefaultExpiration when positive.
	ExpiresAfter time.Duration
}

// GetExportRequest contains parameters for looking up a single export
type GetExportRequest struct {
	ID uuid.UUID

	// CreatorID, when set, scopes the lookup to that owner.
	CreatorID *uuid.UUID

	IncludeDeleted bool
}
