package simpleexport

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExportStatus is the domain type for export lifecycle states.
type ExportStatus string

// Export status constants (typed).
const (
	StatusPending    ExportStatus = "pending"
	StatusSuccessful ExportStatus = "successful"
	StatusFailed     ExportStatus = "failed"
)

// DefaultStatus is the status assigned to newly created exports.
const DefaultStatus = StatusPending

// DefaultExpiration is how long an export remains downloadable unless the
// caller asks for a different window.
const DefaultExpiration = 30 * 24 * time.Hour

// MaxFileSize is the largest payload an export may stage (10 GB).
const MaxFileSize = 10 * 1024 * 1024 * 1024

// statusLabels maps recognized statuses to their display labels. Serialized
// exports carry the label when the status is recognized, the raw string
// otherwise.
var statusLabels = map[ExportStatus]string{
	StatusPending:    "pending",
	StatusSuccessful: "successful",
	StatusFailed:     "failed",
}

// Valid reports whether the status is one of the recognized lifecycle states.
func (s ExportStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label for a recognized status, or the raw value.
func (s ExportStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Export represents a data export run in the background. The payload is
// published to a content-addressed archive and the owner is given a link to
// download it. The link expires after a fixed duration and the published data
// is reclaimed, unless another live export still references the same bytes.
type Export struct {
	ID           uuid.UUID              `json:"id"`
	Label        string                 `json:"label"`
	Operation    string                 `json:"operation"`
	CreatorID    uuid.UUID              `json:"creator_id"`
	CollectionID *uuid.UUID             `json:"collection_id,omitempty"`
	ExpiresAt    *time.Time             `json:"expires_at,omitempty"`
	Deleted      bool                   `json:"deleted"`
	Status       ExportStatus           `json:"export_status"`
	ContentHash  string                 `json:"content_hash,omitempty"`
	FileSize     int64                  `json:"file_size,omitempty"`
	FileName     string                 `json:"file_name,omitempty"`
	MimeType     string                 `json:"mime_type,omitempty"`
	Meta         map[string]interface{} `json:"meta,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`

	// filePath holds the local staging path between SetFilepath and Publish.
	// It is never persisted or serialized.
	filePath string
}

// Namespace returns the archive partition for this export, scoped to the
// owning role. Publication and deletion always address the archive through
// this key, so identical content under different owners never shares a
// storage key.
func (e *Export) Namespace() string {
	return fmt.Sprintf("role:%s", e.CreatorID)
}

// StagedPath returns the transient local staging path, empty once the export
// has been published or if no file was staged.
func (e *Export) StagedPath() string {
	return e.filePath
}

// Map returns the serialized representation served to API consumers. The
// staging path is intentionally absent.
func (e *Export) Map() map[string]interface{} {
	var collectionID interface{}
	if e.CollectionID != nil {
		collectionID = e.CollectionID.String()
	}
	var expiresAt interface{}
	if e.ExpiresAt != nil {
		expiresAt = e.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return map[string]interface{}{
		"id":            e.ID.String(),
		"label":         e.Label,
		"operation":     e.Operation,
		"creator_id":    e.CreatorID.String(),
		"collection_id": collectionID,
		"expires_at":    expiresAt,
		"deleted":       e.Deleted,
		"export_status": e.Status.Label(),
		"content_hash":  e.ContentHash,
		"file_size":     e.FileSize,
		"file_name":     e.FileName,
		"meta":          e.Meta,
		"created_at":    e.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":    e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Expired reports whether the export's expiry has passed at the given time.
// Exports without an expiry never expire.
func (e *Export) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}
