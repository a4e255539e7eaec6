package simpleexport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	archive    Archive
	eventSink  EventSink
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithArchive sets the content archive for the service
func WithArchive(archive Archive) Option {
	return func(s *service) {
		s.archive = archive
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.archive == nil {
		return nil, fmt.Errorf("archive is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}

	return s, nil
}

// Export lifecycle operations

func (s *service) CreateExport(ctx context.Context, req CreateExportRequest) (*Export, error) {
	now := time.Now().UTC()
	expiration := DefaultExpiration
	if req.ExpiresAfter > 0 {
		expiration = req.ExpiresAfter
	}
	expiresAt := now.Add(expiration)

	meta := req.Meta
	if meta == nil {
		meta = map[string]interface{}{}
	}

	export := &Export{
		ID:           uuid.New(),
		Label:        req.Label,
		Operation:    req.Operation,
		CreatorID:    req.CreatorID,
		CollectionID: req.CollectionID,
		ExpiresAt:    &expiresAt,
		Status:       DefaultStatus,
		MimeType:     req.MimeType,
		Meta:         meta,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if req.FilePath != "" {
		if err := stage(export, req.FilePath); err != nil {
			return nil, err
		}
	}

	if err := s.repository.CreateExport(ctx, export); err != nil {
		return nil, &ExportError{ExportID: export.ID, Op: "create", Err: err}
	}

	// Best-effort; event failures never fail the operation.
	s.eventSink.ExportCreated(ctx, export)

	return export, nil
}

// SetFilepath stages a local file on the export: display name, size and
// content hash are recorded, the raw path is held in memory for the
// subsequent Publish call.
func (s *service) SetFilepath(ctx context.Context, export *Export, path string) error {
	if err := stage(export, path); err != nil {
		return err
	}
	export.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateExport(ctx, export); err != nil {
		return &ExportError{ExportID: export.ID, Op: "set_filepath", Err: err}
	}
	return nil
}

func stage(export *Export, path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &ExportError{ExportID: export.ID, Op: "set_filepath",
			Err: fmt.Errorf("%w: %s", ErrFileNotFound, path)}
	}
	if err != nil {
		return &ExportError{ExportID: export.ID, Op: "set_filepath", Err: err}
	}
	if info.IsDir() {
		return &ExportError{ExportID: export.ID, Op: "set_filepath",
			Err: fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)}
	}
	if info.Size() > MaxFileSize {
		return &ExportError{ExportID: export.ID, Op: "set_filepath", Err: ErrFileTooLarge}
	}

	hash, err := Checksum(path)
	if err != nil {
		return &ExportError{ExportID: export.ID, Op: "set_filepath", Err: err}
	}

	export.FileName = SafeFileName(filepath.Base(path))
	export.FileSize = info.Size()
	export.ContentHash = hash
	export.filePath = path
	return nil
}

// Publish moves the staged file into the archive under the export's
// namespace, keyed by content hash. The staged file is first renamed to its
// content hash so that concurrent publications of identical content collapse
// to the same storage key. On archive failure the export is marked failed
// before the original error is returned.
func (s *service) Publish(ctx context.Context, export *Export) error {
	if export.filePath == "" {
		return &ExportError{ExportID: export.ID, Op: "publish", Err: ErrNoStagedFile}
	}

	path := filepath.Join(filepath.Dir(export.filePath), export.ContentHash)
	if path != export.filePath {
		if err := os.Rename(export.filePath, path); err != nil {
			return &ExportError{ExportID: export.ID, Op: "publish", Err: err}
		}
		export.filePath = path
	}

	if err := s.archive.Publish(ctx, export.Namespace(), path, export.MimeType); err != nil {
		// The failed status is recorded before the original error
		// propagates; it is not guaranteed persisted if the update fails.
		s.SetStatus(ctx, export, StatusFailed)
		return err
	}

	if err := s.SetStatus(ctx, export, StatusSuccessful); err != nil {
		return err
	}
	export.filePath = ""

	s.eventSink.ExportPublished(ctx, export)

	return nil
}

// SetStatus records a status transition. Unrecognized status values are
// silently ignored; callers only ever pass the recognized lifecycle states.
func (s *service) SetStatus(ctx context.Context, export *Export, status ExportStatus) error {
	if !status.Valid() {
		return nil
	}
	export.Status = status
	export.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateExport(ctx, export); err != nil {
		return &ExportError{ExportID: export.ID, Op: "set_status", Err: err}
	}
	return nil
}

// Reclamation operations

// DeletePublication soft-deletes the export and, when no other live export
// references the same content hash, removes the blob from the archive.
//
// The live-referrer check and the physical delete are a point-in-time query,
// not a transaction: a concurrent Publish of the same hash between the two
// can have its blob deleted out from under it. See DESIGN.md for the
// trade-off.
func (s *service) DeletePublication(ctx context.Context, export *Export) error {
	_, err := s.deletePublication(ctx, export)
	return err
}

func (s *service) deletePublication(ctx context.Context, export *Export) (bool, error) {
	physical := false
	if export.ContentHash != "" {
		hasLive, err := s.repository.HasLiveReferrer(ctx, export.ContentHash, export.ID)
		if err != nil {
			return false, &ExportError{ExportID: export.ID, Op: "delete_publication", Err: err}
		}
		if !hasLive {
			err := s.archive.DeletePublication(ctx, export.Namespace(), export.ContentHash)
			if err != nil && !errors.Is(err, ErrObjectNotFound) {
				return false, err
			}
			physical = err == nil
		}
	}

	export.Deleted = true
	export.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateExport(ctx, export); err != nil {
		return physical, &ExportError{ExportID: export.ID, Op: "delete_publication", Err: err}
	}

	s.eventSink.PublicationDeleted(ctx, export, physical)

	return physical, nil
}

func (s *service) GetExpired(ctx context.Context, includeDeleted bool) ([]*Export, error) {
	return s.repository.ListExpiredExports(ctx, time.Now().UTC(), includeDeleted)
}

// SweepExpired soft-deletes every expired export, reclaiming archive blobs
// that have no other live referrer. Failures are collected per export and the
// sweep continues with the remaining records.
func (s *service) SweepExpired(ctx context.Context) (*SweepResult, error) {
	expired, err := s.GetExpired(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing expired exports: %w", err)
	}

	result := &SweepResult{Failed: map[uuid.UUID]error{}}
	for _, export := range expired {
		physical, err := s.deletePublication(ctx, export)
		if err != nil {
			result.Failed[export.ID] = err
			continue
		}
		result.Swept++
		if physical {
			result.Reclaimed++
		}
	}
	return result, nil
}

// Lookup operations

func (s *service) GetExport(ctx context.Context, req GetExportRequest) (*Export, error) {
	export, err := s.repository.GetExport(ctx, req.ID, req.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	if req.CreatorID != nil && export.CreatorID != *req.CreatorID {
		return nil, ErrExportNotFound
	}
	return export, nil
}

func (s *service) ListExportsByRole(ctx context.Context, roleID uuid.UUID, includeDeleted bool) ([]*Export, error) {
	return s.repository.ListExportsByCreator(ctx, roleID, includeDeleted)
}

// Download access

// GetDownloadURL issues a time-limited download link for a successfully
// published, not yet reclaimed export.
func (s *service) GetDownloadURL(ctx context.Context, export *Export) (string, error) {
	if export.Deleted {
		return "", ErrExportNotFound
	}
	if export.Status != StatusSuccessful || export.ContentHash == "" {
		return "", ErrExportNotReady
	}
	return s.archive.GetDownloadURL(ctx, export.Namespace(), export.ContentHash, export.FileName)
}
