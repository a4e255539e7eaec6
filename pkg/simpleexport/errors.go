package simpleexport

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrExportNotFound indicates an export was not found
	ErrExportNotFound = errors.New("export not found")

	// ErrFileNotFound indicates a local file to stage was not found
	ErrFileNotFound = errors.New("file not found")

	// ErrObjectNotFound indicates a published object was not found in the archive
	ErrObjectNotFound = errors.New("object not found")

	// ErrNoStagedFile indicates publish was called before a file was staged
	ErrNoStagedFile = errors.New("no file staged for publication")

	// ErrExportNotReady indicates the export is not in a state that allows download
	ErrExportNotReady = errors.New("export not ready for download")

	// ErrFileTooLarge indicates the staged file exceeds MaxFileSize
	ErrFileTooLarge = errors.New("file exceeds maximum export size")
)

// ExportError represents an error related to export operations
type ExportError struct {
	ExportID uuid.UUID
	Op       string
	Err      error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export operation %s failed for export %s: %v", e.Op, e.ExportID, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// StorageError represents an error from the content archive
type StorageError struct {
	Namespace string
	Key       string
	Op        string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("archive operation %s failed for key %s in namespace %s: %v", e.Op, e.Key, e.Namespace, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
