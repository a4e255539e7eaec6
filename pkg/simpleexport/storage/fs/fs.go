package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/tendant/simple-export/pkg/simpleexport"
)

// Backend is a filesystem implementation of the simpleexport.Archive
// interface. Objects live at <baseDir>/<namespace>/<content-hash>.
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing objects
	URLPrefix string // Optional URL prefix for download URLs
}

// New creates a new filesystem archive backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: config.URLPrefix,
	}, nil
}

func (b *Backend) objectPath(namespace, contentHash string) string {
	return filepath.Join(b.baseDir, namespace, contentHash)
}

// Publish copies the local file into the archive under the namespace. The
// file's basename is its content hash, so re-publishing identical content
// overwrites the same object.
func (b *Backend) Publish(ctx context.Context, namespace, path, mimeType string) error {
	src, err := os.Open(path)
	if err != nil {
		return &simpleexport.StorageError{Namespace: namespace, Key: path, Op: "publish", Err: err}
	}
	defer src.Close()

	target := b.objectPath(namespace, filepath.Base(path))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return &simpleexport.StorageError{Namespace: namespace, Key: path, Op: "publish", Err: err}
	}

	dst, err := os.Create(target)
	if err != nil {
		return &simpleexport.StorageError{Namespace: namespace, Key: path, Op: "publish", Err: err}
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return &simpleexport.StorageError{Namespace: namespace, Key: path, Op: "publish", Err: err}
	}

	return nil
}

// DeletePublication removes the object file at the namespace/hash key
func (b *Backend) DeletePublication(ctx context.Context, namespace, contentHash string) error {
	err := os.Remove(b.objectPath(namespace, contentHash))
	if os.IsNotExist(err) {
		return &simpleexport.StorageError{Namespace: namespace, Key: contentHash,
			Op: "delete_publication", Err: simpleexport.ErrObjectNotFound}
	}
	if err != nil {
		return &simpleexport.StorageError{Namespace: namespace, Key: contentHash,
			Op: "delete_publication", Err: err}
	}
	return nil
}

// GetDownloadURL returns a download URL for the object
func (b *Backend) GetDownloadURL(ctx context.Context, namespace, contentHash, downloadFilename string) (string, error) {
	if b.urlPrefix == "" {
		return "", errors.New("direct download required for filesystem backend")
	}

	if downloadFilename != "" {
		return fmt.Sprintf("%s/download/%s/%s?filename=%s",
			b.urlPrefix, namespace, contentHash, url.QueryEscape(downloadFilename)), nil
	}
	return fmt.Sprintf("%s/download/%s/%s", b.urlPrefix, namespace, contentHash), nil
}

// Download streams the object directly from the filesystem
func (b *Backend) Download(ctx context.Context, namespace, contentHash string) (io.ReadCloser, error) {
	f, err := os.Open(b.objectPath(namespace, contentHash))
	if os.IsNotExist(err) {
		return nil, &simpleexport.StorageError{Namespace: namespace, Key: contentHash,
			Op: "download", Err: simpleexport.ErrObjectNotFound}
	}
	if err != nil {
		return nil, &simpleexport.StorageError{Namespace: namespace, Key: contentHash,
			Op: "download", Err: err}
	}
	return f, nil
}
