package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/tendant/simple-export/pkg/simpleexport"
)

// Backend is an in-memory implementation of the simpleexport.Archive
// interface, intended for tests and local development.
type Backend struct {
	mu              sync.RWMutex
	objects         map[string][]byte
	objectsMimeType map[string]string
}

// New creates a new in-memory archive backend
func New() *Backend {
	return &Backend{
		objects:         make(map[string][]byte),
		objectsMimeType: make(map[string]string),
	}
}

func objectKey(namespace, contentHash string) string {
	return fmt.Sprintf("%s/%s", namespace, contentHash)
}

// keyFromPath derives the content key from a staged file, whose basename is
// its content hash by the time it is published.
func keyFromPath(path string) string {
	return filepath.Base(path)
}

// Publish stores the local file's bytes under the namespace/hash key. The
// file's basename is the content hash.
func (b *Backend) Publish(ctx context.Context, namespace, path, mimeType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &simpleexport.StorageError{Namespace: namespace, Key: path, Op: "publish", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := objectKey(namespace, keyFromPath(path))
	b.objects[key] = data
	b.objectsMimeType[key] = mimeType

	return nil
}

// DeletePublication removes the object at the namespace/hash key
func (b *Backend) DeletePublication(ctx context.Context, namespace, contentHash string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := objectKey(namespace, contentHash)
	if _, exists := b.objects[key]; !exists {
		return &simpleexport.StorageError{Namespace: namespace, Key: contentHash,
			Op: "delete_publication", Err: simpleexport.ErrObjectNotFound}
	}
	delete(b.objects, key)
	delete(b.objectsMimeType, key)

	return nil
}

// GetDownloadURL is not supported by the memory backend
func (b *Backend) GetDownloadURL(ctx context.Context, namespace, contentHash, downloadFilename string) (string, error) {
	return "", errors.New("direct download required for memory backend")
}

// Download streams the object directly
func (b *Backend) Download(ctx context.Context, namespace, contentHash string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey(namespace, contentHash)]
	if !exists {
		return nil, &simpleexport.StorageError{Namespace: namespace, Key: contentHash,
			Op: "download", Err: simpleexport.ErrObjectNotFound}
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Exists reports whether an object is present, for tests
func (b *Backend) Exists(namespace, contentHash string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[objectKey(namespace, contentHash)]
	return exists
}
