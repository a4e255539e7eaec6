package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-export/pkg/simpleexport"
)

func newTestBackend(t *testing.T, urlPrefix string) *Backend {
	t.Helper()
	backend, err := New(Config{
		BaseDir:   filepath.Join(t.TempDir(), "archive"),
		URLPrefix: urlPrefix,
	})
	require.NoError(t, err)
	return backend
}

func stageFile(t *testing.T, hash, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), hash)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewRequiresBaseDir(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestPublishAndDownload(t *testing.T) {
	backend := newTestBackend(t, "")
	ctx := context.Background()

	path := stageFile(t, "deadbeef", "export payload")
	require.NoError(t, backend.Publish(ctx, "role:r1", path, "text/csv"))

	// Object lands at <base>/<namespace>/<hash>.
	_, err := os.Stat(filepath.Join(backend.baseDir, "role:r1", "deadbeef"))
	require.NoError(t, err)

	rc, err := backend.Download(ctx, "role:r1", "deadbeef")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "export payload", string(data))

	// The staged source file is left in place.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestPublishIdempotent(t *testing.T) {
	backend := newTestBackend(t, "")
	ctx := context.Background()

	first := stageFile(t, "cafebabe", "identical")
	second := stageFile(t, "cafebabe", "identical")

	require.NoError(t, backend.Publish(ctx, "role:r1", first, ""))
	require.NoError(t, backend.Publish(ctx, "role:r1", second, ""))

	rc, err := backend.Download(ctx, "role:r1", "cafebabe")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "identical", string(data))
}

func TestDeletePublication(t *testing.T) {
	backend := newTestBackend(t, "")
	ctx := context.Background()

	path := stageFile(t, "feedface", "doomed")
	require.NoError(t, backend.Publish(ctx, "role:r1", path, ""))

	require.NoError(t, backend.DeletePublication(ctx, "role:r1", "feedface"))

	_, err := backend.Download(ctx, "role:r1", "feedface")
	assert.ErrorIs(t, err, simpleexport.ErrObjectNotFound)

	err = backend.DeletePublication(ctx, "role:r1", "feedface")
	assert.ErrorIs(t, err, simpleexport.ErrObjectNotFound)
}

func TestGetDownloadURL(t *testing.T) {
	ctx := context.Background()

	t.Run("without prefix", func(t *testing.T) {
		backend := newTestBackend(t, "")
		_, err := backend.GetDownloadURL(ctx, "role:r1", "deadbeef", "results.csv")
		assert.Error(t, err)
	})

	t.Run("with prefix and filename", func(t *testing.T) {
		backend := newTestBackend(t, "https://exports.example.com")
		url, err := backend.GetDownloadURL(ctx, "role:r1", "deadbeef", "results.csv")
		require.NoError(t, err)
		assert.Equal(t, "https://exports.example.com/download/role:r1/deadbeef?filename=results.csv", url)
	})

	t.Run("with prefix without filename", func(t *testing.T) {
		backend := newTestBackend(t, "https://exports.example.com")
		url, err := backend.GetDownloadURL(ctx, "role:r1", "deadbeef", "")
		require.NoError(t, err)
		assert.Equal(t, "https://exports.example.com/download/role:r1/deadbeef", url)
	})
}
