package memory

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

func stageFile(t *testing.T, hash, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), hash)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPublishAndDownload(t *testing.T) {
	backend := New()
	ctx := context.Background()

	path := stageFile(t, "deadbeef", "export payload")
	require.NoError(t, backend.Publish(ctx, "role:r1", path, "text/csv"))

	assert.True(t, backend.Exists("role:r1", "deadbeef"))

	rc, err := backend.Download(ctx, "role:r1", "deadbeef")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "export payload", string(data))
}

func TestNamespacePartitioning(t *testing.T) {
	backend := New()
	ctx := context.Background()

	path := stageFile(t, "cafebabe", "shared bytes")
	require.NoError(t, backend.Publish(ctx, "role:r1", path, ""))

	// Same hash under another namespace is a distinct key.
	assert.True(t, backend.Exists("role:r1", "cafebabe"))
	assert.False(t, backend.Exists("role:r2", "cafebabe"))

	_, err := backend.Download(ctx, "role:r2", "cafebabe")
	assert.ErrorIs(t, err, simpleexport.ErrObjectNotFound)
}

func TestDeletePublication(t *testing.T) {
	backend := New()
	ctx := context.Background()

	path := stageFile(t, "feedface", "doomed")
	require.NoError(t, backend.Publish(ctx, "role:r1", path, ""))

	require.NoError(t, backend.DeletePublication(ctx, "role:r1", "feedface"))
	assert.False(t, backend.Exists("role:r1", "feedface"))

	err := backend.DeletePublication(ctx, "role:r1", "feedface")
	assert.ErrorIs(t, err, simpleexport.ErrObjectNotFound)

	var storageErr *simpleexport.StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestPublishMissingFile(t *testing.T) {
	backend := New()
	err := backend.Publish(context.Background(), "role:r1", filepath.Join(t.TempDir(), "nope"), "")
	assert.Error(t, err)
}
