package simpleexport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	hash, err := Checksum(path)
	require.NoError(t, err)
	// sha256("hello world")
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", hash)

	// Identical content elsewhere hashes identically.
	other := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(other, []byte("hello world"), 0644))
	otherHash, err := Checksum(other)
	require.NoError(t, err)
	assert.Equal(t, hash, otherHash)

	// Different content hashes differently.
	changed := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(changed, []byte("hello world!"), 0644))
	changedHash, err := Checksum(changed)
	require.NoError(t, err)
	assert.NotEqual(t, hash, changedHash)
}

func TestChecksumMissingFile(t *testing.T) {
	_, err := Checksum(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}
