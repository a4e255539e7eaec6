package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-export/pkg/simpleexport"
)

func newExport(creatorID uuid.UUID, hash string, createdAt time.Time) *simpleexport.Export {
	return &simpleexport.Export{
		ID:          uuid.New(),
		Operation:   "search_export",
		CreatorID:   creatorID,
		Status:      simpleexport.StatusPending,
		ContentHash: hash,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestCreateAndGetExport(t *testing.T) {
	repo := New()
	ctx := context.Background()

	export := newExport(uuid.New(), "", time.Now().UTC())
	require.NoError(t, repo.CreateExport(ctx, export))

	got, err := repo.GetExport(ctx, export.ID, false)
	require.NoError(t, err)
	assert.Equal(t, export.ID, got.ID)

	// The repository hands out copies.
	got.Label = "mutated"
	again, err := repo.GetExport(ctx, export.ID, false)
	require.NoError(t, err)
	assert.Empty(t, again.Label)

	_, err = repo.GetExport(ctx, uuid.New(), false)
	assert.ErrorIs(t, err, simpleexport.ErrExportNotFound)
}

func TestGetExportDeleted(t *testing.T) {
	repo := New()
	ctx := context.Background()

	export := newExport(uuid.New(), "", time.Now().UTC())
	require.NoError(t, repo.CreateExport(ctx, export))

	export.Deleted = true
	require.NoError(t, repo.UpdateExport(ctx, export))

	_, err := repo.GetExport(ctx, export.ID, false)
	assert.ErrorIs(t, err, simpleexport.ErrExportNotFound)

	got, err := repo.GetExport(ctx, export.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
}

func TestUpdateExportNotFound(t *testing.T) {
	repo := New()
	ctx := context.Background()

	err := repo.UpdateExport(ctx, newExport(uuid.New(), "", time.Now().UTC()))
	assert.ErrorIs(t, err, simpleexport.ErrExportNotFound)
}

func TestListExportsByCreator(t *testing.T) {
	repo := New()
	ctx := context.Background()
	creatorID := uuid.New()
	base := time.Now().UTC()

	oldest := newExport(creatorID, "", base.Add(-2*time.Hour))
	middle := newExport(creatorID, "", base.Add(-time.Hour))
	newest := newExport(creatorID, "", base)
	other := newExport(uuid.New(), "", base)

	for _, e := range []*simpleexport.Export{oldest, middle, newest, other} {
		require.NoError(t, repo.CreateExport(ctx, e))
	}

	middle.Deleted = true
	require.NoError(t, repo.UpdateExport(ctx, middle))

	exports, err := repo.ListExportsByCreator(ctx, creatorID, false)
	require.NoError(t, err)
	require.Len(t, exports, 2)
	assert.Equal(t, newest.ID, exports[0].ID)
	assert.Equal(t, oldest.ID, exports[1].ID)

	exports, err = repo.ListExportsByCreator(ctx, creatorID, true)
	require.NoError(t, err)
	assert.Len(t, exports, 3)
}

func TestListExpiredExports(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := newExport(uuid.New(), "", now.Add(-2*time.Hour))
	expired.ExpiresAt = &past

	fresh := newExport(uuid.New(), "", now)
	fresh.ExpiresAt = &future

	// Null expiry means "never expires".
	forever := newExport(uuid.New(), "", now)

	sweptAlready := newExport(uuid.New(), "", now.Add(-2*time.Hour))
	sweptAlready.ExpiresAt = &past
	sweptAlready.Deleted = true

	for _, e := range []*simpleexport.Export{expired, fresh, forever, sweptAlready} {
		require.NoError(t, repo.CreateExport(ctx, e))
	}

	result, err := repo.ListExpiredExports(ctx, now, false)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, expired.ID, result[0].ID)

	result, err = repo.ListExpiredExports(ctx, now, true)
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestHasLiveReferrer(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now().UTC()

	a := newExport(uuid.New(), "hash-1", now)
	b := newExport(uuid.New(), "hash-1", now)
	c := newExport(uuid.New(), "hash-2", now)

	for _, e := range []*simpleexport.Export{a, b, c} {
		require.NoError(t, repo.CreateExport(ctx, e))
	}

	// b is a live referrer of hash-1 besides a.
	has, err := repo.HasLiveReferrer(ctx, "hash-1", a.ID)
	require.NoError(t, err)
	assert.True(t, has)

	// Once b is soft-deleted, a has no other live referrer.
	b.Deleted = true
	require.NoError(t, repo.UpdateExport(ctx, b))

	has, err = repo.HasLiveReferrer(ctx, "hash-1", a.ID)
	require.NoError(t, err)
	assert.False(t, has)

	has, err = repo.HasLiveReferrer(ctx, "hash-2", c.ID)
	require.NoError(t, err)
	assert.False(t, has)
}
