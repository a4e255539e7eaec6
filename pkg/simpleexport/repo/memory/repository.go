package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-export/pkg/simpleexport"
)

// Repository implements simpleexport.Repository using in-memory storage
type Repository struct {
	mu      sync.RWMutex
	exports map[uuid.UUID]*simpleexport.Export
}

// New creates a new in-memory repository
func New() simpleexport.Repository {
	return &Repository{
		exports: make(map[uuid.UUID]*simpleexport.Export),
	}
}

func (r *Repository) CreateExport(ctx context.Context, export *simpleexport.Export) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	exportCopy := *export
	r.exports[export.ID] = &exportCopy

	return nil
}

func (r *Repository) GetExport(ctx context.Context, id uuid.UUID, includeDeleted bool) (*simpleexport.Export, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	export, exists := r.exports[id]
	if !exists {
		return nil, simpleexport.ErrExportNotFound
	}
	if export.Deleted && !includeDeleted {
		return nil, simpleexport.ErrExportNotFound
	}

	exportCopy := *export
	return &exportCopy, nil
}

func (r *Repository) UpdateExport(ctx context.Context, export *simpleexport.Export) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.exports[export.ID]; !exists {
		return simpleexport.ErrExportNotFound
	}

	exportCopy := *export
	r.exports[export.ID] = &exportCopy

	return nil
}

func (r *Repository) ListExportsByCreator(ctx context.Context, creatorID uuid.UUID, includeDeleted bool) ([]*simpleexport.Export, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simpleexport.Export
	for _, export := range r.exports {
		if export.CreatorID != creatorID {
			continue
		}
		if export.Deleted && !includeDeleted {
			continue
		}
		exportCopy := *export
		result = append(result, &exportCopy)
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) ListExpiredExports(ctx context.Context, now time.Time, includeDeleted bool) ([]*simpleexport.Export, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simpleexport.Export
	for _, export := range r.exports {
		if export.ExpiresAt == nil || export.ExpiresAt.After(now) {
			continue
		}
		if export.Deleted && !includeDeleted {
			continue
		}
		exportCopy := *export
		result = append(result, &exportCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) HasLiveReferrer(ctx context.Context, contentHash string, excludeID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, export := range r.exports {
		if export.ID == excludeID {
			continue
		}
		if export.Deleted {
			continue
		}
		if export.ContentHash == contentHash {
			return true, nil
		}
	}
	return false, nil
}
