package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-export/pkg/simpleexport"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simpleexport.Repository using PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE export (
//	    id            UUID PRIMARY KEY,
//	    label         TEXT,
//	    operation     TEXT,
//	    creator_id    UUID NOT NULL,
//	    collection_id UUID,
//	    expires_at    TIMESTAMPTZ,
//	    deleted       BOOLEAN NOT NULL DEFAULT FALSE,
//	    export_status TEXT NOT NULL DEFAULT 'pending',
//	    content_hash  VARCHAR(65),
//	    file_size     BIGINT,
//	    file_name     TEXT,
//	    mime_type     TEXT,
//	    meta          JSONB NOT NULL DEFAULT '{}',
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX export_content_hash_idx ON export (content_hash);
//	CREATE INDEX export_creator_id_idx ON export (creator_id);
//	CREATE INDEX export_collection_id_idx ON export (collection_id);
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) simpleexport.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) simpleexport.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("export already exists")
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const exportColumns = `
	id, label, operation, creator_id, collection_id, expires_at, deleted,
	export_status, content_hash, file_size, file_name, mime_type, meta,
	created_at, updated_at`

func (r *Repository) CreateExport(ctx context.Context, export *simpleexport.Export) error {
	meta, err := json.Marshal(export.Meta)
	if err != nil {
		return fmt.Errorf("failed to encode export meta: %w", err)
	}

	query := `
		INSERT INTO export (
			id, label, operation, creator_id, collection_id, expires_at,
			deleted, export_status, content_hash, file_size, file_name,
			mime_type, meta, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12, $13, $14, $15)`

	_, err = r.db.Exec(ctx, query,
		export.ID, export.Label, export.Operation, export.CreatorID,
		export.CollectionID, export.ExpiresAt, export.Deleted,
		string(export.Status), export.ContentHash, export.FileSize,
		export.FileName, export.MimeType, meta,
		export.CreatedAt, export.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create export", err)
	}

	return nil
}

func (r *Repository) GetExport(ctx context.Context, id uuid.UUID, includeDeleted bool) (*simpleexport.Export, error) {
	query := `SELECT ` + exportColumns + ` FROM export WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted = FALSE`
	}

	export, err := scanExport(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleexport.ErrExportNotFound
		}
		return nil, r.handlePostgresError("get export", err)
	}

	return export, nil
}

func (r *Repository) UpdateExport(ctx context.Context, export *simpleexport.Export) error {
	meta, err := json.Marshal(export.Meta)
	if err != nil {
		return fmt.Errorf("failed to encode export meta: %w", err)
	}

	query := `
		UPDATE export SET
			label = $2, operation = $3, creator_id = $4, collection_id = $5,
			expires_at = $6, deleted = $7, export_status = $8,
			content_hash = NULLIF($9, ''), file_size = $10, file_name = $11,
			mime_type = $12, meta = $13, updated_at = $14
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		export.ID, export.Label, export.Operation, export.CreatorID,
		export.CollectionID, export.ExpiresAt, export.Deleted,
		string(export.Status), export.ContentHash, export.FileSize,
		export.FileName, export.MimeType, meta, export.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("update export", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleexport.ErrExportNotFound
	}

	return nil
}

func (r *Repository) ListExportsByCreator(ctx context.Context, creatorID uuid.UUID, includeDeleted bool) ([]*simpleexport.Export, error) {
	query := `SELECT ` + exportColumns + ` FROM export WHERE creator_id = $1`
	if !includeDeleted {
		query += ` AND deleted = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, creatorID)
	if err != nil {
		return nil, r.handlePostgresError("list exports by creator", err)
	}
	defer rows.Close()

	return collectExports(rows)
}

func (r *Repository) ListExpiredExports(ctx context.Context, now time.Time, includeDeleted bool) ([]*simpleexport.Export, error) {
	query := `SELECT ` + exportColumns + ` FROM export
		WHERE expires_at IS NOT NULL AND expires_at <= $1`
	if !includeDeleted {
		query += ` AND deleted = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, r.handlePostgresError("list expired exports", err)
	}
	defer rows.Close()

	return collectExports(rows)
}

func (r *Repository) HasLiveReferrer(ctx context.Context, contentHash string, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM export
			WHERE content_hash = $1 AND deleted = FALSE AND id != $2
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, contentHash, excludeID).Scan(&exists); err != nil {
		return false, r.handlePostgresError("check live referrer", err)
	}

	return exists, nil
}

func scanExport(row pgx.Row) (*simpleexport.Export, error) {
	var export simpleexport.Export
	var status string
	var contentHash, fileName, mimeType *string
	var fileSize *int64
	var meta []byte

	err := row.Scan(
		&export.ID, &export.Label, &export.Operation, &export.CreatorID,
		&export.CollectionID, &export.ExpiresAt, &export.Deleted,
		&status, &contentHash, &fileSize, &fileName, &mimeType, &meta,
		&export.CreatedAt, &export.UpdatedAt)
	if err != nil {
		return nil, err
	}

	export.Status = simpleexport.ExportStatus(status)
	if contentHash != nil {
		export.ContentHash = *contentHash
	}
	if fileSize != nil {
		export.FileSize = *fileSize
	}
	if fileName != nil {
		export.FileName = *fileName
	}
	if mimeType != nil {
		export.MimeType = *mimeType
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &export.Meta); err != nil {
			return nil, fmt.Errorf("failed to decode export meta: %w", err)
		}
	}

	return &export, nil
}

func collectExports(rows pgx.Rows) ([]*simpleexport.Export, error) {
	var result []*simpleexport.Export
	for rows.Next() {
		export, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, export)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
