package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/media"
	"github.com/propertypassport/api/pkg/domain/shared"
)

// MediaRepository implements media.Repository using PostgreSQL.
type MediaRepository struct {
	db *DB
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(db *DB) *MediaRepository {
	return &MediaRepository{db: db}
}

const mediaColumns = `id, property_id, object_key, file_name, content_type, size_bytes, kind, caption, uploaded_by, created_at`

// Create persists a new media record.
func (r *MediaRepository) Create(ctx context.Context, m *media.Media) error {
	query := `
		INSERT INTO media (id, property_id, object_key, file_name, content_type, size_bytes, kind, caption, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		m.ID().String(),
		m.PropertyID().String(),
		m.ObjectKey(),
		m.FileName(),
		m.ContentType(),
		m.SizeBytes(),
		m.MediaKind().String(),
		nullString(m.Caption()),
		m.UploadedBy().String(),
		m.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create media: %w", err)
	}

	return nil
}

// GetByID retrieves a media item by ID.
func (r *MediaRepository) GetByID(ctx context.Context, id shared.ID) (*media.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = $1`
	return r.scanMedia(r.db.QueryRowContext(ctx, query, id.String()))
}

// Update updates a media item (caption only; object metadata is immutable).
func (r *MediaRepository) Update(ctx context.Context, m *media.Media) error {
	result, err := r.db.ExecContext(ctx, `UPDATE media SET caption = $2 WHERE id = $1`,
		m.ID().String(),
		nullString(m.Caption()),
	)
	if err != nil {
		return fmt.Errorf("failed to update media: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// Delete removes a media record.
func (r *MediaRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// ListByProperty returns all media attached to a property, newest first.
func (r *MediaRepository) ListByProperty(ctx context.Context, propertyID shared.ID) ([]*media.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE property_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, propertyID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	var items []*media.Media
	for rows.Next() {
		m, err := r.scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media: %w", err)
	}

	return items, nil
}

// CountByProperty returns the number of media items attached to a property.
func (r *MediaRepository) CountByProperty(ctx context.Context, propertyID shared.ID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media WHERE property_id = $1`, propertyID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count media: %w", err)
	}
	return count, nil
}

// Count returns the total number of media items.
func (r *MediaRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count media: %w", err)
	}
	return count, nil
}

func (r *MediaRepository) scanMedia(row rowScanner) (*media.Media, error) {
	var (
		idStr         string
		propertyIDStr string
		objectKey     string
		fileName      string
		contentType   string
		sizeBytes     int64
		kind          string
		caption       sql.NullString
		uploadedByStr string
		createdAt     sql.NullTime
	)

	err := row.Scan(&idStr, &propertyIDStr, &objectKey, &fileName, &contentType, &sizeBytes, &kind, &caption, &uploadedByStr, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan media: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid media ID: %w", err)
	}
	propertyID, err := shared.IDFromString(propertyIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID: %w", err)
	}
	uploadedBy, err := shared.IDFromString(uploadedByStr)
	if err != nil {
		return nil, fmt.Errorf("invalid uploader ID: %w", err)
	}

	return media.Reconstitute(
		id,
		propertyID,
		objectKey,
		fileName,
		contentType,
		sizeBytes,
		media.Kind(kind),
		nullStringValue(caption),
		uploadedBy,
		createdAt.Time,
	), nil
}
