package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/document"
	"github.com/propertypassport/api/pkg/domain/shared"
)

// DocumentRepository implements document.Repository using PostgreSQL.
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, property_id, object_key, file_name, content_type, size_bytes, kind, uploaded_by, created_at`

// Create persists a new document record.
func (r *DocumentRepository) Create(ctx context.Context, d *document.Document) error {
	query := `
		INSERT INTO documents (id, property_id, object_key, file_name, content_type, size_bytes, kind, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		d.ID().String(),
		d.PropertyID().String(),
		d.ObjectKey(),
		d.FileName(),
		d.ContentType(),
		d.SizeBytes(),
		d.DocumentKind().String(),
		d.UploadedBy().String(),
		d.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id shared.ID) (*document.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return r.scanDocument(r.db.QueryRowContext(ctx, query, id.String()))
}

// Delete removes a document record.
func (r *DocumentRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// ListByProperty returns all documents attached to a property, newest first.
func (r *DocumentRepository) ListByProperty(ctx context.Context, propertyID shared.ID) ([]*document.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE property_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, propertyID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var documents []*document.Document
	for rows.Next() {
		d, err := r.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return documents, nil
}

// CountByProperty returns the number of documents attached to a property.
func (r *DocumentRepository) CountByProperty(ctx context.Context, propertyID shared.ID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE property_id = $1`, propertyID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// Count returns the total number of documents.
func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

func (r *DocumentRepository) scanDocument(row rowScanner) (*document.Document, error) {
	var (
		idStr         string
		propertyIDStr string
		objectKey     string
		fileName      string
		contentType   string
		sizeBytes     int64
		kind          string
		uploadedByStr string
		createdAt     sql.NullTime
	)

	err := row.Scan(&idStr, &propertyIDStr, &objectKey, &fileName, &contentType, &sizeBytes, &kind, &uploadedByStr, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID: %w", err)
	}
	propertyID, err := shared.IDFromString(propertyIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID: %w", err)
	}
	uploadedBy, err := shared.IDFromString(uploadedByStr)
	if err != nil {
		return nil, fmt.Errorf("invalid uploader ID: %w", err)
	}

	return document.Reconstitute(
		id,
		propertyID,
		objectKey,
		fileName,
		contentType,
		sizeBytes,
		document.Kind(kind),
		uploadedBy,
		createdAt.Time,
	), nil
}
