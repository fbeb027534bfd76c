package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/shared"
)

// PropertyRepository implements property.Repository using PostgreSQL.
type PropertyRepository struct {
	db *DB
}

// NewPropertyRepository creates a new PropertyRepository.
func NewPropertyRepository(db *DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

const propertyColumns = `id, slug, address_line1, address_line2, city, postcode, property_type,
	bedrooms, bathrooms, price, epc_rating, public_visibility, created_by, created_at, updated_at`

// Create persists a new property.
func (r *PropertyRepository) Create(ctx context.Context, p *property.Property) error {
	query := `
		INSERT INTO properties (id, slug, address_line1, address_line2, city, postcode, property_type,
			bedrooms, bathrooms, price, epc_rating, public_visibility, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID().String(),
		p.Slug(),
		p.AddressLine1(),
		nullString(p.AddressLine2()),
		p.City(),
		p.Postcode(),
		p.PropertyType().String(),
		p.Bedrooms(),
		p.Bathrooms(),
		p.Price(),
		nullString(p.EPCRating()),
		p.PublicVisibility(),
		p.CreatedBy().String(),
		p.CreatedAt(),
		p.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create property: %w", err)
	}

	return nil
}

// GetByID retrieves a property by ID.
func (r *PropertyRepository) GetByID(ctx context.Context, id shared.ID) (*property.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return r.scanProperty(r.db.QueryRowContext(ctx, query, id.String()))
}

// GetBySlug retrieves a property by slug.
func (r *PropertyRepository) GetBySlug(ctx context.Context, slug string) (*property.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE slug = $1`
	return r.scanProperty(r.db.QueryRowContext(ctx, query, slug))
}

// Update updates an existing property.
func (r *PropertyRepository) Update(ctx context.Context, p *property.Property) error {
	query := `
		UPDATE properties
		SET slug = $2, address_line1 = $3, address_line2 = $4, city = $5, postcode = $6,
			property_type = $7, bedrooms = $8, bathrooms = $9, price = $10, epc_rating = $11,
			public_visibility = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		p.ID().String(),
		p.Slug(),
		p.AddressLine1(),
		nullString(p.AddressLine2()),
		p.City(),
		p.Postcode(),
		p.PropertyType().String(),
		p.Bedrooms(),
		p.Bathrooms(),
		p.Price(),
		nullString(p.EPCRating()),
		p.PublicVisibility(),
		p.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to update property: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// Delete removes a property.
func (r *PropertyRepository) Delete(ctx context.Context, id shared.ID) error {
	query := `DELETE FROM properties WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// ListByCreator returns properties created by the user, newest first.
func (r *PropertyRepository) ListByCreator(ctx context.Context, userID shared.ID, offset, limit int) ([]*property.Property, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM properties WHERE created_by = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID.String()).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	query := `SELECT ` + propertyColumns + ` FROM properties WHERE created_by = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, userID.String(), offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	properties, err := r.collectProperties(rows)
	if err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

// ListIDsByCreator returns the IDs of properties the user created.
func (r *PropertyRepository) ListIDsByCreator(ctx context.Context, userID shared.ID) ([]shared.ID, error) {
	query := `SELECT id FROM properties WHERE created_by = $1`

	rows, err := r.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list property IDs: %w", err)
	}
	defer rows.Close()

	var ids []shared.ID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, fmt.Errorf("failed to scan property ID: %w", err)
		}

		id, err := shared.IDFromString(idStr)
		if err != nil {
			continue // skip invalid IDs
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate property IDs: %w", err)
	}

	return ids, nil
}

// SlugExists reports whether a slug is already taken.
func (r *PropertyRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM properties WHERE slug = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}

	return exists, nil
}

// Count returns the total number of properties.
func (r *PropertyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

// Search runs the search_properties full-text function when query is non-empty,
// otherwise a recency-ordered scan. Rows carry document/media/open-issue counts
// so in-memory filters can run without extra round trips.
func (r *PropertyRepository) Search(ctx context.Context, query string, offset, limit int) ([]property.SearchRow, error) {
	const countsJoin = `
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS n FROM documents d WHERE d.property_id = p.id
		) dc ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS n FROM media m WHERE m.property_id = p.id
		) mc ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS n FROM flags f WHERE f.property_id = p.id AND f.resolved_at IS NULL
		) fc ON TRUE
	`

	var (
		rows *sql.Rows
		err  error
	)

	if query != "" {
		sqlQuery := `
			SELECT p.id, p.slug, p.address_line1, p.address_line2, p.city, p.postcode, p.property_type,
				p.bedrooms, p.bathrooms, p.price, p.epc_rating, p.public_visibility, p.created_by,
				p.created_at, p.updated_at, dc.n, mc.n, fc.n
			FROM search_properties($1) sp
			JOIN properties p ON p.id = sp.id` + countsJoin + `
			ORDER BY sp.rank DESC, p.created_at DESC
			OFFSET $2 LIMIT $3
		`
		rows, err = r.db.QueryContext(ctx, sqlQuery, query, offset, limit)
	} else {
		sqlQuery := `
			SELECT p.id, p.slug, p.address_line1, p.address_line2, p.city, p.postcode, p.property_type,
				p.bedrooms, p.bathrooms, p.price, p.epc_rating, p.public_visibility, p.created_by,
				p.created_at, p.updated_at, dc.n, mc.n, fc.n
			FROM properties p` + countsJoin + `
			ORDER BY p.created_at DESC
			OFFSET $1 LIMIT $2
		`
		rows, err = r.db.QueryContext(ctx, sqlQuery, offset, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()

	var results []property.SearchRow
	for rows.Next() {
		var (
			idStr            string
			slug             string
			addressLine1     string
			addressLine2     sql.NullString
			city             string
			postcode         string
			propertyType     string
			bedrooms         int
			bathrooms        int
			price            int64
			epcRating        sql.NullString
			publicVisibility bool
			createdByStr     string
			createdAt        sql.NullTime
			updatedAt        sql.NullTime
			docCount         int
			mediaCount       int
			openIssueCount   int
		)

		err := rows.Scan(&idStr, &slug, &addressLine1, &addressLine2, &city, &postcode, &propertyType,
			&bedrooms, &bathrooms, &price, &epcRating, &publicVisibility, &createdByStr,
			&createdAt, &updatedAt, &docCount, &mediaCount, &openIssueCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}

		id, err := shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid property ID: %w", err)
		}
		createdBy, err := shared.IDFromString(createdByStr)
		if err != nil {
			return nil, fmt.Errorf("invalid creator ID: %w", err)
		}

		p := property.Reconstitute(
			id,
			slug,
			addressLine1,
			nullStringValue(addressLine2),
			city,
			postcode,
			property.Type(propertyType),
			bedrooms,
			bathrooms,
			price,
			nullStringValue(epcRating),
			publicVisibility,
			createdBy,
			createdAt.Time,
			updatedAt.Time,
		)

		results = append(results, property.SearchRow{
			Property: p,
			Counts: property.Counts{
				Documents:  docCount,
				Media:      mediaCount,
				OpenIssues: openIssueCount,
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search rows: %w", err)
	}

	return results, nil
}

func (r *PropertyRepository) collectProperties(rows *sql.Rows) ([]*property.Property, error) {
	var properties []*property.Property
	for rows.Next() {
		p, err := r.scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return properties, nil
}

func (r *PropertyRepository) scanProperty(row rowScanner) (*property.Property, error) {
	var (
		idStr            string
		slug             string
		addressLine1     string
		addressLine2     sql.NullString
		city             string
		postcode         string
		propertyType     string
		bedrooms         int
		bathrooms        int
		price            int64
		epcRating        sql.NullString
		publicVisibility bool
		createdByStr     string
		createdAt        sql.NullTime
		updatedAt        sql.NullTime
	)

	err := row.Scan(&idStr, &slug, &addressLine1, &addressLine2, &city, &postcode, &propertyType,
		&bedrooms, &bathrooms, &price, &epcRating, &publicVisibility, &createdByStr, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan property: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID: %w", err)
	}
	createdBy, err := shared.IDFromString(createdByStr)
	if err != nil {
		return nil, fmt.Errorf("invalid creator ID: %w", err)
	}

	return property.Reconstitute(
		id,
		slug,
		addressLine1,
		nullStringValue(addressLine2),
		city,
		postcode,
		property.Type(propertyType),
		bedrooms,
		bathrooms,
		price,
		nullStringValue(epcRating),
		publicVisibility,
		createdBy,
		createdAt.Time,
		updatedAt.Time,
	), nil
}
