package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/event"
	"github.com/propertypassport/api/pkg/domain/shared"
)

// EventRepository implements event.Repository using PostgreSQL.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, property_id, actor_id, action, entity_type, entity_id, metadata, created_at`

// Create persists a new event.
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	metadata, err := toJSONB(e.Metadata())
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}

	query := `
		INSERT INTO property_events (id, property_id, actor_id, action, entity_type, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		e.ID().String(),
		e.PropertyID().String(),
		nullID(e.ActorID()),
		e.Action().String(),
		nullString(e.EntityType()),
		nullID(e.EntityID()),
		metadata,
		e.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// ListByProperty returns a page of events for a property, newest first, plus
// the total count.
func (r *EventRepository) ListByProperty(ctx context.Context, propertyID shared.ID, offset, limit int) ([]*event.Event, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM property_events WHERE property_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, propertyID.String()).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	query := `SELECT ` + eventColumns + ` FROM property_events WHERE property_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, propertyID.String(), offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events, err := r.collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// ListRecent returns the most recent events across all properties.
func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM property_events ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	defer rows.Close()

	return r.collectEvents(rows)
}

func (r *EventRepository) collectEvents(rows *sql.Rows) ([]*event.Event, error) {
	var events []*event.Event
	for rows.Next() {
		e, err := r.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) scanEvent(row rowScanner) (*event.Event, error) {
	var (
		idStr         string
		propertyIDStr string
		actorID       sql.NullString
		action        string
		entityType    sql.NullString
		entityID      sql.NullString
		metadataRaw   []byte
		createdAt     sql.NullTime
	)

	err := row.Scan(&idStr, &propertyIDStr, &actorID, &action, &entityType, &entityID, &metadataRaw, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}
	propertyID, err := shared.IDFromString(propertyIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID: %w", err)
	}

	var metadata map[string]any
	if err := fromJSONB(metadataRaw, &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event metadata: %w", err)
	}

	return event.Reconstitute(
		id,
		propertyID,
		parseNullID(actorID),
		event.Action(action),
		nullStringValue(entityType),
		parseNullID(entityID),
		metadata,
		createdAt.Time,
	), nil
}
