// Package flag defines property issues (flags): problems recorded against a
// property record, such as a failed survey point or a title defect.
package flag

import (
	"context"
	"fmt"
	"time"

	"github.com/propertypassport/api/pkg/domain/shared"
)

// Severity ranks an issue.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// IsValid checks if the severity is valid.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// String returns the string representation of the severity.
func (s Severity) String() string { return string(s) }

// Flag is one issue recorded against a property.
type Flag struct {
	id          shared.ID
	propertyID  shared.ID
	title       string
	description string
	severity    Severity
	resolvedAt  *time.Time
	raisedBy    shared.ID
	createdAt   time.Time
	updatedAt   time.Time
}

// New creates a new unresolved Flag.
func New(propertyID shared.ID, title, description string, severity Severity, raisedBy shared.ID) (*Flag, error) {
	if propertyID.IsZero() {
		return nil, fmt.Errorf("%w: propertyID is required", shared.ErrValidation)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if !severity.IsValid() {
		return nil, fmt.Errorf("%w: invalid severity %q", shared.ErrValidation, severity)
	}
	if raisedBy.IsZero() {
		return nil, fmt.Errorf("%w: raisedBy is required", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Flag{
		id:          shared.NewID(),
		propertyID:  propertyID,
		title:       title,
		description: description,
		severity:    severity,
		raisedBy:    raisedBy,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstitute recreates a Flag from persistence.
func Reconstitute(
	id, propertyID shared.ID,
	title, description string,
	severity Severity,
	resolvedAt *time.Time,
	raisedBy shared.ID,
	createdAt, updatedAt time.Time,
) *Flag {
	return &Flag{
		id:          id,
		propertyID:  propertyID,
		title:       title,
		description: description,
		severity:    severity,
		resolvedAt:  resolvedAt,
		raisedBy:    raisedBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the flag ID.
func (f *Flag) ID() shared.ID { return f.id }

// PropertyID returns the owning property's ID.
func (f *Flag) PropertyID() shared.ID { return f.propertyID }

// Title returns the issue title.
func (f *Flag) Title() string { return f.title }

// Description returns the issue description.
func (f *Flag) Description() string { return f.description }

// Severity returns the severity.
func (f *Flag) Severity() Severity { return f.severity }

// ResolvedAt returns when the issue was resolved, nil if open.
func (f *Flag) ResolvedAt() *time.Time { return f.resolvedAt }

// IsResolved reports whether the issue has been resolved.
func (f *Flag) IsResolved() bool { return f.resolvedAt != nil }

// RaisedBy returns the raising user's ID.
func (f *Flag) RaisedBy() shared.ID { return f.raisedBy }

// CreatedAt returns the creation time.
func (f *Flag) CreatedAt() time.Time { return f.createdAt }

// UpdatedAt returns the last update time.
func (f *Flag) UpdatedAt() time.Time { return f.updatedAt }

// Resolve marks the issue resolved. Resolving twice is a conflict.
func (f *Flag) Resolve() error {
	if f.resolvedAt != nil {
		return fmt.Errorf("%w: issue already resolved", shared.ErrConflict)
	}
	now := time.Now().UTC()
	f.resolvedAt = &now
	f.updatedAt = now
	return nil
}

// Repository defines persistence operations for flags.
type Repository interface {
	Create(ctx context.Context, f *Flag) error
	GetByID(ctx context.Context, id shared.ID) (*Flag, error)
	Update(ctx context.Context, f *Flag) error
	Delete(ctx context.Context, id shared.ID) error
	ListByProperty(ctx context.Context, propertyID shared.ID, includeResolved bool) ([]*Flag, error)
	CountOpen(ctx context.Context) (int64, error)
}
