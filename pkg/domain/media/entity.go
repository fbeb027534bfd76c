// Package media defines property photo and floorplan metadata.
package media

import (
	"context"
	"fmt"
	"time"

	"github.com/propertypassport/api/pkg/domain/shared"
)

// Kind categorizes a media item.
type Kind string

const (
	KindPhoto     Kind = "photo"
	KindFloorplan Kind = "floorplan"
	KindVideo     Kind = "video"
)

// IsValid checks if the kind is valid.
func (k Kind) IsValid() bool {
	switch k {
	case KindPhoto, KindFloorplan, KindVideo:
		return true
	}
	return false
}

// String returns the string representation of the kind.
func (k Kind) String() string { return string(k) }

// Media is the metadata row for one stored media object.
type Media struct {
	id          shared.ID
	propertyID  shared.ID
	objectKey   string
	fileName    string
	contentType string
	sizeBytes   int64
	kind        Kind
	caption     string
	uploadedBy  shared.ID
	createdAt   time.Time
}

// New creates a new Media metadata row.
func New(propertyID shared.ID, objectKey, fileName, contentType string, sizeBytes int64, kind Kind, caption string, uploadedBy shared.ID) (*Media, error) {
	if propertyID.IsZero() {
		return nil, fmt.Errorf("%w: propertyID is required", shared.ErrValidation)
	}
	if objectKey == "" {
		return nil, fmt.Errorf("%w: object key is required", shared.ErrValidation)
	}
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", shared.ErrValidation)
	}
	if sizeBytes < 0 {
		return nil, fmt.Errorf("%w: size cannot be negative", shared.ErrValidation)
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: invalid media kind %q", shared.ErrValidation, kind)
	}
	if uploadedBy.IsZero() {
		return nil, fmt.Errorf("%w: uploadedBy is required", shared.ErrValidation)
	}

	return &Media{
		id:          shared.NewID(),
		propertyID:  propertyID,
		objectKey:   objectKey,
		fileName:    fileName,
		contentType: contentType,
		sizeBytes:   sizeBytes,
		kind:        kind,
		caption:     caption,
		uploadedBy:  uploadedBy,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Reconstitute recreates a Media item from persistence.
func Reconstitute(
	id, propertyID shared.ID,
	objectKey, fileName, contentType string,
	sizeBytes int64,
	kind Kind,
	caption string,
	uploadedBy shared.ID,
	createdAt time.Time,
) *Media {
	return &Media{
		id:          id,
		propertyID:  propertyID,
		objectKey:   objectKey,
		fileName:    fileName,
		contentType: contentType,
		sizeBytes:   sizeBytes,
		kind:        kind,
		caption:     caption,
		uploadedBy:  uploadedBy,
		createdAt:   createdAt,
	}
}

// ID returns the media ID.
func (m *Media) ID() shared.ID { return m.id }

// PropertyID returns the owning property's ID.
func (m *Media) PropertyID() shared.ID { return m.propertyID }

// ObjectKey returns the storage object key.
func (m *Media) ObjectKey() string { return m.objectKey }

// FileName returns the original file name.
func (m *Media) FileName() string { return m.fileName }

// ContentType returns the MIME type.
func (m *Media) ContentType() string { return m.contentType }

// SizeBytes returns the object size.
func (m *Media) SizeBytes() int64 { return m.sizeBytes }

// MediaKind returns the media kind.
func (m *Media) MediaKind() Kind { return m.kind }

// Caption returns the caption, possibly empty.
func (m *Media) Caption() string { return m.caption }

// UploadedBy returns the uploader's user ID.
func (m *Media) UploadedBy() shared.ID { return m.uploadedBy }

// CreatedAt returns the creation time.
func (m *Media) CreatedAt() time.Time { return m.createdAt }

// SetCaption updates the caption.
func (m *Media) SetCaption(caption string) {
	m.caption = caption
}

// Repository defines persistence operations for media.
type Repository interface {
	Create(ctx context.Context, m *Media) error
	GetByID(ctx context.Context, id shared.ID) (*Media, error)
	Update(ctx context.Context, m *Media) error
	Delete(ctx context.Context, id shared.ID) error
	ListByProperty(ctx context.Context, propertyID shared.ID) ([]*Media, error)
	CountByProperty(ctx context.Context, propertyID shared.ID) (int, error)
	Count(ctx context.Context) (int64, error)
}
