// Package document defines property document metadata over storage objects.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/propertypassport/api/pkg/domain/shared"
)

// Kind categorizes a document.
type Kind string

const (
	KindTitleDeed   Kind = "title_deed"
	KindEPC         Kind = "epc_certificate"
	KindSurvey      Kind = "survey"
	KindWarranty    Kind = "warranty"
	KindPlanning    Kind = "planning"
	KindGasSafety   Kind = "gas_safety"
	KindElectrical  Kind = "electrical"
	KindOther       Kind = "other"
)

// IsValid checks if the kind is valid.
func (k Kind) IsValid() bool {
	switch k {
	case KindTitleDeed, KindEPC, KindSurvey, KindWarranty, KindPlanning, KindGasSafety, KindElectrical, KindOther:
		return true
	}
	return false
}

// String returns the string representation of the kind.
func (k Kind) String() string { return string(k) }

// Document is the metadata row for one stored document object.
type Document struct {
	id          shared.ID
	propertyID  shared.ID
	objectKey   string
	fileName    string
	contentType string
	sizeBytes   int64
	kind        Kind
	uploadedBy  shared.ID
	createdAt   time.Time
}

// New creates a new Document metadata row.
func New(propertyID shared.ID, objectKey, fileName, contentType string, sizeBytes int64, kind Kind, uploadedBy shared.ID) (*Document, error) {
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
		return nil, fmt.Errorf("%w: invalid document kind %q", shared.ErrValidation, kind)
	}
	if uploadedBy.IsZero() {
		return nil, fmt.Errorf("%w: uploadedBy is required", shared.ErrValidation)
	}

	return &Document{
		id:          shared.NewID(),
		propertyID:  propertyID,
		objectKey:   objectKey,
		fileName:    fileName,
		contentType: contentType,
		sizeBytes:   sizeBytes,
		kind:        kind,
		uploadedBy:  uploadedBy,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Reconstitute recreates a Document from persistence.
func Reconstitute(
	id, propertyID shared.ID,
	objectKey, fileName, contentType string,
	sizeBytes int64,
	kind Kind,
	uploadedBy shared.ID,
	createdAt time.Time,
) *Document {
	return &Document{
		id:          id,
		propertyID:  propertyID,
		objectKey:   objectKey,
		fileName:    fileName,
		contentType: contentType,
		sizeBytes:   sizeBytes,
		kind:        kind,
		uploadedBy:  uploadedBy,
		createdAt:   createdAt,
	}
}

// ID returns the document ID.
func (d *Document) ID() shared.ID { return d.id }

// PropertyID returns the owning property's ID.
func (d *Document) PropertyID() shared.ID { return d.propertyID }

// ObjectKey returns the storage object key.
func (d *Document) ObjectKey() string { return d.objectKey }

// FileName returns the original file name.
func (d *Document) FileName() string { return d.fileName }

// ContentType returns the MIME type.
func (d *Document) ContentType() string { return d.contentType }

// SizeBytes returns the object size.
func (d *Document) SizeBytes() int64 { return d.sizeBytes }

// DocumentKind returns the document kind.
func (d *Document) DocumentKind() Kind { return d.kind }

// UploadedBy returns the uploader's user ID.
func (d *Document) UploadedBy() shared.ID { return d.uploadedBy }

// CreatedAt returns the creation time.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// Repository defines persistence operations for documents.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id shared.ID) (*Document, error)
	Delete(ctx context.Context, id shared.ID) error
	ListByProperty(ctx context.Context, propertyID shared.ID) ([]*Document, error)
	CountByProperty(ctx context.Context, propertyID shared.ID) (int, error)
	Count(ctx context.Context) (int64, error)
}
