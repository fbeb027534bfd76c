package app

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/propertypassport/api/internal/infra/storage"
	"github.com/propertypassport/api/pkg/domain/document"
	"github.com/propertypassport/api/pkg/domain/event"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/logger"
)

// DocumentService manages property documents stored in object storage.
type DocumentService struct {
	documents document.Repository
	storage   *storage.Client
	access    *AccessService
	events    *EventService
	logger    *logger.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	documents document.Repository,
	storageClient *storage.Client,
	accessSvc *AccessService,
	events *EventService,
	log *logger.Logger,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		storage:   storageClient,
		access:    accessSvc,
		events:    events,
		logger:    log.With("service", "document"),
	}
}

// UploadDocumentInput represents the input for starting a document upload.
type UploadDocumentInput struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,gt=0,lte=52428800"`
	Kind        string `json:"kind" validate:"required,document_kind"`
}

// UploadTicket is the result of starting an upload: the persisted record plus
// a pre-signed PUT URL the client uploads the bytes to directly.
type UploadTicket struct {
	Document  *document.Document `json:"document"`
	UploadURL string             `json:"upload_url"`
}

// Upload records a document and issues a pre-signed PUT URL for the object.
// Requires edit permission on the property.
func (s *DocumentService) Upload(ctx context.Context, propertyID string, input UploadDocumentInput, userID shared.ID) (*UploadTicket, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	if err := s.access.RequireEdit(ctx, propID, userID); err != nil {
		return nil, err
	}

	objectKey := buildObjectKey(propID, input.FileName)

	doc, err := document.New(propID, objectKey, input.FileName, input.ContentType, input.SizeBytes, document.Kind(input.Kind), userID)
	if err != nil {
		return nil, err
	}

	uploadURL, err := s.storage.SignedPutURL(ctx, s.storage.DocumentBucket(), objectKey, input.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload url: %w", err)
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	s.events.Record(ctx, propID, &userID, event.ActionDocumentUploaded, "document", idPtr(doc.ID()), map[string]any{
		"file_name": input.FileName,
		"kind":      input.Kind,
	})

	s.logger.Info("document upload started",
		"property_id", propID.String(),
		"document_id", doc.ID().String(),
		"file_name", input.FileName)

	return &UploadTicket{Document: doc, UploadURL: uploadURL}, nil
}

// DocumentView pairs a document record with a signed download URL.
type DocumentView struct {
	Document    *document.Document `json:"document"`
	DownloadURL string             `json:"download_url"`
}

// List returns a property's documents with signed download URLs.
// Requires view permission.
func (s *DocumentService) List(ctx context.Context, propertyID string, userID shared.ID) ([]DocumentView, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	if err := s.access.RequireView(ctx, propID, userID); err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByProperty(ctx, propID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []DocumentView{}, nil
	}

	refs := make([]storage.ObjectRef, len(docs))
	for i, d := range docs {
		refs[i] = storage.ObjectRef{Bucket: s.storage.DocumentBucket(), Key: d.ObjectKey()}
	}
	urls, err := s.storage.SignedGetURLs(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to sign download urls: %w", err)
	}

	views := make([]DocumentView, len(docs))
	for i, d := range docs {
		views[i] = DocumentView{Document: d, DownloadURL: urls[i]}
	}
	return views, nil
}

// Get returns a single document with a signed download URL.
// Requires view permission on the owning property.
func (s *DocumentService) Get(ctx context.Context, documentID string, userID shared.ID) (*DocumentView, error) {
	id, err := shared.IDFromString(documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireView(ctx, doc.PropertyID(), userID); err != nil {
		return nil, err
	}

	url, err := s.storage.SignedGetURL(ctx, s.storage.DocumentBucket(), doc.ObjectKey())
	if err != nil {
		return nil, fmt.Errorf("failed to sign download url: %w", err)
	}

	return &DocumentView{Document: doc, DownloadURL: url}, nil
}

// Delete removes a document record and its stored object.
// Requires edit permission on the owning property.
func (s *DocumentService) Delete(ctx context.Context, documentID string, userID shared.ID) error {
	id, err := shared.IDFromString(documentID)
	if err != nil {
		return fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.access.RequireEdit(ctx, doc.PropertyID(), userID); err != nil {
		return err
	}

	if err := s.documents.Delete(ctx, id); err != nil {
		return err
	}

	// the record is gone; a leaked object is recoverable by a cleanup sweep
	if err := s.storage.DeleteObject(ctx, s.storage.DocumentBucket(), doc.ObjectKey()); err != nil {
		s.logger.Error("failed to delete stored object", "error", err, "key", doc.ObjectKey())
	}

	s.events.Record(ctx, doc.PropertyID(), &userID, event.ActionDocumentDeleted, "document", idPtr(id), map[string]any{
		"file_name": doc.FileName(),
	})

	return nil
}

// buildObjectKey namespaces object keys under the property id with a random
// prefix so colliding file names never overwrite each other.
func buildObjectKey(propertyID shared.ID, fileName string) string {
	base := strings.ToLower(path.Base(fileName))
	base = strings.ReplaceAll(base, " ", "-")
	return fmt.Sprintf("%s/%s-%s", propertyID.String(), uuid.NewString()[:8], base)
}
