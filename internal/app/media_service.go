package app

import (
	"context"
	"fmt"

	"github.com/propertypassport/api/internal/infra/storage"
	"github.com/propertypassport/api/pkg/domain/event"
	"github.com/propertypassport/api/pkg/domain/media"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/logger"
)

// MediaService manages property photos and floorplans.
type MediaService struct {
	media   media.Repository
	storage *storage.Client
	access  *AccessService
	events  *EventService
	logger  *logger.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(
	mediaRepo media.Repository,
	storageClient *storage.Client,
	accessSvc *AccessService,
	events *EventService,
	log *logger.Logger,
) *MediaService {
	return &MediaService{
		media:   mediaRepo,
		storage: storageClient,
		access:  accessSvc,
		events:  events,
		logger:  log.With("service", "media"),
	}
}

// UploadMediaInput represents the input for starting a media upload.
type UploadMediaInput struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,gt=0,lte=20971520"`
	Kind        string `json:"kind" validate:"required,media_kind"`
	Caption     string `json:"caption" validate:"max=500"`
}

// MediaTicket is the result of starting a media upload.
type MediaTicket struct {
	Media     *media.Media `json:"media"`
	UploadURL string       `json:"upload_url"`
}

// Upload records a media item and issues a pre-signed PUT URL for the object.
// Requires edit permission on the property.
func (s *MediaService) Upload(ctx context.Context, propertyID string, input UploadMediaInput, userID shared.ID) (*MediaTicket, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	if err := s.access.RequireEdit(ctx, propID, userID); err != nil {
		return nil, err
	}

	objectKey := buildObjectKey(propID, input.FileName)

	m, err := media.New(propID, objectKey, input.FileName, input.ContentType, input.SizeBytes, media.Kind(input.Kind), input.Caption, userID)
	if err != nil {
		return nil, err
	}

	uploadURL, err := s.storage.SignedPutURL(ctx, s.storage.PhotoBucket(), objectKey, input.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload url: %w", err)
	}

	if err := s.media.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create media: %w", err)
	}

	s.events.Record(ctx, propID, &userID, event.ActionMediaUploaded, "media", idPtr(m.ID()), map[string]any{
		"file_name": input.FileName,
		"kind":      input.Kind,
	})

	return &MediaTicket{Media: m, UploadURL: uploadURL}, nil
}

// MediaView pairs a media record with a signed URL for display.
type MediaView struct {
	Media *media.Media `json:"media"`
	URL   string       `json:"url"`
}

// List returns a property's media with signed URLs. Public properties serve
// their gallery without a view check; private ones require view permission.
func (s *MediaService) List(ctx context.Context, propertyID string, userID shared.ID, isPublic bool) ([]MediaView, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	if !isPublic {
		if err := s.access.RequireView(ctx, propID, userID); err != nil {
			return nil, err
		}
	}

	items, err := s.media.ListByProperty(ctx, propID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []MediaView{}, nil
	}

	refs := make([]storage.ObjectRef, len(items))
	for i, m := range items {
		refs[i] = storage.ObjectRef{Bucket: s.storage.PhotoBucket(), Key: m.ObjectKey()}
	}
	urls, err := s.storage.SignedGetURLs(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to sign urls: %w", err)
	}

	views := make([]MediaView, len(items))
	for i, m := range items {
		views[i] = MediaView{Media: m, URL: urls[i]}
	}
	return views, nil
}

// UpdateCaption changes a media item's caption.
// Requires edit permission on the owning property.
func (s *MediaService) UpdateCaption(ctx context.Context, mediaID, caption string, userID shared.ID) (*media.Media, error) {
	id, err := shared.IDFromString(mediaID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	m, err := s.media.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireEdit(ctx, m.PropertyID(), userID); err != nil {
		return nil, err
	}

	m.SetCaption(caption)
	if err := s.media.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update media: %w", err)
	}

	return m, nil
}

// Delete removes a media record and its stored object.
// Requires edit permission on the owning property.
func (s *MediaService) Delete(ctx context.Context, mediaID string, userID shared.ID) error {
	id, err := shared.IDFromString(mediaID)
	if err != nil {
		return fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	m, err := s.media.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.access.RequireEdit(ctx, m.PropertyID(), userID); err != nil {
		return err
	}

	if err := s.media.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, s.storage.PhotoBucket(), m.ObjectKey()); err != nil {
		s.logger.Error("failed to delete stored object", "error", err, "key", m.ObjectKey())
	}

	s.events.Record(ctx, m.PropertyID(), &userID, event.ActionMediaDeleted, "media", idPtr(id), map[string]any{
		"file_name": m.FileName(),
	})

	return nil
}
