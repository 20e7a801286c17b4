package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
)

// UploadInput describes one photo upload.
type UploadInput struct {
	ItemID   int64
	UserID   int64
	Filename string
	Content  io.Reader
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Photo, error)
	Open(ctx context.Context, itemID int64) (io.ReadCloser, *Photo, error)
	OpenThumbnail(ctx context.Context, itemID int64) (io.ReadCloser, *Photo, error)
	Delete(ctx context.Context, itemID, userID int64) error
}

// Config carries the collaborators of the photo service.
type Config struct {
	MaxSizeBytes int64
	Clock        clock.Clock
	Logger       *logrus.Logger
}

type service struct {
	repo        Repository
	itemService item.Service
	storage     storage.Storage
	thumbnailer *storage.Thumbnailer

	maxSizeBytes int64
	clock        clock.Clock
	log          *logrus.Logger
}

func NewService(repo Repository, itemService item.Service, store storage.Storage, cfg Config) Service {
	s := &service{
		repo:         repo,
		itemService:  itemService,
		storage:      store,
		thumbnailer:  storage.NewThumbnailer(200, 200),
		maxSizeBytes: cfg.MaxSizeBytes,
		clock:        cfg.Clock,
		log:          cfg.Logger,
	}
	if s.clock == nil {
		s.clock = clock.System{}
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	return s
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Photo, error) {
	it, err := s.itemService.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != in.UserID {
		return nil, ErrNotOwner
	}

	// Read one byte past the limit so oversized uploads are detected without buffering them whole.
	content := in.Content
	if s.maxSizeBytes > 0 {
		content = io.LimitReader(content, s.maxSizeBytes+1)
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxSizeBytes > 0 && int64(len(data)) > s.maxSizeBytes {
		return nil, ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	if !slices.Contains(AllowedTypes, mtype.String()) {
		return nil, ErrUnsupportedType
	}

	previous, err := s.repo.GetByItemID(ctx, it.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	objectID := uuid.NewString()
	storageKey := fmt.Sprintf("items/%d/%s%s", it.ID, objectID, mtype.Extension())
	if err := s.storage.Save(ctx, storageKey, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to save file to storage: %w", err)
	}

	var thumbnailKey *string
	thumb, err := s.thumbnailer.Generate(bytes.NewReader(data))
	if err != nil {
		s.log.WithError(err).WithField("item_id", it.ID).Warn("thumbnail generation failed")
	} else {
		key := fmt.Sprintf("items/%d/%s_thumb.jpg", it.ID, objectID)
		if err := s.storage.Save(ctx, key, thumb); err != nil {
			s.log.WithError(err).WithField("item_id", it.ID).Warn("thumbnail save failed")
		} else {
			thumbnailKey = &key
		}
	}

	p := &Photo{
		ItemID:       it.ID,
		Filename:     in.Filename,
		StorageKey:   storageKey,
		ThumbnailKey: thumbnailKey,
		ContentType:  mtype.String(),
		Size:         int64(len(data)),
		UploadedAt:   s.clock.Now(),
	}

	if err := s.repo.Save(ctx, p); err != nil {
		// Cleanup storage if db fails
		s.deleteObjects(ctx, p)
		return nil, err
	}

	if previous != nil {
		s.deleteObjects(ctx, previous)
	}

	s.log.WithFields(logrus.Fields{
		"item_id":      it.ID,
		"content_type": p.ContentType,
		"size":         p.Size,
	}).Info("item photo uploaded")

	return p, nil
}

func (s *service) Open(ctx context.Context, itemID int64) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByItemID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	return s.open(ctx, p.StorageKey, p)
}

func (s *service) OpenThumbnail(ctx context.Context, itemID int64) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByItemID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailKey == nil {
		return nil, nil, ErrThumbnailNotFound
	}
	return s.open(ctx, *p.ThumbnailKey, p)
}

func (s *service) Delete(ctx context.Context, itemID, userID int64) error {
	it, err := s.itemService.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it.OwnerID != userID {
		return ErrNotOwner
	}

	p, err := s.repo.GetByItemID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return err
	}
	s.deleteObjects(ctx, p)
	return nil
}

func (s *service) open(ctx context.Context, key string, p *Photo) (io.ReadCloser, *Photo, error) {
	stream, err := s.storage.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to retrieve file from storage: %w", err)
	}
	return stream, p, nil
}

// deleteObjects removes the stored objects of p, best effort.
func (s *service) deleteObjects(ctx context.Context, p *Photo) {
	if err := s.storage.Delete(ctx, p.StorageKey); err != nil {
		s.log.WithError(err).WithField("key", p.StorageKey).Warn("failed to delete stored photo")
	}
	if p.ThumbnailKey != nil {
		if err := s.storage.Delete(ctx, *p.ThumbnailKey); err != nil {
			s.log.WithError(err).WithField("key", *p.ThumbnailKey).Warn("failed to delete stored thumbnail")
		}
	}
}
