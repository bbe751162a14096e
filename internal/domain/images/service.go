package images

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"social-app-go/internal/storage"
	"social-app-go/pkg/logger"
)

const listLimit = 200

type Service struct {
	repo    Repository
	store   storage.ObjectStore
	options storage.ImageOptions
	log     logger.Logger
}

func NewService(repo Repository, store storage.ObjectStore, options storage.ImageOptions, log logger.Logger) *Service {
	return &Service{repo: repo, store: store, options: options, log: log}
}

// Upload processes the picture, stores it under images/ and records it. The stored
// object is removed again when the row cannot be written.
func (s *Service) Upload(ctx context.Context, uploaderID string, upload io.Reader) (*Image, error) {
	if uploaderID == "" {
		return nil, ErrUploaderRequired
	}

	processed, err := storage.ProcessImage(upload, s.options)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	key, err := storage.JoinKey("images", id+".jpg")
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Put(ctx, key, bytes.NewReader(processed.Data), processed.Size(), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	image := Image{
		ID:          id,
		UploaderID:  &uploaderID,
		ObjectKey:   key,
		ContentType: processed.ContentType,
		SizeBytes:   processed.Size(),
		Width:       processed.Width,
		Height:      processed.Height,
	}
	if err := s.repo.Create(ctx, &image); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.InternalError("images.upload: remove orphaned object failed", delErr, "key", key)
		}
		return nil, fmt.Errorf("record image: %w", err)
	}

	return &image, nil
}

// List returns the most recent uploads, newest first.
func (s *Service) List(ctx context.Context) ([]Image, error) {
	return s.repo.List(ctx, listLimit)
}

// Open streams a stored object. Callers close the reader.
func (s *Service) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	return s.store.Get(ctx, key)
}
