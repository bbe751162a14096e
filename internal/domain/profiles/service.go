package profiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"social-app-go/internal/storage"
	"social-app-go/pkg/logger"
)

type Service struct {
	repo   Repository
	store  storage.ObjectStore
	images storage.ImageOptions
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, store storage.ObjectStore, images storage.ImageOptions, log logger.Logger) *Service {
	return &Service{repo: repo, store: store, images: images, log: log, now: time.Now}
}

func (s *Service) EnsureProfile(ctx context.Context, userID string) error {
	return s.repo.EnsureProfile(ctx, userID)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*ProfileView, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrProfileNotFound
	}
	return s.repo.GetViewByUsername(ctx, username)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return &Profile{UserID: userID}, nil
	}
	return profile, err
}

// Update replaces the editable fields. The picture is left untouched.
func (s *Service) Update(ctx context.Context, userID string, input UpdateInput) (*Profile, error) {
	location := strings.TrimSpace(input.Location)
	if utf8.RuneCountInString(location) > maxLocationLength {
		return nil, ErrLocationTooLong
	}

	var birthDate *time.Time
	if value := strings.TrimSpace(input.BirthDate); value != "" {
		parsed, err := time.Parse(birthDateLayout, value)
		if err != nil {
			return nil, ErrInvalidBirthDate
		}
		today := s.now().UTC().Truncate(24 * time.Hour)
		if parsed.After(today) {
			return nil, ErrBirthDateInFuture
		}
		birthDate = &parsed
	}

	var result Profile
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, ErrProfileNotFound) {
			return err
		}
		if current == nil {
			current = &Profile{UserID: userID}
		}

		current.Bio = strings.TrimSpace(input.Bio)
		current.Location = location
		current.BirthDate = birthDate
		if err := tx.Upsert(ctx, current); err != nil {
			return err
		}

		result = *current
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return &result, nil
}

// SetPicture stores a processed copy of the uploaded picture and points the profile at
// it. The previous picture is removed once the profile references the new one.
func (s *Service) SetPicture(ctx context.Context, userID string, upload io.Reader) (*Profile, error) {
	processed, err := storage.ProcessImage(upload, s.images)
	if err != nil {
		return nil, err
	}

	key, err := storage.JoinKey("profiles", userID, uuid.NewString()+".jpg")
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Put(ctx, key, bytes.NewReader(processed.Data), processed.Size(), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store picture: %w", err)
	}

	var (
		previous string
		result   Profile
	)
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.EnsureProfile(ctx, userID); err != nil {
			return err
		}
		current, err := tx.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		previous = current.PictureKey

		if err := tx.UpdatePicture(ctx, userID, key); err != nil {
			return err
		}
		current.PictureKey = key
		result = *current
		return nil
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.InternalError("profiles.set_picture: remove orphaned object failed", delErr, "key", key)
		}
		return nil, fmt.Errorf("update picture: %w", err)
	}

	if previous != "" && previous != key {
		if err := s.store.Delete(ctx, previous); err != nil {
			s.log.InternalError("profiles.set_picture: remove previous picture failed", err, "key", previous)
		}
	}

	return &result, nil
}
