package posts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	userdomain "social-app-go/internal/domain/user"
)

type Service struct {
	repo     Repository
	authors  Authors
	pageSize int
}

func NewService(repo Repository, authors Authors, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Service{repo: repo, authors: authors, pageSize: pageSize}
}

func (s *Service) PageSize() int {
	return s.pageSize
}

// Create stores a post for input.UserID, which must be the authenticated caller.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Post, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrMessageRequired
	}
	if input.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	var groupID *string
	if input.GroupID != nil && strings.TrimSpace(*input.GroupID) != "" {
		id := strings.TrimSpace(*input.GroupID)
		if _, err := uuid.Parse(id); err != nil {
			return nil, ErrGroupNotFound
		}
		exists, err := s.repo.GroupExists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("check group: %w", err)
		}
		if !exists {
			return nil, ErrGroupNotFound
		}
		groupID = &id
	}

	post := Post{
		ID:      uuid.NewString(),
		UserID:  input.UserID,
		GroupID: groupID,
		Message: message,
	}
	if err := s.repo.Create(ctx, &post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return &post, nil
}

// Delete removes the post when userID owns it. A missing post and someone else's
// post both yield ErrPostNotFound.
func (s *Service) Delete(ctx context.Context, userID, postID string) error {
	if _, err := uuid.Parse(postID); err != nil {
		return ErrPostNotFound
	}

	deleted, err := s.repo.DeleteOwned(ctx, postID, userID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if !deleted {
		return ErrPostNotFound
	}
	return nil
}

func (s *Service) ListAll(ctx context.Context, filter ListFilter) (Page, error) {
	return s.list(ctx, Query{}, filter)
}

func (s *Service) ListByUsername(ctx context.Context, username string, filter ListFilter) (*userdomain.User, Page, error) {
	author, err := s.authors.GetByUsername(ctx, username)
	if err != nil {
		return nil, Page{}, err
	}

	page, err := s.list(ctx, Query{UserID: author.ID}, filter)
	if err != nil {
		return nil, Page{}, err
	}
	return author, page, nil
}

// GetForUser returns the post only when it was written by username.
func (s *Service) GetForUser(ctx context.Context, username, postID string) (*PostView, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, ErrPostNotFound
	}

	author, err := s.authors.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.repo.GetByAuthor(ctx, author.ID, postID)
}

func (s *Service) ListByGroup(ctx context.Context, groupID string, filter ListFilter) (Page, error) {
	if groupID == "" {
		return Page{}, ErrGroupNotFound
	}
	return s.list(ctx, Query{GroupID: groupID}, filter)
}

func (s *Service) list(ctx context.Context, query Query, filter ListFilter) (Page, error) {
	query.Limit, query.Offset = s.normalize(filter)

	items, total, err := s.repo.List(ctx, query)
	if err != nil {
		return Page{}, fmt.Errorf("list posts: %w", err)
	}

	return Page{Posts: items, Total: total, Limit: query.Limit, Offset: query.Offset}, nil
}

func (s *Service) normalize(filter ListFilter) (int, int) {
	limit := filter.Limit
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
