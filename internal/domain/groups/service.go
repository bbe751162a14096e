package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultCacheTTL = time.Minute

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

func NewService(repo Repository, cache Cache, cacheTTL time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

// Join adds the user to the group. When the user is already a member the group is
// returned together with ErrAlreadyMember and nothing is written.
func (s *Service) Join(ctx context.Context, userID, slug string) (*Group, error) {
	group, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}

	membership := Membership{
		ID:      uuid.NewString(),
		GroupID: group.ID,
		UserID:  userID,
	}
	if err := s.repo.AddMember(ctx, &membership); err != nil {
		if errors.Is(err, ErrAlreadyMember) {
			return group, ErrAlreadyMember
		}
		return nil, fmt.Errorf("add member: %w", err)
	}

	return group, nil
}

// Leave removes the user from the group. When the user is not a member the group is
// returned together with ErrNotMember.
func (s *Service) Leave(ctx context.Context, userID, slug string) (*Group, error) {
	group, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeleteMember(ctx, group.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("delete member: %w", err)
	}
	if !deleted {
		return group, ErrNotMember
	}

	return group, nil
}

func (s *Service) CreateGroup(ctx context.Context, name, description string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrNameTooLong
	}

	slug := Slugify(name)
	if slug == "" {
		return nil, ErrInvalidSlug
	}
	if len(slug) > maxNameLength {
		slug = strings.TrimRight(slug[:maxNameLength], "-_")
	}

	group := Group{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(description),
	}
	if err := s.repo.CreateGroup(ctx, &group); err != nil {
		return nil, err
	}

	s.cache.SetBySlug(ctx, group.Slug, &group, s.cacheTTL)
	return &group, nil
}

// GetGroup returns the group with fresh member and post counts.
func (s *Service) GetGroup(ctx context.Context, slug string) (*GroupStats, error) {
	group, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}

	stats := GroupStats{Group: *group}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		count, err := s.repo.CountMembers(egCtx, group.ID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		stats.MemberCount = count
		return nil
	})
	eg.Go(func() error {
		count, err := s.repo.CountPosts(egCtx, group.ID)
		if err != nil {
			return fmt.Errorf("count posts: %w", err)
		}
		stats.PostCount = count
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *Service) ListGroups(ctx context.Context) ([]GroupStats, error) {
	return s.repo.ListGroups(ctx)
}

func (s *Service) ListMembers(ctx context.Context, slug string) ([]Member, error) {
	group, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, group.ID)
}

func (s *Service) ListUserGroups(ctx context.Context, userID string) ([]Group, error) {
	return s.repo.ListUserGroups(ctx, userID)
}

func (s *Service) IsMember(ctx context.Context, userID, groupID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.repo.IsMember(ctx, groupID, userID)
}

func (s *Service) lookup(ctx context.Context, slug string) (*Group, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrGroupNotFound
	}

	if cached, ok := s.cache.GetBySlug(ctx, slug); ok {
		return cached, nil
	}

	group, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.cache.SetBySlug(ctx, slug, group, s.cacheTTL)
	return group, nil
}
