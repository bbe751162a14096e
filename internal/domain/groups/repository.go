package groups

import "context"

type Repository interface {
	CreateGroup(ctx context.Context, group *Group) error
	GetBySlug(ctx context.Context, slug string) (*Group, error)
	ListGroups(ctx context.Context) ([]GroupStats, error)
	CountMembers(ctx context.Context, groupID string) (int64, error)
	CountPosts(ctx context.Context, groupID string) (int64, error)
	// AddMember inserts the membership and returns ErrAlreadyMember when the
	// (user, group) pair already exists.
	AddMember(ctx context.Context, membership *Membership) error
	// DeleteMember reports whether a membership row was removed.
	DeleteMember(ctx context.Context, groupID, userID string) (bool, error)
	ListMembers(ctx context.Context, groupID string) ([]Member, error)
	ListUserGroups(ctx context.Context, userID string) ([]Group, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}
