package profiles

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	EnsureProfile(ctx context.Context, userID string) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	GetViewByUsername(ctx context.Context, username string) (*ProfileView, error)
	Upsert(ctx context.Context, profile *Profile) error
	UpdatePicture(ctx context.Context, userID, key string) error
}
