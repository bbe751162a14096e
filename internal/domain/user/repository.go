package user

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) error
	EnsureUser(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// ProfileInitializer creates the empty profile that belongs to every account.
type ProfileInitializer interface {
	EnsureProfile(ctx context.Context, userID string) error
}
