package posts

import (
	"context"

	userdomain "social-app-go/internal/domain/user"
)

type Repository interface {
	Create(ctx context.Context, post *Post) error
	// DeleteOwned removes the post only when userID owns it and reports whether a
	// row was deleted.
	DeleteOwned(ctx context.Context, postID, userID string) (bool, error)
	List(ctx context.Context, query Query) ([]PostView, int64, error)
	GetByAuthor(ctx context.Context, userID, postID string) (*PostView, error)
	GroupExists(ctx context.Context, groupID string) (bool, error)
}

type Authors interface {
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
}
