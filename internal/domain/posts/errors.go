package posts

import "errors"

var (
	// ErrPostNotFound covers both a missing post and a post owned by someone else.
	ErrPostNotFound    = errors.New("post not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrMessageRequired = errors.New("message is required")
)
