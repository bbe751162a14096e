package images

import "context"

type Repository interface {
	Create(ctx context.Context, image *Image) error
	List(ctx context.Context, limit int) ([]Image, error)
}
