package images

import (
	"context"

	"gorm.io/gorm"
	imagesdomain "social-app-go/internal/domain/images"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, image *imagesdomain.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]imagesdomain.Image, error) {
	var images []imagesdomain.Image
	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}
