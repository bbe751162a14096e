package profiles

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	profilesdomain "social-app-go/internal/domain/profiles"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(profilesdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) EnsureProfile(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&profilesdomain.Profile{UserID: userID}).Error
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*profilesdomain.Profile, error) {
	var profile profilesdomain.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profilesdomain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresRepository) GetViewByUsername(ctx context.Context, username string) (*profilesdomain.ProfileView, error) {
	type profileRow struct {
		UserID     string     `gorm:"column:user_id"`
		Username   string     `gorm:"column:username"`
		Bio        *string    `gorm:"column:bio"`
		Location   *string    `gorm:"column:location"`
		BirthDate  *time.Time `gorm:"column:birth_date"`
		PictureKey *string    `gorm:"column:picture_key"`
		UpdatedAt  *time.Time `gorm:"column:updated_at"`
	}

	var row profileRow
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id AS user_id, users.username, profiles.bio, profiles.location, profiles.birth_date, profiles.picture_key, profiles.updated_at").
		Joins("left join profiles on profiles.user_id = users.id").
		Where("LOWER(users.username) = LOWER(?)", username).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, profilesdomain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	view := profilesdomain.ProfileView{
		Profile: profilesdomain.Profile{
			UserID:    row.UserID,
			BirthDate: row.BirthDate,
		},
		Username: row.Username,
	}
	if row.Bio != nil {
		view.Bio = *row.Bio
	}
	if row.Location != nil {
		view.Location = *row.Location
	}
	if row.PictureKey != nil {
		view.PictureKey = *row.PictureKey
	}
	if row.UpdatedAt != nil {
		view.UpdatedAt = *row.UpdatedAt
	}
	return &view, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, profile *profilesdomain.Profile) error {
	profile.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"bio":        profile.Bio,
				"location":   profile.Location,
				"birth_date": profile.BirthDate,
				"updated_at": profile.UpdatedAt,
			}),
		}).
		Create(profile).Error
}

func (r *PostgresRepository) UpdatePicture(ctx context.Context, userID, key string) error {
	result := r.db.WithContext(ctx).
		Model(&profilesdomain.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"picture_key": key,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return profilesdomain.ErrProfileNotFound
	}
	return nil
}
