package posts

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	postsdomain "social-app-go/internal/domain/posts"
)

const postViewColumns = "posts.id, posts.user_id, posts.group_id, posts.message, posts.created_at, " +
	"users.username, social_groups.name AS group_name, social_groups.slug AS group_slug"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type postRow struct {
	ID        string    `gorm:"column:id"`
	UserID    string    `gorm:"column:user_id"`
	GroupID   *string   `gorm:"column:group_id"`
	Message   string    `gorm:"column:message"`
	CreatedAt time.Time `gorm:"column:created_at"`
	Username  string    `gorm:"column:username"`
	GroupName *string   `gorm:"column:group_name"`
	GroupSlug *string   `gorm:"column:group_slug"`
}

func (row postRow) view() postsdomain.PostView {
	return postsdomain.PostView{
		Post: postsdomain.Post{
			ID:        row.ID,
			UserID:    row.UserID,
			GroupID:   row.GroupID,
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		},
		Username:  row.Username,
		GroupName: row.GroupName,
		GroupSlug: row.GroupSlug,
	}
}

func (r *PostgresRepository) Create(ctx context.Context, post *postsdomain.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *PostgresRepository) DeleteOwned(ctx context.Context, postID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&postsdomain.Post{}, "id = ? AND user_id = ?", postID, userID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) List(ctx context.Context, query postsdomain.Query) ([]postsdomain.PostView, int64, error) {
	var total int64
	if err := r.filtered(ctx, query).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []postsdomain.PostView{}, 0, nil
	}

	var rows []postRow
	if err := r.filtered(ctx, query).
		Select(postViewColumns).
		Joins("join users on users.id = posts.user_id").
		Joins("left join social_groups on social_groups.id = posts.group_id").
		Order("posts.created_at desc").
		Limit(query.Limit).
		Offset(query.Offset).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	views := make([]postsdomain.PostView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.view())
	}
	return views, total, nil
}

func (r *PostgresRepository) GetByAuthor(ctx context.Context, userID, postID string) (*postsdomain.PostView, error) {
	var row postRow
	err := r.db.WithContext(ctx).
		Table("posts").
		Select(postViewColumns).
		Joins("join users on users.id = posts.user_id").
		Joins("left join social_groups on social_groups.id = posts.group_id").
		Where("posts.id = ? AND posts.user_id = ?", postID, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, postsdomain.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	view := row.view()
	return &view, nil
}

func (r *PostgresRepository) GroupExists(ctx context.Context, groupID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("social_groups").Where("id = ?", groupID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) filtered(ctx context.Context, query postsdomain.Query) *gorm.DB {
	tx := r.db.WithContext(ctx).Table("posts")
	if query.UserID != "" {
		tx = tx.Where("posts.user_id = ?", query.UserID)
	}
	if query.GroupID != "" {
		tx = tx.Where("posts.group_id = ?", query.GroupID)
	}
	return tx
}
