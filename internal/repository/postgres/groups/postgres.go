package groups

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	groupsdomain "social-app-go/internal/domain/groups"
	"social-app-go/internal/repository/postgres"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, group *groupsdomain.Group) error {
	err := r.db.WithContext(ctx).Create(group).Error
	if postgres.IsUniqueViolation(err) {
		return groupsdomain.ErrGroupExists
	}
	return err
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*groupsdomain.Group, error) {
	var group groupsdomain.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupsdomain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) ListGroups(ctx context.Context) ([]groupsdomain.GroupStats, error) {
	type groupRow struct {
		ID          string    `gorm:"column:id"`
		Name        string    `gorm:"column:name"`
		Slug        string    `gorm:"column:slug"`
		Description string    `gorm:"column:description"`
		CreatedAt   time.Time `gorm:"column:created_at"`
		MemberCount int64     `gorm:"column:member_count"`
		PostCount   int64     `gorm:"column:post_count"`
	}

	var rows []groupRow
	if err := r.db.WithContext(ctx).
		Table("social_groups").
		Select(`social_groups.id, social_groups.name, social_groups.slug, social_groups.description, social_groups.created_at,
			(SELECT COUNT(*) FROM group_members WHERE group_members.group_id = social_groups.id) AS member_count,
			(SELECT COUNT(*) FROM posts WHERE posts.group_id = social_groups.id) AS post_count`).
		Order("social_groups.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]groupsdomain.GroupStats, 0, len(rows))
	for _, row := range rows {
		result = append(result, groupsdomain.GroupStats{
			Group: groupsdomain.Group{
				ID:          row.ID,
				Name:        row.Name,
				Slug:        row.Slug,
				Description: row.Description,
				CreatedAt:   row.CreatedAt,
			},
			MemberCount: row.MemberCount,
			PostCount:   row.PostCount,
		})
	}
	return result, nil
}

func (r *PostgresRepository) CountMembers(ctx context.Context, groupID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&groupsdomain.Membership{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountPosts(ctx context.Context, groupID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("posts").Where("group_id = ?", groupID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, membership *groupsdomain.Membership) error {
	err := r.db.WithContext(ctx).Create(membership).Error
	if postgres.IsUniqueViolation(err) {
		return groupsdomain.ErrAlreadyMember
	}
	return err
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, groupID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&groupsdomain.Membership{}, "group_id = ? AND user_id = ?", groupID, userID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, groupID string) ([]groupsdomain.Member, error) {
	type memberRow struct {
		UserID   string    `gorm:"column:user_id"`
		Username string    `gorm:"column:username"`
		JoinedAt time.Time `gorm:"column:joined_at"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Table("group_members").
		Select("group_members.user_id, users.username, group_members.joined_at").
		Joins("join users on users.id = group_members.user_id").
		Where("group_members.group_id = ?", groupID).
		Order("group_members.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]groupsdomain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, groupsdomain.Member{
			UserID:   row.UserID,
			Username: row.Username,
			JoinedAt: row.JoinedAt,
		})
	}
	return members, nil
}

func (r *PostgresRepository) ListUserGroups(ctx context.Context, userID string) ([]groupsdomain.Group, error) {
	var groups []groupsdomain.Group
	if err := r.db.WithContext(ctx).
		Joins("join group_members on group_members.group_id = social_groups.id").
		Where("group_members.user_id = ?", userID).
		Order("social_groups.name asc").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PostgresRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&groupsdomain.Membership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
