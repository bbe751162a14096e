package groups

import "time"

const (
	maxNameLength = 255
)

type Group struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:255;not null;uniqueIndex"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex"`
	Description string    `gorm:"not null;default:''"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Group) TableName() string {
	return "social_groups"
}

type Membership struct {
	ID       string    `gorm:"type:uuid;primaryKey"`
	GroupID  string    `gorm:"type:uuid;not null;index:idx_group_members_group_id;uniqueIndex:uq_group_members_user_group,priority:2"`
	UserID   string    `gorm:"type:uuid;not null;uniqueIndex:uq_group_members_user_group,priority:1"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (Membership) TableName() string {
	return "group_members"
}

// GroupStats is a group with the counts shown on listing and detail pages.
type GroupStats struct {
	Group
	MemberCount int64
	PostCount   int64
}

type Member struct {
	UserID   string
	Username string
	JoinedAt time.Time
}
