package posts

import "time"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Post struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;index"`
	GroupID   *string   `gorm:"type:uuid;index"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// PostView is a post joined with its author and group for display.
type PostView struct {
	Post
	Username  string
	GroupName *string
	GroupSlug *string
}

type CreateInput struct {
	UserID  string
	Message string
	GroupID *string
}

type ListFilter struct {
	Limit  int
	Offset int
}

// Query selects posts for a listing. Empty fields do not filter.
type Query struct {
	UserID  string
	GroupID string
	Limit   int
	Offset  int
}

type Page struct {
	Posts  []PostView
	Total  int64
	Limit  int
	Offset int
}

func (p Page) HasPrevious() bool {
	return p.Offset > 0
}

func (p Page) HasNext() bool {
	return int64(p.Offset+len(p.Posts)) < p.Total
}
