package profiles

import "time"

const (
	maxLocationLength = 30
	birthDateLayout   = "2006-01-02"
)

type Profile struct {
	UserID     string     `gorm:"type:uuid;primaryKey"`
	Bio        string     `gorm:"type:text;not null;default:''"`
	Location   string     `gorm:"size:30;not null;default:''"`
	BirthDate  *time.Time `gorm:"type:date"`
	PictureKey string     `gorm:"not null;default:''"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

// ProfileView is a profile joined with the account it belongs to.
type ProfileView struct {
	Profile
	Username string
}

func (p Profile) BirthDateString() string {
	if p.BirthDate == nil {
		return ""
	}
	return p.BirthDate.Format(birthDateLayout)
}

type UpdateInput struct {
	Bio       string
	Location  string
	BirthDate string
}
