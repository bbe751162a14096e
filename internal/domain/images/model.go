package images

import "time"

type Image struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	UploaderID  *string   `gorm:"type:uuid"`
	ObjectKey   string    `gorm:"not null;uniqueIndex"`
	ContentType string    `gorm:"not null"`
	SizeBytes   int64     `gorm:"not null"`
	Width       int       `gorm:"not null"`
	Height      int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}
