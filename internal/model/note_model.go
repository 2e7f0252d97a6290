package model

import (
	"time"

	"gorm.io/datatypes"
)

// Note rows are keyed by (user_id, note_id); the owner leads the key so every
// query is an index range scan over one user's partition.
type Note struct {
	UserId      string         `gorm:"type:varchar(255);primaryKey"`
	NoteId      string         `gorm:"type:varchar(64);primaryKey"`
	Title       string         `gorm:"type:text;not null"`
	Content     string         `gorm:"type:text;not null;default:''"`
	Attachments datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt   time.Time      `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime:false"`
}

func (Note) TableName() string {
	return "notes"
}
