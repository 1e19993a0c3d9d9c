package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded text file. Immutable after creation; documents are
// never deleted, so the full table doubles as the similarity corpus.
type Document struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Filename  string    `gorm:"type:varchar(255);not null" json:"filename"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
