package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanEvent is the append-only audit record written once per successful
// upload/scan. Never mutated.
type ScanEvent struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	DocumentID uint      `gorm:"not null;index" json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}
