package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
)

// CreditRequest is a user-initiated top-up ticket. An admin resolves it once,
// moving the status from pending to approved or denied.
type CreditRequest struct {
	ID               uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	RequestedCredits int           `gorm:"not null" json:"requested_credits"`
	Status           RequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ApprovedCredits  int           `gorm:"not null;default:0" json:"approved_credits"`
	CreatedAt        time.Time     `json:"created_at"`
}
