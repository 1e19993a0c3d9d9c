package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DailyCredits is the free allotment every user falls back to once per day.
const DailyCredits = 20

// DateLayout is the calendar-day format stored in User.LastReset.
const DateLayout = "2006-01-02"

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	Role         Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Credits      int       `gorm:"not null;default:20" json:"credits"`
	LastReset    string    `gorm:"type:varchar(10);not null" json:"last_reset"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ApplyDailyReset refreshes the free credit allotment if the last reset
// happened on an earlier calendar day. Returns true when the user was mutated
// and needs to be persisted. Must run before any credit check in the same
// request.
func (u *User) ApplyDailyReset(today string) bool {
	if u.LastReset == today {
		return false
	}
	u.Credits = DailyCredits
	u.LastReset = today
	return true
}

// Today returns the current calendar day in the LastReset format.
func Today() string {
	return time.Now().Format(DateLayout)
}
