package testutil

import (
	"time"

	"github.com/docuscan/docuscan/internal/models"
	"github.com/docuscan/docuscan/internal/utils"
	"github.com/google/uuid"
)

// CreateTestUser creates a user with a hashed password and today's reset
// date, so the daily reset is a no-op unless a test backdates LastReset.
func CreateTestUser(username, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
		Credits:      models.DailyCredits,
		LastReset:    models.Today(),
	}, nil
}

// DefaultTestUser returns a default regular user
func DefaultTestUser() (*models.User, error) {
	return CreateTestUser("testuser", "Test123456", models.RoleUser)
}

// DefaultAdminUser returns a default admin user
func DefaultAdminUser() (*models.User, error) {
	return CreateTestUser("admin", "Admin123456", models.RoleAdmin)
}

// CreateTestDocument creates a document owned by the given user
func CreateTestDocument(userID uuid.UUID, filename, content string) *models.Document {
	return &models.Document{
		UserID:    userID,
		Filename:  filename,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// CreateTestCreditRequest creates a pending credit request
func CreateTestCreditRequest(userID uuid.UUID, amount int) *models.CreditRequest {
	return &models.CreditRequest{
		UserID:           userID,
		RequestedCredits: amount,
		Status:           models.StatusPending,
		CreatedAt:        time.Now(),
	}
}
