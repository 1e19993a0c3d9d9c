package repository

import (
	"errors"

	"github.com/docuscan/docuscan/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// AdminExists reports whether any admin account has been created yet
// (used by the startup bootstrap).
func (r *UserRepository) AdminExists() (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error
	return count > 0, err
}

// UpdateDailyReset persists a daily credit reset for the user.
func (r *UserRepository) UpdateDailyReset(id uuid.UUID, credits int, lastReset string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"credits":    credits,
			"last_reset": lastReset,
		}).Error
}

// AddCredits adjusts the user's balance by delta (negative for a debit).
// The check-then-debit pair is intentionally not atomic across requests;
// concurrent scans by the same user can race the balance below zero.
func (r *UserRepository) AddCredits(id uuid.UUID, delta int) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("credits", gorm.Expr("credits + ?", delta)).Error
}
