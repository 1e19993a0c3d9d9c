package repository

import (
	"github.com/docuscan/docuscan/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScanRepository struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

func (r *ScanRepository) CreateScanEvent(event *models.ScanEvent) error {
	return r.db.Create(event).Error
}

// GetScansByUser returns the user's scan history, newest first.
func (r *ScanRepository) GetScansByUser(userID uuid.UUID) ([]models.ScanEvent, error) {
	var scans []models.ScanEvent
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&scans).Error

	return scans, err
}
