package repository

import (
	"errors"
	"time"

	"github.com/docuscan/docuscan/internal/models"
	"gorm.io/gorm"
)

type CreditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

func (r *CreditRepository) CreateRequest(req *models.CreditRequest) error {
	return r.db.Create(req).Error
}

func (r *CreditRepository) GetRequestByID(id uint) (*models.CreditRequest, error) {
	var req models.CreditRequest
	err := r.db.First(&req, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &req, nil
}

// ResolveRequest moves a request to a terminal status. approvedCredits is 0
// for denials.
func (r *CreditRepository) ResolveRequest(id uint, status models.RequestStatus, approvedCredits int) error {
	return r.db.Model(&models.CreditRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"approved_credits": approvedCredits,
		}).Error
}

// UserAnalyticsRow is one user in the admin analytics report.
type UserAnalyticsRow struct {
	Username   string `json:"username"`
	Credits    int    `json:"credits"`
	TotalScans int64  `json:"total_scans"`
}

// CreditRequestRow is one credit request in the admin analytics report.
type CreditRequestRow struct {
	RequestID        uint      `json:"request_id"`
	Username         string    `json:"username"`
	RequestedCredits int       `json:"requested_credits"`
	Status           string    `json:"status"`
	ApprovedCredits  int       `json:"approved_credits"`
	RequestDate      time.Time `json:"request_date"`
}

// GetUserAnalytics reports every user with their current balance and total
// scan count (zero if none).
func (r *CreditRepository) GetUserAnalytics() ([]UserAnalyticsRow, error) {
	var rows []UserAnalyticsRow
	err := r.db.Table("users u").
		Select("u.username, u.credits, COUNT(s.id) AS total_scans").
		Joins("LEFT JOIN scan_events s ON s.user_id = u.id").
		Group("u.id, u.username, u.credits").
		Order("u.created_at ASC").
		Scan(&rows).Error

	return rows, err
}

// GetRequestAnalytics reports every credit request with the requester's
// username, oldest first.
func (r *CreditRepository) GetRequestAnalytics() ([]CreditRequestRow, error) {
	var rows []CreditRequestRow
	err := r.db.Table("credit_requests cr").
		Select("cr.id AS request_id, u.username, cr.requested_credits, cr.status, cr.approved_credits, cr.created_at AS request_date").
		Joins("JOIN users u ON u.id = cr.user_id").
		Order("cr.id ASC").
		Scan(&rows).Error

	return rows, err
}
