package service

import (
	"errors"
	"time"

	"github.com/docuscan/docuscan/internal/models"
	"github.com/docuscan/docuscan/internal/repository"
	"github.com/docuscan/docuscan/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidAmount   = errors.New("requested credits must be greater than 0")
	ErrRequestNotFound = errors.New("credit request not found")
)

// Analytics is the admin review report: every user with their balance and
// scan totals, and every credit request in creation order.
type Analytics struct {
	Users          []repository.UserAnalyticsRow `json:"users"`
	CreditRequests []repository.CreditRequestRow `json:"credit_requests"`
}

type CreditService struct {
	creditRepo *repository.CreditRepository
	userRepo   *repository.UserRepository
}

func NewCreditService(creditRepo *repository.CreditRepository, userRepo *repository.UserRepository) *CreditService {
	return &CreditService{
		creditRepo: creditRepo,
		userRepo:   userRepo,
	}
}

// RequestCredits creates a pending top-up ticket for the user.
func (s *CreditService) RequestCredits(userID uuid.UUID, amount int) (*models.CreditRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	req := &models.CreditRequest{
		UserID:           userID,
		RequestedCredits: amount,
		Status:           models.StatusPending,
		CreatedAt:        time.Now(),
	}

	if err := s.creditRepo.CreateRequest(req); err != nil {
		logger.Log.Error("Failed to create credit request",
			zap.String("user_id", userID.String()),
			zap.Int("amount", amount),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Credit request submitted",
		zap.String("user_id", userID.String()),
		zap.Uint("request_id", req.ID),
		zap.Int("requested_credits", amount),
	)

	return req, nil
}

// ApproveRequest adds amount to the requester's balance and marks the
// request approved. Re-approving an already-resolved request re-applies the
// credit; there is no idempotency guard.
func (s *CreditService) ApproveRequest(requestID uint, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	req, err := s.creditRepo.GetRequestByID(requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	if err := s.userRepo.AddCredits(req.UserID, amount); err != nil {
		logger.Log.Error("Failed to add approved credits",
			zap.Uint("request_id", requestID),
			zap.String("user_id", req.UserID.String()),
			zap.Error(err),
		)
		return err
	}

	if err := s.creditRepo.ResolveRequest(requestID, models.StatusApproved, amount); err != nil {
		logger.Log.Error("Failed to mark credit request approved",
			zap.Uint("request_id", requestID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Credit request approved",
		zap.Uint("request_id", requestID),
		zap.String("user_id", req.UserID.String()),
		zap.Int("approved_credits", amount),
	)

	return nil
}

// DenyRequest marks the request denied without touching the balance.
func (s *CreditService) DenyRequest(requestID uint) error {
	req, err := s.creditRepo.GetRequestByID(requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	if err := s.creditRepo.ResolveRequest(requestID, models.StatusDenied, 0); err != nil {
		logger.Log.Error("Failed to mark credit request denied",
			zap.Uint("request_id", requestID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Credit request denied",
		zap.Uint("request_id", requestID),
	)

	return nil
}

// GetAnalytics builds the admin review report.
func (s *CreditService) GetAnalytics() (*Analytics, error) {
	users, err := s.creditRepo.GetUserAnalytics()
	if err != nil {
		logger.Log.Error("Failed to fetch user analytics", zap.Error(err))
		return nil, err
	}

	requests, err := s.creditRepo.GetRequestAnalytics()
	if err != nil {
		logger.Log.Error("Failed to fetch credit request analytics", zap.Error(err))
		return nil, err
	}

	return &Analytics{
		Users:          users,
		CreditRequests: requests,
	}, nil
}
