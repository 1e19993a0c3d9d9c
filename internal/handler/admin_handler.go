package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/docuscan/docuscan/internal/service"
	"github.com/docuscan/docuscan/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	creditService *service.CreditService
}

func NewAdminHandler(creditService *service.CreditService) *AdminHandler {
	return &AdminHandler{
		creditService: creditService,
	}
}

// Request types
type ApproveCreditsRequest struct {
	RequestID         uint `json:"requestId" binding:"required"`
	AdditionalCredits int  `json:"additionalCredits" binding:"required"`
}

type DenyCreditsRequest struct {
	RequestID uint `json:"requestId" binding:"required"`
}

// Analytics returns per-user usage and every credit request for review.
// GET /admin/analytics
func (h *AdminHandler) Analytics(c *gin.Context) {
	analytics, err := h.creditService.GetAnalytics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching analytics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analytics": analytics,
	})
}

// ApproveCredits resolves a pending request and tops up the requester.
// POST /admin/credits/approve
func (h *AdminHandler) ApproveCredits(c *gin.Context) {
	var req ApproveCreditsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Request ID and additional credits are required",
		})
		return
	}

	logger.Log.Info("Admin approving credit request",
		zap.String("admin", c.GetString("username")),
		zap.Uint("request_id", req.RequestID),
		zap.Int("additional_credits", req.AdditionalCredits),
	)

	if err := h.creditService.ApproveRequest(req.RequestID, req.AdditionalCredits); err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Credit request not found",
			})
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Additional credits must be greater than 0",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update credit request",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Credit request approved. %d credits added.", req.AdditionalCredits),
	})
}

// DenyCredits resolves a pending request without a top-up.
// POST /admin/credits/deny
func (h *AdminHandler) DenyCredits(c *gin.Context) {
	var req DenyCreditsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Request ID required",
		})
		return
	}

	logger.Log.Info("Admin denying credit request",
		zap.String("admin", c.GetString("username")),
		zap.Uint("request_id", req.RequestID),
	)

	if err := h.creditService.DenyRequest(req.RequestID); err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Credit request not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update credit request",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Credit request denied",
	})
}
