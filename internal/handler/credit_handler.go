package handler

import (
	"errors"
	"net/http"

	"github.com/docuscan/docuscan/internal/middleware"
	"github.com/docuscan/docuscan/internal/service"
	"github.com/docuscan/docuscan/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CreditHandler struct {
	creditService *service.CreditService
}

func NewCreditHandler(creditService *service.CreditService) *CreditHandler {
	return &CreditHandler{
		creditService: creditService,
	}
}

type CreditRequestRequest struct {
	RequestedCredits int `json:"requestedCredits" binding:"required"`
}

// RequestCredits files a top-up ticket for admin review.
// POST /credits/request
func (h *CreditHandler) RequestCredits(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Not authenticated",
		})
		return
	}

	var req CreditRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Requested credits must be greater than 0",
		})
		return
	}

	created, err := h.creditService.RequestCredits(user.ID, req.RequestedCredits)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Requested credits must be greater than 0",
			})
			return
		}

		logger.Log.Error("Failed to create credit request",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create credit request",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Credit request submitted",
		"requestId": created.ID,
	})
}
