package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/docuscan/docuscan/internal/middleware"
	"github.com/docuscan/docuscan/internal/service"
	"github.com/docuscan/docuscan/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ScanHandler struct {
	scanService *service.ScanService
}

func NewScanHandler(scanService *service.ScanService) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
	}
}

type ScanUploadRequest struct {
	Filename        string `json:"filename" binding:"required"`
	DocumentContent string `json:"documentContent" binding:"required"`
}

// ScanUpload persists a document, debits one credit and returns the match
// set against the stored corpus.
// POST /scanUpload
func (h *ScanHandler) ScanUpload(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Not authenticated",
		})
		return
	}

	var req ScanUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Filename and document content required",
		})
		return
	}

	result, err := h.scanService.ScanUpload(user, req.Filename, req.DocumentContent)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientCredits):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient credits",
			})
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Filename and document content required",
			})
		default:
			logger.Log.Error("Scan upload failed",
				zap.String("user_id", user.ID.String()),
				zap.String("filename", req.Filename),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to store document",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Document scanned successfully",
		"documentId": result.DocumentID,
		"credits":    result.Credits,
		"matches":    result.Matches,
	})
}

// Matches returns the match set for an already-stored document.
// GET /matches/:docId
func (h *ScanHandler) Matches(c *gin.Context) {
	docID, err := strconv.ParseUint(c.Param("docId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Document not found",
		})
		return
	}

	matches, err := h.scanService.MatchesFor(uint(docID))
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Document not found",
			})
			return
		}

		logger.Log.Error("Failed to compute matches",
			zap.Uint64("document_id", docID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error retrieving documents",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
	})
}
