package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hfscout/hfscout/internal/models"
	"github.com/hfscout/hfscout/internal/services"
)

type ExtractionHandler struct {
	extractionService *services.ExtractionService
}

func NewExtractionHandler(extractionService *services.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{extractionService: extractionService}
}

// ExtractRequest is the body of POST /extract
type ExtractRequest struct {
	RepoPath string `json:"repo_path"`
}

// Extract starts a background extraction for a repository, or returns the
// current snapshot when one already exists for the path
func (h *ExtractionHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "Invalid request body",
		})
		return
	}

	if err := models.ValidateRepositoryPath(req.RepoPath); err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status":  "error",
				"message": validationErr.Message,
			})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "message": err.Error()})
		return
	}

	extraction := h.extractionService.Start(req.RepoPath)
	c.JSON(http.StatusOK, extractionResponse(extraction))
}

// Status returns the current snapshot for a repository extraction
func (h *ExtractionHandler) Status(c *gin.Context) {
	repoPath := c.Param("owner") + "/" + c.Param("name")

	if err := models.ValidateRepositoryPath(repoPath); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	extraction, ok := h.extractionService.GetStatus(repoPath)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("No extraction found for repository %s", repoPath),
		})
		return
	}

	c.JSON(http.StatusOK, extractionResponse(extraction))
}

func extractionResponse(extraction *models.Extraction) gin.H {
	response := gin.H{
		"repo_path": extraction.RepoPath,
		"status":    extraction.Status,
		"message":   extraction.Message,
	}
	if extraction.Contributors != nil {
		response["contributors"] = extraction.Contributors
	}
	return response
}
