package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hfscout/hfscout/internal/models"
	"github.com/hfscout/hfscout/internal/services"
	"github.com/hfscout/hfscout/pkg/logger"
	"github.com/xuri/excelize/v2"
)

type ExportHandler struct {
	extractionService *services.ExtractionService
}

func NewExportHandler(extractionService *services.ExtractionService) *ExportHandler {
	return &ExportHandler{extractionService: extractionService}
}

// Export writes the completed extraction's contributors as a spreadsheet
func (h *ExportHandler) Export(c *gin.Context) {
	repoPath := c.Param("owner") + "/" + c.Param("name")

	if err := models.ValidateRepositoryPath(repoPath); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "message": err.Error()})
		return
	}

	extraction, ok := h.extractionService.GetStatus(repoPath)
	if !ok || extraction.Status != models.ExtractionStatusCompleted {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("No completed extraction found for repository %s", repoPath),
		})
		return
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Contributors"
	file.SetSheetName("Sheet1", sheet)

	headers := []string{"Name", "Email", "Commits", "First Commit", "Last Commit"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, header)
	}

	for row, contributor := range extraction.Contributors {
		values := []interface{}{
			contributor.Name,
			stringOrEmpty(contributor.Email),
			intOrZero(contributor.CommitCount),
			stringOrEmpty(contributor.FirstCommitDate),
			stringOrEmpty(contributor.LastCommitDate),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_%s_contributors.xlsx", c.Param("owner"), c.Param("name")))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		logger.WithError(err).Errorf("Failed to write export for %s", repoPath)
	}
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func intOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
