package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipeclip/backend/internal/domain"
	"github.com/recipeclip/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	extractionService *usecase.ExtractionService
}

// NewHandler creates a new HTTP handler
func NewHandler(extractionService *usecase.ExtractionService) *Handler {
	return &Handler{extractionService: extractionService}
}

// extractResponse is the success envelope: the recipe contract plus success flag
type extractResponse struct {
	Success bool `json:"success"`
	domain.ExtractedRecipe
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recipeclip-backend",
		"version": "1.0.0",
	})
}

// ExtractRecipe handles recipe extraction requests.
// 400 covers bad input and "no recipe found" (a content decision, not a
// transport failure); transport and parse failures map to 500.
func (h *Handler) ExtractRecipe(c *gin.Context) {
	if h.extractionService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"success": false,
			"error":   "Extraction service not configured",
		})
		return
	}

	var req domain.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "A recipe URL is required",
		})
		return
	}

	recipe, err := h.extractionService.ExtractFromURL(c.Request.Context(), req.URL)
	if err != nil {
		status, message := mapExtractionError(err)
		c.JSON(status, gin.H{
			"success": false,
			"error":   message,
		})
		return
	}

	c.JSON(http.StatusOK, extractResponse{
		Success:         true,
		ExtractedRecipe: *recipe,
	})
}

// mapExtractionError translates the domain error taxonomy to HTTP semantics
func mapExtractionError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "A recipe URL is required"
	case errors.Is(err, domain.ErrNoRecipeFound):
		return http.StatusBadRequest, "No recipe found at that URL"
	case errors.Is(err, domain.ErrPageFetch):
		return http.StatusInternalServerError, "Could not fetch the page at that URL"
	default:
		return http.StatusInternalServerError, "Recipe extraction failed"
	}
}
