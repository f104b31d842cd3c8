package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tokensmith/internal/models"
	"tokensmith/pkg/solana"
)

// InspectHandler runs on-chain inspections over HTTP.
type InspectHandler struct {
	Inspector *solana.Inspector
}

func NewInspectHandler(inspector *solana.Inspector) *InspectHandler {
	return &InspectHandler{Inspector: inspector}
}

// Inspect returns the composite on-chain/off-chain report for a mint.
func (h *InspectHandler) Inspect(c *gin.Context) {
	mint := c.Param("mint")
	report, err := h.Inspector.Inspect(c.Request.Context(), mint)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrNetwork):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
