package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tokensmith/internal/models"
	"tokensmith/internal/store"
)

// TokenRecordHandler serves the local token record store read-only.
type TokenRecordHandler struct {
	Store   *store.TokenStore
	Journal *gorm.DB
}

func NewTokenRecordHandler(s *store.TokenStore, journal *gorm.DB) *TokenRecordHandler {
	return &TokenRecordHandler{Store: s, Journal: journal}
}

// List returns all readable token records.
func (h *TokenRecordHandler) List(c *gin.Context) {
	records, err := h.Store.LoadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []models.TokenRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// GetByMint returns the record for one mint address.
func (h *TokenRecordHandler) GetByMint(c *gin.Context) {
	mint := c.Param("mint")
	if err := models.ValidateAddress(mint); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := h.Store.LoadByMintAddress(mint)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

// History returns the operation journal rows for one mint, newest first.
func (h *TokenRecordHandler) History(c *gin.Context) {
	mint := c.Param("mint")
	if err := models.ValidateAddress(mint); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var records []models.OperationRecord
	if err := h.Journal.Where("mint = ?", mint).Order("id desc").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}
