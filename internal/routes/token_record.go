package routes

import (
	"github.com/gin-gonic/gin"

	"tokensmith/internal/handlers"
)

// SetupTokenRoutes sets up all routes related to token records and inspection
func SetupTokenRoutes(r *gin.Engine, records *handlers.TokenRecordHandler, inspect *handlers.InspectHandler) {
	tokens := r.Group("/tokens")
	{
		tokens.GET("", records.List)
		tokens.GET("/:mint", records.GetByMint)
		tokens.GET("/:mint/history", records.History)
		tokens.GET("/:mint/inspect", inspect.Inspect)
	}
}
