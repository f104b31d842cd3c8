package routes

import (
	"github.com/gin-gonic/gin"

	"tokensmith/internal/handlers"
)

// SetupRouter wires the read-only API. The server is meant to run next
// to the CLI on the same machine, so there is no auth layer.
func SetupRouter(records *handlers.TokenRecordHandler, inspect *handlers.InspectHandler) *gin.Engine {
	r := gin.Default()

	r.Any("/health", func(c *gin.Context) {
		c.String(200, "ok")
	})

	SetupTokenRoutes(r, records, inspect)
	return r
}
