package handlers

import (
	"net/http"
	"time"

	"appointly/models"
	"appointly/utils"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": models.FormatInstant(time.Now()),
		"deps":      status.Deps,
	})
}
