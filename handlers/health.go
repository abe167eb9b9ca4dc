package handlers

import (
	"net/http"

	"bookpilot/utils"

	"github.com/gin-gonic/gin"
)

// Health reports liveness plus the current capability-mode snapshot.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"health": utils.GetHealthStatus(),
	})
}
