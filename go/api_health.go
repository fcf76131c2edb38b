package bookingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthAPI reports liveness.
type HealthAPI struct{}

// Get /healthz
func (api *HealthAPI) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
