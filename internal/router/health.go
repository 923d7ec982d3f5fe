package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aquashop.ca/storefront/api/pkg/global"
)

func (h *Handler) HealthCheck(c *gin.Context) {
	status := map[string]string{"status": "OK"}
	healthy := true
	for _, check := range h.Health {
		if err := check.Ping(c.Request.Context()); err != nil {
			status[check.Name] = "Unavailable"
			if check.Critical {
				healthy = false
			}
			continue
		}
		status[check.Name] = "Connected"
	}

	if !healthy {
		status["status"] = "DEGRADED"
		c.JSON(http.StatusServiceUnavailable, global.APIResponse{
			Success: false,
			Data:    status,
			Message: "Database connection failed",
		})
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(status))
}
