package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Ready godoc
// @Summary      Readiness check
// @Description  Reports whether a coin list is loaded and queries can be answered
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /ready [get]
func (h *Handler) Ready(c *gin.Context) {
	if !h.coins.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading", "coins": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "coins": h.coins.CoinCount()})
}
