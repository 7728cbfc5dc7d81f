package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ListStocks serves both the admin and the user stock listing.
func (h *Handler) ListStocks(c *gin.Context) {
	stocks, err := h.store.ListStocks(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch stocks")
		return
	}
	c.JSON(http.StatusOK, stocks)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Route not found", "path": c.Request.URL.Path})
}
