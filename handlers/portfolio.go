package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) BuyStock(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	stockID, ok := pathID(c)
	if !ok {
		return
	}

	stock, err := h.store.BuyStock(c.Request.Context(), ident.ID, stockID)
	if err != nil {
		h.respondError(c, err, "Failed to buy stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock bought successfully", "stockname": stock.Stockname})
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}

	items, err := h.store.Portfolio(c.Request.Context(), ident.ID)
	if err != nil {
		h.respondError(c, err, "Failed to fetch portfolio")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) SellStock(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	holdingID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.SellHolding(c.Request.Context(), ident.ID, holdingID); err != nil {
		h.respondError(c, err, "Failed to sell stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock sold successfully"})
}
