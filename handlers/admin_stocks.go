package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-marketplace/models"
)

type stockInput struct {
	Stockname   string `json:"stockname" binding:"required"`
	Price       price  `json:"price" binding:"required,gt=0"`
	Sellername  string `json:"sellername" binding:"required"`
	Description string `json:"description"`
}

func (in stockInput) stock(id uint) models.Stock {
	return models.Stock{
		ID:          id,
		Stockname:   in.Stockname,
		Price:       float64(in.Price),
		Sellername:  in.Sellername,
		Description: in.Description,
	}
}

func (h *Handler) CreateStock(c *gin.Context) {
	var input stockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Stock name, price, seller required")
		return
	}

	stock := input.stock(0)
	if err := h.store.CreateStock(c.Request.Context(), &stock); err != nil {
		h.respondError(c, err, "Failed to add stock")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Stock added", "id": stock.ID})
}

func (h *Handler) UpdateStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input stockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Stock name, price, seller required")
		return
	}

	if err := h.store.UpdateStock(c.Request.Context(), input.stock(id)); err != nil {
		h.respondError(c, err, "Failed to update stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
}

func (h *Handler) DeleteStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteStock(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock deleted"})
}

func (h *Handler) StockAnalytics(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	stats, err := h.store.StockAnalytics(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to fetch stock analytics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
