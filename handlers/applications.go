package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-marketplace/models"
)

type applicationInput struct {
	CompanyName string `json:"company_name" binding:"required"`
	Price       price  `json:"price" binding:"required,gt=0"`
	Sellername  string `json:"sellername" binding:"required"`
	Description string `json:"description"`
}

// SubmitApplication is public: any company may ask to be listed.
func (h *Handler) SubmitApplication(c *gin.Context) {
	var input applicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Company name, price, seller name required")
		return
	}

	app := models.Application{
		CompanyName: input.CompanyName,
		Price:       float64(input.Price),
		Sellername:  input.Sellername,
		Description: input.Description,
	}
	if err := h.store.CreateApplication(c.Request.Context(), &app); err != nil {
		h.respondError(c, err, "Failed to submit application")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Application submitted", "id": app.ID})
}

func (h *Handler) ListApplications(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.ValidApplicationStatus(status) {
		badRequest(c, "Status must be pending, accepted or rejected")
		return
	}

	apps, err := h.store.ListApplications(c.Request.Context(), status)
	if err != nil {
		h.respondError(c, err, "Failed to fetch applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *Handler) AcceptApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	stockID, err := h.store.AcceptApplication(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to accept application")
		return
	}

	h.log.WithField("application_id", id).WithField("stock_id", stockID).Info("application accepted")
	c.JSON(http.StatusOK, gin.H{"message": "Application accepted", "stockId": stockID})
}

func (h *Handler) RejectApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.RejectApplication(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to reject application")
		return
	}

	h.log.WithField("application_id", id).Info("application rejected")
	c.JSON(http.StatusOK, gin.H{"message": "Application rejected"})
}
