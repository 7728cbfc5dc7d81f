package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stock-marketplace/apperror"
	"stock-marketplace/middleware"
	"stock-marketplace/models"
)

// Store is the persistence the handlers depend on.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByUsername(ctx context.Context, username string) (models.User, error)

	CreateApplication(ctx context.Context, app *models.Application) error
	ListApplications(ctx context.Context, status string) ([]models.Application, error)
	AcceptApplication(ctx context.Context, id uint) (uint, error)
	RejectApplication(ctx context.Context, id uint) error

	CreateStock(ctx context.Context, stock *models.Stock) error
	ListStocks(ctx context.Context, search string) ([]models.Stock, error)
	UpdateStock(ctx context.Context, stock models.Stock) error
	DeleteStock(ctx context.Context, id uint) error
	StockAnalytics(ctx context.Context, id uint) (models.StockAnalytics, error)

	BuyStock(ctx context.Context, userID, stockID uint) (models.Stock, error)
	Portfolio(ctx context.Context, userID uint) ([]models.PortfolioItem, error)
	SellHolding(ctx context.Context, userID, holdingID uint) error
}

type Options struct {
	// AllowAdminSignup lets /register create administrators.
	AllowAdminSignup bool
}

type Handler struct {
	store Store
	log   logrus.FieldLogger
	opts  Options
}

func New(store Store, log logrus.FieldLogger, opts Options) *Handler {
	return &Handler{store: store, log: log, opts: opts}
}

// respondError writes err as a {"message"} body. Anything that is not a
// classified client error is logged and reported with the generic fallback.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind != apperror.Internal {
		c.JSON(appErr.Kind.HTTPStatus(), gin.H{"message": appErr.Message})
		return
	}

	h.log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"route":  c.FullPath(),
	}).Error(fallback)
	c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) identity(c *gin.Context) (models.Identity, bool) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
	}
	return ident, ok
}

// price accepts both JSON numbers and numeric strings, which is what HTML
// form inputs produce.
type price float64

func (p *price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*p = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return errors.New("price must be a finite number")
		}
		*p = price(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = price(v)
	return nil
}
