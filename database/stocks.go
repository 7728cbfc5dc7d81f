package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stock-marketplace/models"
)

func (s *Store) CreateStock(ctx context.Context, stock *models.Stock) error {
	if err := s.db.WithContext(ctx).Create(stock).Error; err != nil {
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// ListStocks returns all stocks, or only those whose stockname or sellername
// contains search, ignoring case.
func (s *Store) ListStocks(ctx context.Context, search string) ([]models.Stock, error) {
	stocks := []models.Stock{}
	q := s.db.WithContext(ctx)
	if search != "" {
		pattern := containsPattern(search)
		q = q.Where("LOWER(stockname) LIKE ? OR LOWER(sellername) LIKE ?", pattern, pattern)
	}
	if err := q.Order("id").Find(&stocks).Error; err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	return stocks, nil
}

// UpdateStock replaces every editable column of the stock with stock.ID.
func (s *Store) UpdateStock(ctx context.Context, stock models.Stock) error {
	res := s.db.WithContext(ctx).
		Model(&models.Stock{}).
		Where("id = ?", stock.ID).
		Updates(map[string]any{
			"stockname":   stock.Stockname,
			"price":       stock.Price,
			"sellername":  stock.Sellername,
			"description": stock.Description,
		})
	if res.Error != nil {
		return fmt.Errorf("update stock %d: %w", stock.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return errStockNotFound
	}
	return nil
}

// DeleteStock removes a stock. Holdings that reference it are left in place.
func (s *Store) DeleteStock(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Stock{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete stock %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errStockNotFound
	}
	return nil
}

func (s *Store) StockByID(ctx context.Context, id uint) (models.Stock, error) {
	var stock models.Stock
	err := s.db.WithContext(ctx).First(&stock, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Stock{}, errStockNotFound
	}
	if err != nil {
		return models.Stock{}, fmt.Errorf("find stock %d: %w", id, err)
	}
	return stock, nil
}

type analyticsSummary struct {
	ID               uint
	Stockname        string
	Price            float64
	Sellername       string
	TotalBuyers      int64
	AvgPurchasePrice *float64
	MinPurchasePrice *float64
	MaxPurchasePrice *float64
}

const analyticsSummaryQuery = `
	SELECT
		s.id, s.stockname, s.price, s.sellername,
		COUNT(p.id) AS total_buyers,
		CAST(AVG(p.purchase_price) AS DOUBLE PRECISION) AS avg_purchase_price,
		MIN(p.purchase_price) AS min_purchase_price,
		MAX(p.purchase_price) AS max_purchase_price
	FROM stocks s
	LEFT JOIN portfolio p ON p.stock_id = s.id
	WHERE s.id = ?
	GROUP BY s.id, s.stockname, s.price, s.sellername
`

const analyticsBuyersQuery = `
	SELECT u.username, p.purchase_price, p.purchase_date
	FROM portfolio p
	JOIN users u ON u.id = p.user_id
	WHERE p.stock_id = ?
	ORDER BY p.purchase_date DESC, p.id DESC
`

// StockAnalytics aggregates the holdings of one stock and lists its buyers,
// most recent purchase first.
func (s *Store) StockAnalytics(ctx context.Context, id uint) (models.StockAnalytics, error) {
	db := s.db.WithContext(ctx)

	var summary analyticsSummary
	res := db.Raw(analyticsSummaryQuery, id).Scan(&summary)
	if res.Error != nil {
		return models.StockAnalytics{}, fmt.Errorf("summarise stock %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.StockAnalytics{}, errStockNotFound
	}

	buyers := []models.Buyer{}
	if err := db.Raw(analyticsBuyersQuery, id).Scan(&buyers).Error; err != nil {
		return models.StockAnalytics{}, fmt.Errorf("list buyers of stock %d: %w", id, err)
	}

	return models.StockAnalytics{
		ID:               summary.ID,
		Stockname:        summary.Stockname,
		Price:            summary.Price,
		Sellername:       summary.Sellername,
		TotalBuyers:      summary.TotalBuyers,
		AvgPurchasePrice: summary.AvgPurchasePrice,
		MinPurchasePrice: summary.MinPurchasePrice,
		MaxPurchasePrice: summary.MaxPurchasePrice,
		Buyers:           buyers,
	}, nil
}
