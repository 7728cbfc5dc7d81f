package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"stock-marketplace/models"
)

// BuyStock records one unit of the stock for the user at its current price.
// The (user_id, stock_id) unique index makes a second purchase a no-op insert,
// which is reported as a conflict.
func (s *Store) BuyStock(ctx context.Context, userID, stockID uint) (models.Stock, error) {
	stock, err := s.StockByID(ctx, stockID)
	if err != nil {
		return models.Stock{}, err
	}

	holding := models.Portfolio{
		UserID:        userID,
		StockID:       stock.ID,
		PurchasePrice: stock.Price,
		PurchaseDate:  time.Now().UTC(),
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "stock_id"}},
			DoNothing: true,
		}).
		Create(&holding)
	if res.Error != nil {
		return models.Stock{}, fmt.Errorf("insert holding of stock %d for user %d: %w", stockID, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Stock{}, errAlreadyOwned
	}
	return stock, nil
}

const portfolioQuery = `
	SELECT
		p.id, p.stock_id, p.purchase_price,
		s.stockname, s.price AS current_price, s.sellername, s.description,
		p.purchase_date,
		s.price - p.purchase_price AS profit_loss
	FROM portfolio p
	JOIN stocks s ON s.id = p.stock_id
	WHERE p.user_id = ?
	ORDER BY p.purchase_date DESC, p.id DESC
`

// Portfolio lists the user's holdings with the live data of each stock.
func (s *Store) Portfolio(ctx context.Context, userID uint) ([]models.PortfolioItem, error) {
	items := []models.PortfolioItem{}
	if err := s.db.WithContext(ctx).Raw(portfolioQuery, userID).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("fetch portfolio of user %d: %w", userID, err)
	}
	return items, nil
}

// SellHolding deletes a holding, but only one that belongs to userID.
func (s *Store) SellHolding(ctx context.Context, userID, holdingID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", holdingID, userID).
		Delete(&models.Portfolio{})
	if res.Error != nil {
		return fmt.Errorf("sell holding %d of user %d: %w", holdingID, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return errHoldingNotFound
	}
	return nil
}
