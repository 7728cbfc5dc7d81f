package models

import (
	"time"
)

// Portfolio is one user's holding of one unit of one stock.
type Portfolio struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_portfolio_user_stock" json:"user_id"`
	StockID       uint      `gorm:"not null;uniqueIndex:idx_portfolio_user_stock;index" json:"stock_id"`
	PurchasePrice float64   `gorm:"not null" json:"purchase_price"`
	PurchaseDate  time.Time `gorm:"not null" json:"purchase_date"`
}

func (Portfolio) TableName() string {
	return "portfolio"
}

// PortfolioItem is a holding joined with the live data of its stock.
type PortfolioItem struct {
	ID            uint      `json:"id"`
	StockID       uint      `json:"stock_id"`
	PurchasePrice float64   `json:"purchase_price"`
	Stockname     string    `json:"stockname"`
	CurrentPrice  float64   `json:"current_price"`
	Sellername    string    `json:"sellername"`
	Description   string    `json:"description"`
	PurchaseDate  time.Time `json:"purchase_date"`
	ProfitLoss    float64   `json:"profit_loss"`
}
