package models

import "time"

type Stock struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Stockname   string  `gorm:"size:255;not null" json:"stockname"`
	Price       float64 `gorm:"not null" json:"price"`
	Sellername  string  `gorm:"size:255;not null" json:"sellername"`
	Description string  `gorm:"type:text;not null;default:''" json:"description"`
}

// StockAnalytics summarises every holding that references a stock.
// The price aggregates are nil when nobody holds the stock.
type StockAnalytics struct {
	ID               uint     `json:"id"`
	Stockname        string   `json:"stockname"`
	Price            float64  `json:"price"`
	Sellername       string   `json:"sellername"`
	TotalBuyers      int64    `json:"total_buyers"`
	AvgPurchasePrice *float64 `json:"avg_purchase_price"`
	MinPurchasePrice *float64 `json:"min_purchase_price"`
	MaxPurchasePrice *float64 `json:"max_purchase_price"`
	Buyers           []Buyer  `json:"buyers"`
}

type Buyer struct {
	Username      string    `json:"username"`
	PurchasePrice float64   `json:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date"`
}
