package models

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Application is a company's request to be listed as a stock.
type Application struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyName string    `gorm:"size:255;not null" json:"company_name"`
	Price       float64   `gorm:"not null" json:"price"`
	Sellername  string    `gorm:"size:255;not null" json:"sellername"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Status      string    `gorm:"size:16;not null;default:pending;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func ValidApplicationStatus(status string) bool {
	switch status {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}
