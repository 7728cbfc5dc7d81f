package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock-marketplace/models"
)

// CreateApplication stores a new pending application.
func (s *Store) CreateApplication(ctx context.Context, app *models.Application) error {
	app.Status = models.StatusPending
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// ListApplications returns applications newest first, optionally only those
// with the given status.
func (s *Store) ListApplications(ctx context.Context, status string) ([]models.Application, error) {
	apps := []models.Application{}
	q := s.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// AcceptApplication locks a pending application, lists it as a stock and
// marks it accepted, all in one transaction. It returns the new stock ID.
func (s *Store) AcceptApplication(ctx context.Context, id uint) (uint, error) {
	var stockID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.Application
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", id, models.StatusPending).
			First(&app).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errApplicationProcessed
		}
		if err != nil {
			return fmt.Errorf("lock application %d: %w", id, err)
		}

		stock := models.Stock{
			Stockname:   app.CompanyName,
			Price:       app.Price,
			Sellername:  app.Sellername,
			Description: app.Description,
		}
		if err := tx.Create(&stock).Error; err != nil {
			return fmt.Errorf("list application %d as stock: %w", id, err)
		}

		if err := tx.Model(&models.Application{}).
			Where("id = ?", id).
			Update("status", models.StatusAccepted).Error; err != nil {
			return fmt.Errorf("mark application %d accepted: %w", id, err)
		}

		stockID = stock.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stockID, nil
}

// RejectApplication rejects an application that is still pending.
func (s *Store) RejectApplication(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Update("status", models.StatusRejected)
	if res.Error != nil {
		return fmt.Errorf("reject application %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errApplicationProcessed
	}
	return nil
}
