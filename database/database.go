package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"stock-marketplace/apperror"
	"stock-marketplace/models"
)

var (
	errStockNotFound        = apperror.New(apperror.NotFound, "Stock not found")
	errApplicationProcessed = apperror.New(apperror.NotFound, "Application not found or already processed")
	errHoldingNotFound      = apperror.New(apperror.NotFound, "Portfolio item not found")
	errAlreadyOwned         = apperror.New(apperror.Conflict, "You already own this stock")
	errUsernameTaken        = apperror.New(apperror.Conflict, "Username exists")
	errUserNotFound         = apperror.New(apperror.NotFound, "User not found")
)

// Migrate creates or updates the four tables and their indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Stock{},
		&models.Portfolio{},
		&models.Application{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Store runs every query the API needs. It is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into a LIKE pattern that matches it
// literally anywhere in the value.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
