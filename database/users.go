package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stock-marketplace/models"
)

// CreateUser inserts u and fills in its ID. A taken username is a conflict.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, errUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user %q: %w", username, err)
	}
	return u, nil
}

// IdentityByToken resolves a bearer token to the user that owns it.
func (s *Store) IdentityByToken(ctx context.Context, token string) (models.Identity, error) {
	var ident models.Identity
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "username", "role").
		Where("token = ?", token).
		Take(&ident).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Identity{}, errUserNotFound
	}
	if err != nil {
		return models.Identity{}, fmt.Errorf("resolve token: %w", err)
	}
	return ident, nil
}
