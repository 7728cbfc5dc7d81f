package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:255;not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`
	Token     string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is what the auth gate attaches to an authenticated request.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
