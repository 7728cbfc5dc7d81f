package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stock-marketplace/apperror"
	"stock-marketplace/models"
)

type registerInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// NewToken returns a fresh opaque bearer token.
func NewToken() string {
	return "token-" + uuid.NewString()
}

// HashPassword hashes a password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *Handler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Username & password required")
		return
	}

	role := input.Role
	switch role {
	case "":
		role = models.RoleUser
	case models.RoleUser:
	case models.RoleAdmin:
		if !h.opts.AllowAdminSignup {
			c.JSON(http.StatusForbidden, gin.H{"message": "Admin accounts cannot be self-registered"})
			return
		}
	default:
		badRequest(c, "Role must be user or admin")
		return
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		h.respondError(c, err, "Registration failed")
		return
	}

	user := models.User{
		Username: input.Username,
		Password: hashed,
		Role:     role,
		Token:    NewToken(),
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		h.respondError(c, err, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "User registered",
		"id":       user.ID,
		"username": user.Username,
		"token":    user.Token,
		"role":     user.Role,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Username & password required")
		return
	}

	user, err := h.store.UserByUsername(c.Request.Context(), input.Username)
	if apperror.Is(err, apperror.NotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if err != nil {
		h.respondError(c, err, "Login failed")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"role":     user.Role,
		"token":    user.Token,
		"username": user.Username,
	})
}
