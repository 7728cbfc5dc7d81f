package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stock-marketplace/apperror"
	"stock-marketplace/cache"
	"stock-marketplace/models"
)

const identityKey = "identity"

// IdentityResolver looks up the user that owns a bearer token.
type IdentityResolver interface {
	IdentityByToken(ctx context.Context, token string) (models.Identity, error)
}

// TokenAuth resolves the bearer token of every request to an identity. The
// cache may be nil.
func TokenAuth(resolver IdentityResolver, identities cache.IdentityCache, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		ctx := c.Request.Context()
		if identities != nil {
			ident, ok, err := identities.Get(ctx, token)
			if err != nil {
				log.WithError(err).Warn("identity cache lookup failed")
			}
			if ok {
				c.Set(identityKey, ident)
				c.Next()
				return
			}
		}

		ident, err := resolver.IdentityByToken(ctx, token)
		if apperror.Is(err, apperror.NotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		if err != nil {
			log.WithError(err).Error("resolve bearer token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error during auth"})
			return
		}

		if identities != nil {
			if err := identities.Set(ctx, token, ident); err != nil {
				log.WithError(err).Warn("identity cache store failed")
			}
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role differs from role.
// It must run after TokenAuth.
func RequireRole(role string) gin.HandlerFunc {
	message := "Insufficient role"
	if role == models.RoleAdmin {
		message = "Admin only"
	}

	return func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}
		if ident.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": message})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity TokenAuth attached to the request.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	ident, ok := v.(models.Identity)
	return ident, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
