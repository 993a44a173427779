package middleware

import (
	"context"
	"errors"
	"strings"

	"blog-cms/helper"
	"blog-cms/models"
	"blog-cms/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxUser   = "user"
)

// UserLookup is the part of the auth service the strict guard needs.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthGuard struct {
	tokens     services.TokenService
	users      UserLookup
	HTTPHelper *helper.HTTPHelper
}

func NewAuthGuard(tokens services.TokenService, users UserLookup, httpHelper *helper.HTTPHelper) *AuthGuard {
	return &AuthGuard{tokens: tokens, users: users, HTTPHelper: httpHelper}
}

// RequireToken verifies the bearer token and stores its claims. The role it
// stores is the one embedded at login.
func (g *AuthGuard) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := g.verify(c)
		if !ok {
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

func (g *AuthGuard) RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := CurrentRole(c)
		if !exists {
			g.HTTPHelper.SendUnauthorizedError(c, "Token is missing")
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		g.HTTPHelper.SendForbiddenError(c, "Access denied")
	}
}

// RequireUser verifies the token and then loads the account it names, so
// later handlers see the role as it is now rather than at login.
func (g *AuthGuard) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := g.verify(c)
		if !ok {
			return
		}

		user, err := g.users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			g.HTTPHelper.SendError(c, err)
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxRole, user.Role)
		c.Set(ctxUser, user)
		c.Next()
	}
}

// RequireAuthor must follow RequireUser.
func (g *AuthGuard) RequireAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role != models.RoleAuthor {
			g.HTTPHelper.SendForbiddenError(c, "Only approved authors can post")
			return
		}
		c.Next()
	}
}

func (g *AuthGuard) verify(c *gin.Context) (*services.Claims, bool) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		g.HTTPHelper.SendUnauthorizedError(c, "Token is missing")
		return nil, false
	}

	claims, err := g.tokens.Verify(token)
	switch {
	case err == nil:
		return claims, true
	case errors.Is(err, services.ErrTokenExpired):
		g.HTTPHelper.SendUnauthorizedError(c, "Token has expired")
	default:
		g.HTTPHelper.SendUnauthorizedError(c, "Invalid token")
	}
	return nil, false
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func CurrentRole(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(ctxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
