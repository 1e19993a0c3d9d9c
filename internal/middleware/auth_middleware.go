package middleware

import (
	"net/http"
	"strings"

	"github.com/docuscan/docuscan/internal/models"
	"github.com/docuscan/docuscan/internal/service"
	"github.com/docuscan/docuscan/internal/utils"
	"github.com/gin-gonic/gin"
)

// CurrentUserKey is the context key holding the authenticated *models.User.
const CurrentUserKey = "current_user"

// AuthMiddleware validates the session token and applies the daily credit
// reset before the handler runs, so every credit check downstream sees the
// refreshed balance.
func AuthMiddleware(jwtSecret string, authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Not authenticated",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Daily reset runs before any credit-consuming check in this request
		user, err := authService.EnsureDailyReset(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Not authenticated",
			})
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Set("user_role", string(user.Role))

		c.Next()
	}
}

// extractToken reads the session cookie, falling back to a bearer header for
// non-browser clients.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}
	return tokenString
}

// AdminMiddleware requires the admin role; must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Not authenticated",
			})
			c.Abort()
			return
		}

		if role != string(models.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}
