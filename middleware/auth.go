package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"credit-dashboard/logger"
	"credit-dashboard/services"
)

const SessionCookie = "session"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLog := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLog, authService: authService}
}

// RequireAuth guards every route except login/signup/static. Browser routes
// get redirected to the login page; /api callers get a 401 JSON body.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			am.reject(c)
			return
		}
		userID, userName, err := am.authService.ParseToken(tokenString)
		if err != nil {
			am.log.Debug("Rejected session token", "error", err)
			am.reject(c)
			return
		}
		c.Set("user_id", userID)
		c.Set("user_name", userName)
		c.Next()
	}
}

func (am *AuthMiddleware) reject(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}
