package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"credit-dashboard/logger"
	"credit-dashboard/middleware"
	"credit-dashboard/models"
	"credit-dashboard/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

func (ah *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

func (ah *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := ah.authService.Login(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Invalid email or password"})
			return
		}
		ah.log.Error("Login failed", "error", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Database error"})
		return
	}

	if !ah.startSession(c, user) {
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (ah *AuthHandler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", nil)
}

func (ah *AuthHandler) Signup(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := ah.authService.Register(c.Request.Context(), name, email, password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.HTML(http.StatusConflict, "signup.html", gin.H{"Error": "Email already exists"})
			return
		}
		ah.log.Warn("Signup rejected", "error", err)
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{"Error": err.Error()})
		return
	}

	if !ah.startSession(c, user) {
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

func (ah *AuthHandler) startSession(c *gin.Context, user *models.User) bool {
	token, err := ah.authService.IssueToken(user)
	if err != nil {
		ah.log.Error("Failed to issue session token", "error", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Session error"})
		return false
	}
	maxAge := int(ah.authService.SessionTTL().Seconds())
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", false, true)
	return true
}
