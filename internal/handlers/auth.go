package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"mangastore/internal/database"
	emailService "mangastore/internal/email"
	"mangastore/internal/logger"
	"mangastore/internal/middleware"
	"mangastore/internal/models"

	"github.com/gin-gonic/gin"
)

func handleSignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sign-up payload"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	user, err := database.CreateUser(db, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		logger.Error("Failed to create user", "email", req.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	emailSvc, _ := c.Get("email_service")
	if service, ok := emailSvc.(*emailService.Service); ok && service.IsEnabled() {
		go func(u models.User) {
			if err := service.SendWelcomeEmail(&u); err != nil {
				logger.Warn("Failed to send welcome email",
					"email", u.Email,
					"user_id", u.ID,
					"error", err)
			}
		}(*user)
	}

	logger.Info("User registered", "email", user.Email, "user_id", user.ID)
	c.Status(http.StatusCreated)
}

func handleSignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sign-in payload"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	user, err := database.AuthenticateUser(db, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := database.CreateSession(db, user.ID)
	if err != nil {
		logger.Error("Failed to create session", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	logger.Info("User signed in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func handleLogout(c *gin.Context) {
	// Clients send the raw token in the Authorization header on
	// logout; a Bearer prefix is accepted too.
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization header required"})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	if err := database.DeleteSession(db, token); err != nil {
		if errors.Is(err, database.ErrSessionNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		logger.Error("Failed to delete session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	c.Status(http.StatusOK)
}
