package handlers

import (
	"database/sql"
	"net/http"

	"mangastore/internal/config"
	"mangastore/internal/email"
	"mangastore/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, emailService *email.Service) {
	r.Use(middleware.LogRequests())
	r.Use(middleware.SecurityHeaders(cfg))
	r.Use(middleware.AddDBContext(db))
	r.Use(addEmailServiceContext(emailService))

	r.GET("/healthz", handleHealth)
	r.GET("/allmangas", handleAllMangas)

	r.POST("/sign-up", middleware.AuthRateLimit(cfg), handleSignUp)
	r.POST("/sign-in", middleware.AuthRateLimit(cfg), handleSignIn)
	r.POST("/logout", handleLogout)

	// The public API reports a missing Authorization header as 400 on
	// some routes and 401 on others; both always reject unknown tokens
	// with 401.
	r.GET("/cart", middleware.RequireSession(db, http.StatusUnauthorized), handleGetCart)
	r.DELETE("/cart/:id", middleware.RequireSession(db, http.StatusUnauthorized), handleRemoveCartItem)
	r.POST("/addproduct/:productId", middleware.RequireSession(db, http.StatusBadRequest), handleAddProduct)
	r.POST("/check-out", middleware.RequireSession(db, http.StatusBadRequest), handleCheckout)
	r.GET("/history", middleware.RequireSession(db, http.StatusBadRequest), handleHistory)
}

func handleHealth(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	if err := db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func addEmailServiceContext(emailService *email.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("email_service", emailService)
		c.Next()
	}
}
