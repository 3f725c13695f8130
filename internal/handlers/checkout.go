package handlers

import (
	"database/sql"
	"net/http"

	"mangastore/internal/database"
	emailService "mangastore/internal/email"
	"mangastore/internal/logger"
	"mangastore/internal/models"

	"github.com/gin-gonic/gin"
)

func handleCheckout(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid checkout payload"})
		return
	}

	sale, err := database.Checkout(db, userID, req.CheckoutData)
	if err != nil {
		logger.Error("Checkout failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	logger.Info("Checkout completed",
		"user_id", userID,
		"sale_id", sale.ID,
		"reference", sale.Reference,
		"total", sale.Total)

	emailSvc, _ := c.Get("email_service")
	if service, ok := emailSvc.(*emailService.Service); ok && service.IsEnabled() {
		go sendConfirmation(db, service, userID, sale)
	}

	c.Status(http.StatusOK)
}

// sendConfirmation runs after the checkout transaction committed, so a
// failure here is only logged, never surfaced to the buyer.
func sendConfirmation(db *sql.DB, service *emailService.Service, userID int, sale *models.Sale) {
	user, err := database.GetUserByID(db, userID)
	if err != nil {
		logger.Warn("Failed to load user for order confirmation", "user_id", userID, "error", err)
		return
	}

	items, err := database.GetSaleItems(db, sale.ID)
	if err != nil {
		logger.Warn("Failed to load sale items for order confirmation", "sale_id", sale.ID, "error", err)
		return
	}
	sale.Items = items

	if err := service.SendOrderConfirmation(user, sale); err != nil {
		logger.Warn("Failed to send order confirmation",
			"email", user.Email,
			"sale_id", sale.ID,
			"error", err)
	}
}

func handleHistory(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	sales, err := database.GetSalesHistory(db, userID)
	if err != nil {
		logger.Error("Failed to load purchase history", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	if sales == nil {
		sales = []models.Sale{}
	}

	c.JSON(http.StatusOK, sales)
}
