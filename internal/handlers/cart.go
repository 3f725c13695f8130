package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"mangastore/internal/database"
	"mangastore/internal/logger"
	"mangastore/internal/models"

	"github.com/gin-gonic/gin"
)

func handleGetCart(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	items, err := database.GetPendingCartItems(db, userID)
	if err != nil {
		logger.Error("Failed to list cart", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	if items == nil {
		items = []models.CartItem{}
	}

	c.JSON(http.StatusOK, items)
}

func handleAddProduct(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	mangaID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	item, err := database.AddCartItem(db, userID, mangaID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Error("Failed to add cart item", "user_id", userID, "manga_id", mangaID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product to cart"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func handleRemoveCartItem(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	cartItemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
		return
	}

	// Scoped to the caller: deleting another user's row (or a row
	// already sold) reports not found rather than succeeding.
	if err := database.DeleteCartItem(db, userID, cartItemID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		logger.Error("Failed to delete cart item", "user_id", userID, "cart_item_id", cartItemID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}

	c.Status(http.StatusOK)
}
