package handlers

import (
	"database/sql"
	"net/http"

	"mangastore/internal/database"
	"mangastore/internal/logger"
	"mangastore/internal/models"

	"github.com/gin-gonic/gin"
)

func handleAllMangas(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	mangas, err := database.GetAllMangas(db)
	if err != nil {
		logger.Error("Failed to list catalog", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	if mangas == nil {
		mangas = []models.Manga{}
	}

	c.JSON(http.StatusOK, mangas)
}
