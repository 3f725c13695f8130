package database

import (
	"database/sql"
	"fmt"

	"mangastore/internal/models"
)

func GetAllMangas(db *sql.DB) ([]models.Manga, error) {
	query := `
		SELECT m.id, m.name, m.price, m.category_id, c.name
		FROM mangas m
		JOIN categories c ON c.id = m.category_id
		ORDER BY m.id
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query mangas: %w", err)
	}
	defer rows.Close()

	var mangas []models.Manga
	for rows.Next() {
		var manga models.Manga
		err := rows.Scan(
			&manga.ID,
			&manga.Name,
			&manga.Price,
			&manga.CategoryID,
			&manga.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan manga: %w", err)
		}
		mangas = append(mangas, manga)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mangas: %w", err)
	}

	return mangas, nil
}

func GetManga(db *sql.DB, mangaID int) (*models.Manga, error) {
	manga := &models.Manga{}
	query := `
		SELECT m.id, m.name, m.price, m.category_id, c.name
		FROM mangas m
		JOIN categories c ON c.id = m.category_id
		WHERE m.id = ?
	`

	err := db.QueryRow(query, mangaID).Scan(
		&manga.ID,
		&manga.Name,
		&manga.Price,
		&manga.CategoryID,
		&manga.CategoryName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("manga not found")
		}
		return nil, fmt.Errorf("failed to query manga: %w", err)
	}

	return manga, nil
}
