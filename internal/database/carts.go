package database

import (
	"database/sql"
	"fmt"

	"mangastore/internal/models"
)

// AddCartItem inserts one pending row. Adding the same manga twice is
// allowed; quantity is represented as repeated rows.
func AddCartItem(db *sql.DB, userID, mangaID int) (*models.CartItem, error) {
	if _, err := GetManga(db, mangaID); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO carts (user_id, manga_id, sales_id)
		VALUES (?, ?, NULL)
	`

	result, err := db.Exec(query, userID, mangaID)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item ID: %w", err)
	}

	item := &models.CartItem{
		ID:      int(id),
		UserID:  userID,
		MangaID: mangaID,
	}

	return item, nil
}

// GetPendingCartItems returns the user's open cart: rows not yet
// assigned to a sale, joined with manga and category data.
func GetPendingCartItems(db *sql.DB, userID int) ([]models.CartItem, error) {
	query := `
		SELECT ca.id, ca.user_id, ca.manga_id, ca.sales_id, ca.created_at,
		       m.id, m.name, m.price, m.category_id, c.name
		FROM carts ca
		JOIN mangas m ON m.id = ca.manga_id
		JOIN categories c ON c.id = m.category_id
		WHERE ca.user_id = ? AND ca.sales_id IS NULL
		ORDER BY ca.id
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		var manga models.Manga
		var saleID sql.NullInt64

		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.MangaID,
			&saleID,
			&item.CreatedAt,
			&manga.ID,
			&manga.Name,
			&manga.Price,
			&manga.CategoryID,
			&manga.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		if saleID.Valid {
			id := int(saleID.Int64)
			item.SaleID = &id
		}

		item.Manga = &manga
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// DeleteCartItem removes a pending row. The delete is scoped to the
// owning user, so a caller cannot remove someone else's cart item, and
// rows already assigned to a sale are untouchable.
func DeleteCartItem(db *sql.DB, userID, cartItemID int) error {
	query := `
		DELETE FROM carts
		WHERE id = ? AND user_id = ? AND sales_id IS NULL
	`

	result, err := db.Exec(query, cartItemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("cart item not found")
	}

	return nil
}
