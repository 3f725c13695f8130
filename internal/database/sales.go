package database

import (
	"database/sql"
	"fmt"
	"time"

	"mangastore/internal/models"

	"github.com/google/uuid"
)

// Checkout converts the user's pending cart into a sale. The cart read,
// the sale insert, and the cart update run in one transaction so two
// concurrent checkouts can never claim each other's rows, and the
// update is scoped to the caller, never to all pending carts.
//
// An empty cart still checks out with total 0; callers that want to
// forbid that must do so themselves.
func Checkout(db *sql.DB, userID int, data models.CheckoutData) (*models.Sale, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT m.price
		FROM carts ca
		JOIN mangas m ON m.id = ca.manga_id
		WHERE ca.user_id = ? AND ca.sales_id IS NULL
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending cart: %w", err)
	}

	var total float64
	for rows.Next() {
		var price float64
		if err := rows.Scan(&price); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		total += price
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating pending cart: %w", err)
	}
	rows.Close()

	sale := &models.Sale{
		UserID:         userID,
		Reference:      uuid.New().String(),
		Date:           time.Now().UTC(),
		Total:          total,
		DeliverName:    data.DeliverName,
		DeliverPhone:   data.DeliverPhone,
		DeliverAddress: data.DeliverAddress,
	}

	result, err := tx.Exec(`
		INSERT INTO sales (user_id, reference, date, total, deliver_name, deliver_phone, deliver_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sale.UserID, sale.Reference, sale.Date, sale.Total, sale.DeliverName, sale.DeliverPhone, sale.DeliverAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	saleID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get sale ID: %w", err)
	}
	sale.ID = int(saleID)

	_, err = tx.Exec(`
		UPDATE carts
		SET sales_id = ?
		WHERE user_id = ? AND sales_id IS NULL
	`, sale.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign cart items to sale: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	return sale, nil
}

// GetSalesHistory returns the user's sales, newest first, each with the
// line items that were assigned to it at checkout.
func GetSalesHistory(db *sql.DB, userID int) ([]models.Sale, error) {
	query := `
		SELECT id, user_id, reference, date, total,
		       COALESCE(deliver_name, ''), COALESCE(deliver_phone, ''), COALESCE(deliver_address, '')
		FROM sales
		WHERE user_id = ?
		ORDER BY date DESC, id DESC
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var sale models.Sale
		err := rows.Scan(
			&sale.ID,
			&sale.UserID,
			&sale.Reference,
			&sale.Date,
			&sale.Total,
			&sale.DeliverName,
			&sale.DeliverPhone,
			&sale.DeliverAddress,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	for i := range sales {
		items, err := GetSaleItems(db, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}

	return sales, nil
}

func GetSaleItems(db *sql.DB, saleID int) ([]models.CartItem, error) {
	query := `
		SELECT ca.id, ca.user_id, ca.manga_id, ca.sales_id, ca.created_at,
		       m.id, m.name, m.price, m.category_id, c.name
		FROM carts ca
		JOIN mangas m ON m.id = ca.manga_id
		JOIN categories c ON c.id = m.category_id
		WHERE ca.sales_id = ?
		ORDER BY ca.id
	`

	rows, err := db.Query(query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		var manga models.Manga
		var itemSaleID sql.NullInt64

		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.MangaID,
			&itemSaleID,
			&item.CreatedAt,
			&manga.ID,
			&manga.Name,
			&manga.Price,
			&manga.CategoryID,
			&manga.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}

		if itemSaleID.Valid {
			id := int(itemSaleID.Int64)
			item.SaleID = &id
		}

		item.Manga = &manga
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale items: %w", err)
	}

	return items, nil
}
