package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

func Initialize(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func Migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER UNIQUE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS mangas (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			price REAL NOT NULL,
			category_id INTEGER NOT NULL,
			FOREIGN KEY (category_id) REFERENCES categories(id)
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			reference TEXT UNIQUE NOT NULL,
			date DATETIME NOT NULL,
			total REAL NOT NULL,
			deliver_name TEXT,
			deliver_phone TEXT,
			deliver_address TEXT,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			manga_id INTEGER NOT NULL,
			sales_id INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (manga_id) REFERENCES mangas(id),
			FOREIGN KEY (sales_id) REFERENCES sales(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_mangas_category_id ON mangas(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_carts_user_id ON carts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_carts_sales_id ON carts(sales_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_user_id ON sales(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// Seed populates the catalog reference data on a fresh database. The
// catalog is read-only at runtime, so an empty mangas table would leave
// the storefront with nothing to sell.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM mangas").Scan(&count); err != nil {
		return fmt.Errorf("failed to count mangas: %w", err)
	}
	if count > 0 {
		return nil
	}

	categories := []string{"Shonen", "Seinen", "Shojo", "Slice of Life"}
	for _, name := range categories {
		if _, err := db.Exec(`INSERT OR IGNORE INTO categories (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to seed category: %w", err)
		}
	}

	mangas := []struct {
		name     string
		price    float64
		category string
	}{
		{"One Piece Vol. 1", 9.99, "Shonen"},
		{"Naruto Vol. 1", 9.99, "Shonen"},
		{"Fullmetal Alchemist Vol. 1", 11.99, "Shonen"},
		{"Berserk Vol. 1", 14.99, "Seinen"},
		{"Vagabond Vol. 1", 14.99, "Seinen"},
		{"Fruits Basket Vol. 1", 10.99, "Shojo"},
		{"Nana Vol. 1", 10.99, "Shojo"},
		{"Yotsuba&! Vol. 1", 12.99, "Slice of Life"},
	}

	insert := `
		INSERT INTO mangas (name, price, category_id)
		VALUES (?, ?, (SELECT id FROM categories WHERE name = ?))
	`
	for _, m := range mangas {
		if _, err := db.Exec(insert, m.name, m.price, m.category); err != nil {
			return fmt.Errorf("failed to seed manga: %w", err)
		}
	}

	return nil
}
