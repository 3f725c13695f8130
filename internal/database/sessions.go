package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrSessionNotFound distinguishes an unknown token from a store
// failure; handlers map it to 401 and everything else to 500.
var ErrSessionNotFound = errors.New("session not found")

// CreateSession rotates the user's session: any existing token is
// deleted and a fresh one inserted, in one transaction, so a user holds
// at most one valid token at any time.
func CreateSession(db *sql.DB, userID int) (string, error) {
	token, err := generateSecureToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return "", fmt.Errorf("failed to delete old sessions: %w", err)
	}

	if _, err = tx.Exec(`INSERT INTO sessions (token, user_id) VALUES (?, ?)`, token, userID); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session: %w", err)
	}

	return token, nil
}

// ValidateSession resolves a bearer token to its user ID. Tokens carry
// no claims, so this lookup is the whole verification.
func ValidateSession(db *sql.DB, token string) (int, error) {
	var userID int
	query := `
		SELECT user_id
		FROM sessions
		WHERE token = ?
	`

	err := db.QueryRow(query, token).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("failed to validate session: %w", err)
	}

	return userID, nil
}

func DeleteSession(db *sql.DB, token string) error {
	result, err := db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func generateSecureToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
