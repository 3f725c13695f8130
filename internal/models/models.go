package models

import (
	"time"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Session struct {
	Token     string    `json:"token" db:"token"`
	UserID    int       `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Category struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Manga struct {
	ID           int     `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Price        float64 `json:"price" db:"price"`
	CategoryID   int     `json:"categoryId" db:"category_id"`
	CategoryName string  `json:"categoryName,omitempty" db:"category_name"`
}

// CartItem is a single cart row. Quantity is modeled as repeated rows,
// so there is no count column. SaleID stays nil while the row is pending.
type CartItem struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	MangaID   int       `json:"mangaId" db:"manga_id"`
	SaleID    *int      `json:"salesId" db:"sales_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Manga     *Manga    `json:"manga,omitempty"`
}

type Sale struct {
	ID             int        `json:"id" db:"id"`
	UserID         int        `json:"user_id" db:"user_id"`
	Reference      string     `json:"reference" db:"reference"`
	Date           time.Time  `json:"date" db:"date"`
	Total          float64    `json:"total" db:"total"`
	DeliverName    string     `json:"deliverName,omitempty" db:"deliver_name"`
	DeliverPhone   string     `json:"deliverPhoneNumber,omitempty" db:"deliver_phone"`
	DeliverAddress string     `json:"deliverAddress,omitempty" db:"deliver_address"`
	Items          []CartItem `json:"items,omitempty"`
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CheckoutData struct {
	DeliverName    string `json:"deliverName" binding:"required"`
	DeliverPhone   string `json:"deliverPhoneNumber" binding:"required"`
	DeliverAddress string `json:"deliverAddress" binding:"required"`
	CreditCard     string `json:"creditCardNumber" binding:"required"`
}

type CheckoutRequest struct {
	CheckoutData CheckoutData `json:"checkoutData" binding:"required"`
}
