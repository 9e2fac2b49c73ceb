package models

import (
	"time"

	"github.com/google/uuid"
)

// BookPurchase is append-only: every paid checkout records a new row and
// PurchaseDate is set once at insert.
type BookPurchase struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	BookID       uuid.UUID `json:"book_id" db:"book_id"`
	PurchaseDate time.Time `json:"purchase_date" db:"purchase_date"`
}
