package models

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Author       string    `json:"author" db:"author"`
	Price        float64   `json:"price" db:"price"`
	PDFObjectKey *string   `json:"-" db:"pdf_object_key"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
