package repositories

import (
	"context"
	"errors"

	"bookmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	List(ctx context.Context, limit, offset int) ([]*models.Book, error)
}

type bookRepo struct {
	db Database
}

func NewBookRepo(db Database) BookRepository {
	return &bookRepo{db: db}
}

func (r *bookRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	book := &models.Book{}
	query := `
		SELECT id, title, author, price, pdf_object_key, created_at
		FROM books
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&book.ID, &book.Title, &book.Author, &book.Price, &book.PDFObjectKey, &book.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (r *bookRepo) List(ctx context.Context, limit, offset int) ([]*models.Book, error) {
	query := `
		SELECT id, title, author, price, pdf_object_key, created_at
		FROM books
		ORDER BY title
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book := &models.Book{}
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Price, &book.PDFObjectKey, &book.CreatedAt); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}
