package repositories

import (
	"context"

	"bookmart/internal/models"

	"github.com/google/uuid"
)

type PurchaseRepository interface {
	// Create inserts a new purchase row. Purchases are not deduplicated:
	// redelivered events can produce duplicate rows (known limitation).
	Create(ctx context.Context, purchase *models.BookPurchase) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.BookPurchase, error)
	ExistsByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
}

type purchaseRepo struct {
	db Database
}

func NewPurchaseRepo(db Database) PurchaseRepository {
	return &purchaseRepo{db: db}
}

func (r *purchaseRepo) Create(ctx context.Context, purchase *models.BookPurchase) error {
	query := `
		INSERT INTO book_purchases (id, user_id, book_id, purchase_date)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, purchase.ID, purchase.UserID, purchase.BookID, purchase.PurchaseDate)
	return err
}

func (r *purchaseRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.BookPurchase, error) {
	query := `
		SELECT id, user_id, book_id, purchase_date
		FROM book_purchases
		WHERE user_id = $1
		ORDER BY purchase_date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*models.BookPurchase
	for rows.Next() {
		purchase := &models.BookPurchase{}
		if err := rows.Scan(&purchase.ID, &purchase.UserID, &purchase.BookID, &purchase.PurchaseDate); err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}
	return purchases, rows.Err()
}

func (r *purchaseRepo) ExistsByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM book_purchases WHERE user_id = $1 AND book_id = $2`
	err := r.db.QueryRow(ctx, query, userID, bookID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
