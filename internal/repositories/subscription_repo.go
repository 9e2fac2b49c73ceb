package repositories

import (
	"context"
	"errors"
	"time"

	"bookmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubscriptionRepository interface {
	// Upsert creates or replaces the user's single subscription row.
	// Last write wins: redelivered events simply re-set the window.
	Upsert(ctx context.Context, subscription *models.Subscription) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	// ListExpiringBefore returns subscriptions still active now but ending
	// before the cutoff, for renewal reminders.
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*models.Subscription, error)
}

type subscriptionRepo struct {
	db Database
}

func NewSubscriptionRepo(db Database) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) Upsert(ctx context.Context, subscription *models.Subscription) error {
	// Single-statement upsert keyed by user_id keeps fulfillment atomic:
	// a crash can never leave a subscription with a plan but no window.
	query := `
		INSERT INTO subscriptions (id, user_id, plan_id, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET plan_id = EXCLUDED.plan_id, start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, subscription.ID, subscription.UserID, subscription.PlanID, subscription.StartDate, subscription.EndDate)
	return err
}

func (r *subscriptionRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	subscription := &models.Subscription{}
	query := `
		SELECT id, user_id, plan_id, start_date, end_date, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&subscription.ID, &subscription.UserID, &subscription.PlanID, &subscription.StartDate, &subscription.EndDate, &subscription.CreatedAt, &subscription.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return subscription, nil
}

func (r *subscriptionRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*models.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, start_date, end_date, created_at, updated_at
		FROM subscriptions
		WHERE end_date > NOW() AND end_date < $1
		ORDER BY end_date
	`
	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscriptions []*models.Subscription
	for rows.Next() {
		subscription := &models.Subscription{}
		if err := rows.Scan(&subscription.ID, &subscription.UserID, &subscription.PlanID, &subscription.StartDate, &subscription.EndDate, &subscription.CreatedAt, &subscription.UpdatedAt); err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, rows.Err()
}
