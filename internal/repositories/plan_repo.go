package repositories

import (
	"context"
	"errors"

	"bookmart/internal/models"

	"github.com/jackc/pgx/v5"
)

// PlanRepository reads subscription plans. Plans are reference data seeded
// out of band; nothing in the application mutates them.
type PlanRepository interface {
	GetByName(ctx context.Context, name string) (*models.SubscriptionPlan, error)
	List(ctx context.Context) ([]*models.SubscriptionPlan, error)
}

type planRepo struct {
	db Database
}

func NewPlanRepo(db Database) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) GetByName(ctx context.Context, name string) (*models.SubscriptionPlan, error) {
	plan := &models.SubscriptionPlan{}
	query := `
		SELECT id, name, price
		FROM subscription_plans
		WHERE name = $1
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&plan.ID, &plan.Name, &plan.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *planRepo) List(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	query := `
		SELECT id, name, price
		FROM subscription_plans
		ORDER BY price
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.SubscriptionPlan
	for rows.Next() {
		plan := &models.SubscriptionPlan{}
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.Price); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
