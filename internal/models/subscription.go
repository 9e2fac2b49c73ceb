package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan names form a closed set: "M" bills monthly, "Y" bills yearly.
const (
	PlanMonthly = "M"
	PlanYearly  = "Y"
)

type SubscriptionPlan struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Price float64   `json:"price" db:"price"`
}

// Subscription is the single entitlement row a user can hold. At most one
// row exists per user; renewal replaces the window rather than adding rows.
type Subscription struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	PlanID    *uuid.UUID `json:"plan_id" db:"plan_id"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   time.Time  `json:"end_date" db:"end_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// Active reports whether the subscription window covers the given instant.
func (s *Subscription) Active(now time.Time) bool {
	return now.Before(s.EndDate)
}
