package handlers

import (
	"net/http"

	"bookmart/internal/models"
	"bookmart/internal/repositories"
	"bookmart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SubscriptionHandlers exposes plan reference data and per-user entitlement
// state. The profile-display layer is the consumer; nothing here writes.
type SubscriptionHandlers struct {
	planRepo       repositories.PlanRepository
	entitlementSvc services.EntitlementService
}

// NewSubscriptionHandlers creates a new subscription handlers instance
func NewSubscriptionHandlers(planRepo repositories.PlanRepository, entitlementSvc services.EntitlementService) *SubscriptionHandlers {
	return &SubscriptionHandlers{
		planRepo:       planRepo,
		entitlementSvc: entitlementSvc,
	}
}

// ListPlans handles GET /v1/plans
func (h *SubscriptionHandlers) ListPlans(c echo.Context) error {
	plans, err := h.planRepo.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list plans")
	}
	if plans == nil {
		plans = []*models.SubscriptionPlan{}
	}
	return c.JSON(http.StatusOK, plans)
}

// GetUserSubscription handles GET /v1/users/:id/subscription.
// The body is JSON null when the user has no active subscription.
func (h *SubscriptionHandlers) GetUserSubscription(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	subscription, err := h.entitlementSvc.GetActiveSubscription(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load subscription")
	}
	return c.JSON(http.StatusOK, subscription)
}

// ListUserPurchases handles GET /v1/users/:id/purchases
func (h *SubscriptionHandlers) ListUserPurchases(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	purchases, err := h.entitlementSvc.ListPurchases(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list purchases")
	}
	if purchases == nil {
		purchases = []*models.BookPurchase{}
	}
	return c.JSON(http.StatusOK, purchases)
}
