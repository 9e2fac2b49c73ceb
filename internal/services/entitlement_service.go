package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookmart/internal/caching"
	"bookmart/internal/models"
	"bookmart/internal/repositories"

	"github.com/google/uuid"
)

const subscriptionCacheTTL = 5 * time.Minute

// EntitlementService is the outward read surface: the profile-display
// layer and the download gate consume it, nothing else writes through it.
type EntitlementService interface {
	// GetActiveSubscription returns nil when the user has no subscription
	// or the window has lapsed.
	GetActiveSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	ListPurchases(ctx context.Context, userID uuid.UUID) ([]*models.BookPurchase, error)
	// HasBookAccess reports whether the user may read the book: either an
	// active subscription or a recorded purchase of that title.
	HasBookAccess(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
}

type entitlementService struct {
	subscriptionRepo repositories.SubscriptionRepository
	purchaseRepo     repositories.PurchaseRepository
	cacheSvc         caching.CacheService
	now              func() time.Time
}

func NewEntitlementService(
	subscriptionRepo repositories.SubscriptionRepository,
	purchaseRepo repositories.PurchaseRepository,
	cacheSvc caching.CacheService,
) EntitlementService {
	return &entitlementService{
		subscriptionRepo: subscriptionRepo,
		purchaseRepo:     purchaseRepo,
		cacheSvc:         cacheSvc,
		now:              time.Now,
	}
}

func (s *entitlementService) GetActiveSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	cached, err := s.cacheSvc.GetSubscription(ctx, userID)
	if err != nil {
		log.Printf("subscription cache read failed for user %s: %v", userID, err)
	}
	if cached != nil && cached.Active(s.now()) {
		return cached, nil
	}

	subscription, err := s.subscriptionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription for user %s: %w", userID, err)
	}
	if subscription == nil || !subscription.Active(s.now()) {
		return nil, nil
	}

	if err := s.cacheSvc.SetSubscription(ctx, subscription, subscriptionCacheTTL); err != nil {
		log.Printf("subscription cache write failed for user %s: %v", userID, err)
	}
	return subscription, nil
}

func (s *entitlementService) ListPurchases(ctx context.Context, userID uuid.UUID) ([]*models.BookPurchase, error) {
	purchases, err := s.purchaseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases for user %s: %w", userID, err)
	}
	return purchases, nil
}

func (s *entitlementService) HasBookAccess(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	subscription, err := s.GetActiveSubscription(ctx, userID)
	if err != nil {
		return false, err
	}
	if subscription != nil {
		return true, nil
	}

	purchased, err := s.purchaseRepo.ExistsByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase of book %s for user %s: %w", bookID, userID, err)
	}
	return purchased, nil
}
