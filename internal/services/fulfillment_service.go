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

// PurchaseNotification carries what the confirmation email needs.
type PurchaseNotification struct {
	Email     string
	Kind      string
	ItemLabel string
	Username  string
}

// NotificationEnqueuer schedules a confirmation message off the webhook
// path. Fulfillment depends only on this producer side; delivery belongs
// to an independent worker.
type NotificationEnqueuer interface {
	EnqueuePurchaseEmail(ctx context.Context, notification PurchaseNotification) error
}

// FulfillmentService converts a verified payment event into at most one
// entitlement mutation. Lookup misses (plan, user, book) are logged and
// swallowed so the caller can still acknowledge the provider; only
// infrastructure failures propagate.
type FulfillmentService interface {
	ProcessEvent(ctx context.Context, event *models.PaymentEvent) error
}

type fulfillmentService struct {
	planRepo         repositories.PlanRepository
	userRepo         repositories.UserRepository
	bookRepo         repositories.BookRepository
	subscriptionRepo repositories.SubscriptionRepository
	purchaseRepo     repositories.PurchaseRepository
	cacheSvc         caching.CacheService
	notifier         NotificationEnqueuer
	now              func() time.Time
}

func NewFulfillmentService(
	planRepo repositories.PlanRepository,
	userRepo repositories.UserRepository,
	bookRepo repositories.BookRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	purchaseRepo repositories.PurchaseRepository,
	cacheSvc caching.CacheService,
	notifier NotificationEnqueuer,
) FulfillmentService {
	return &fulfillmentService{
		planRepo:         planRepo,
		userRepo:         userRepo,
		bookRepo:         bookRepo,
		subscriptionRepo: subscriptionRepo,
		purchaseRepo:     purchaseRepo,
		cacheSvc:         cacheSvc,
		notifier:         notifier,
		now:              time.Now,
	}
}

func (s *fulfillmentService) ProcessEvent(ctx context.Context, event *models.PaymentEvent) error {
	if event.Type != models.EventCheckoutCompleted {
		return nil
	}

	session := event.Data.Object
	if session.PaymentStatus != models.PaymentStatusPaid {
		// Legitimate non-paid notification, nothing to grant.
		return nil
	}

	switch session.Metadata.PurchaseType {
	case models.PurchaseTypeSubscription:
		return s.fulfillSubscription(ctx, event.ID, session)
	case models.PurchaseTypeBook:
		return s.fulfillBookPurchase(ctx, event.ID, session)
	default:
		log.Printf("event %s: unrecognized purchase_type %q, skipping", event.ID, session.Metadata.PurchaseType)
		return nil
	}
}

func (s *fulfillmentService) fulfillSubscription(ctx context.Context, eventID string, session models.CheckoutSession) error {
	planName := session.Metadata.PlanName

	plan, err := s.planRepo.GetByName(ctx, planName)
	if err != nil {
		return fmt.Errorf("failed to look up plan %q: %w", planName, err)
	}
	if plan == nil {
		log.Printf("event %s: subscription plan %q not found", eventID, planName)
		return nil
	}

	user, err := s.userRepo.GetByEmail(ctx, session.CustomerEmail)
	if err != nil {
		return fmt.Errorf("failed to look up user %q: %w", session.CustomerEmail, err)
	}
	if user == nil {
		log.Printf("event %s: user with email %q not found", eventID, session.CustomerEmail)
		return nil
	}

	var duration int
	switch plan.Name {
	case models.PlanMonthly:
		duration = 30
	case models.PlanYearly:
		duration = 365
	default:
		log.Printf("event %s: plan %q has no known billing period", eventID, plan.Name)
		return nil
	}

	now := s.now()
	planID := plan.ID
	subscription := &models.Subscription{
		ID:        uuid.New(),
		UserID:    user.ID,
		PlanID:    &planID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, duration),
	}

	if err := s.subscriptionRepo.Upsert(ctx, subscription); err != nil {
		return fmt.Errorf("failed to upsert subscription for user %s: %w", user.ID, err)
	}

	if err := s.cacheSvc.DeleteSubscription(ctx, user.ID); err != nil {
		log.Printf("event %s: failed to invalidate subscription cache for user %s: %v", eventID, user.ID, err)
	}

	s.enqueueConfirmation(ctx, eventID, PurchaseNotification{
		Email:     user.Email,
		Kind:      models.PurchaseTypeSubscription,
		ItemLabel: plan.Name,
		Username:  user.Username,
	})

	log.Printf("event %s: subscription for %s on plan %s active until %s", eventID, user.Email, plan.Name, subscription.EndDate.Format(time.RFC3339))
	return nil
}

func (s *fulfillmentService) fulfillBookPurchase(ctx context.Context, eventID string, session models.CheckoutSession) error {
	bookID, err := uuid.Parse(session.Metadata.ItemID)
	if err != nil {
		log.Printf("event %s: malformed book id %q", eventID, session.Metadata.ItemID)
		return nil
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to look up book %s: %w", bookID, err)
	}
	if book == nil {
		log.Printf("event %s: book %s not found", eventID, bookID)
		return nil
	}

	user, err := s.userRepo.GetByEmail(ctx, session.CustomerEmail)
	if err != nil {
		return fmt.Errorf("failed to look up user %q: %w", session.CustomerEmail, err)
	}
	if user == nil {
		log.Printf("event %s: user with email %q not found", eventID, session.CustomerEmail)
		return nil
	}

	purchase := &models.BookPurchase{
		ID:           uuid.New(),
		UserID:       user.ID,
		BookID:       book.ID,
		PurchaseDate: s.now(),
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return fmt.Errorf("failed to record purchase of book %s for user %s: %w", book.ID, user.ID, err)
	}

	s.enqueueConfirmation(ctx, eventID, PurchaseNotification{
		Email:     user.Email,
		Kind:      models.PurchaseTypeBook,
		ItemLabel: book.Title,
		Username:  user.Username,
	})

	log.Printf("event %s: book %q purchased by %s", eventID, book.Title, user.Email)
	return nil
}

// enqueueConfirmation never fails the webhook: once the entitlement row is
// durable the event is considered handled even if the email job is lost.
func (s *fulfillmentService) enqueueConfirmation(ctx context.Context, eventID string, notification PurchaseNotification) {
	if err := s.notifier.EnqueuePurchaseEmail(ctx, notification); err != nil {
		log.Printf("event %s: failed to enqueue confirmation email for %s: %v", eventID, notification.Email, err)
	}
}
