package jobs

import (
	"context"
	"encoding/json"
	"time"

	"bookmart/internal/services"

	"github.com/hibiken/asynq"
)

// Task type definitions
const (
	TypePurchaseEmail = "email:purchase"
	TypeRenewalEmail  = "email:renewal_reminder"
)

// PurchaseEmailPayload defines the payload for purchase confirmation tasks
type PurchaseEmailPayload struct {
	Email     string `json:"email"`
	Kind      string `json:"kind"`
	ItemLabel string `json:"item_label"`
	Username  string `json:"username"`
}

// RenewalEmailPayload defines the payload for renewal reminder tasks
type RenewalEmailPayload struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	EndDate  time.Time `json:"end_date"`
}

// NewPurchaseEmailTask creates a new purchase confirmation task
func NewPurchaseEmailTask(payload PurchaseEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePurchaseEmail, data), nil
}

// NewRenewalEmailTask creates a new renewal reminder task
func NewRenewalEmailTask(payload RenewalEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRenewalEmail, data), nil
}

// AsynqEnqueuer is the producer half of the notification queue. The
// fulfillment engine sees only services.NotificationEnqueuer.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(redisAddr, redisPassword string, redisDB int) *AsynqEnqueuer {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &AsynqEnqueuer{client: client}
}

func (e *AsynqEnqueuer) EnqueuePurchaseEmail(ctx context.Context, notification services.PurchaseNotification) error {
	task, err := NewPurchaseEmailTask(PurchaseEmailPayload{
		Email:     notification.Email,
		Kind:      notification.Kind,
		ItemLabel: notification.ItemLabel,
		Username:  notification.Username,
	})
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(time.Minute))
	return err
}

func (e *AsynqEnqueuer) EnqueueRenewalReminder(ctx context.Context, payload RenewalEmailPayload) error {
	task, err := NewRenewalEmailTask(payload)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(time.Minute))
	return err
}

func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}
