package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
)

// EmailSender delivers a rendered message. The log-based implementation
// stands in until an email provider is wired up.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

type logEmailSender struct{}

func NewLogEmailSender() EmailSender {
	return &logEmailSender{}
}

func (s *logEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	// TODO: Integration with email service (SendGrid, SES, etc.)
	log.Printf("[EMAIL] To=%s, Subject=%s, Body=%s", recipient, subject, body)
	return nil
}

// NotificationWorker consumes notification tasks off the queue.
type NotificationWorker struct {
	sender EmailSender
}

func NewNotificationWorker(sender EmailSender) *NotificationWorker {
	return &NotificationWorker{sender: sender}
}

// Register attaches the worker's handlers to an asynq mux.
func (w *NotificationWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePurchaseEmail, w.HandlePurchaseEmailTask)
	mux.HandleFunc(TypeRenewalEmail, w.HandleRenewalEmailTask)
}

// HandlePurchaseEmailTask sends the confirmation for a completed checkout.
func (w *NotificationWorker) HandlePurchaseEmailTask(ctx context.Context, task *asynq.Task) error {
	var payload PurchaseEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal purchase email payload: %v: %w", err, asynq.SkipRetry)
	}

	var subject, body string
	switch payload.Kind {
	case "subscription":
		subject = "Your subscription is active"
		body = fmt.Sprintf("Hi %s, your subscription on plan %s is now active. Happy reading!", payload.Username, payload.ItemLabel)
	case "book":
		subject = "Your book purchase"
		body = fmt.Sprintf("Hi %s, thanks for buying %q. It is now available in your library.", payload.Username, payload.ItemLabel)
	default:
		log.Printf("purchase email task with unknown kind %q, dropping", payload.Kind)
		return nil
	}

	return w.sender.Send(ctx, payload.Email, subject, body)
}

// HandleRenewalEmailTask sends the expiring-soon reminder.
func (w *NotificationWorker) HandleRenewalEmailTask(ctx context.Context, task *asynq.Task) error {
	var payload RenewalEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal renewal email payload: %v: %w", err, asynq.SkipRetry)
	}

	subject := "Your subscription is about to expire"
	body := fmt.Sprintf("Hi %s, your subscription ends on %s. Renew to keep reading.", payload.Username, payload.EndDate.Format("Jan 2, 2006"))
	return w.sender.Send(ctx, payload.Email, subject, body)
}
