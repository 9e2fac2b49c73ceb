package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	args := m.Called(ctx, recipient, subject, body)
	return args.Error(0)
}

func TestHandlePurchaseEmailTask_Subscription(t *testing.T) {
	sender := &MockEmailSender{}
	worker := NewNotificationWorker(sender)

	task, err := NewPurchaseEmailTask(PurchaseEmailPayload{
		Email:     "a@x.com",
		Kind:      "subscription",
		ItemLabel: "M",
		Username:  "alice",
	})
	assert.NoError(t, err)

	sender.On("Send", mock.Anything, "a@x.com", "Your subscription is active", mock.MatchedBy(func(body string) bool {
		return len(body) > 0
	})).Return(nil).Once()

	err = worker.HandlePurchaseEmailTask(context.Background(), task)
	assert.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestHandlePurchaseEmailTask_Book(t *testing.T) {
	sender := &MockEmailSender{}
	worker := NewNotificationWorker(sender)

	task, err := NewPurchaseEmailTask(PurchaseEmailPayload{
		Email:     "a@x.com",
		Kind:      "book",
		ItemLabel: "Dune",
		Username:  "alice",
	})
	assert.NoError(t, err)

	sender.On("Send", mock.Anything, "a@x.com", "Your book purchase", mock.Anything).Return(nil).Once()

	err = worker.HandlePurchaseEmailTask(context.Background(), task)
	assert.NoError(t, err)
}

func TestHandlePurchaseEmailTask_UnknownKindDropped(t *testing.T) {
	sender := &MockEmailSender{}
	worker := NewNotificationWorker(sender)

	task, err := NewPurchaseEmailTask(PurchaseEmailPayload{Email: "a@x.com", Kind: "mystery"})
	assert.NoError(t, err)

	err = worker.HandlePurchaseEmailTask(context.Background(), task)
	assert.NoError(t, err)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlePurchaseEmailTask_BadPayloadSkipsRetry(t *testing.T) {
	sender := &MockEmailSender{}
	worker := NewNotificationWorker(sender)

	task := asynq.NewTask(TypePurchaseEmail, []byte("not json"))

	err := worker.HandlePurchaseEmailTask(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleRenewalEmailTask(t *testing.T) {
	sender := &MockEmailSender{}
	worker := NewNotificationWorker(sender)

	task, err := NewRenewalEmailTask(RenewalEmailPayload{
		Email:    "a@x.com",
		Username: "alice",
		EndDate:  time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)

	sender.On("Send", mock.Anything, "a@x.com", "Your subscription is about to expire", mock.MatchedBy(func(body string) bool {
		return len(body) > 0
	})).Return(nil).Once()

	err = worker.HandleRenewalEmailTask(context.Background(), task)
	assert.NoError(t, err)
}
