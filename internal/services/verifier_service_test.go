package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"bookmart/internal/models"

	"github.com/stretchr/testify/assert"
)

const testWebhookSecret = "whsec_test_secret"

func signBody(secret string, body []byte) string {
	hash := hmac.New(sha256.New, []byte(secret))
	hash.Write(body)
	return hex.EncodeToString(hash.Sum(nil))
}

func newTestVerifier(now time.Time) *verifierService {
	return &verifierService{
		webhookSecret: testWebhookSecret,
		now:           func() time.Time { return now },
	}
}

func checkoutEventBody(created time.Time) []byte {
	return fmt.Appendf(nil, `{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"data": {"object": {
			"created": %d,
			"customer_email": "a@x.com",
			"payment_status": "paid",
			"metadata": {"purchase_type": "subscription", "plan_name": "M"}
		}}
	}`, created.Unix())
}

func TestVerifyEvent_Valid(t *testing.T) {
	now := time.Now()
	body := checkoutEventBody(now.Add(-10 * time.Second))
	verifier := newTestVerifier(now)

	event, err := verifier.VerifyEvent(body, signBody(testWebhookSecret, body))

	assert.NoError(t, err)
	assert.Equal(t, "evt_123", event.ID)
	assert.Equal(t, models.EventCheckoutCompleted, event.Type)
	assert.Equal(t, "a@x.com", event.Data.Object.CustomerEmail)
	assert.Equal(t, models.PaymentStatusPaid, event.Data.Object.PaymentStatus)
	assert.Equal(t, models.PurchaseTypeSubscription, event.Data.Object.Metadata.PurchaseType)
	assert.Equal(t, "M", event.Data.Object.Metadata.PlanName)
}

func TestVerifyEvent_SignatureMismatch(t *testing.T) {
	now := time.Now()
	body := checkoutEventBody(now)
	verifier := newTestVerifier(now)

	event, err := verifier.VerifyEvent(body, signBody("wrong_secret", body))

	assert.ErrorIs(t, err, ErrSignatureMismatch)
	assert.Nil(t, event)
}

func TestVerifyEvent_TamperedBody(t *testing.T) {
	now := time.Now()
	body := checkoutEventBody(now)
	signature := signBody(testWebhookSecret, body)
	tampered := append([]byte{}, body...)
	tampered[len(tampered)-2] = ' '
	verifier := newTestVerifier(now)

	_, err := verifier.VerifyEvent(tampered, signature)

	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyEvent_MissingSignature(t *testing.T) {
	now := time.Now()
	body := checkoutEventBody(now)

	_, err := newTestVerifier(now).VerifyEvent(body, "")

	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyEvent_StaleEvent(t *testing.T) {
	now := time.Now()
	// Valid signature, but created 301 seconds ago.
	body := checkoutEventBody(now.Add(-301 * time.Second))
	verifier := newTestVerifier(now)

	event, err := verifier.VerifyEvent(body, signBody(testWebhookSecret, body))

	assert.ErrorIs(t, err, ErrStaleEvent)
	assert.Nil(t, event)
}

func TestVerifyEvent_FreshAtWindowEdge(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	body := checkoutEventBody(now.Add(-300 * time.Second))
	verifier := newTestVerifier(now)

	_, err := verifier.VerifyEvent(body, signBody(testWebhookSecret, body))

	assert.NoError(t, err)
}

func TestVerifyEvent_MalformedJSON(t *testing.T) {
	now := time.Now()
	body := []byte(`{"type": "checkout.session.completed",`)
	verifier := newTestVerifier(now)

	_, err := verifier.VerifyEvent(body, signBody(testWebhookSecret, body))

	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestVerifyEvent_MissingEventType(t *testing.T) {
	now := time.Now()
	body := fmt.Appendf(nil, `{"id": "evt_1", "data": {"object": {"created": %d}}}`, now.Unix())
	verifier := newTestVerifier(now)

	_, err := verifier.VerifyEvent(body, signBody(testWebhookSecret, body))

	assert.ErrorIs(t, err, ErrInvalidPayload)
}
