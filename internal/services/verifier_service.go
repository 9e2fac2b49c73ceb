package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"bookmart/internal/models"
)

// Envelope-level rejections. The webhook handler maps each of these to an
// empty 400 response; everything past the verifier is acknowledged.
var (
	ErrInvalidPayload    = errors.New("payment event payload is malformed")
	ErrSignatureMismatch = errors.New("payment event signature mismatch")
	ErrStaleEvent        = errors.New("payment event outside freshness window")
)

// Events older than this are treated as replays and rejected.
const eventFreshnessWindow = 5 * time.Minute

// VerifierService authenticates inbound payment events. Pure validation:
// no side effects, the event is returned exactly as parsed.
type VerifierService interface {
	VerifyEvent(rawBody []byte, signature string) (*models.PaymentEvent, error)
}

type verifierService struct {
	webhookSecret string
	now           func() time.Time
}

func NewVerifierService(webhookSecret string) VerifierService {
	return &verifierService{
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

func (s *verifierService) VerifyEvent(rawBody []byte, signature string) (*models.PaymentEvent, error) {
	// The HMAC is computed over the raw body. Re-serializing the parsed
	// event and signing that is not equivalent and must never be done.
	if !s.signatureMatches(signature, rawBody) {
		return nil, ErrSignatureMismatch
	}

	event := &models.PaymentEvent{}
	if err := json.Unmarshal(rawBody, event); err != nil {
		return nil, ErrInvalidPayload
	}
	if event.Type == "" {
		return nil, ErrInvalidPayload
	}

	created := time.Unix(event.Data.Object.Created, 0)
	if s.now().Sub(created) > eventFreshnessWindow {
		return nil, ErrStaleEvent
	}

	return event, nil
}

func (s *verifierService) signatureMatches(signature string, body []byte) bool {
	hash := hmac.New(sha256.New, []byte(s.webhookSecret))
	hash.Write(body)
	expected := hex.EncodeToString(hash.Sum(nil))

	// Constant time comparison to prevent timing attacks
	return hmac.Equal([]byte(signature), []byte(expected))
}
