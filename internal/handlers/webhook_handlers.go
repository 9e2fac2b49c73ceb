package handlers

import (
	"io"
	"log"
	"net/http"

	"bookmart/internal/services"

	"github.com/labstack/echo/v4"
)

// WebhookHandlers handles HTTP requests from the payment provider
type WebhookHandlers struct {
	verifierSvc    services.VerifierService
	fulfillmentSvc services.FulfillmentService
}

// NewWebhookHandlers creates a new webhook handlers instance
func NewWebhookHandlers(verifierSvc services.VerifierService, fulfillmentSvc services.FulfillmentService) *WebhookHandlers {
	return &WebhookHandlers{
		verifierSvc:    verifierSvc,
		fulfillmentSvc: fulfillmentSvc,
	}
}

// PaymentWebhook handles POST /webhooks/payment.
//
// Envelope failures (malformed body, bad signature, stale event) get an
// empty 400. Everything else gets an empty 200, including fulfillment-level
// lookup misses: those are not the provider's problem, and a non-2xx here
// would only trigger a retry storm it cannot fix.
func (h *WebhookHandlers) PaymentWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	signature := c.Request().Header.Get("X-Payment-Signature")

	event, err := h.verifierSvc.VerifyEvent(body, signature)
	if err != nil {
		log.Printf("rejected payment event: %v", err)
		return c.NoContent(http.StatusBadRequest)
	}

	if err := h.fulfillmentSvc.ProcessEvent(c.Request().Context(), event); err != nil {
		log.Printf("event %s: fulfillment failed: %v", event.ID, err)
	}

	return c.NoContent(http.StatusOK)
}
