package models

// PaymentEvent is the payment provider's webhook payload. It is transient:
// verified, interpreted, and discarded. Entitlement rows are the only
// durable trace of a handled event.
type PaymentEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

const EventCheckoutCompleted = "checkout.session.completed"

type CheckoutSession struct {
	Created       int64           `json:"created"`
	CustomerEmail string          `json:"customer_email"`
	PaymentStatus string          `json:"payment_status"`
	Metadata      SessionMetadata `json:"metadata"`
}

const PaymentStatusPaid = "paid"

type SessionMetadata struct {
	PurchaseType string `json:"purchase_type"`
	PlanName     string `json:"plan_name,omitempty"`
	ItemID       string `json:"item_id,omitempty"`
}

const (
	PurchaseTypeSubscription = "subscription"
	PurchaseTypeBook         = "book"
)
