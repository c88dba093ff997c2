package payments

import (
	"context"
	"net/http"
)

// Payer is the contact the provider needs to open a payment (Mercado Pago
// requires an email for pix).
type Payer struct {
	Name  string
	Email string
}

// CardData carries the tokenized card fields the frontend produced. Only the
// card method uses it.
type CardData struct {
	Token           string `json:"token"`
	PaymentMethodID string `json:"payment_method_id"`
	Installments    int    `json:"installments"`
	IssuerID        string `json:"issuer_id"`
}

// WebhookEvent is the provider-neutral parse result of one delivery.
type WebhookEvent struct {
	Provider          string
	EventType         string
	ProviderEventID   string
	ProviderPaymentID string
	// Status embedded in the delivery. Providers that only signal "something
	// changed" report pending here; the pipeline then prefers RefreshStatus.
	Status Status
	Raw    []byte
}

// Provider is one gateway integration.
//
// CreatePayment performs the provider-side initiation and mutates p in
// place: ProviderPaymentID, initial Status, and display data for async
// methods. Any non-success upstream response is an error, and the caller
// must treat the payment as not safely created.
//
// ParseWebhook verifies the signature (when the provider signs) and parses
// the delivery. It must be side-effect free so a parse failure never leaves
// a partial audit record.
//
// FindPayment locates the local payment referenced by an event, by
// (provider, provider_payment_id).
type Provider interface {
	Name() string
	CreatePayment(ctx context.Context, p *Payment, payer Payer, card *CardData) error
	ParseWebhook(header http.Header, body []byte) (WebhookEvent, error)
	FindPayment(ctx context.Context, ev WebhookEvent) (*Payment, error)
}

// StatusRefresher is the optional capability to pull authoritative status
// from the provider API instead of trusting the webhook body. It may also
// refresh display data on p. The returned status is fed through the
// transition guard by the caller; RefreshStatus itself persists nothing.
type StatusRefresher interface {
	RefreshStatus(ctx context.Context, p *Payment) (Status, error)
}

// Finder is the slice of the payment repository the adapters need for
// FindPayment.
type Finder interface {
	FindByProviderRef(ctx context.Context, provider, providerPaymentID string) (*Payment, error)
}
