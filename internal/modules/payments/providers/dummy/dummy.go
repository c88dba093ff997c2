// Package dummy is the sandbox provider: deterministic, no network calls.
// Pix payments get a fake QR and a 30 minute expiry; webhooks are plain JSON
// with no signature, carrying the status directly.
package dummy

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"lojinha.com.br/app/internal/modules/payments"
	"lojinha.com.br/app/internal/shared/apperr"
)

const Name = "dummy"

type Provider struct {
	finder payments.Finder
}

func New(finder payments.Finder) *Provider {
	return &Provider{finder: finder}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) CreatePayment(_ context.Context, pay *payments.Payment, _ payments.Payer, _ *payments.CardData) error {
	if pay.Method == payments.MethodPix {
		qr := fmt.Sprintf("PIX-DUMMY-%s", uuid.NewString())
		exp := time.Now().Add(30 * time.Minute)
		pay.PixQRCode = qr
		pay.PixQRCodeBase64 = base64.StdEncoding.EncodeToString([]byte(qr))
		pay.PixExpiresAt = &exp
	}

	ref := "dummy_" + uuid.NewString()
	pay.ProviderPaymentID = &ref
	pay.Status = payments.StatusPending
	return nil
}

type webhookBody struct {
	EventID   string `json:"event_id"`
	PaymentID string `json:"payment_id"` // provider ref of the payment
	Status    string `json:"status"`
}

func (p *Provider) ParseWebhook(_ http.Header, body []byte) (payments.WebhookEvent, error) {
	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return payments.WebhookEvent{}, apperr.MalformedEventErr(err)
	}
	if wb.PaymentID == "" {
		return payments.WebhookEvent{}, apperr.MalformedEventErr(errors.New("webhook missing payment_id"))
	}

	return payments.WebhookEvent{
		Provider:          Name,
		EventType:         "webhook_" + wb.Status,
		ProviderEventID:   wb.EventID,
		ProviderPaymentID: wb.PaymentID,
		Status:            payments.Status(wb.Status),
		Raw:               body,
	}, nil
}

func (p *Provider) FindPayment(ctx context.Context, ev payments.WebhookEvent) (*payments.Payment, error) {
	pay, err := p.finder.FindByProviderRef(ctx, Name, ev.ProviderPaymentID)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return pay, nil
}
