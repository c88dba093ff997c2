// Package mercadopago adapts the Mercado Pago REST gateway. Its webhooks
// only say "payment X changed", so the adapter implements the refresh
// capability and the pipeline pulls the authoritative status from the API.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lojinha.com.br/app/internal/modules/payments"
	"lojinha.com.br/app/internal/shared/apperr"
)

const Name = "mercado_pago"

type Config struct {
	AccessToken   string
	WebhookSecret string
	BaseURL       string // override for tests; defaults to the live API
	Timeout       time.Duration
}

type Provider struct {
	cfg    Config
	client *http.Client
	finder payments.Finder
}

func New(cfg Config, finder payments.Finder) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mercadopago.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 25 * time.Second
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		finder: finder,
	}
}

func (p *Provider) Name() string { return Name }

func mapStatus(mpStatus string) payments.Status {
	switch mpStatus {
	case "approved":
		return payments.StatusPaid
	case "in_process", "pending", "authorized":
		return payments.StatusPending
	case "rejected":
		return payments.StatusFailed
	case "cancelled":
		return payments.StatusCanceled
	case "refunded":
		return payments.StatusRefunded
	default:
		return payments.StatusPending
	}
}

// flexID tolerates ids arriving either as JSON numbers or strings; the API
// and its webhooks are not consistent about it.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexID(s)
	return nil
}

func (f flexID) String() string { return string(f) }

type mpPaymentResponse struct {
	ID                 flexID `json:"id"`
	Status             string `json:"status"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

func (p *Provider) CreatePayment(ctx context.Context, pay *payments.Payment, payer payments.Payer, card *payments.CardData) error {
	if p.cfg.AccessToken == "" {
		return apperr.ConfigurationErr("MERCADOPAGO_ACCESS_TOKEN not configured", nil)
	}

	payload := map[string]any{
		// The API takes the amount as a JSON number; json.Marshal of a
		// json.Number keeps the decimal string exact.
		"transaction_amount": json.Number(pay.Amount.StringFixed(2)),
		"description":        fmt.Sprintf("Order #%d", pay.OrderID),
		"payer":              map[string]any{"email": payer.Email},
	}

	switch pay.Method {
	case payments.MethodPix:
		payload["payment_method_id"] = "pix"
	case payments.MethodCard:
		if card == nil {
			return fmt.Errorf("card data required for card payments")
		}
		payload["token"] = card.Token
		payload["payment_method_id"] = card.PaymentMethodID
		payload["installments"] = card.Installments
		if card.IssuerID != "" {
			payload["issuer_id"] = card.IssuerID
		}
	default:
		return fmt.Errorf("unsupported method %q", pay.Method)
	}

	var data mpPaymentResponse
	if err := p.call(ctx, http.MethodPost, "/v1/payments", pay.IdempotencyKey, payload, &data); err != nil {
		return err
	}

	ref := data.ID.String()
	pay.ProviderPaymentID = &ref
	pay.Status = mapStatus(data.Status)
	if tx := data.PointOfInteraction.TransactionData; tx.QRCode != "" || tx.QRCodeBase64 != "" {
		pay.PixQRCode = tx.QRCode
		pay.PixQRCodeBase64 = tx.QRCodeBase64
	}
	return nil
}

type mpWebhookBody struct {
	ID     flexID `json:"id"`
	Action string `json:"action"`
	Type   string `json:"type"`
	Data   struct {
		ID flexID `json:"id"`
	} `json:"data"`
}

func (p *Provider) ParseWebhook(header http.Header, body []byte) (payments.WebhookEvent, error) {
	var wb mpWebhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return payments.WebhookEvent{}, apperr.MalformedEventErr(err)
	}

	dataID := wb.Data.ID.String()
	if dataID == "" {
		return payments.WebhookEvent{}, apperr.MalformedEventErr(errors.New("webhook missing data.id"))
	}

	if !verifySignature(p.cfg.WebhookSecret, header.Get("x-signature"), header.Get("x-request-id"), dataID) {
		return payments.WebhookEvent{}, apperr.SignatureErr(errors.New("webhook signature mismatch"))
	}

	eventType := wb.Action
	if eventType == "" {
		eventType = wb.Type
	}
	if eventType == "" {
		eventType = "webhook"
	}

	// The delivery only references the payment; the real status comes from
	// RefreshStatus.
	return payments.WebhookEvent{
		Provider:          Name,
		EventType:         eventType,
		ProviderEventID:   wb.ID.String(),
		ProviderPaymentID: dataID,
		Status:            payments.StatusPending,
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

// RefreshStatus pulls the authoritative payment state from the API. It
// mutates display data on pay but persists nothing.
func (p *Provider) RefreshStatus(ctx context.Context, pay *payments.Payment) (payments.Status, error) {
	if pay.ProviderPaymentID == nil || *pay.ProviderPaymentID == "" {
		return pay.Status, nil
	}
	if p.cfg.AccessToken == "" {
		return "", apperr.ConfigurationErr("MERCADOPAGO_ACCESS_TOKEN not configured", nil)
	}

	var data mpPaymentResponse
	path := "/v1/payments/" + *pay.ProviderPaymentID
	if err := p.call(ctx, http.MethodGet, path, "", nil, &data); err != nil {
		return "", err
	}

	if tx := data.PointOfInteraction.TransactionData; tx.QRCode != "" {
		pay.PixQRCode = tx.QRCode
	}
	if tx := data.PointOfInteraction.TransactionData; tx.QRCodeBase64 != "" {
		pay.PixQRCodeBase64 = tx.QRCodeBase64
	}
	return mapStatus(data.Status), nil
}

func (p *Provider) call(ctx context.Context, method, path, idempotencyKey string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.AccessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		// Timeouts land here too; the caller treats this as "not safely
		// created", never as an indefinite hang.
		return fmt.Errorf("mercado pago %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("mercado pago %s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mercado pago %s %s: status %d: %s", method, path, resp.StatusCode, truncate(string(raw), 300))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("mercado pago %s %s: decode: %w", method, path, err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
