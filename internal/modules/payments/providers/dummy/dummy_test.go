package dummy

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lojinha.com.br/app/internal/modules/payments"
	"lojinha.com.br/app/internal/shared/apperr"
)

func TestCreatePaymentPix(t *testing.T) {
	p := New(nil)
	pay := &payments.Payment{OrderID: 42, Method: payments.MethodPix, Status: payments.StatusCreated}

	err := p.CreatePayment(context.Background(), pay, payments.Payer{Email: "maria@example.com"}, nil)
	assert.NoError(t, err)

	assert.Equal(t, payments.StatusPending, pay.Status)
	assert.NotNil(t, pay.ProviderPaymentID)
	assert.Contains(t, *pay.ProviderPaymentID, "dummy_")
	assert.Contains(t, pay.PixQRCode, "PIX-DUMMY-")

	decoded, err := base64.StdEncoding.DecodeString(pay.PixQRCodeBase64)
	assert.NoError(t, err)
	assert.Equal(t, pay.PixQRCode, string(decoded))

	assert.NotNil(t, pay.PixExpiresAt)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), *pay.PixExpiresAt, time.Minute)
}

func TestCreatePaymentCard(t *testing.T) {
	p := New(nil)
	pay := &payments.Payment{OrderID: 42, Method: payments.MethodCard, Status: payments.StatusCreated}

	err := p.CreatePayment(context.Background(), pay, payments.Payer{}, &payments.CardData{Token: "tok"})
	assert.NoError(t, err)
	assert.Equal(t, payments.StatusPending, pay.Status)
	assert.Empty(t, pay.PixQRCode)
}

func TestParseWebhook(t *testing.T) {
	p := New(nil)

	t.Run("valid body", func(t *testing.T) {
		body := []byte(`{"event_id":"evt_1","payment_id":"dummy_abc","status":"paid"}`)
		ev, err := p.ParseWebhook(http.Header{}, body)
		assert.NoError(t, err)
		assert.Equal(t, Name, ev.Provider)
		assert.Equal(t, "webhook_paid", ev.EventType)
		assert.Equal(t, "evt_1", ev.ProviderEventID)
		assert.Equal(t, "dummy_abc", ev.ProviderPaymentID)
		assert.Equal(t, payments.StatusPaid, ev.Status)
		assert.Equal(t, body, ev.Raw)
	})

	t.Run("missing payment_id", func(t *testing.T) {
		_, err := p.ParseWebhook(http.Header{}, []byte(`{"event_id":"evt_1","status":"paid"}`))
		assert.True(t, apperr.IsKind(err, apperr.MalformedEvent))
	})

	t.Run("garbage body", func(t *testing.T) {
		_, err := p.ParseWebhook(http.Header{}, []byte(`not json`))
		assert.True(t, apperr.IsKind(err, apperr.MalformedEvent))
	})
}
