package payments

import (
	"time"

	"gorm.io/datatypes"

	"lojinha.com.br/app/internal/shared/money"
)

const (
	MethodPix  = "pix"
	MethodCard = "card"

	DefaultCurrency = "BRL"
)

type Payment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// Exactly one payment per order; the unique index is the
	// compare-and-reserve primitive for concurrent creation.
	OrderID uint64 `gorm:"not null;uniqueIndex:ux_payments_order_id" json:"order_id"`

	Provider string `gorm:"type:varchar(64);not null;uniqueIndex:ux_payments_provider_ref,priority:1" json:"provider"`
	Method   string `gorm:"type:varchar(10);not null" json:"method"`

	Status Status `gorm:"type:varchar(20);not null" json:"status"`

	Amount   money.Amount `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency string       `gorm:"type:varchar(10);not null" json:"currency"`

	ProviderPaymentID *string `gorm:"type:varchar(120);uniqueIndex:ux_payments_provider_ref,priority:2" json:"provider_payment_id"`
	IdempotencyKey    string  `gorm:"type:varchar(80);not null;uniqueIndex:ux_payments_idempotency_key" json:"-"`

	// Pix display data; other methods leave these empty.
	PixQRCode       string     `gorm:"type:text" json:"pix_qr_code,omitempty"`
	PixQRCodeBase64 string     `gorm:"type:text" json:"pix_qr_code_base64,omitempty"`
	PixExpiresAt    *time.Time `gorm:"type:datetime(3)" json:"pix_expires_at,omitempty"`

	ErrorMessage *string `gorm:"type:varchar(255)" json:"-"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// PaymentEvent is the append-only audit trail: one row per accepted webhook
// delivery, raw payload kept verbatim. Rows are never updated or deleted.
type PaymentEvent struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID uint64 `gorm:"not null;index:ix_payment_events_payment_id" json:"payment_id"`

	EventType       string         `gorm:"type:varchar(80);not null" json:"event_type"`
	ProviderEventID string         `gorm:"type:varchar(120);not null;default:''" json:"provider_event_id"`
	RawPayload      datatypes.JSON `gorm:"type:json;not null" json:"raw_payload"`

	ReceivedAt time.Time `gorm:"type:datetime(3);not null" json:"received_at"`
}

func (PaymentEvent) TableName() string { return "payment_events" }
