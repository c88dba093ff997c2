package orders

import (
	"time"

	"lojinha.com.br/app/internal/shared/money"
)

const (
	StatusDraft           = "draft"
	StatusAwaitingPayment = "awaiting_payment"
	StatusPaid            = "paid"
	StatusPacking         = "packing"
	StatusShipped         = "shipped"
	StatusDelivered       = "delivered"
	StatusCanceled        = "canceled"
)

type Order struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	FullName string `gorm:"type:varchar(120);not null" json:"full_name"`
	Email    string `gorm:"type:varchar(254);not null" json:"email"`
	Phone    string `gorm:"type:varchar(30);not null;default:''" json:"phone"`

	// Shipping snapshot captured at checkout. Quote computation lives in the
	// shipping collaborator; we only store what it returned.
	ShippingZip        string `gorm:"type:varchar(9);not null;default:''" json:"shipping_zip"`
	ShippingStreet     string `gorm:"type:varchar(255);not null;default:''" json:"shipping_street"`
	ShippingNumber     string `gorm:"type:varchar(30);not null;default:''" json:"shipping_number"`
	ShippingComplement string `gorm:"type:varchar(120);not null;default:''" json:"shipping_complement"`
	ShippingDistrict   string `gorm:"type:varchar(120);not null;default:''" json:"shipping_district"`
	ShippingCity       string `gorm:"type:varchar(120);not null;default:''" json:"shipping_city"`
	ShippingState      string `gorm:"type:varchar(2);not null;default:''" json:"shipping_state"`
	ShippingMethod     string `gorm:"type:varchar(50);not null;default:''" json:"shipping_method"`
	ShippingDays       int    `gorm:"not null;default:0" json:"shipping_days"`

	Subtotal      money.Amount `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	ShippingPrice money.Amount `gorm:"type:decimal(10,2);not null" json:"shipping_price"`
	Total         money.Amount `gorm:"type:decimal(10,2);not null" json:"total"`

	Status string `gorm:"type:varchar(30);not null;index:ix_orders_status" json:"status"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null" json:"updated_at"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID uint64 `gorm:"not null;index:ix_order_items_order_id" json:"-"`

	// Name and price are snapshots; catalog changes never rewrite history.
	ProductID uint64       `gorm:"not null" json:"product_id"`
	Name      string       `gorm:"type:varchar(220);not null" json:"name"`
	Price     money.Amount `gorm:"type:decimal(10,2);not null" json:"price"`
	Qty       int          `gorm:"not null" json:"qty"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i OrderItem) LineTotal() money.Amount {
	return money.LineTotal(i.Price, i.Qty)
}

// CalculateTotals recomputes subtotal and total from the items. Call this
// whenever items or shipping change; totals are never recomputed implicitly.
func (o *Order) CalculateTotals() {
	subtotal := money.Zero()
	for _, it := range o.Items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	o.Subtotal = subtotal
	o.Total = o.Subtotal.Add(o.ShippingPrice)
}
