package orders

import (
	"context"
	"log/slog"

	"lojinha.com.br/app/internal/shared/apperr"
	"lojinha.com.br/app/internal/shared/money"
)

type Service struct {
	repo   Repo
	logger *slog.Logger
}

func NewService(repo Repo, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

type CheckoutItemInput struct {
	ProductID uint64
	Name      string
	Price     string // decimal string from the client
	Qty       int
}

type CheckoutInput struct {
	FullName string
	Email    string
	Phone    string

	ShippingZip        string
	ShippingStreet     string
	ShippingNumber     string
	ShippingComplement string
	ShippingDistrict   string
	ShippingCity       string
	ShippingState      string
	ShippingMethod     string
	ShippingDays       int
	ShippingPrice      string

	Items []CheckoutItemInput
}

// Checkout creates the order with its items atomically, totals recomputed,
// already in awaiting_payment. Prices and names are snapshots of what the
// client checked out with.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.InvalidErr("cart is empty", nil)
	}

	shippingPrice := money.Zero()
	if in.ShippingPrice != "" {
		p, err := money.Parse(in.ShippingPrice)
		if err != nil {
			return nil, apperr.InvalidErr("invalid shipping price", map[string]string{"shipping_price": err.Error()})
		}
		shippingPrice = p
	}

	o := &Order{
		FullName:           in.FullName,
		Email:              in.Email,
		Phone:              in.Phone,
		ShippingZip:        in.ShippingZip,
		ShippingStreet:     in.ShippingStreet,
		ShippingNumber:     in.ShippingNumber,
		ShippingComplement: in.ShippingComplement,
		ShippingDistrict:   in.ShippingDistrict,
		ShippingCity:       in.ShippingCity,
		ShippingState:      in.ShippingState,
		ShippingMethod:     in.ShippingMethod,
		ShippingDays:       in.ShippingDays,
		ShippingPrice:      shippingPrice,
		Status:             StatusAwaitingPayment,
	}

	for _, it := range in.Items {
		if it.Qty < 1 {
			return nil, apperr.InvalidErr("invalid quantity", map[string]string{"qty": "must be at least 1"})
		}
		price, err := money.Parse(it.Price)
		if err != nil {
			return nil, apperr.InvalidErr("invalid item price", map[string]string{"price": err.Error()})
		}
		o.Items = append(o.Items, OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     price,
			Qty:       it.Qty,
		})
	}

	o.CalculateTotals()

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, apperr.Wrap(err)
	}

	s.logger.InfoContext(ctx, "order created",
		"order_id", o.ID, "total", o.Total.StringFixed(2), "items", len(o.Items))
	return o, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Order, error) {
	o, err := s.repo.FindWithItems(ctx, id)
	if err != nil {
		if err == ErrOrderNotFound {
			return nil, apperr.NotFoundErr("order not found")
		}
		return nil, apperr.Wrap(err)
	}
	return o, nil
}
