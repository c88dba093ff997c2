package orders_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lojinha.com.br/app/internal/mocks"
	"lojinha.com.br/app/internal/modules/orders"
	"lojinha.com.br/app/internal/shared/apperr"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCheckout(t *testing.T) {
	tests := []struct {
		name         string
		in           orders.CheckoutInput
		wantSubtotal string
		wantTotal    string
		wantErrKind  apperr.Kind
	}{
		{
			name: "totals recomputed from items and shipping",
			in: orders.CheckoutInput{
				FullName:      "Maria Silva",
				Email:         "maria@example.com",
				ShippingPrice: "10.00",
				Items: []orders.CheckoutItemInput{
					{ProductID: 1, Name: "Camiseta", Price: "40.00", Qty: 2},
					{ProductID: 2, Name: "Caneca", Price: "20.00", Qty: 1},
				},
			},
			wantSubtotal: "100.00",
			wantTotal:    "110.00",
		},
		{
			name: "no shipping price defaults to zero",
			in: orders.CheckoutInput{
				FullName: "Maria Silva",
				Email:    "maria@example.com",
				Items: []orders.CheckoutItemInput{
					{ProductID: 1, Name: "Camiseta", Price: "19.90", Qty: 3},
				},
			},
			wantSubtotal: "59.70",
			wantTotal:    "59.70",
		},
		{
			name:        "empty cart rejected",
			in:          orders.CheckoutInput{FullName: "Maria", Email: "m@example.com"},
			wantErrKind: apperr.Invalid,
		},
		{
			name: "bad item price rejected",
			in: orders.CheckoutInput{
				FullName: "Maria",
				Email:    "m@example.com",
				Items:    []orders.CheckoutItemInput{{ProductID: 1, Name: "X", Price: "1.999", Qty: 1}},
			},
			wantErrKind: apperr.Invalid,
		},
		{
			name: "zero quantity rejected",
			in: orders.CheckoutInput{
				FullName: "Maria",
				Email:    "m@example.com",
				Items:    []orders.CheckoutItemInput{{ProductID: 1, Name: "X", Price: "10.00", Qty: 0}},
			},
			wantErrKind: apperr.Invalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockOrderRepo)
			repo.On("Create", mock.Anything, mock.AnythingOfType("*orders.Order")).Return(nil).Maybe()

			svc := orders.NewService(repo, discardLogger())
			o, err := svc.Checkout(context.Background(), tt.in)

			if tt.wantErrKind != "" {
				assert.Error(t, err)
				assert.True(t, apperr.IsKind(err, tt.wantErrKind))
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, orders.StatusAwaitingPayment, o.Status)
			assert.Equal(t, tt.wantSubtotal, o.Subtotal.String())
			assert.Equal(t, tt.wantTotal, o.Total.String())
			assert.True(t, o.Total.Equal(o.Subtotal.Add(o.ShippingPrice)))
			repo.AssertExpectations(t)
		})
	}
}

func TestOrderJSONCarriesFixedDecimals(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	o, err := orders.NewService(repo, discardLogger()).Checkout(context.Background(), orders.CheckoutInput{
		FullName:      "Maria",
		Email:         "m@example.com",
		ShippingPrice: "10",
		Items: []orders.CheckoutItemInput{
			{ProductID: 1, Name: "Camiseta", Price: "50", Qty: 2},
		},
	})
	assert.NoError(t, err)

	raw, err := json.Marshal(o)
	assert.NoError(t, err)

	// monetary fields always render two fraction digits on the wire
	assert.Contains(t, string(raw), `"subtotal":"100.00"`)
	assert.Contains(t, string(raw), `"shipping_price":"10.00"`)
	assert.Contains(t, string(raw), `"total":"110.00"`)
	assert.Contains(t, string(raw), `"price":"50.00"`)
}

func TestCalculateTotalsInvariant(t *testing.T) {
	o, err := orders.NewService(func() orders.Repo {
		repo := new(mocks.MockOrderRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		return repo
	}(), discardLogger()).Checkout(context.Background(), orders.CheckoutInput{
		FullName:      "Maria",
		Email:         "m@example.com",
		ShippingPrice: "12.34",
		Items: []orders.CheckoutItemInput{
			{ProductID: 1, Name: "A", Price: "0.10", Qty: 99},
			{ProductID: 2, Name: "B", Price: "5.55", Qty: 7},
		},
	})
	assert.NoError(t, err)

	// mutate items and recompute explicitly
	o.Items = o.Items[:1]
	o.CalculateTotals()
	assert.Equal(t, "9.90", o.Subtotal.String())
	assert.Equal(t, "22.24", o.Total.String())
	assert.True(t, o.Total.Equal(o.Subtotal.Add(o.ShippingPrice)))
}
