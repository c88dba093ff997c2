package mocks

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"lojinha.com.br/app/internal/modules/orders"
	"lojinha.com.br/app/internal/modules/payments"
)

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, o *orders.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepo) FindByID(ctx context.Context, id uint64) (*orders.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.Order), args.Error(1)
}

func (m *MockOrderRepo) FindWithItems(ctx context.Context, id uint64) (*orders.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.Order), args.Error(1)
}

func (m *MockOrderRepo) AdvanceToPaid(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Reserve(ctx context.Context, p *payments.Payment) (*payments.Payment, bool, error) {
	args := m.Called(ctx, p)
	var existing *payments.Payment
	if args.Get(0) != nil {
		existing = args.Get(0).(*payments.Payment)
	}
	return existing, args.Bool(1), args.Error(2)
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, id uint64) (*payments.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

func (m *MockPaymentRepo) FindByOrderID(ctx context.Context, orderID uint64) (*payments.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

func (m *MockPaymentRepo) FindByProviderRef(ctx context.Context, provider, providerPaymentID string) (*payments.Payment, error) {
	args := m.Called(ctx, provider, providerPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

func (m *MockPaymentRepo) ReleaseReservation(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentRepo) SaveProviderResult(ctx context.Context, p *payments.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepo) UpdateStatusIfCurrent(ctx context.Context, id uint64, from, to payments.Status) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepo) AppendEvent(ctx context.Context, ev *payments.PaymentEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type MockProvider struct {
	mock.Mock
	ProviderName string
}

func (m *MockProvider) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock"
}

func (m *MockProvider) CreatePayment(ctx context.Context, p *payments.Payment, payer payments.Payer, card *payments.CardData) error {
	args := m.Called(ctx, p, payer, card)
	return args.Error(0)
}

func (m *MockProvider) ParseWebhook(header http.Header, body []byte) (payments.WebhookEvent, error) {
	args := m.Called(header, body)
	return args.Get(0).(payments.WebhookEvent), args.Error(1)
}

func (m *MockProvider) FindPayment(ctx context.Context, ev payments.WebhookEvent) (*payments.Payment, error) {
	args := m.Called(ctx, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

// MockRefreshingProvider additionally satisfies payments.StatusRefresher.
type MockRefreshingProvider struct {
	MockProvider
}

func (m *MockRefreshingProvider) RefreshStatus(ctx context.Context, p *payments.Payment) (payments.Status, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(payments.Status), args.Error(1)
}
