package payments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lojinha.com.br/app/internal/modules/orders"
	"lojinha.com.br/app/internal/shared/apperr"
)

type Service struct {
	repo       Repo
	orders     orders.Repo
	registry   *Registry
	logger     *slog.Logger
	callBudget time.Duration
}

func NewService(repo Repo, orderRepo orders.Repo, registry *Registry, logger *slog.Logger, callBudget time.Duration) *Service {
	if callBudget <= 0 {
		callBudget = 25 * time.Second
	}
	return &Service{
		repo:       repo,
		orders:     orderRepo,
		registry:   registry,
		logger:     logger,
		callBudget: callBudget,
	}
}

type CreateInput struct {
	OrderID        uint64
	Method         string
	Provider       string // default "dummy"
	IdempotencyKey string // optional client-supplied key
	Card           *CardData
}

type CreateResult struct {
	Payment *Payment
	// AlreadyExisted is true when the order already had a payment and the
	// existing row was returned untouched.
	AlreadyExisted bool
}

// CreateForOrder reserves the single payment row for the order and, when it
// wins the reservation, performs the provider-side creation. Losing the
// reservation is success: the existing payment is returned and the provider
// is not called again. A failed provider call releases the reservation so
// the order stays payable.
func (s *Service) CreateForOrder(ctx context.Context, in CreateInput) (CreateResult, error) {
	if in.Method != MethodPix && in.Method != MethodCard {
		return CreateResult{}, apperr.InvalidErr("unsupported payment method", map[string]string{"method": "must be pix or card"})
	}
	if in.Method == MethodCard && in.Card == nil {
		return CreateResult{}, apperr.InvalidErr("card data required for card payments", map[string]string{"card": "required"})
	}

	providerName := in.Provider
	if providerName == "" {
		providerName = "dummy"
	}
	if !s.registry.Has(providerName) {
		return CreateResult{}, apperr.InvalidErr("unknown payment provider", map[string]string{"provider": providerName})
	}
	prov, err := s.registry.Get(providerName)
	if err != nil {
		return CreateResult{}, err
	}

	ord, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			return CreateResult{}, apperr.NotFoundErr("order not found")
		}
		return CreateResult{}, apperr.Wrap(err)
	}

	switch ord.Status {
	case orders.StatusDraft, orders.StatusAwaitingPayment:
		// payable
	default:
		// A paid order still answers with its payment so client retries
		// converge instead of erroring.
		if existing, ferr := s.repo.FindByOrderID(ctx, in.OrderID); ferr == nil {
			return CreateResult{Payment: existing, AlreadyExisted: true}, nil
		}
		return CreateResult{}, apperr.ConflictErr("order is not payable")
	}

	key := in.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	// Phase 1: compare-and-reserve via unique(order_id).
	p := &Payment{
		OrderID:        ord.ID,
		Provider:       prov.Name(),
		Method:         in.Method,
		Status:         StatusCreated,
		Amount:         ord.Total,
		Currency:       DefaultCurrency,
		IdempotencyKey: key,
	}
	existing, reserved, err := s.repo.Reserve(ctx, p)
	if err != nil {
		if errors.Is(err, ErrIdempotencyKeyUsed) {
			return CreateResult{}, apperr.ConflictErr("idempotency key already used")
		}
		return CreateResult{}, apperr.Wrap(err)
	}
	if !reserved {
		s.logger.InfoContext(ctx, "payment creation deduplicated",
			"order_id", ord.ID, "payment_id", existing.ID, "status", existing.Status)
		return CreateResult{Payment: existing, AlreadyExisted: true}, nil
	}

	// Phase 2: provider call, outside any transaction, bounded.
	callCtx, cancel := context.WithTimeout(ctx, s.callBudget)
	defer cancel()

	if err := prov.CreatePayment(callCtx, p, Payer{Name: ord.FullName, Email: ord.Email}, in.Card); err != nil {
		// The payment was not safely created upstream: roll the reservation
		// back so a retry can succeed, then surface the failure.
		if relErr := s.repo.ReleaseReservation(ctx, p.ID); relErr != nil {
			s.logger.ErrorContext(ctx, "failed to release payment reservation",
				"payment_id", p.ID, "order_id", ord.ID, "err", relErr)
		}
		s.logger.ErrorContext(ctx, "provider payment creation failed",
			"provider", prov.Name(), "order_id", ord.ID, "err", err)
		return CreateResult{}, apperr.ProviderErr("payment creation failed at provider", err)
	}

	// Phase 3: persist what the provider returned.
	initial := p.Status
	p.Status = StatusCreated
	if err := s.repo.SaveProviderResult(ctx, p); err != nil {
		return CreateResult{}, apperr.Wrap(err)
	}
	if initial != StatusCreated && CanTransition(StatusCreated, initial) {
		// CAS from created: a webhook that raced us and advanced further
		// simply wins.
		if swapped, err := s.repo.UpdateStatusIfCurrent(ctx, p.ID, StatusCreated, initial); err != nil {
			return CreateResult{}, apperr.Wrap(err)
		} else if swapped {
			p.Status = initial
		} else if cur, err := s.repo.FindByID(ctx, p.ID); err == nil {
			p.Status = cur.Status
		}
	}

	if p.Status == StatusPaid {
		if err := s.orders.AdvanceToPaid(ctx, ord.ID); err != nil {
			return CreateResult{}, apperr.Wrap(err)
		}
	}

	s.logger.InfoContext(ctx, "payment created",
		"payment_id", p.ID, "order_id", ord.ID, "provider", prov.Name(),
		"method", p.Method, "status", p.Status)
	return CreateResult{Payment: p}, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Payment, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return nil, apperr.NotFoundErr("payment not found")
		}
		return nil, apperr.Wrap(err)
	}
	return p, nil
}
