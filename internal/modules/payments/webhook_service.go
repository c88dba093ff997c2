package payments

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/datatypes"
)

// WebhookService runs the reconciliation pipeline for one verified delivery:
// locate payment, append the audit event, reconcile status through the
// transition guard, propagate paid to the order.
//
// Signature and parse failures are the caller's boundary (the handler
// rejects those with 400 before anything is persisted). Handle itself only
// errors when nothing got persisted: a failed payment lookup or a failed
// audit append, the cases where a non-200 should make the provider retry.
// Later reconciliation failures degrade to "audited but not yet reconciled"
// and are left to the next delivery or an out-of-band sweep.
type WebhookService struct {
	repo   Repo
	orders OrderAdvancer
	logger *slog.Logger
}

// OrderAdvancer is the one-way order side effect of a paid payment.
type OrderAdvancer interface {
	AdvanceToPaid(ctx context.Context, orderID uint64) error
}

func NewWebhookService(repo Repo, orders OrderAdvancer, logger *slog.Logger) *WebhookService {
	return &WebhookService{repo: repo, orders: orders, logger: logger}
}

func (s *WebhookService) Handle(ctx context.Context, prov Provider, ev WebhookEvent) error {
	// Locate. A lookup failure is not "unknown payment"; nothing has been
	// audited yet, so surface it and let the provider redeliver.
	p, err := prov.FindPayment(ctx, ev)
	if err != nil {
		s.logger.ErrorContext(ctx, "payment lookup failed for webhook",
			"provider", ev.Provider, "event_id", ev.ProviderEventID,
			"provider_payment_id", ev.ProviderPaymentID, "err", err)
		return err
	}
	// Genuinely unknown payments are acknowledged without persisting
	// anything: the provider may notify before local state exists, or for an
	// unrelated or test payment, and a non-200 would only buy infinite
	// retries.
	if p == nil {
		s.logger.InfoContext(ctx, "webhook for unknown payment ignored",
			"provider", ev.Provider, "event_id", ev.ProviderEventID,
			"provider_payment_id", ev.ProviderPaymentID)
		return nil
	}

	// Audit first, unconditionally. The raw payload is stored verbatim;
	// durability of the trail outranks status freshness, and replays append
	// one row each without deduplication.
	pe := &PaymentEvent{
		PaymentID:       p.ID,
		EventType:       ev.EventType,
		ProviderEventID: ev.ProviderEventID,
		RawPayload:      datatypes.JSON(rawJSON(ev.Raw)),
		ReceivedAt:      time.Now(),
	}
	if err := s.repo.AppendEvent(ctx, pe); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist payment event",
			"payment_id", p.ID, "event_id", ev.ProviderEventID, "err", err)
		return err
	}

	// Reconcile. Prefer the authoritative pull when the provider supports
	// it; some gateways only signal "something changed" in the webhook body.
	target := ev.Status
	if refresher, ok := prov.(StatusRefresher); ok {
		st, err := refresher.RefreshStatus(ctx, p)
		if err != nil {
			s.logger.ErrorContext(ctx, "status refresh failed, event audited but not reconciled",
				"payment_id", p.ID, "provider", ev.Provider, "err", err)
			return nil
		}
		target = st
		// Refresh may have filled in display data that the initial create
		// response lacked (pix QR arriving late).
		if err := s.repo.SaveProviderResult(ctx, p); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist refreshed provider data",
				"payment_id", p.ID, "err", err)
		}
	}

	final, changed, err := s.applyStatus(ctx, p.ID, target)
	if err != nil {
		s.logger.ErrorContext(ctx, "status reconciliation failed, event audited but not reconciled",
			"payment_id", p.ID, "target", target, "err", err)
		return nil
	}

	if final == StatusPaid {
		if err := s.orders.AdvanceToPaid(ctx, p.OrderID); err != nil {
			s.logger.ErrorContext(ctx, "failed to advance order to paid",
				"order_id", p.OrderID, "payment_id", p.ID, "err", err)
			return nil
		}
	}

	s.logger.InfoContext(ctx, "webhook event processed",
		"payment_id", p.ID, "provider", ev.Provider, "event_id", ev.ProviderEventID,
		"type", ev.EventType, "status", final, "transitioned", changed)
	return nil
}

// applyStatus drives target through the transition guard with a CAS loop so
// concurrent reconciliations cannot last-writer-win each other. It returns
// the status actually in force afterwards.
func (s *WebhookService) applyStatus(ctx context.Context, paymentID uint64, target Status) (Status, bool, error) {
	if !target.Valid() {
		// Unknown provider statuses are audited but never applied.
		cur, err := s.repo.FindByID(ctx, paymentID)
		if err != nil {
			return "", false, err
		}
		return cur.Status, false, nil
	}

	for attempt := 0; attempt < 3; attempt++ {
		cur, err := s.repo.FindByID(ctx, paymentID)
		if err != nil {
			return "", false, err
		}
		if !CanTransition(cur.Status, target) {
			// Duplicate or stale delivery: no-op on state.
			return cur.Status, false, nil
		}
		swapped, err := s.repo.UpdateStatusIfCurrent(ctx, paymentID, cur.Status, target)
		if err != nil {
			return "", false, err
		}
		if swapped {
			return target, true, nil
		}
		// Lost the race; re-read and re-evaluate against what actually won.
	}

	cur, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return "", false, err
	}
	return cur.Status, false, nil
}

func rawJSON(raw []byte) []byte {
	if json.Valid(raw) {
		return raw
	}
	// Keep the audit row writable even for garbage bodies the adapter let
	// through.
	quoted, err := json.Marshal(string(raw))
	if err != nil {
		return []byte(`{}`)
	}
	return quoted
}
