package payments

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Repo is the persistence surface of the payment core. The gorm
// implementation below carries the two primitives the concurrency model
// leans on: unique-index reservation and compare-and-swap status updates.
type Repo interface {
	// Reserve inserts p as the single payment row for its order. When a row
	// already exists for the order it is returned with reserved=false and p
	// is left unpersisted. A reused idempotency key surfaces as
	// ErrIdempotencyKeyUsed.
	Reserve(ctx context.Context, p *Payment) (existing *Payment, reserved bool, err error)
	FindByID(ctx context.Context, id uint64) (*Payment, error)
	FindByOrderID(ctx context.Context, orderID uint64) (*Payment, error)
	FindByProviderRef(ctx context.Context, provider, providerPaymentID string) (*Payment, error)
	// ReleaseReservation rolls back a reservation whose provider call failed.
	// It only removes rows still in created status with no provider ref, so
	// a payment the provider knows about is never deleted.
	ReleaseReservation(ctx context.Context, id uint64) error
	// SaveProviderResult persists provider ref, display data and error
	// message. Status is deliberately excluded; it only moves through
	// UpdateStatusIfCurrent.
	SaveProviderResult(ctx context.Context, p *Payment) error
	// UpdateStatusIfCurrent applies from→to only when the stored status still
	// equals from, reporting whether the swap happened. This is the guard
	// against read-modify-write races between concurrent reconciliations.
	UpdateStatusIfCurrent(ctx context.Context, id uint64, from, to Status) (bool, error)
	AppendEvent(ctx context.Context, ev *PaymentEvent) error
}

type GormRepo struct{ db *gorm.DB }

func NewGormRepo(db *gorm.DB) *GormRepo { return &GormRepo{db: db} }

func (r *GormRepo) Reserve(ctx context.Context, p *Payment) (*Payment, bool, error) {
	err := r.db.WithContext(ctx).Create(p).Error
	if err == nil {
		return nil, true, nil
	}
	if !isDup(err) {
		return nil, false, err
	}

	// Lost the race or retried: the order row wins over the client key, so
	// look it up first.
	var existing Payment
	e := r.db.WithContext(ctx).First(&existing, "order_id = ?", p.OrderID).Error
	if e == nil {
		return &existing, false, nil
	}
	if !errors.Is(e, gorm.ErrRecordNotFound) {
		return nil, false, e
	}
	// No row for this order, so the duplicate was the idempotency key:
	// reused across unrelated orders.
	return nil, false, ErrIdempotencyKeyUsed
}

func (r *GormRepo) FindByID(ctx context.Context, id uint64) (*Payment, error) {
	var p Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) FindByOrderID(ctx context.Context, orderID uint64) (*Payment, error) {
	var p Payment
	if err := r.db.WithContext(ctx).First(&p, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) FindByProviderRef(ctx context.Context, provider, providerPaymentID string) (*Payment, error) {
	var p Payment
	err := r.db.WithContext(ctx).
		First(&p, "provider = ? AND provider_payment_id = ?", provider, providerPaymentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ReleaseReservation(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND status = ? AND provider_payment_id IS NULL", id, StatusCreated).
		Delete(&Payment{}).Error
}

func (r *GormRepo) SaveProviderResult(ctx context.Context, p *Payment) error {
	updates := map[string]any{
		"provider_payment_id": p.ProviderPaymentID,
		"pix_qr_code":         p.PixQRCode,
		"pix_qr_code_base64":  p.PixQRCodeBase64,
		"pix_expires_at":      p.PixExpiresAt,
		"error_message":       p.ErrorMessage,
	}
	return r.db.WithContext(ctx).Model(&Payment{}).
		Where("id = ?", p.ID).
		Updates(updates).Error
}

func (r *GormRepo) UpdateStatusIfCurrent(ctx context.Context, id uint64, from, to Status) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Payment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) AppendEvent(ctx context.Context, ev *PaymentEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
