package orders

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repo is the order read/write surface the payment core depends on.
type Repo interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uint64) (*Order, error)
	FindWithItems(ctx context.Context, id uint64) (*Order, error)
	// AdvanceToPaid moves the order to paid. It is a one-way, idempotent
	// side effect: orders already at paid or past it are left alone.
	AdvanceToPaid(ctx context.Context, id uint64) error
}

type GormRepo struct{ db *gorm.DB }

func NewGormRepo(db *gorm.DB) *GormRepo { return &GormRepo{db: db} }

func (r *GormRepo) Create(ctx context.Context, o *Order) error {
	// Items are persisted in the same transaction as the header.
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *GormRepo) FindByID(ctx context.Context, id uint64) (*Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) FindWithItems(ctx context.Context, id uint64) (*Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) AdvanceToPaid(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND status IN ?", id, []string{StatusDraft, StatusAwaitingPayment}).
		Update("status", StatusPaid).Error
}
