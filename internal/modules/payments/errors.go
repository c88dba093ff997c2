package payments

import "errors"

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrIdempotencyKeyUsed = errors.New("idempotency key already used for another order")
)
