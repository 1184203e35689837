package shared

import (
	"context"

	"flashsale/internal/domain/order"
)

// UnitOfWork gives the fulfillment worker an explicit transaction-scoped
// handle instead of relying on any implicit transactional self-reference.
type UnitOfWork interface {
	// Within: read-committed transaction for the authoritative
	// decrement-and-insert sequence, with retry on serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Orders() OrderRepository
	Vouchers() VoucherRepository
}

type OrderRepository interface {
	// CountByUserAndVoucher backs the authoritative duplicate re-check;
	// the cache-side membership check can drift under eviction.
	CountByUserAndVoucher(ctx context.Context, userID, voucherID int64) (int64, error)
	Create(ctx context.Context, o *order.VoucherOrder) error
}

type VoucherRepository interface {
	// DecrementStock performs the conditional decrement
	// (stock = stock - 1 WHERE stock > 0) and reports whether a row was
	// affected.
	DecrementStock(ctx context.Context, voucherID int64) (bool, error)
}
