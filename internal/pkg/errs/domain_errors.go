package errs

import "errors"

// Domain-specific sentinel errors for usecase layers
var (
	// Shop errors
	ErrShopNotFound = errors.New("shop not found")

	// Voucher errors
	ErrVoucherNotFound = errors.New("voucher not found")

	// Seckill admission errors
	ErrStockExhausted  = errors.New("stock exhausted")
	ErrDuplicateOrder  = errors.New("duplicate order")
	ErrSaleNotStarted  = errors.New("sale not started")
	ErrSaleEnded       = errors.New("sale ended")
	ErrQueueSaturated  = errors.New("fulfillment queue saturated")
	ErrAdmissionFailed = errors.New("admission check failed")

	// Order errors
	ErrOrderNotFound = errors.New("order not found")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
	ErrCacheOperationFailed    = errors.New("cache operation failed")
)
