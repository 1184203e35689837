package order

import (
	"errors"
	"time"
)

var ErrInvalidOrder = errors.New("order requires order, user and voucher ids")

// VoucherOrder is created exactly once per (userID, voucherID) pair.
// It is born in the fulfillment worker after both the cache-side admission
// and the authoritative re-check pass, and is never mutated afterwards.
type VoucherOrder struct {
	orderID   uint64
	userID    int64
	voucherID int64
	createdAt time.Time
}

func NewVoucherOrder(orderID uint64, userID, voucherID int64, createdAt time.Time) (*VoucherOrder, error) {
	if orderID == 0 || userID == 0 || voucherID == 0 {
		return nil, ErrInvalidOrder
	}
	return &VoucherOrder{
		orderID:   orderID,
		userID:    userID,
		voucherID: voucherID,
		createdAt: createdAt,
	}, nil
}

func (o *VoucherOrder) OrderID() uint64      { return o.orderID }
func (o *VoucherOrder) UserID() int64        { return o.userID }
func (o *VoucherOrder) VoucherID() int64     { return o.voucherID }
func (o *VoucherOrder) CreatedAt() time.Time { return o.createdAt }
