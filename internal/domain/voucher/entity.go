package voucher

import (
	"errors"
	"time"
)

var (
	ErrSaleNotStarted = errors.New("seckill sale has not started")
	ErrSaleEnded      = errors.New("seckill sale has ended")
	ErrOutOfStock     = errors.New("seckill voucher is out of stock")
)

// SeckillVoucher is the source-of-truth stock record for a time-boxed
// flash-sale campaign. Stock is mutated only by the fulfillment worker's
// conditional decrement.
type SeckillVoucher struct {
	voucherID int64
	shopID    int64
	title     string
	stock     int32
	beginTime time.Time
	endTime   time.Time
}

func NewSeckillVoucher(voucherID, shopID int64, title string, stock int32, beginTime, endTime time.Time) (*SeckillVoucher, error) {
	if stock < 0 {
		return nil, errors.New("initial stock cannot be negative")
	}
	if !endTime.After(beginTime) {
		return nil, errors.New("sale window must end after it begins")
	}
	return &SeckillVoucher{
		voucherID: voucherID,
		shopID:    shopID,
		title:     title,
		stock:     stock,
		beginTime: beginTime,
		endTime:   endTime,
	}, nil
}

// Restore rebuilds a voucher from persisted state without validation.
func Restore(voucherID, shopID int64, title string, stock int32, beginTime, endTime time.Time) *SeckillVoucher {
	return &SeckillVoucher{
		voucherID: voucherID,
		shopID:    shopID,
		title:     title,
		stock:     stock,
		beginTime: beginTime,
		endTime:   endTime,
	}
}

func (v *SeckillVoucher) ValidateAdmission(now time.Time) error {
	if now.Before(v.beginTime) {
		return ErrSaleNotStarted
	}
	if now.After(v.endTime) {
		return ErrSaleEnded
	}
	if v.stock < 1 {
		return ErrOutOfStock
	}
	return nil
}

func (v *SeckillVoucher) WindowContains(t time.Time) bool {
	return !t.Before(v.beginTime) && !t.After(v.endTime)
}

func (v *SeckillVoucher) VoucherID() int64     { return v.voucherID }
func (v *SeckillVoucher) ShopID() int64        { return v.shopID }
func (v *SeckillVoucher) Title() string        { return v.title }
func (v *SeckillVoucher) Stock() int32         { return v.stock }
func (v *SeckillVoucher) BeginTime() time.Time { return v.beginTime }
func (v *SeckillVoucher) EndTime() time.Time   { return v.endTime }
