package repository

import (
	"context"
	"errors"
	"time"

	"flashsale/internal/domain/voucher"
	"flashsale/internal/infra"

	"github.com/jackc/pgx/v5"
)

type VoucherRepository struct {
	db DBTX
}

func NewVoucherRepository(db DBTX) *VoucherRepository {
	return &VoucherRepository{db: db}
}

func (r *VoucherRepository) FindByID(ctx context.Context, voucherID int64) (*voucher.SeckillVoucher, error) {
	const query = `
		SELECT voucher_id, shop_id, title, stock, begin_time, end_time
		FROM seckill_vouchers
		WHERE voucher_id = $1`

	var (
		id, shopID         int64
		title              string
		stock              int32
		beginTime, endTime time.Time
	)
	err := r.db.QueryRow(ctx, query, voucherID).Scan(
		&id, &shopID, &title, &stock, &beginTime, &endTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find voucher by id", err)
	}
	return voucher.Restore(id, shopID, title, stock, beginTime, endTime), nil
}

// DecrementStock is the authoritative conditional decrement. It reports
// whether a row was affected; zero rows means the stock was already gone.
func (r *VoucherRepository) DecrementStock(ctx context.Context, voucherID int64) (bool, error) {
	const query = `
		UPDATE seckill_vouchers
		SET stock = stock - 1
		WHERE voucher_id = $1 AND stock > 0`

	tag, err := r.db.Exec(ctx, query, voucherID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to decrement voucher stock", err)
	}
	return tag.RowsAffected() > 0, nil
}
