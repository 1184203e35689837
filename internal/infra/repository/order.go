package repository

import (
	"context"
	"errors"
	"time"

	"flashsale/internal/domain/order"
	"flashsale/internal/infra"

	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CountByUserAndVoucher(ctx context.Context, userID, voucherID int64) (int64, error) {
	const query = `
		SELECT count(*)
		FROM voucher_orders
		WHERE user_id = $1 AND voucher_id = $2`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID, voucherID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count orders", err)
	}
	return count, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *order.VoucherOrder) error {
	const query = `
		INSERT INTO voucher_orders (order_id, user_id, voucher_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query,
		int64(o.OrderID()), o.UserID(), o.VoucherID(), o.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert order", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID uint64) (*order.VoucherOrder, error) {
	const query = `
		SELECT order_id, user_id, voucher_id, created_at
		FROM voucher_orders
		WHERE order_id = $1`

	var (
		id                int64
		userID, voucherID int64
		createdAt         time.Time
	)
	err := r.db.QueryRow(ctx, query, int64(orderID)).Scan(&id, &userID, &voucherID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by id", err)
	}
	return order.NewVoucherOrder(uint64(id), userID, voucherID, createdAt)
}
