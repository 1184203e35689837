package repository

import (
	"context"
	"errors"

	"flashsale/internal/domain/shop"
	"flashsale/internal/infra"

	"github.com/jackc/pgx/v5"
)

type ShopRepository struct {
	db DBTX
}

func NewShopRepository(db DBTX) *ShopRepository {
	return &ShopRepository{db: db}
}

// FindByID returns (nil, nil) when the shop does not exist, so the cache
// client can distinguish a confirmed miss from a store failure.
func (r *ShopRepository) FindByID(ctx context.Context, id int64) (*shop.Shop, error) {
	const query = `
		SELECT id, name, area, address, avg_price, score, updated_at
		FROM shops
		WHERE id = $1`

	var s shop.Shop
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Area, &s.Address, &s.AvgPrice, &s.Score, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find shop by id", err)
	}
	return &s, nil
}
