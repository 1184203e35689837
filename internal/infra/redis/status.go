package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"flashsale/internal/domain/order"
)

// StatusStore is the observable outcome channel for admitted tasks. The
// admission service marks an order pending; the fulfillment worker
// overwrites the mark with its terminal state.
type StatusStore struct {
	store Store
}

func NewStatusStore(store Store) *StatusStore {
	return &StatusStore{store: store}
}

func (s *StatusStore) Mark(ctx context.Context, orderID uint64, status order.FulfillmentStatus, ttl time.Duration) error {
	key := SeckillResultPrefix + strconv.FormatUint(orderID, 10)
	return s.store.Set(ctx, key, []byte(status), ttl)
}

// Get returns StatusUnknown for ids that were never marked or whose mark
// already expired.
func (s *StatusStore) Get(ctx context.Context, orderID uint64) (order.FulfillmentStatus, error) {
	key := SeckillResultPrefix + strconv.FormatUint(orderID, 10)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return order.StatusUnknown, nil
		}
		return order.StatusUnknown, err
	}
	return order.FulfillmentStatus(data), nil
}
