package response

import (
	"strconv"

	"flashsale/internal/domain/order"
	"flashsale/internal/infra/redis"
)

// Order ids exceed the safe integer range of JSON numbers, so they
// travel as strings.
type SeckillAcceptedResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

func FromAdmission(orderID uint64) SeckillAcceptedResponse {
	return SeckillAcceptedResponse{
		OrderID: strconv.FormatUint(orderID, 10),
		Status:  string(order.StatusPending),
	}
}

type OrderStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

func FromOrderStatus(orderID uint64, status order.FulfillmentStatus) OrderStatusResponse {
	return OrderStatusResponse{
		OrderID: strconv.FormatUint(orderID, 10),
		Status:  string(status),
	}
}

type LeaderboardEntryResponse struct {
	VoucherID int64 `json:"voucher_id"`
	Admitted  int64 `json:"admitted"`
}

func FromLeaderboard(entries []redis.VoucherSales) []LeaderboardEntryResponse {
	out := make([]LeaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeaderboardEntryResponse{VoucherID: e.VoucherID, Admitted: e.Admitted})
	}
	return out
}
