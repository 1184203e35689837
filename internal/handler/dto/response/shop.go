package response

import (
	"time"

	"flashsale/internal/domain/shop"

	"github.com/jinzhu/copier"
)

type ShopResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Area      string    `json:"area"`
	Address   string    `json:"address"`
	AvgPrice  int64     `json:"avg_price"`
	Score     int32     `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromShop(s *shop.Shop) ShopResponse {
	var resp ShopResponse
	_ = copier.Copy(&resp, s)
	return resp
}
