package response

import (
	"time"

	"flashsale/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type VoucherResponse struct {
	VoucherID int64     `json:"voucher_id"`
	ShopID    int64     `json:"shop_id"`
	Title     string    `json:"title"`
	Stock     int32     `json:"stock"`
	BeginTime time.Time `json:"begin_time"`
	EndTime   time.Time `json:"end_time"`
}

func FromVoucherView(v *queries.VoucherView) VoucherResponse {
	var resp VoucherResponse
	_ = copier.Copy(&resp, v)
	return resp
}
