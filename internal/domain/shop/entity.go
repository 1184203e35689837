package shop

import "time"

// Shop is a read-heavy lookup target; all reads go through the
// read-through cache client.
type Shop struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Area      string    `json:"area"`
	Address   string    `json:"address"`
	AvgPrice  int64     `json:"avg_price"`
	Score     int32     `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}
