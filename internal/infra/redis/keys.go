package redis

// Key layout of the shared cache store. Campaign keys are primed before a
// sale opens; lock keys are short-lived and TTL-bounded.
const (
	CacheShopPrefix    = "cache:shop:"
	CacheVoucherPrefix = "cache:voucher:"

	SeckillStockPrefix  = "seckill:stock:"
	SeckillOrderPrefix  = "seckill:order:"
	SeckillBeginPrefix  = "seckill:begin:"
	SeckillEndPrefix    = "seckill:end:"
	SeckillResultPrefix = "seckill:result:"

	SeckillSalesKey     = "seckill:sales"
	SeckillActivePrefix = "seckill:active:"
	OrderUserLockPrefix = "order:user:"
	IDSequencePrefix    = "icr:"
	LockPrefix          = "lock:"
)
