package order

// FulfillmentStatus is the observable outcome of an admitted task. The
// original client sees an optimistic success; operators reconcile silently
// dropped admissions through this status record.
type FulfillmentStatus string

const (
	StatusPending          FulfillmentStatus = "pending"
	StatusFulfilled        FulfillmentStatus = "fulfilled"
	StatusDroppedLock      FulfillmentStatus = "dropped:lock"
	StatusDroppedDuplicate FulfillmentStatus = "dropped:duplicate"
	StatusDroppedStock     FulfillmentStatus = "dropped:stock"
	StatusDroppedError     FulfillmentStatus = "dropped:error"
	StatusUnknown          FulfillmentStatus = "unknown"
)

func (s FulfillmentStatus) Terminal() bool {
	return s != StatusPending && s != StatusUnknown
}

// AdmissionTask is an ephemeral queue item. It has no persistence of its
// own: if the process dies before the worker drains it, the task is lost
// and only the status record betrays the gap.
type AdmissionTask struct {
	OrderID   uint64
	UserID    int64
	VoucherID int64
}
