package domain

// CommitStatus tracks how far a checkout commit got. The store offers no
// transaction across steps, so a FAILED commit may still have persisted rows.
type CommitStatus string

const (
	CommitStatusInitiated        CommitStatus = "INITIATED"
	CommitStatusSaleCreated      CommitStatus = "SALE_CREATED"
	CommitStatusItemsCreated     CommitStatus = "ITEMS_CREATED"
	CommitStatusCashFlowRecorded CommitStatus = "CASH_FLOW_RECORDED"
	CommitStatusStockMoved       CommitStatus = "STOCK_MOVED"
	CommitStatusCompleted        CommitStatus = "COMPLETED"
	CommitStatusFailed           CommitStatus = "FAILED"
)

var commitTransitions = map[CommitStatus]CommitStatus{
	CommitStatusInitiated:        CommitStatusSaleCreated,
	CommitStatusSaleCreated:      CommitStatusItemsCreated,
	CommitStatusItemsCreated:     CommitStatusCashFlowRecorded,
	CommitStatusCashFlowRecorded: CommitStatusStockMoved,
	CommitStatusStockMoved:       CommitStatusCompleted,
}

func (s CommitStatus) IsTerminal() bool {
	return s == CommitStatusCompleted || s == CommitStatusFailed
}

// CanTransitionTo allows only the next step in sequence, or FAILED from any
// non-terminal status.
func CanTransitionTo(from, to CommitStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == CommitStatusFailed {
		return true
	}
	return commitTransitions[from] == to
}

// String representation (for logging)
func (s CommitStatus) String() string {
	return string(s)
}
