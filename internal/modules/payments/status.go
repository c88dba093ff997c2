package payments

type Status string

const (
	StatusCreated  Status = "created"
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
	StatusRefunded Status = "refunded"
)

// Finality order: created < pending < failed/canceled < paid < refunded.
// A transition is applied only when it moves strictly forward; anything else
// is a no-op (still audited). This guard is what keeps a delayed or
// duplicated webhook from regressing settled state: paid can only become
// refunded, and failed/canceled can only be overtaken by paid or refunded.
var statusRank = map[Status]int{
	StatusCreated:  0,
	StatusPending:  1,
	StatusFailed:   2,
	StatusCanceled: 2,
	StatusPaid:     3,
	StatusRefunded: 4,
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether from→to moves strictly forward.
func CanTransition(from, to Status) bool {
	rf, ok := statusRank[from]
	if !ok {
		return false
	}
	rt, ok := statusRank[to]
	if !ok {
		return false
	}
	return rt > rf
}
