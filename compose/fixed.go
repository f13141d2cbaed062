package compose

import (
	"errors"

	"github.com/mkadlec/psephos/core"
)

// ErrSeatlessEvaluator is returned when a fixed seat count is attached to
// an evaluator that determines the seat count itself.
var ErrSeatlessEvaluator = errors.New("compose: evaluator determines its own seat count")

// FixedSeatCount binds a distributor to a constant house size, yielding an
// evaluator callable without a seat count. Implements
// core.SeatlessDistributor.
type FixedSeatCount struct {
	Inner core.Distributor
	Seats int
}

// NewFixedSeatCount wraps inner with a constant seat count. Evaluators
// that already derive their seat count from the votes cannot be wrapped.
func NewFixedSeatCount(inner any, seats int) (FixedSeatCount, error) {
	switch ev := inner.(type) {
	case core.Distributor:
		return FixedSeatCount{Inner: ev, Seats: seats}, nil
	case core.SeatlessDistributor, core.SeatlessSelector:
		return FixedSeatCount{}, ErrSeatlessEvaluator
	default:
		return FixedSeatCount{}, errors.New("compose: evaluator does not distribute seats")
	}
}

func (f FixedSeatCount) Evaluate(votes core.Votes, opts ...core.EvalOption) (core.Distribution, error) {
	return f.Inner.Evaluate(votes, f.Seats, opts...)
}
