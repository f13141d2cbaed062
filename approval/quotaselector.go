package approval

import (
	"errors"
	"math/big"

	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/quota"
)

// ErrQuotaOverrun is returned when more candidates clear the quota than
// there are seats and the selector is not configured to cut them down.
var ErrQuotaOverrun = errors.New("approval: more candidates over quota than seats")

// QuotaSelector elects the candidates whose votes reach a quota of the
// total. It often elects fewer candidates than seats; with the Droop quota
// and one seat it is the first round of a two-round runoff, electing the
// majority winner if there is one and nobody otherwise.
type QuotaSelector struct {
	quota       quota.Function
	acceptEqual bool
	overrun     OverrunPolicy
}

// OverrunPolicy says what to do when more candidates clear the quota than
// there are seats.
type OverrunPolicy int

const (
	// OverrunError fails the evaluation with ErrQuotaOverrun.
	OverrunError OverrunPolicy = iota
	// OverrunSelect keeps the seats best-voted quota clearers.
	OverrunSelect
)

// QuotaOption adjusts QuotaSelector construction.
type QuotaOption func(*QuotaSelector)

// QuotaAcceptEqual controls whether a candidate exactly at the quota is
// elected; the default is true.
func QuotaAcceptEqual(v bool) QuotaOption {
	return func(q *QuotaSelector) { q.acceptEqual = v }
}

// OnOverrun sets the overrun policy; the default is OverrunError.
func OnOverrun(p OverrunPolicy) QuotaOption {
	return func(q *QuotaSelector) { q.overrun = p }
}

// NewQuotaSelector resolves the quota function by registered name.
func NewQuotaSelector(quotaName string, opts ...QuotaOption) (*QuotaSelector, error) {
	fn, err := quota.Get(quotaName)
	if err != nil {
		return nil, err
	}
	return QuotaSelectorOf(fn, opts...), nil
}

// QuotaSelectorOf builds the selector around an explicit quota function.
func QuotaSelectorOf(fn quota.Function, opts ...QuotaOption) *QuotaSelector {
	q := &QuotaSelector{quota: fn, acceptEqual: true}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *QuotaSelector) Evaluate(votes core.Votes, seats int) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	if len(votes) == 0 {
		return nil, core.ErrNoVotes
	}
	qval := q.quota(votes.Total(), int64(seats))
	over := core.Votes{}
	for cand, n := range votes {
		cmp := big.NewRat(n, 1).Cmp(qval)
		if cmp > 0 || (q.acceptEqual && cmp == 0) {
			over[cand] = n
		}
	}
	if len(over) > seats && q.overrun == OverrunError {
		return nil, ErrQuotaOverrun
	}
	return core.NBestCounts(over, seats)
}
