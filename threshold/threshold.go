// Package threshold implements electoral threshold selectors: seatless
// eligibility filters that pass every candidate clearing a vote bar. They
// are the usual eliminators of compose.Conditioned, excluding small
// parties before a proportional distribution.
package threshold

import (
	"math/big"
	"sort"

	"github.com/mkadlec/psephos/core"
)

// Absolute passes candidates with at least Threshold votes. Implements
// core.SeatlessSelector.
type Absolute struct {
	Threshold int64
	// AcceptEqual passes candidates exactly at the threshold.
	AcceptEqual bool
}

// NewAbsolute builds the threshold with AcceptEqual on.
func NewAbsolute(threshold int64) Absolute {
	return Absolute{Threshold: threshold, AcceptEqual: true}
}

// Evaluate returns the passing candidates, strongest first.
func (a Absolute) Evaluate(votes core.Votes, _ ...core.EvalOption) (core.Selection, error) {
	var out core.Selection
	for _, cand := range orderedByVotes(votes) {
		n := votes[cand]
		if n > a.Threshold || (a.AcceptEqual && n == a.Threshold) {
			out = append(out, core.Decided(cand))
		}
	}
	return out, nil
}

// Relative passes candidates holding at least the Fraction share of the
// total votes. The common stability clause of proportional systems (e.g. a
// five percent national threshold). Implements core.SeatlessSelector.
type Relative struct {
	Fraction *big.Rat
	// AcceptEqual passes candidates exactly at the threshold share.
	AcceptEqual bool
}

// NewRelative builds the threshold with AcceptEqual on.
func NewRelative(fraction *big.Rat) Relative {
	return Relative{Fraction: fraction, AcceptEqual: true}
}

// Evaluate returns the passing candidates, strongest first. Fails with
// ErrNoVotes when the total is zero, leaving the share undefined.
func (r Relative) Evaluate(votes core.Votes, _ ...core.EvalOption) (core.Selection, error) {
	total := votes.Total()
	if total == 0 {
		return nil, core.ErrNoVotes
	}
	var out core.Selection
	for _, cand := range orderedByVotes(votes) {
		share := big.NewRat(votes[cand], total)
		cmp := share.Cmp(r.Fraction)
		if cmp > 0 || (r.AcceptEqual && cmp == 0) {
			out = append(out, core.Decided(cand))
		}
	}
	return out, nil
}

// Alternatives passes every candidate passed by any of the wrapped
// selectors (an OR over thresholds). Implements core.SeatlessSelector.
type Alternatives []core.SeatlessSelector

// Evaluate returns the union of the partial selections, ordered by mean
// position across them; a candidate missing from a partial selection
// counts at its end. Options pass through to every partial selector.
func (a Alternatives) Evaluate(votes core.Votes, opts ...core.EvalOption) (core.Selection, error) {
	partials := make([][]core.Candidate, len(a))
	for i, sel := range a {
		got, err := sel.Evaluate(votes, opts...)
		if err != nil {
			return nil, err
		}
		cands, err := got.Candidates()
		if err != nil {
			return nil, err
		}
		partials[i] = cands
	}
	ranks := map[core.Candidate]*big.Rat{}
	for _, cands := range partials {
		for _, cand := range cands {
			ranks[cand] = new(big.Rat)
		}
	}
	for cand := range ranks {
		sum := int64(0)
		for _, cands := range partials {
			pos := len(cands)
			for i, member := range cands {
				if member == cand {
					pos = i
					break
				}
			}
			sum += int64(pos)
		}
		ranks[cand] = big.NewRat(sum, int64(len(a)))
	}
	out := make([]core.Candidate, 0, len(ranks))
	for cand := range ranks {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := ranks[out[i]].Cmp(ranks[out[j]]); cmp != 0 {
			return cmp < 0
		}
		return out[i] < out[j]
	})
	return core.SelectionOf(out...), nil
}

// PreviousGainThreshold evaluates the inner selector on the seats gained
// in previous election rounds instead of on the votes. The alternative
// qualification clause of mixed-member systems (e.g. three district seats
// qualify a party for list seats). Implements core.SeatlessSelector.
type PreviousGainThreshold struct {
	Selector core.SeatlessSelector
}

// Evaluate disregards the votes and passes the previous gains from the
// options to the inner selector as votes.
func (p PreviousGainThreshold) Evaluate(_ core.Votes, opts ...core.EvalOption) (core.Selection, error) {
	cfg := core.NewEvalConfig(opts...)
	gains := make(core.Votes, len(cfg.PrevGains))
	for cand, seats := range cfg.PrevGains {
		gains[cand] = int64(seats)
	}
	return p.Selector.Evaluate(gains)
}

// orderedByVotes orders candidates by vote count descending, equal counts
// by identifier.
func orderedByVotes(votes core.Votes) []core.Candidate {
	out := votes.Candidates()
	sort.SliceStable(out, func(i, j int) bool { return votes[out[i]] > votes[out[j]] })
	return out
}
