// Package sortition selects candidates by lot or by an externally fixed
// order. These selectors disregard vote quantities (or use them only as
// sampling weights) and serve as tiebreakers for the deterministic
// evaluators, or as systems of their own, like the random stages of the
// Venetian doge election.
package sortition

import (
	"math/rand"

	"github.com/mkadlec/psephos/core"
)

// Sortitor draws candidates purely at random, with equal probability and
// without replacement. The selection comes back in draw order. The
// generator is rebuilt from the seed on every evaluation, so results are
// reproducible.
type Sortitor struct {
	seed int64
}

// NewSortitor builds the selector with the given random seed.
func NewSortitor(seed int64) Sortitor {
	return Sortitor{seed: seed}
}

func (s Sortitor) Evaluate(votes core.Votes, seats int) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	if len(votes) == 0 {
		return nil, core.ErrNoVotes
	}
	pool := votes.Candidates()
	if len(pool) <= seats {
		return selectionOf(pool), nil
	}
	rng := rand.New(rand.NewSource(s.seed))
	out := make(core.Selection, 0, seats)
	for len(out) < seats {
		at := rng.Intn(len(pool))
		out = append(out, core.Decided(pool[at]))
		pool = append(pool[:at], pool[at+1:]...)
	}
	return out, nil
}

// BallotSampler draws candidates at random without replacement, with
// probability proportional to their votes. It evaluates systems that
// draw winners from the ballot box, where a candidate's chance follows
// their support.
type BallotSampler struct {
	seed int64
}

// NewBallotSampler builds the selector with the given random seed.
func NewBallotSampler(seed int64) BallotSampler {
	return BallotSampler{seed: seed}
}

func (b BallotSampler) Evaluate(votes core.Votes, seats int) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	var pool []core.Candidate
	var weights []int64
	total := int64(0)
	for _, cand := range votes.Candidates() {
		if n := votes[cand]; n > 0 {
			pool = append(pool, cand)
			weights = append(weights, n)
			total += n
		}
	}
	if total == 0 {
		return nil, core.ErrNoVotes
	}
	if len(pool) <= seats {
		return selectionOf(pool), nil
	}
	rng := rand.New(rand.NewSource(b.seed))
	out := make(core.Selection, 0, seats)
	for len(out) < seats {
		pos := rng.Int63n(total)
		at := 0
		for cum := weights[0]; cum <= pos; cum += weights[at] {
			at++
		}
		out = append(out, core.Decided(pool[at]))
		total -= weights[at]
		pool = append(pool[:at], pool[at+1:]...)
		weights = append(weights[:at], weights[at+1:]...)
	}
	return out, nil
}

// OrderSelector elects the first candidates of a fixed order that appear
// in the votes. The order is external, like ballot paper numbers or
// pre-drawn lots, which makes the selector a deterministic tiebreaker.
type OrderSelector []core.Candidate

func (o OrderSelector) Evaluate(votes core.Votes, seats int) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	if len(votes) == 0 {
		return nil, core.ErrNoVotes
	}
	out := make(core.Selection, 0, seats)
	for _, cand := range o {
		if len(out) == seats {
			break
		}
		if _, in := votes[cand]; in {
			out = append(out, core.Decided(cand))
		}
	}
	return out, nil
}

func selectionOf(cands []core.Candidate) core.Selection {
	out := make(core.Selection, len(cands))
	for i, cand := range cands {
		out[i] = core.Decided(cand)
	}
	return out
}
