package cardinal

import (
	"math/big"

	"github.com/mkadlec/psephos/condorcet"
	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
)

// STAR is the Score Then Automatic Run-Off evaluator: score sums pick the
// run-off field, a pairwise-comparison run-off over it picks the winners.
//
// Classic STAR is a single-winner system with a two-candidate run-off;
// this evaluator generalizes it. For more seats, or a larger run-off, the
// run-off is decided by a Condorcet selector over pairwise score
// preferences, which coincides with a plurality run-off when only two
// candidates remain.
type STAR struct {
	// RunoffAdded is the number of run-off candidates beyond the seats to
	// fill; it defaults to 1 when the struct is built by NewSTAR.
	RunoffAdded int
	// RunoffFraction adds ceil(fraction * seats) more run-off candidates.
	RunoffFraction *big.Rat
	// Runoff decides the run-off; Schulze when nil.
	Runoff condorcet.Selector
}

// NewSTAR returns the conventional configuration: one extra run-off
// candidate, Schulze run-off.
func NewSTAR() STAR {
	return STAR{RunoffAdded: 1, Runoff: condorcet.Schulze{}}
}

func (s STAR) Evaluate(votes core.ScoreVotes, seats int) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	runoffSize := seats + s.RunoffAdded
	if s.RunoffFraction != nil {
		extra := new(big.Rat).Mul(s.RunoffFraction, big.NewRat(int64(seats), 1))
		runoffSize += int(ratCeil(extra))
	}
	order, err := core.NBest(convert.ScoreTotals(votes), runoffSize)
	if err != nil {
		return nil, err
	}
	// A tie at the run-off cut admits the whole tied group; the run-off
	// separates them.
	members := map[core.Candidate]struct{}{}
	for _, slot := range order {
		if slot.IsTie() {
			for _, cand := range slot.Tied {
				members[cand] = struct{}{}
			}
		} else {
			members[slot.Candidate] = struct{}{}
		}
	}
	pairwise := core.PairwiseVotes{}
	for pair, n := range convert.RankedToCondorcet(convert.ScoreToRanked(votes), true) {
		if _, in := members[pair.Over]; !in {
			continue
		}
		if _, in := members[pair.Under]; !in {
			continue
		}
		pairwise[pair] = n
	}
	runoff := s.Runoff
	if runoff == nil {
		runoff = condorcet.Schulze{}
	}
	return runoff.Evaluate(pairwise, seats)
}

func ratCeil(r *big.Rat) int64 {
	ceil := new(big.Int).Add(r.Num(), new(big.Int).Sub(r.Denom(), big.NewInt(1)))
	return new(big.Int).Quo(ceil, r.Denom()).Int64()
}
