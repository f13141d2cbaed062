package approval

import (
	"math/big"

	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
)

// ProportionalApproval is the PAV evaluator: every candidate set of the
// requested size is scored by total voter satisfaction, where a voter with
// k approved candidates in the set contributes 1 + 1/2 + ... + 1/k times
// the ballot weight. The best set wins.
//
// Contracts:
//   - The winner set is ordered by satisfaction drop: the candidate whose
//     removal costs the most satisfaction comes first.
//   - Several sets tied for best satisfaction fail with a TieError over the
//     candidates the sets disagree on; PAV itself cannot separate them.
//   - Exponential in the number of candidates; feasible for small fields
//     only.
type ProportionalApproval struct{}

func (ProportionalApproval) Evaluate(votes convert.ApprovalVotes, seats int) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	cands := approvalCandidates(votes)
	if len(cands) <= seats {
		return core.NBest(satisfactionDrops(cands, votes), len(cands))
	}
	coefs := harmonicCoefs(seats)
	var best *big.Rat
	var bestSets [][]core.Candidate
	forEachCombination(len(cands), seats, func(picked []int) {
		set := make([]core.Candidate, len(picked))
		for i, at := range picked {
			set[i] = cands[at]
		}
		sat := satisfaction(set, votes, coefs)
		switch {
		case best == nil || sat.Cmp(best) > 0:
			best = sat
			bestSets = [][]core.Candidate{set}
		case sat.Cmp(best) == 0:
			bestSets = append(bestSets, set)
		}
	})
	if len(bestSets) > 1 {
		return nil, core.NewTieError(disputedCandidates(bestSets), "proportional approval alternatives")
	}
	return core.NBest(satisfactionDrops(bestSets[0], votes), seats)
}

// satisfactionDrops scores each set member by the satisfaction lost when
// it alone is removed, so NBest orders the set by importance.
func satisfactionDrops(set []core.Candidate, votes convert.ApprovalVotes) core.WeightedVotes {
	coefs := harmonicCoefs(len(set))
	out := core.WeightedVotes{}
	for i, cand := range set {
		without := make([]core.Candidate, 0, len(set)-1)
		without = append(without, set[:i]...)
		without = append(without, set[i+1:]...)
		out[cand] = new(big.Rat).Neg(satisfaction(without, votes, coefs))
	}
	return out
}

func satisfaction(set []core.Candidate, votes convert.ApprovalVotes, coefs []*big.Rat) *big.Rat {
	members := map[core.Candidate]struct{}{}
	for _, cand := range set {
		members[cand] = struct{}{}
	}
	total := new(big.Rat)
	for _, ballot := range votes {
		matched := 0
		for _, cand := range ballot.Candidates {
			if _, in := members[cand]; in {
				matched++
			}
		}
		if matched > 0 {
			term := new(big.Rat).Mul(coefs[matched], big.NewRat(ballot.Count, 1))
			total.Add(total, term)
		}
	}
	return total
}

// harmonicCoefs returns the partial harmonic sums 0, 1, 1+1/2, ... up to n
// terms.
func harmonicCoefs(n int) []*big.Rat {
	out := make([]*big.Rat, n+1)
	out[0] = new(big.Rat)
	for k := 1; k <= n; k++ {
		out[k] = new(big.Rat).Add(out[k-1], big.NewRat(1, int64(k)))
	}
	return out
}

// forEachCombination visits every k-subset of {0..n-1} in lexicographic
// order.
func forEachCombination(n, k int, visit func(picked []int)) {
	if k == 0 {
		visit(nil)
		return
	}
	picked := make([]int, k)
	for i := range picked {
		picked[i] = i
	}
	for {
		visit(picked)
		i := k - 1
		for i >= 0 && picked[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		picked[i]++
		for j := i + 1; j < k; j++ {
			picked[j] = picked[j-1] + 1
		}
	}
}

// disputedCandidates collects the candidates the tied best sets disagree
// on.
func disputedCandidates(sets [][]core.Candidate) core.Tie {
	seenIn := map[core.Candidate]int{}
	for _, set := range sets {
		for _, cand := range set {
			seenIn[cand]++
		}
	}
	var disputed []core.Candidate
	for cand, n := range seenIn {
		if n < len(sets) {
			disputed = append(disputed, cand)
		}
	}
	return core.NewTie(disputed...)
}

func approvalCandidates(votes convert.ApprovalVotes) []core.Candidate {
	seen := map[core.Candidate]struct{}{}
	var out []core.Candidate
	for _, ballot := range votes {
		for _, cand := range ballot.Candidates {
			if _, dup := seen[cand]; !dup {
				seen[cand] = struct{}{}
				out = append(out, cand)
			}
		}
	}
	return out
}

// SequentialProportionalApproval is the SPAV evaluator: rounds elect the
// candidate with the highest tally, where each ballot counts for its
// weight divided by one plus the number of its approved candidates already
// elected.
//
// A tie for a round's seat fails with a TieError; later rounds depend on
// who actually took the seat, so the evaluation cannot proceed past it.
type SequentialProportionalApproval struct{}

func (SequentialProportionalApproval) Evaluate(votes convert.ApprovalVotes, seats int) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	elected := map[core.Candidate]struct{}{}
	out := make(core.Selection, 0, seats)
	for len(out) < seats {
		weights := core.WeightedVotes{}
		for _, ballot := range votes {
			already := 0
			for _, cand := range ballot.Candidates {
				if _, in := elected[cand]; in {
					already++
				}
			}
			weight := big.NewRat(ballot.Count, int64(already)+1)
			for _, cand := range ballot.Candidates {
				if _, in := elected[cand]; in {
					continue
				}
				if prev, ok := weights[cand]; ok {
					prev.Add(prev, weight)
				} else {
					weights[cand] = new(big.Rat).Set(weight)
				}
			}
		}
		choice, err := core.NBest(weights, 1)
		if err != nil {
			return nil, err
		}
		if len(choice) == 0 {
			return out, nil
		}
		if choice[0].IsTie() {
			return nil, core.NewTieError(choice[0].Tied, "sequential approval round")
		}
		elected[choice[0].Candidate] = struct{}{}
		out = append(out, choice[0])
	}
	return out, nil
}
