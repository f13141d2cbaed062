package condorcet

import (
	"sort"

	"github.com/mkadlec/psephos/core"
)

// KemenyYoung orders candidates by maximizing the number of voter pairwise
// preferences the ordering satisfies, over all candidate orderings.
//
// The search runs over permutations of the candidate set and is
// exponential; branches whose satisfiable preferences cannot reach the
// best complete ordering found so far are pruned. Feasible only for small
// candidate sets. Implements Selector.
type KemenyYoung struct{}

// Evaluate selects the first seats candidates of the best ordering. When
// several orderings share the maximum score, positions where they disagree
// hold a Tie over the candidates placed there by any of them.
func (k KemenyYoung) Evaluate(votes core.PairwiseVotes, seats int) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	cands := votes.Candidates()
	if len(cands) == 0 {
		return nil, nil
	}
	s := &kemenySearch{votes: votes, best: -1}
	s.run(cands)
	sel := mergeOrderings(s.variants)
	if len(sel) > seats {
		sel = sel[:seats]
	}
	return sel, nil
}

// Score returns the number of voter pairwise preferences the ordering
// satisfies, the quantity KemenyYoung maximizes.
func (KemenyYoung) Score(ordering []core.Candidate, votes core.PairwiseVotes) int64 {
	var score int64
	for i, upper := range ordering {
		for _, lower := range ordering[i+1:] {
			score += votes.Get(upper, lower)
		}
	}
	return score
}

type kemenySearch struct {
	votes    core.PairwiseVotes
	best     int64
	variants [][]core.Candidate
}

func (s *kemenySearch) run(cands []core.Candidate) {
	// Upper bound for an unordered set: every pair counted in its better
	// direction.
	var bound int64
	for i, a := range cands {
		for _, b := range cands[i+1:] {
			bound += s.pairMax(a, b)
		}
	}
	prefix := make([]core.Candidate, 0, len(cands))
	s.extend(prefix, append([]core.Candidate(nil), cands...), 0, bound)
}

// extend places each remaining candidate next in turn. partial is the
// score of the prefix, bound the best score still achievable among the
// remaining candidates; branches that cannot reach the current best are
// cut.
func (s *kemenySearch) extend(prefix, remaining []core.Candidate, partial, bound int64) {
	if len(remaining) == 0 {
		if partial > s.best {
			s.best = partial
			s.variants = s.variants[:0]
		}
		s.variants = append(s.variants, append([]core.Candidate(nil), prefix...))
		return
	}
	for i, cand := range remaining {
		var gain, drop int64
		for _, other := range remaining {
			if other == cand {
				continue
			}
			gain += s.votes.Get(cand, other)
			drop += s.pairMax(cand, other)
		}
		next := partial + gain
		rest := bound - drop
		if next+rest < s.best {
			continue
		}
		remaining[i] = remaining[len(remaining)-1]
		s.extend(append(prefix, cand), remaining[:len(remaining)-1], next, rest)
		remaining[len(remaining)-1] = remaining[i]
		remaining[i] = cand
	}
}

func (s *kemenySearch) pairMax(a, b core.Candidate) int64 {
	ab, ba := s.votes.Get(a, b), s.votes.Get(b, a)
	if ab > ba {
		return ab
	}
	return ba
}

// mergeOrderings folds equally scored orderings into one selection:
// positions where all agree are decided, the rest tie over every
// candidate any ordering places there.
func mergeOrderings(variants [][]core.Candidate) core.Selection {
	if len(variants) == 0 {
		return nil
	}
	if len(variants) == 1 {
		return core.SelectionOf(variants[0]...)
	}
	n := len(variants[0])
	out := make(core.Selection, 0, n)
	for pos := 0; pos < n; pos++ {
		seen := map[core.Candidate]struct{}{}
		var at []core.Candidate
		for _, variant := range variants {
			if _, dup := seen[variant[pos]]; !dup {
				seen[variant[pos]] = struct{}{}
				at = append(at, variant[pos])
			}
		}
		if len(at) == 1 {
			out = append(out, core.Decided(at[0]))
			continue
		}
		sort.Slice(at, func(i, j int) bool { return at[i] < at[j] })
		out = append(out, core.Unresolved(core.NewTie(at...)))
	}
	return out
}
