package core

import (
	"math/big"
	"sort"
)

// scoredCand pairs a candidate with its exact score for ranking.
type scoredCand struct {
	cand  Candidate
	score *big.Rat
}

// rankDescending orders candidates by score descending; equal scores are
// ordered by candidate identifier ascending so the ranking is deterministic
// regardless of map iteration order.
func rankDescending(scores WeightedVotes) []scoredCand {
	ranked := make([]scoredCand, 0, len(scores))
	for cand, score := range scores {
		ranked = append(ranked, scoredCand{cand: cand, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if cmp := ranked[i].score.Cmp(ranked[j].score); cmp != 0 {
			return cmp > 0
		}
		return ranked[i].cand < ranked[j].cand
	})
	return ranked
}

// NBest returns the seats candidates with the highest scores, essentially a
// plurality selection over exact rational scores. It is the shared building
// block of every "select by maximum" step in the library.
//
// When the cut between elected and unelected falls inside a group of equal
// scores, the result's last slots hold a Tie over the whole equal group
// instead of an arbitrary pick; there are as many tie slots as tied seats.
// If fewer candidates than seats exist, all of them are returned.
//
// Complexity: O(n log n) in the number of candidates.
func NBest(scores WeightedVotes, seats int) (Selection, error) {
	if seats < 0 {
		return nil, ErrNegativeSeats
	}
	if seats == 0 {
		return Selection{}, nil
	}
	ranked := rankDescending(scores)
	if len(ranked) <= seats {
		out := make(Selection, len(ranked))
		for i, rc := range ranked {
			out[i] = Decided(rc.cand)
		}
		return out, nil
	}
	threshold := ranked[seats-1].score
	if ranked[seats].score.Cmp(threshold) != 0 {
		out := make(Selection, seats)
		for i := 0; i < seats; i++ {
			out[i] = Decided(ranked[i].cand)
		}
		return out, nil
	}
	// The cut crosses a group of equal scores: everyone at the threshold
	// score is tied for the remaining slots.
	var decided []Candidate
	var tied []Candidate
	for _, rc := range ranked {
		switch rc.score.Cmp(threshold) {
		case 1:
			decided = append(decided, rc.cand)
		case 0:
			tied = append(tied, rc.cand)
		}
	}
	out := make(Selection, 0, seats)
	for _, cand := range decided {
		out = append(out, Decided(cand))
	}
	tie := NewTie(tied...)
	for len(out) < seats {
		out = append(out, Unresolved(tie))
	}
	return out, nil
}

// NBestCounts is NBest over integer vote counts.
func NBestCounts(votes Votes, seats int) (Selection, error) {
	return NBest(votes.Weighted(), seats)
}
