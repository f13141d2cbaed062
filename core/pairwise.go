package core

import "sort"

// Pair identifies an ordered candidate pair: Over is preferred to Under.
type Pair struct {
	Over  Candidate
	Under Candidate
}

// PairwiseVotes counts, for each ordered candidate pair, the voters that
// prefer the first candidate of the pair to the second. It is the input
// shape of Condorcet methods; absent pairs count as zero.
type PairwiseVotes map[Pair]int64

// Get returns the count of voters preferring over to under.
func (pv PairwiseVotes) Get(over, under Candidate) int64 {
	return pv[Pair{Over: over, Under: under}]
}

// Candidates returns every candidate appearing in any pair, sorted by
// identifier.
func (pv PairwiseVotes) Candidates() []Candidate {
	seen := map[Candidate]struct{}{}
	for pair := range pv {
		seen[pair.Over] = struct{}{}
		seen[pair.Under] = struct{}{}
	}
	out := make([]Candidate, 0, len(seen))
	for cand := range seen {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy of the pairwise counts.
func (pv PairwiseVotes) Clone() PairwiseVotes {
	out := make(PairwiseVotes, len(pv))
	for pair, n := range pv {
		out[pair] = n
	}
	return out
}
