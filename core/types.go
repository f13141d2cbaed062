package core

import (
	"math/big"
	"sort"
)

// Candidate is an opaque, comparable identifier of an electoral option
// (a person, a party, or any other contestant). Algorithms never inspect
// its contents; they only compare identity and use it as a map key.
type Candidate string

// District is an opaque, comparable identifier of a constituency.
type District string

// Votes maps candidates to non-negative vote counts (simple votes).
type Votes map[Candidate]int64

// Total returns the sum of all vote counts.
func (v Votes) Total() int64 {
	var sum int64
	for _, n := range v {
		sum += n
	}
	return sum
}

// Clone returns an independent copy of the vote mapping.
func (v Votes) Clone() Votes {
	out := make(Votes, len(v))
	for cand, n := range v {
		out[cand] = n
	}
	return out
}

// Candidates returns all candidates present in the mapping, sorted by
// identifier for deterministic iteration.
func (v Votes) Candidates() []Candidate {
	out := make([]Candidate, 0, len(v))
	for cand := range v {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Weighted converts the integer counts to exact rational weights.
func (v Votes) Weighted() WeightedVotes {
	out := make(WeightedVotes, len(v))
	for cand, n := range v {
		out[cand] = big.NewRat(n, 1)
	}
	return out
}

// WeightedVotes maps candidates to exact rational vote weights. Used where
// fractional tallies arise: surplus transfers, remainder rankings, score
// aggregation. Weights are never binary floats.
type WeightedVotes map[Candidate]*big.Rat

// Total returns the exact sum of all weights.
func (w WeightedVotes) Total() *big.Rat {
	sum := new(big.Rat)
	for _, weight := range w {
		sum.Add(sum, weight)
	}
	return sum
}

// Clone returns a deep copy (weights are copied, not aliased).
func (w WeightedVotes) Clone() WeightedVotes {
	out := make(WeightedVotes, len(w))
	for cand, weight := range w {
		out[cand] = new(big.Rat).Set(weight)
	}
	return out
}

// Candidates returns all candidates in the mapping, sorted by identifier.
func (w WeightedVotes) Candidates() []Candidate {
	out := make([]Candidate, 0, len(w))
	for cand := range w {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Rank is one level of a ranked ballot. It usually holds a single candidate;
// multiple candidates in one rank denote a shared (tied) preference.
type Rank []Candidate

// Ballot is a ranked vote shape: an ordered ranking (most preferred first)
// cast by Count voters. Candidates absent from the ranking are unranked and
// treated as least-preferred by conventions documented at the conversion
// sites.
type Ballot struct {
	Ranking []Rank
	Count   int64
}

// Ranking builds a ballot ranking from single-candidate ranks.
func Ranking(cands ...Candidate) []Rank {
	out := make([]Rank, len(cands))
	for i, cand := range cands {
		out[i] = Rank{cand}
	}
	return out
}

// RankedVotes is a collection of weighted ranked ballots.
type RankedVotes []Ballot

// Total returns the total ballot count.
func (rv RankedVotes) Total() int64 {
	var sum int64
	for _, b := range rv {
		sum += b.Count
	}
	return sum
}

// Candidates returns every candidate appearing at any rank of any ballot,
// sorted by identifier.
func (rv RankedVotes) Candidates() []Candidate {
	seen := map[Candidate]struct{}{}
	for _, b := range rv {
		for _, rank := range b.Ranking {
			for _, cand := range rank {
				seen[cand] = struct{}{}
			}
		}
	}
	out := make([]Candidate, 0, len(seen))
	for cand := range seen {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DistrictVotes maps constituencies to their simple vote mappings.
type DistrictVotes map[District]Votes

// Totals returns the total vote count cast in each district.
func (dv DistrictVotes) Totals() map[District]int64 {
	out := make(map[District]int64, len(dv))
	for d, votes := range dv {
		out[d] = votes.Total()
	}
	return out
}

// Districts returns all district identifiers, sorted.
func (dv DistrictVotes) Districts() []District {
	out := make([]District, 0, len(dv))
	for d := range dv {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DistrictRankedVotes maps constituencies to ranked vote collections.
type DistrictRankedVotes map[District]RankedVotes

// ScoreBallot is a cardinal vote shape: integer grades per candidate, cast
// by Count voters. Candidates absent from Scores are unscored on the
// ballot.
type ScoreBallot struct {
	Scores map[Candidate]int64
	Count  int64
}

// ScoreVotes is a collection of weighted score ballots.
type ScoreVotes []ScoreBallot

// Total returns the total ballot count.
func (sv ScoreVotes) Total() int64 {
	var sum int64
	for _, b := range sv {
		sum += b.Count
	}
	return sum
}

// Candidates returns every candidate scored on any ballot, sorted by
// identifier.
func (sv ScoreVotes) Candidates() []Candidate {
	seen := map[Candidate]struct{}{}
	for _, b := range sv {
		for cand := range b.Scores {
			seen[cand] = struct{}{}
		}
	}
	out := make([]Candidate, 0, len(seen))
	for cand := range seen {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
