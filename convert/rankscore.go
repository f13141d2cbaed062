package convert

import "math/big"

// RankScorer assigns scores to ballot ranks for positional vote conversion.
//
// Contracts:
//   - Scores returns exactly nRanked values, best rank first.
//   - nCandidates is the number of candidates standing; scorers whose
//     sequence does not depend on it ignore the argument.
//   - Scores are non-negative and non-increasing.
type RankScorer interface {
	Scores(nRanked, nCandidates int) []*big.Rat
}

// Borda is the original Borda count scorer: the last of nCandidates ranks
// scores Base, each higher rank one more. With Base 1 the top rank scores
// the full candidate count.
type Borda struct {
	Base int64
}

func (b Borda) Scores(nRanked, nCandidates int) []*big.Rat {
	top := int64(nCandidates) + b.Base - 1
	out := make([]*big.Rat, nRanked)
	for rank := range out {
		out[rank] = big.NewRat(top-int64(rank), 1)
	}
	return out
}

// ModifiedBorda scores the top rank with the number of candidates the
// ballot actually ranks, rewarding voters who rank many candidates.
type ModifiedBorda struct{}

func (ModifiedBorda) Scores(nRanked, _ int) []*big.Rat {
	out := make([]*big.Rat, nRanked)
	for rank := range out {
		out[rank] = big.NewRat(int64(nRanked-rank), 1)
	}
	return out
}

// Dowdall is the Nauru harmonic scorer: 1, 1/2, 1/3, ...
type Dowdall struct{}

func (Dowdall) Scores(nRanked, _ int) []*big.Rat {
	out := make([]*big.Rat, nRanked)
	for rank := range out {
		out[rank] = big.NewRat(1, int64(rank)+1)
	}
	return out
}

// Geometric scores ranks with an inverse geometric progression
// (1, 1/Base, 1/Base², ...).
type Geometric struct {
	Base int64
}

func (g Geometric) Scores(nRanked, _ int) []*big.Rat {
	out := make([]*big.Rat, nRanked)
	denom := big.NewInt(1)
	base := big.NewInt(g.Base)
	for rank := range out {
		out[rank] = new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Set(denom))
		denom.Mul(denom, base)
	}
	return out
}

// FixedTop scores the best rank with Top and decreases by one per rank,
// floored at zero.
type FixedTop struct {
	Top int64
}

func (f FixedTop) Scores(nRanked, _ int) []*big.Rat {
	out := make([]*big.Rat, nRanked)
	for rank := range out {
		score := f.Top - int64(rank)
		if score < 0 {
			score = 0
		}
		out[rank] = big.NewRat(score, 1)
	}
	return out
}

// SequenceBased scores ranks from a fixed sequence (Eurovision, Formula
// One), padding with zeros past its end.
type SequenceBased struct {
	Sequence []*big.Rat
}

func (s SequenceBased) Scores(nRanked, _ int) []*big.Rat {
	out := make([]*big.Rat, nRanked)
	for rank := range out {
		if rank < len(s.Sequence) {
			out[rank] = new(big.Rat).Set(s.Sequence[rank])
		} else {
			out[rank] = big.NewRat(0, 1)
		}
	}
	return out
}
