package condorcet

import (
	"github.com/mkadlec/psephos/core"
)

// Minimax selects the candidate whose worst pairwise defeat is the
// smallest. Also known as the Simpson-Kramer method. Defeat strength is
// measured by the configured scorer. Implements Selector.
type Minimax struct {
	scorer Scorer
}

// NewMinimax builds the evaluator, resolving the scorer by registered
// name.
func NewMinimax(scorerName string) (*Minimax, error) {
	fn, err := GetScorer(scorerName)
	if err != nil {
		return nil, err
	}
	return &Minimax{scorer: fn}, nil
}

// MinimaxOf builds the evaluator around an explicit scorer.
func MinimaxOf(fn Scorer) *Minimax {
	return &Minimax{scorer: fn}
}

// Evaluate selects the seats candidates with the weakest worst defeats.
// Candidates never appearing on the losing side of a scored pair do not
// enter the ranking.
func (m *Minimax) Evaluate(votes core.PairwiseVotes, seats int) (core.Selection, error) {
	worst := map[core.Candidate]int64{}
	for pair, score := range m.scorer(votes) {
		if cur, ok := worst[pair.Under]; !ok || score > cur {
			worst[pair.Under] = score
		}
	}
	negated := make(map[core.Candidate]int64, len(worst))
	for cand, score := range worst {
		negated[cand] = -score
	}
	return nBestInt(negated, seats)
}
