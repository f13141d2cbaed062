package compose

import (
	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
)

// Conditioned filters the votes through an eliminator before the main
// distribution: only candidates the eliminator passes enter the main
// evaluation. The standard carrier of electoral thresholds in proportional
// systems. Implements core.Distributor.
type Conditioned struct {
	Eliminator  core.SeatlessSelector
	Distributor core.Distributor
}

func (c Conditioned) Evaluate(votes core.Votes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	subset, err := eliminate(c.Eliminator, votes, opts...)
	if err != nil {
		return core.Distribution{}, err
	}
	return c.Distributor.Evaluate(subset, seats, opts...)
}

// ConditionedSelector is Conditioned around a selection evaluator.
// Implements core.Selector.
type ConditionedSelector struct {
	Eliminator core.SeatlessSelector
	Selector   core.Selector
}

func (c ConditionedSelector) Evaluate(votes core.Votes, seats int) (core.Selection, error) {
	subset, err := eliminate(c.Eliminator, votes)
	if err != nil {
		return nil, err
	}
	return c.Selector.Evaluate(subset, seats)
}

// eliminate subsets the votes to the candidates the eliminator passes.
func eliminate(eliminator core.SeatlessSelector, votes core.Votes, opts ...core.EvalOption) (core.Votes, error) {
	passed, err := eliminator.Evaluate(votes, opts...)
	if err != nil {
		return nil, err
	}
	cands, err := passed.Candidates()
	if err != nil {
		return nil, err
	}
	return convert.SubsetVotes(votes, cands), nil
}
