package cardinal

import (
	"errors"
	"sort"

	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
)

// ErrUnknownAggregate is returned by NewScoreVoting for an identifier
// outside the registry.
var ErrUnknownAggregate = errors.New("cardinal: unknown score aggregate")

// Registered score aggregate identifiers.
const (
	Sum       = "sum"
	Mean      = "mean"
	MedianLow = "median_low"
)

// Aggregate folds score votes into one value per candidate.
type Aggregate func(votes core.ScoreVotes) core.WeightedVotes

var registry = map[string]Aggregate{
	Sum:       convert.ScoreTotals,
	Mean:      convert.MeanScores,
	MedianLow: convert.MedianLowScores,
}

// GetAggregate resolves a registered aggregate by identifier.
func GetAggregate(name string) (Aggregate, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, ErrUnknownAggregate
	}
	return fn, nil
}

// AggregateNames lists the registered identifiers, sorted.
func AggregateNames() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ScoreVoting selects the candidates with the highest aggregate grade.
// With the sum aggregate it also evaluates cumulative voting.
type ScoreVoting struct {
	agg Aggregate
}

// NewScoreVoting resolves the aggregate by registered name; mean is the
// conventional choice for range voting.
func NewScoreVoting(aggregate string) (*ScoreVoting, error) {
	fn, err := GetAggregate(aggregate)
	if err != nil {
		return nil, err
	}
	return ScoreVotingOf(fn), nil
}

// ScoreVotingOf builds the evaluator around an explicit aggregate.
func ScoreVotingOf(fn Aggregate) *ScoreVoting {
	return &ScoreVoting{agg: fn}
}

func (s *ScoreVoting) Evaluate(votes core.ScoreVotes, seats int) (core.Selection, error) {
	return core.NBest(s.agg(votes), seats)
}
