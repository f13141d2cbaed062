package core

// Evaluation capabilities. Evaluators are immutable configuration objects;
// Evaluate never mutates its inputs and carries no state between calls.
// Composite evaluators (see the compose package) wrap these interfaces and
// re-propagate child errors and ties unchanged.

// Selector elects a given number of candidates from simple votes, ordered
// by magnitude of victory (winner first).
type Selector interface {
	Evaluate(votes Votes, seats int) (Selection, error)
}

// SeatlessSelector elects candidates without a seat count; the number of
// selected candidates arises from the votes and the selector configuration.
// Electoral thresholds are the typical implementation. Options carry
// evaluation context such as previous-round gains; implementations ignore
// options they do not use.
type SeatlessSelector interface {
	Evaluate(votes Votes, opts ...EvalOption) (Selection, error)
}

// WeightedSelector elects candidates from exact rational tallies.
type WeightedSelector interface {
	Evaluate(votes WeightedVotes, seats int) (Selection, error)
}

// Distributor allocates a number of seats among candidates. Options carry
// evaluation context: seats gained in previous rounds and per-candidate
// seat caps. Implementations ignore options they do not use.
type Distributor interface {
	Evaluate(votes Votes, seats int, opts ...EvalOption) (Distribution, error)
}

// SeatlessDistributor awards seats without a requested total; the total
// stems from the votes themselves (e.g. a fixed votes-per-seat rule).
type SeatlessDistributor interface {
	Evaluate(votes Votes, opts ...EvalOption) (Distribution, error)
}

// DistrictDistributor allocates seats within each constituency and returns
// results keyed by constituency.
type DistrictDistributor interface {
	Evaluate(votes DistrictVotes, seats int, opts ...EvalOption) (DistrictDistribution, error)
}

// RankedSelector elects candidates from ranked ballots.
type RankedSelector interface {
	Evaluate(votes RankedVotes, seats int) (Selection, error)
}

// ScoreSelector elects candidates from score ballots.
type ScoreSelector interface {
	Evaluate(votes ScoreVotes, seats int) (Selection, error)
}

// ScoreDistributor allocates seats from score ballots.
type ScoreDistributor interface {
	Evaluate(votes ScoreVotes, seats int, opts ...EvalOption) (Distribution, error)
}
