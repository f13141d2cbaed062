// Package core: sentinel error set shared across evaluator packages.
// Algorithm packages declare their own configuration sentinels next to the
// constructors that raise them; this file holds only the errors that concern
// the shared result model. All sentinels are matched with errors.Is; %w
// wrapping is reserved for composition boundaries that attach stage context.

package core

import "errors"

var (
	// ErrUnresolvedTie is returned when a caller demands a fully decided
	// result from a selection or distribution that still carries a Tie.
	ErrUnresolvedTie = errors.New("core: unresolved tie in result")

	// ErrTie is returned by algorithms that cannot proceed past an exact
	// tie (e.g. a transferable-vote elimination tie) when no tie-break
	// policy is configured. Use AsTieError to recover the tied set.
	ErrTie = errors.New("core: tie requires resolution")

	// ErrSeatMismatch indicates that the seats awarded by an evaluation do
	// not match the requested total and no correction policy is configured.
	ErrSeatMismatch = errors.New("core: awarded seats do not match requested seats")

	// ErrNoVotes indicates an evaluation was invoked on an empty vote set
	// where at least one vote is required to make a decision.
	ErrNoVotes = errors.New("core: no votes to evaluate")

	// ErrNegativeSeats indicates a negative seat count was requested.
	ErrNegativeSeats = errors.New("core: negative seat count")
)

// TieError carries the tied candidate set and the stage at which the tie
// arose. It matches ErrTie under errors.Is so callers can branch on the
// class and still recover the concrete set.
type TieError struct {
	Tie   Tie
	Stage string
}

func (e *TieError) Error() string {
	return "core: tie requires resolution at " + e.Stage
}

// Is reports a match against the ErrTie sentinel.
func (e *TieError) Is(target error) bool { return target == ErrTie }

// NewTieError builds a TieError for the given tied set and stage label.
func NewTieError(t Tie, stage string) error {
	return &TieError{Tie: t, Stage: stage}
}

// AsTieError extracts a TieError from an error chain, if present.
func AsTieError(err error) (*TieError, bool) {
	var te *TieError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
