package quota

import (
	"errors"
	"math/big"
	"sort"
)

// ErrUnknownQuota is returned by Get for an identifier outside the closed
// set of registered quota functions.
var ErrUnknownQuota = errors.New("quota: unknown quota function")

// Function computes the vote threshold to secure a seat from the total
// number of valid votes and the number of seats to fill.
//
// Contracts:
//   - votes ≥ 0; seats ≥ 1 (a zero seat count is a programmer error and
//     panics on functions that divide by it).
//   - The result is positive whenever votes > 0 and seats > 0.
type Function func(votes, seats int64) *big.Rat

// Registered quota function identifiers.
const (
	Hare                     = "hare"
	HareRounded              = "hare_rounded"
	Droop                    = "droop"
	HagenbachBischoff        = "hagenbach_bischoff"
	HagenbachBischoffCeil    = "hagenbach_bischoff_ceil"
	HagenbachBischoffRounded = "hagenbach_bischoff_rounded"
	Imperiali                = "imperiali"
)

var registry = map[string]Function{
	Hare:                     hare,
	HareRounded:              hareRounded,
	Droop:                    droop,
	HagenbachBischoff:        hagenbachBischoff,
	HagenbachBischoffCeil:    hagenbachBischoffCeil,
	HagenbachBischoffRounded: hagenbachBischoffRounded,
	Imperiali:                imperiali,
}

// Get resolves a quota function by its registered name.
func Get(name string) (Function, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, ErrUnknownQuota
	}
	return fn, nil
}

// Names returns all registered quota identifiers, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Constant returns a quota function that ignores its inputs and always
// yields the given threshold. Used by systems with a statutory fixed quota.
func Constant(threshold *big.Rat) Function {
	fixed := new(big.Rat).Set(threshold)
	return func(votes, seats int64) *big.Rat {
		return new(big.Rat).Set(fixed)
	}
}

// hare is the unrounded Hare quota votes/seats, the most basic quota.
func hare(votes, seats int64) *big.Rat {
	mustPositiveSeats(seats)
	return big.NewRat(votes, seats)
}

// hareRounded is the Hare quota rounded to the nearest integer, halves up.
func hareRounded(votes, seats int64) *big.Rat {
	mustPositiveSeats(seats)
	return roundHalfUp(big.NewRat(votes, seats))
}

// droop is the smallest integer quota guaranteeing that no more candidates
// can reach it than there are seats: floor(votes/(seats+1)) + 1.
func droop(votes, seats int64) *big.Rat {
	whole := votes / (seats + 1)
	return big.NewRat(whole+1, 1)
}

// hagenbachBischoff is the unrounded votes/(seats+1) quota.
func hagenbachBischoff(votes, seats int64) *big.Rat {
	return big.NewRat(votes, seats+1)
}

// hagenbachBischoffCeil rounds the Hagenbach-Bischoff quota up; identical
// to Droop except when votes divide evenly by seats+1.
func hagenbachBischoffCeil(votes, seats int64) *big.Rat {
	return ceil(big.NewRat(votes, seats+1))
}

// hagenbachBischoffRounded rounds the Hagenbach-Bischoff quota to the
// nearest integer, halves up. Used e.g. in old Slovak regional
// apportionment.
func hagenbachBischoffRounded(votes, seats int64) *big.Rat {
	return roundHalfUp(big.NewRat(votes, seats+1))
}

// imperiali is the votes/(seats+2) quota. It can pass more candidates than
// there are seats; systems using it must handle the overaward.
func imperiali(votes, seats int64) *big.Rat {
	return big.NewRat(votes, seats+2)
}

func mustPositiveSeats(seats int64) {
	if seats <= 0 {
		panic("quota: seats must be positive")
	}
}

// ceil returns the smallest integer ≥ r, as a rational.
func ceil(r *big.Rat) *big.Rat {
	q := new(big.Int).Quo(r.Num(), r.Denom())
	if r.IsInt() {
		return new(big.Rat).SetInt(q)
	}
	return new(big.Rat).SetInt(q.Add(q, big.NewInt(1)))
}

// roundHalfUp rounds to the nearest integer with halves rounding up.
func roundHalfUp(r *big.Rat) *big.Rat {
	shifted := new(big.Rat).Add(r, big.NewRat(1, 2))
	floor := new(big.Int).Quo(shifted.Num(), shifted.Denom())
	return new(big.Rat).SetInt(floor)
}
