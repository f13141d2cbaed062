package divisor

import (
	"errors"
	"math/big"
	"sort"
)

// ErrUnknownDivisor is returned by Get for an identifier outside the
// closed set of registered divisor functions.
var ErrUnknownDivisor = errors.New("divisor: unknown divisor function")

// Function returns the divisor for a contestant holding order seats.
//
// Contracts:
//   - order ≥ 0.
//   - The result is non-negative; a zero divisor (huntington_hill at
//     order 0) excludes the contestant from the award round until they
//     hold a seat from previous gains.
type Function func(order int64) *big.Rat

// Registered divisor function identifiers.
const (
	DHondt         = "d_hondt"
	SainteLague    = "sainte_lague"
	Imperiali      = "imperiali"
	HuntingtonHill = "huntington_hill"
	Danish         = "danish"
	Macau          = "macau"
)

var registry = map[string]Function{
	DHondt:         dHondt,
	SainteLague:    sainteLague,
	Imperiali:      imperiali,
	HuntingtonHill: huntingtonHill,
	Danish:         danish,
	Macau:          macau,
}

// Get resolves a divisor function by its registered name.
func Get(name string) (Function, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, ErrUnknownDivisor
	}
	return fn, nil
}

// Names returns all registered divisor identifiers, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ModifiedFirstCoef wraps a divisor function so that order 0 yields the
// given coefficient instead, raising the threshold for contestants without
// a seat. Subsequent orders are delegated unchanged.
func ModifiedFirstCoef(fn Function, firstCoef *big.Rat) Function {
	first := new(big.Rat).Set(firstCoef)
	return func(order int64) *big.Rat {
		if order == 0 {
			return new(big.Rat).Set(first)
		}
		return fn(order)
	}
}

// dHondt forms the sequence 1, 2, 3, ... Slightly favors larger parties.
func dHondt(order int64) *big.Rat {
	return big.NewRat(order+1, 1)
}

// sainteLague forms the sequence 1, 3, 5, ... Favors mid-sized parties.
func sainteLague(order int64) *big.Rat {
	return big.NewRat(2*order+1, 1)
}

// imperiali forms the sequence 1, 1.5, 2, ... Not to be confused with the
// Imperiali quota. Greatly favors large parties.
func imperiali(order int64) *big.Rat {
	return new(big.Rat).Add(big.NewRat(order, 2), big.NewRat(1, 1))
}

// hhPrec is the binary precision used to approximate the irrational
// Huntington-Hill divisors.
const hhPrec = 128

// huntingtonHill yields sqrt(order*(order+1)); zero at order 0, so the
// first seat must be guaranteed through previous gains.
func huntingtonHill(order int64) *big.Rat {
	if order == 0 {
		return new(big.Rat)
	}
	square := new(big.Float).SetPrec(hhPrec).SetInt64(order * (order + 1))
	root := new(big.Float).SetPrec(hhPrec).Sqrt(square)
	out, _ := root.Rat(nil)
	return out
}

// danish forms the sequence 1, 4, 7, ... Extremely favors smaller parties.
func danish(order int64) *big.Rat {
	return big.NewRat(3*order+1, 1)
}

// macau forms the exponential sequence 1, 2, 4, 8, ... (modified D'Hondt),
// favoring smaller parties.
func macau(order int64) *big.Rat {
	out := new(big.Int).Lsh(big.NewInt(1), uint(order))
	return new(big.Rat).SetInt(out)
}
