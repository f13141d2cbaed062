// Package divisor provides the divisor sequences used by highest-averages
// proportional systems and biproportional apportionment.
//
// A divisor function maps an order number (the seats a contestant already
// holds) to the divisor applied to their vote count for the next award
// round; the contestant with the largest quotient wins the next seat.
// Divisor functions are deterministic and referentially transparent: the
// same order always yields the same divisor.
//
// Values are exact rationals except huntington_hill, whose sqrt(n(n+1))
// divisors are irrational and represented by a 128-bit-precision rational
// approximation (the same compromise the reference implementations make
// with decimal arithmetic).
//
// All supported functions are reachable by a closed string identifier
// through Get; unknown identifiers fail with ErrUnknownDivisor at
// evaluator construction. ModifiedFirstCoef wraps any divisor with an
// artificial order-0 coefficient, as used e.g. in Czech regional elections
// (Koudelka coefficient) and in Nepal, Norway and Sweden.
package divisor
