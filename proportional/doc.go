// Package proportional implements party-list seat apportionment: quota
// (largest remainder) methods, highest averages (divisor) methods, fixed
// votes-per-seat awards and biproportional apportionment over a
// district × party vote matrix.
//
// All evaluators are immutable once constructed, evaluate in exact rational
// arithmetic, and honor the evaluation context options PrevGains (seats won
// in earlier rounds, subtracted from the award) and MaxSeats (per-candidate
// caps on the total entitlement). Ties at a decisive cut are emitted as Tie
// entries in the resulting Distribution, never resolved silently.
//
// Quota and divisor functions are resolved by registered name at
// construction time; an unknown name fails the constructor, not the
// evaluation.
package proportional
