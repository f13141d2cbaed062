// Package quota provides the quota functions used by largest-remainder
// proportional systems, transferable-vote counting and open-list evaluation.
//
// A quota function maps (total valid votes, seats to fill) to the vote
// threshold required to secure a seat, as an exact rational (big.Rat),
// never a binary float, since an off-by-one at the threshold changes legal
// outcomes. Unrounded variants (hare, hagenbach_bischoff, imperiali) return
// the exact fraction; rounded variants return integer-valued rationals.
//
// All supported functions are reachable by a closed string identifier
// through Get; unknown identifiers fail with ErrUnknownQuota so that a
// misconfigured evaluator fails at construction time, never mid-count.
package quota
