// Package core defines the value types and evaluation capabilities shared by
// every voting algorithm in psephos.
//
// The canonical currency between algorithms is a vote mapping: candidates
// (opaque, comparable identifiers) mapped to non-negative counts. Richer vote
// shapes build on the same idea:
//
//   - Votes: simple votes, candidate to count.
//   - WeightedVotes: candidate to exact rational weight (big.Rat), used where
//     fractional tallies arise (score aggregates, transfer surpluses).
//   - RankedVotes: weighted ballots carrying an ordered ranking; a single
//     rank may hold several candidates (shared rank).
//   - DistrictVotes: constituency identifier to simple votes, for systems
//     evaluated per constituency.
//
// Results come in two forms: a Selection (ordered list of elected slots) and
// a Distribution (per-candidate seat counts). Both can carry Tie markers: a Tie
// is a sorted set of candidates that are exactly equal under the decisive
// criterion at a cut point. Evaluators never resolve ties silently; a Tie is
// surfaced in the result and must be resolved by an explicit tie-breaking
// policy (see the compose package) or by the caller.
//
// All values are immutable per evaluation: evaluators are configuration
// objects constructed once and reused, with no state between calls. Every
// exported ordering in this package is deterministic: equal inputs always
// produce identical outputs, including the ordering of tied candidates.
package core
