// Package convert adapts vote collections and election results between the
// shapes the evaluators consume: approval ballots to simple tallies, ranked
// ballots to first-preference, positional or pairwise counts, individual
// votes to party votes, district-keyed inputs to national totals, and
// selection results to seat distributions.
//
// All converters are pure functions of their inputs; none mutates what it
// receives. Unless a converter documents otherwise, total vote weight is
// conserved exactly (rational arithmetic, no rounding).
//
// Conventions fixed here and relied upon downstream:
//   - Ranked ballots with a shared (tied) rank split or replicate weight as
//     each converter documents; members of a shared rank are never counted
//     as preferring one another.
//   - Candidates left unranked on a ballot rank below every ranked
//     candidate (RankedToCondorcet default) and score zero
//     (RankedToPositional).
package convert
