// Package stv implements transferable-vote selection over ranked ballots:
// candidates reaching the quota are elected and their surplus transferred
// to next preferences, otherwise the weakest candidate is eliminated and
// their ballots transferred whole. The single-seat case is instant-runoff
// voting.
//
// Two transfer strategies are provided, resolvable by registered name:
//
//   - "gregory": the Weighted Inclusive Gregory Method. Surpluses are
//     transferred fractionally (exact rationals), shared ranks split
//     weight equally.
//   - "hare": whole-ballot transfer. The ballots making up the quota are
//     discarded by seeded pseudo-random selection, so results are
//     deterministic for a fixed seed; shared-rank remainders are assigned
//     the same way.
//
// Ballots with no further usable preference are exhausted and leave the
// count. A tie among candidates to eliminate (or among quota-crossers for
// the last seats) cannot be transferred past and stops the evaluation with
// a TieError carrying the tied set.
//
// PreferenceAddition covers the related Bucklin and Oklahoma systems,
// where lower preferences are gradually added to the tallies instead of
// being transferred.
package stv
