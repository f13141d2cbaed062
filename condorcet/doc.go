// Package condorcet implements selection methods over pairwise preference
// counts: for every ordered candidate pair, how many voters prefer the
// first candidate to the second. Use convert.RankedToCondorcet to produce
// the counts from ranked ballots.
//
// Every method here selects the Condorcet winner (the candidate pairwise
// beating all others) whenever one exists; the methods differ in how they
// order candidates when the pairwise relation contains cycles.
// CondorcetWinner, SmithSet and SchwartzSet report the respective sets
// directly. Copeland, Schulze, Minimax, RankedPairs and KemenyYoung
// produce selections of a requested size and emit Tie slots where the
// method cannot discriminate. Minimax and RankedPairs measure pairwise win
// strength through a pluggable scorer, resolvable by registered name via
// GetScorer.
//
// KemenyYoung searches candidate orderings and is exponential in the
// number of candidates; branch pruning keeps it usable for the small
// candidate sets it is meant for.
package condorcet
