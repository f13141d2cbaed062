// Package compose assembles complete electoral systems out of the
// elementary evaluators. Its wrappers adapt vote shapes (PreConverted,
// PostConverted), filter candidates before evaluation (Conditioned), run
// an evaluator per constituency or disaggregate a national result to
// constituencies (ByConstituency, ByParty), chain seat-awarding rounds
// with previous gains carried over (MultistageDistributor), grow the house
// to absorb overhang seats (AdjustedSeatCount with the overhang
// calculators), and resolve Tie slots through a dedicated selector
// (TieBreaking wrappers). PartyList turns a party-level seat distribution
// into the concrete candidates seated from each party's list.
//
// Composites never swallow child errors: a tie or failure inside a wrapped
// evaluator propagates unchanged unless the wrapper exists specifically to
// resolve it.
package compose
