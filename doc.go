// Package psephos evaluates election results: seat apportionment,
// proportional representation, ranked-choice and pairwise-comparison
// methods, built on exact rational arithmetic.
//
// What is psephos?
//
//	A library that turns vote counts into seats and winners:
//		- Core primitives: vote shapes, selections, distributions, ties
//		- Quotas & divisors: Hare, Droop, D'Hondt, Sainte-Lague and friends
//		- Proportional: largest remainder, highest averages, biproportional
//		- Ranked: transferable vote (STV) with Gregory and Hare transfers
//		- Pairwise: Copeland, Schulze, Minimax, Ranked Pairs, Kemeny-Young
//		- Approval & score: PAV, SPAV, Majority Judgment, STAR, Allocated
//		  Score
//		- Composition: thresholds, open lists, constituencies, multi-stage
//		  (MMP-style) systems assembled from small evaluators
//
// Why choose psephos?
//
//   - Exact arithmetic: quotas and averages use math/big rationals, so no
//     seat ever moves because of a floating-point rounding
//   - Deterministic: equal inputs give equal outputs; genuine ties are
//     reported explicitly, never broken silently
//   - Composable: every evaluator is a small value implementing one of a
//     handful of interfaces in core; real systems are built by nesting them
//
// The packages:
//
//	core/         vote & result types, evaluator interfaces, plurality
//	quota/        quota functions (Hare, Droop, Imperiali, ...)
//	divisor/      divisor sequences (D'Hondt, Sainte-Lague, ...)
//	proportional/ largest remainder, highest averages, biproportional
//	stv/          single transferable vote
//	condorcet/    pairwise-comparison methods
//	approval/     proportional approval methods and quota selection
//	cardinal/     score voting, Majority Judgment, STAR, Allocated Score
//	sortition/    selection by lot and fixed-order tiebreakers
//	threshold/    electoral threshold eliminators
//	openlist/     open party list candidate selection
//	convert/      vote & result format conversions
//	compose/      composite evaluators wiring it all together
//
// A minimal example, D'Hondt over party votes:
//
//	ha, _ := proportional.NewHighestAverages(divisor.DHondt)
//	result, _ := ha.Evaluate(core.Votes{"A": 340, "B": 280, "C": 160}, 10)
//
// Start with core for the data model, then pick the evaluator matching
// your electoral system, or assemble one in compose.
package psephos
