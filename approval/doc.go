// Package approval evaluates approval voting methods that cannot be
// reduced to a plurality count over aggregated ballots. Plain approval
// voting and satisfaction approval voting need no evaluator of their own:
// run convert.ApprovalToSimple through core.WeightedPlurality.
//
// ProportionalApproval (PAV) scores every possible winner set by total
// voter satisfaction and is exponential in the number of candidates;
// SequentialProportionalApproval (SPAV) is its greedy round-by-round
// variant. QuotaSelector elects candidates clearing a vote quota, the
// first-round component of two-round runoff systems.
package approval
