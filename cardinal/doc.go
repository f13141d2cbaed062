// Package cardinal evaluates score (cardinal) voting systems: voters grade
// candidates instead of ranking them.
//
// ScoreVoting aggregates grades by a registered function (sum, mean, lower
// median) and selects the highest aggregates. MajorityJudgment selects by
// lower median grade with the Balinski median-removal tiebreak or the
// Bosworth "plus" tiebreak. STAR scores then runs the leaders through a
// pairwise-comparison run-off. AllocatedScore achieves proportional
// representation by repeatedly electing the highest score sum and spending
// a quota of the winner's strongest supporters.
package cardinal
