package cardinal

import (
	"errors"
	"math/big"

	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
)

// ErrNoCutoff is returned by the Balinski tiebreak when every tied
// candidate's scores are exhausted before their medians separate.
var ErrNoCutoff = errors.New("cardinal: cannot determine clear cutoff")

// TieBreak selects the Majority Judgment tie resolution method.
type TieBreak int

const (
	// Balinski removes median grades from the tied candidates until their
	// medians separate. The original method; known to favour candidates
	// with consolidated bases.
	Balinski TieBreak = iota
	// Bosworth elects the tied candidates with the most grades at or
	// above the shared median ("majority judgment plus").
	Bosworth
)

// MajorityJudgment selects the candidates with the highest lower median
// grade. Candidates tied on the median are separated by the configured
// tiebreak.
//
// Winners past a resolved tie are not in order of precedence; the
// evaluator does not rank them beyond the cutoff.
type MajorityJudgment struct {
	// TieBreak resolves candidates with equal medians; Balinski by
	// default.
	TieBreak TieBreak
}

func (m MajorityJudgment) Evaluate(votes core.ScoreVotes, seats int) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	hists := convert.ScoreHistograms(votes)
	order, err := core.NBest(medianGrades(hists), seats)
	if err != nil {
		return nil, err
	}
	if len(order) == 0 || !order[len(order)-1].IsTie() {
		return order, nil
	}
	tiedSeats := 0
	for tiedSeats < len(order) && order[len(order)-1-tiedSeats].IsTie() {
		tiedSeats++
	}
	tiedHists := map[core.Candidate]map[int64]int64{}
	for _, cand := range order[len(order)-1].Tied {
		tiedHists[cand] = copyHist(hists[cand])
	}
	var broken core.Selection
	switch m.TieBreak {
	case Bosworth:
		broken, err = tiebreakBosworth(tiedHists, tiedSeats)
	default:
		broken, err = tiebreakBalinski(tiedHists, tiedSeats)
	}
	if err != nil {
		return nil, err
	}
	return append(order[:len(order)-tiedSeats], broken...), nil
}

// tiebreakBalinski repeatedly strips grades at the median from every
// tied candidate until a strict order of the requested size emerges.
func tiebreakBalinski(hists map[core.Candidate]map[int64]int64, seats int) (core.Selection, error) {
	for anyGradesLeft(hists) {
		medians := medianGrades(hists)
		best, err := core.NBest(medians, seats)
		if err != nil {
			return nil, err
		}
		tieAt := -1
		for i, slot := range best {
			if slot.IsTie() {
				tieAt = i
				break
			}
		}
		if tieAt < 0 {
			return best, nil
		}
		if tieAt > 0 {
			winners := best[:tieAt]
			won := map[core.Candidate]struct{}{}
			for _, slot := range winners {
				won[slot.Candidate] = struct{}{}
			}
			rest := map[core.Candidate]map[int64]int64{}
			for cand, hist := range hists {
				if _, in := won[cand]; !in {
					rest[cand] = hist
				}
			}
			broken, err := tiebreakBalinski(rest, seats-tieAt)
			if err != nil {
				return nil, err
			}
			return append(winners, broken...), nil
		}
		change := closestMedianChange(hists, medians)
		if change == 0 {
			change = 1
		}
		for cand, hist := range hists {
			if median, ok := lowerMedianRat(medians, cand); ok {
				hist[median] -= change
			}
		}
	}
	return nil, ErrNoCutoff
}

// closestMedianChange finds the smallest grade-count removal that can
// move some candidate's median, to strip medians in the fewest rounds.
func closestMedianChange(hists map[core.Candidate]map[int64]int64, medians core.WeightedVotes) int64 {
	var closest int64 = -1
	for cand, hist := range hists {
		median, ok := lowerMedianRat(medians, cand)
		if !ok {
			continue
		}
		var total, lower, upper int64
		for grade, count := range hist {
			total += count
			if grade >= median {
				lower += count
			}
			if grade > median {
				upper += count
			}
		}
		half := big.NewRat(total, 2)
		candClosest := ceilAbsDiff(lower, half)
		if alt := ceilAbsDiff(upper, half); alt < candClosest {
			candClosest = alt
		}
		if closest < 0 || candClosest < closest {
			closest = candClosest
		}
	}
	if closest < 0 {
		return 0
	}
	return closest
}

// tiebreakBosworth elects the tied candidates with the most grades at or
// above the median they share.
func tiebreakBosworth(hists map[core.Candidate]map[int64]int64, seats int) (core.Selection, error) {
	var shared int64
	for _, hist := range hists {
		median, ok := convert.LowerMedian(hist)
		if !ok {
			return nil, ErrNoCutoff
		}
		shared = median
		break
	}
	majorities := core.Votes{}
	for cand, hist := range hists {
		var over int64
		for grade, count := range hist {
			if grade >= shared {
				over += count
			}
		}
		majorities[cand] = over
	}
	return core.NBestCounts(majorities, seats)
}

// medianGrades aggregates histograms to lower median grades, dropping
// candidates whose grades are exhausted.
func medianGrades(hists map[core.Candidate]map[int64]int64) core.WeightedVotes {
	out := core.WeightedVotes{}
	for cand, hist := range hists {
		if median, ok := convert.LowerMedian(hist); ok {
			out[cand] = big.NewRat(median, 1)
		}
	}
	return out
}

func lowerMedianRat(medians core.WeightedVotes, cand core.Candidate) (int64, bool) {
	r, ok := medians[cand]
	if !ok {
		return 0, false
	}
	return r.Num().Int64(), true
}

func anyGradesLeft(hists map[core.Candidate]map[int64]int64) bool {
	for _, hist := range hists {
		var sum int64
		for _, count := range hist {
			sum += count
		}
		if sum > 0 {
			return true
		}
	}
	return false
}

func copyHist(hist map[int64]int64) map[int64]int64 {
	out := make(map[int64]int64, len(hist))
	for grade, count := range hist {
		out[grade] = count
	}
	return out
}

// ceilAbsDiff computes ceil(|n - half|) for an integer n and a rational
// half.
func ceilAbsDiff(n int64, half *big.Rat) int64 {
	diff := new(big.Rat).Sub(big.NewRat(n, 1), half)
	if diff.Sign() < 0 {
		diff.Neg(diff)
	}
	ceil := new(big.Int).Add(diff.Num(), new(big.Int).Sub(diff.Denom(), big.NewInt(1)))
	return new(big.Int).Quo(ceil, diff.Denom()).Int64()
}
