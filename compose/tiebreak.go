package compose

import (
	"strings"

	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
)

// TieBreakingSelector resolves the ties in the main selector's result by
// running a breaker selector on the tied candidates only. Each group of
// slots tied over the same candidates is handed to the breaker at once, so
// the breaker's internal ordering fills the slots. Implements
// core.Selector.
type TieBreakingSelector struct {
	Main    core.Selector
	Breaker core.Selector
}

func (t TieBreakingSelector) Evaluate(votes core.Votes, seats int) (core.Selection, error) {
	elected, err := t.Main.Evaluate(votes, seats)
	if err != nil {
		return nil, err
	}
	broken := map[string][]core.Candidate{}
	for _, group := range tieGroups(elected) {
		resolved, err := t.breakTie(votes, group.tie, group.slots)
		if err != nil {
			return nil, err
		}
		broken[tieKey(group.tie)] = resolved
	}
	out := make(core.Selection, len(elected))
	for i, slot := range elected {
		if !slot.IsTie() {
			out[i] = slot
			continue
		}
		key := tieKey(slot.Tied)
		out[i] = core.Decided(broken[key][0])
		broken[key] = broken[key][1:]
	}
	return out, nil
}

func (t TieBreakingSelector) breakTie(votes core.Votes, tie core.Tie, slots int) ([]core.Candidate, error) {
	resolved, err := t.Breaker.Evaluate(convert.SubsetVotes(votes, tie), slots)
	if err != nil {
		return nil, err
	}
	out := make([]core.Candidate, 0, slots)
	for _, slot := range resolved {
		if slot.IsTie() {
			return nil, core.NewTieError(slot.Tied, "tie breaking")
		}
		out = append(out, slot.Candidate)
	}
	if len(out) < slots {
		return nil, core.NewTieError(tie, "tie breaking")
	}
	return out, nil
}

// tieKey identifies a tie by its members; ties are sorted, so equal sets
// share a key.
func tieKey(t core.Tie) string {
	parts := make([]string, len(t))
	for i, cand := range t {
		parts[i] = string(cand)
	}
	return strings.Join(parts, "\x00")
}

type tieGroup struct {
	tie   core.Tie
	slots int
}

// tieGroups collects the distinct ties in a selection with the number of
// slots each occupies, in order of first appearance.
func tieGroups(elected core.Selection) []tieGroup {
	index := map[string]int{}
	var groups []tieGroup
	for _, slot := range elected {
		if !slot.IsTie() {
			continue
		}
		key := tieKey(slot.Tied)
		if at, seen := index[key]; seen {
			groups[at].slots++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, tieGroup{tie: slot.Tied, slots: 1})
	}
	return groups
}

// TieBreakingDistributor resolves tied seats in the main distributor's
// result by running a breaker selector on each tied set. Implements
// core.Distributor.
type TieBreakingDistributor struct {
	Main    core.Distributor
	Breaker core.Selector
}

func (t TieBreakingDistributor) Evaluate(votes core.Votes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	result, err := t.Main.Evaluate(votes, seats, opts...)
	if err != nil {
		return core.Distribution{}, err
	}
	if !result.HasTie() {
		return result, nil
	}
	out := core.DistributionOf(result.Seats)
	breaker := TieBreakingSelector{Breaker: t.Breaker}
	for _, tied := range result.Ties {
		resolved, err := breaker.breakTie(votes, tied.Tie, tied.Seats)
		if err != nil {
			return core.Distribution{}, err
		}
		for _, cand := range resolved {
			out.Seats[cand]++
		}
	}
	return out, nil
}
