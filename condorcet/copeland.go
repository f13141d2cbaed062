package condorcet

import (
	"github.com/mkadlec/psephos/core"
)

// Copeland ranks candidates by pairwise wins minus pairwise losses. The
// score ties often; SecondOrder breaks such ties by preferring candidates
// whose beaten opponents carry the higher total Copeland score.
// Implements Selector.
type Copeland struct {
	SecondOrder bool
}

// NewCopeland returns the evaluator with second-order tiebreaking on.
func NewCopeland() Copeland {
	return Copeland{SecondOrder: true}
}

// Evaluate selects the seats best candidates by Copeland score. Ties
// surviving the optional second-order pass stay in the result as Tie
// slots.
func (c Copeland) Evaluate(votes core.PairwiseVotes, seats int) (core.Selection, error) {
	wins := PairwiseWins(votes, false)
	scores := copelandScores(wins)
	sel, err := nBestInt(scores, seats)
	if err != nil {
		return nil, err
	}
	if c.SecondOrder && sel.HasTie() {
		return c.breakSecondOrder(sel, scores, wins)
	}
	return sel, nil
}

// breakSecondOrder re-ranks the tied candidates by the summed Copeland
// scores of the opponents they beat; decided slots pass through.
func (c Copeland) breakSecondOrder(sel core.Selection, scores map[core.Candidate]int64, wins []core.Pair) (core.Selection, error) {
	var decided core.Selection
	tied := map[core.Candidate]struct{}{}
	for _, slot := range sel {
		if slot.IsTie() {
			for _, cand := range slot.Tied {
				tied[cand] = struct{}{}
			}
		} else {
			decided = append(decided, slot)
		}
	}
	second := make(map[core.Candidate]int64, len(tied))
	for cand := range tied {
		second[cand] = 0
	}
	for _, pair := range wins {
		if _, ok := tied[pair.Over]; ok {
			second[pair.Over] += scores[pair.Under]
		}
	}
	broken, err := nBestInt(second, len(sel)-len(decided))
	if err != nil {
		return nil, err
	}
	return append(decided, broken...), nil
}
