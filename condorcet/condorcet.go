package condorcet

import (
	"math/big"
	"sort"

	"github.com/mkadlec/psephos/core"
)

// Selector selects candidates from pairwise preference counts.
//
// Contracts:
//   - Evaluate never mutates the input votes.
//   - The selection holds at most seats slots, winner first; a slot is a
//     Tie where the method cannot order the candidates within it.
//   - A Condorcet winner present in the input always takes the first slot.
type Selector interface {
	Evaluate(votes core.PairwiseVotes, seats int) (core.Selection, error)
}

// PairwiseWins returns the pairs whose first candidate is preferred to the
// second by more voters than the reverse, ordered by candidate identifiers.
// With includeTies, exactly balanced pairs are returned in both directions.
func PairwiseWins(votes core.PairwiseVotes, includeTies bool) []core.Pair {
	wins := make([]core.Pair, 0, len(votes)/2)
	for pair, count := range votes {
		anti := votes.Get(pair.Under, pair.Over)
		if anti < count || (includeTies && anti == count) {
			wins = append(wins, pair)
		}
	}
	sort.Slice(wins, func(i, j int) bool {
		if wins[i].Over != wins[j].Over {
			return wins[i].Over < wins[j].Over
		}
		return wins[i].Under < wins[j].Under
	})
	return wins
}

// BeatCounts returns, for each candidate with at least one pairwise win,
// the number of candidates they beat.
func BeatCounts(votes core.PairwiseVotes) map[core.Candidate]int {
	out := map[core.Candidate]int{}
	for _, pair := range PairwiseWins(votes, false) {
		out[pair.Over]++
	}
	return out
}

// CondorcetWinner returns the candidate pairwise beating every other
// candidate, or an empty selection when no such candidate exists.
func CondorcetWinner(votes core.PairwiseVotes) core.Selection {
	required := len(votes.Candidates()) - 1
	if required < 1 {
		return nil
	}
	for cand, beats := range BeatCounts(votes) {
		if beats == required {
			return core.SelectionOf(cand)
		}
	}
	return nil
}

// SmithSet returns the smallest non-empty candidate set whose members
// pairwise beat everyone outside it, ordered by Copeland score.
func SmithSet(votes core.PairwiseVotes) core.Selection {
	return dominantSet(votes, true)
}

// SchwartzSet returns the union of the smallest candidate sets whose
// members are pairwise unbeaten from outside, ordered by Copeland score.
// Narrower than the Smith set when pairwise ties are present.
func SchwartzSet(votes core.PairwiseVotes) core.Selection {
	return dominantSet(votes, false)
}

// dominantSet finds the shortest prefix of the Copeland ordering that is
// closed under the pairwise win relation. Counting balanced pairs as wins
// in both directions yields the Smith set, excluding them the Schwartz
// set.
func dominantSet(votes core.PairwiseVotes, ties bool) core.Selection {
	wins := PairwiseWins(votes, ties)
	ordering := copelandOrdering(copelandScores(wins))
	if len(ordering) == 0 {
		return nil
	}
	index := make(map[core.Candidate]int, len(ordering))
	for i, cand := range ordering {
		index[cand] = i
	}
	end := 1
	for changed := true; changed; {
		changed = false
		for _, pair := range wins {
			if index[pair.Over] >= end && index[pair.Under] < end {
				end = index[pair.Over] + 1
				changed = true
			}
		}
	}
	return core.SelectionOf(ordering[:end]...)
}

// copelandScores counts pairwise wins minus losses over the given win
// pairs; only candidates appearing in them get a score.
func copelandScores(wins []core.Pair) map[core.Candidate]int64 {
	scores := map[core.Candidate]int64{}
	for _, pair := range wins {
		scores[pair.Over]++
		scores[pair.Under]--
	}
	return scores
}

// copelandOrdering orders the scored candidates by score descending, equal
// scores by identifier.
func copelandOrdering(scores map[core.Candidate]int64) []core.Candidate {
	out := make([]core.Candidate, 0, len(scores))
	for cand := range scores {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool {
		if scores[out[i]] != scores[out[j]] {
			return scores[out[i]] > scores[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// nBestInt ranks integer-scored candidates through the exact selection
// core.
func nBestInt(scores map[core.Candidate]int64, seats int) (core.Selection, error) {
	weighted := make(core.WeightedVotes, len(scores))
	for cand, score := range scores {
		weighted[cand] = big.NewRat(score, 1)
	}
	return core.NBest(weighted, seats)
}
