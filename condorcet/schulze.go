package condorcet

import (
	"github.com/mkadlec/psephos/core"
)

// Schulze ranks candidates by beatpaths: sequences of pairwise wins
// leading from one candidate to another, valued by their weakest link.
// Also known as Schwartz sequential dropping. Implements Selector.
type Schulze struct{}

// Evaluate selects the seats candidates with the most beatpath wins.
func (Schulze) Evaluate(votes core.PairwiseVotes, seats int) (core.Selection, error) {
	paths := WidestPaths(votes)
	scores := map[core.Candidate]int64{}
	for _, pair := range PairwiseWins(paths, false) {
		scores[pair.Over]++
		if _, ok := scores[pair.Under]; !ok {
			scores[pair.Under] = 0
		}
	}
	return nBestInt(scores, seats)
}

// WidestPaths returns the strength of the widest beatpath between every
// candidate pair: the maximum over paths of the minimum pairwise win count
// along the path. Direct entries exist only for pairwise wins.
func WidestPaths(votes core.PairwiseVotes) core.PairwiseVotes {
	paths := core.PairwiseVotes{}
	for pair, count := range votes {
		if votes.Get(pair.Under, pair.Over) < count {
			paths[pair] = count
		}
	}
	cands := votes.Candidates()
	for _, via := range cands {
		for _, from := range cands {
			if from == via {
				continue
			}
			for _, to := range cands {
				if to == via || to == from {
					continue
				}
				through := paths.Get(from, via)
				if paths.Get(via, to) < through {
					through = paths.Get(via, to)
				}
				if paths.Get(from, to) < through {
					paths[core.Pair{Over: from, Under: to}] = through
				}
			}
		}
	}
	return paths
}
