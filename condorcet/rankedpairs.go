package condorcet

import (
	"sort"

	"github.com/mkadlec/psephos/core"
)

// RankedPairs is Tideman's method: pairwise wins are locked into a
// ranking in descending order of strength, skipping any pair that would
// contradict the ranking established so far (close a cycle). Win strength
// is measured by the configured scorer. Implements Selector.
type RankedPairs struct {
	scorer Scorer
}

// NewRankedPairs builds the evaluator, resolving the scorer by registered
// name.
func NewRankedPairs(scorerName string) (*RankedPairs, error) {
	fn, err := GetScorer(scorerName)
	if err != nil {
		return nil, err
	}
	return &RankedPairs{scorer: fn}, nil
}

// RankedPairsOf builds the evaluator around an explicit scorer.
func RankedPairsOf(fn Scorer) *RankedPairs {
	return &RankedPairs{scorer: fn}
}

// Evaluate selects the first seats candidates of the locked ranking.
// Candidates the locked pairs leave mutually unordered at the tail occupy
// the remaining slots as a Tie; an ambiguous ranking head stops the
// evaluation with a TieError.
func (r *RankedPairs) Evaluate(votes core.PairwiseVotes, seats int) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	scored := r.scorer(votes)
	pairs := make([]core.Pair, 0, len(votes))
	for pair := range votes {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if scored[pairs[i]] != scored[pairs[j]] {
			return scored[pairs[i]] > scored[pairs[j]]
		}
		if votes[pairs[i]] != votes[pairs[j]] {
			return votes[pairs[i]] > votes[pairs[j]]
		}
		if pairs[i].Over != pairs[j].Over {
			return pairs[i].Over < pairs[j].Over
		}
		return pairs[i].Under < pairs[j].Under
	})
	locked := lockPairs(pairs)
	ranking, err := buildRanking(locked)
	if err != nil {
		return nil, err
	}
	if len(ranking) > seats {
		ranking = ranking[:seats]
	}
	return ranking, nil
}

// lockPairs accepts pairs in the given priority order, dropping each pair
// that already has a locked path from its loser to its winner.
func lockPairs(pairs []core.Pair) []core.Pair {
	var locked []core.Pair
	for _, pair := range pairs {
		if !hasPath(locked, pair.Under, pair.Over) {
			locked = append(locked, pair)
		}
	}
	return locked
}

// hasPath reports whether the locked pairs connect source to sink.
func hasPath(pairs []core.Pair, source, sink core.Candidate) bool {
	visited := map[core.Candidate]struct{}{source: {}}
	for {
		grown := false
		for _, pair := range pairs {
			if _, from := visited[pair.Over]; !from {
				continue
			}
			if _, seen := visited[pair.Under]; seen {
				continue
			}
			if pair.Under == sink {
				return true
			}
			visited[pair.Under] = struct{}{}
			grown = true
		}
		if !grown {
			return false
		}
	}
}

// buildRanking peels the unique source off the locked graph repeatedly.
// The locked pairs are acyclic, so a source always exists; more than one
// means the method cannot order them and the head is reported as a
// TieError. Sinks left unordered at the end share a trailing Tie.
func buildRanking(locked []core.Pair) (core.Selection, error) {
	edges := append([]core.Pair(nil), locked...)
	inRanking := map[core.Candidate]struct{}{}
	var ranking core.Selection
	for len(edges) > 0 {
		winners := map[core.Candidate]struct{}{}
		losers := map[core.Candidate]struct{}{}
		for _, pair := range edges {
			winners[pair.Over] = struct{}{}
			losers[pair.Under] = struct{}{}
		}
		var sources []core.Candidate
		for cand := range winners {
			if _, beaten := losers[cand]; !beaten {
				sources = append(sources, cand)
			}
		}
		if len(sources) != 1 {
			return nil, core.NewTieError(core.NewTie(sources...), "ranked pairs ordering")
		}
		source := sources[0]
		ranking = append(ranking, core.Decided(source))
		inRanking[source] = struct{}{}
		kept := edges[:0]
		for _, pair := range edges {
			if pair.Over != source {
				kept = append(kept, pair)
			}
		}
		edges = kept
	}
	var rest []core.Candidate
	for _, pair := range locked {
		for _, cand := range []core.Candidate{pair.Over, pair.Under} {
			if _, done := inRanking[cand]; !done {
				rest = append(rest, cand)
				inRanking[cand] = struct{}{}
			}
		}
	}
	switch len(rest) {
	case 0:
	case 1:
		ranking = append(ranking, core.Decided(rest[0]))
	default:
		tie := core.NewTie(rest...)
		for range rest {
			ranking = append(ranking, core.Unresolved(tie))
		}
	}
	return ranking, nil
}
