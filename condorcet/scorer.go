package condorcet

import (
	"errors"
	"sort"

	"github.com/mkadlec/psephos/core"
)

// ErrUnknownScorer is returned by GetScorer for an identifier outside the
// closed set of registered pairwise win scorers.
var ErrUnknownScorer = errors.New("condorcet: unknown pairwise win scorer")

// Registered pairwise win scorer identifiers.
const (
	WinningVotes       = "winning_votes"
	Margins            = "margins"
	PairwiseOpposition = "pairwise_opposition"
)

// PairScores measures the strength of pairwise wins. Unlike raw counts the
// values may be negative (margins of pairwise losses).
type PairScores map[core.Pair]int64

// Scorer turns pairwise preference counts into pairwise win strengths.
// Minimax and RankedPairs rank defeats by these scores.
type Scorer func(votes core.PairwiseVotes) PairScores

var scorers = map[string]Scorer{
	WinningVotes:       winningVotes,
	Margins:            margins,
	PairwiseOpposition: pairwiseOpposition,
}

// GetScorer resolves a pairwise win scorer by its registered name.
func GetScorer(name string) (Scorer, error) {
	fn, ok := scorers[name]
	if !ok {
		return nil, ErrUnknownScorer
	}
	return fn, nil
}

// ScorerNames returns the registered scorer identifiers, sorted.
func ScorerNames() []string {
	out := make([]string, 0, len(scorers))
	for name := range scorers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// winningVotes scores a pairwise win with its full vote count and anything
// else with zero. The most common defeat strength measure.
func winningVotes(votes core.PairwiseVotes) PairScores {
	out := make(PairScores, len(votes))
	for pair, count := range votes {
		if count > votes.Get(pair.Under, pair.Over) {
			out[pair] = count
		} else {
			out[pair] = 0
		}
	}
	return out
}

// margins scores each pair with the count difference against the reverse
// pair, negative for pairwise losses.
func margins(votes core.PairwiseVotes) PairScores {
	out := make(PairScores, len(votes))
	for pair, count := range votes {
		out[pair] = count - votes.Get(pair.Under, pair.Over)
	}
	return out
}

// pairwiseOpposition passes the preference counts through unchanged,
// regardless of whether the pair is a win.
func pairwiseOpposition(votes core.PairwiseVotes) PairScores {
	out := make(PairScores, len(votes))
	for pair, count := range votes {
		out[pair] = count
	}
	return out
}
