package convert

import (
	"math/big"
	"sort"

	"github.com/mkadlec/psephos/core"
)

// ScoreTotals sums each candidate's grades over all ballots, weighted by
// ballot count. The aggregation behind cumulative and summed range voting.
func ScoreTotals(votes core.ScoreVotes) core.WeightedVotes {
	out := core.WeightedVotes{}
	for _, ballot := range votes {
		for cand, score := range ballot.Scores {
			addWeight(out, cand, big.NewRat(score*ballot.Count, 1))
		}
	}
	return out
}

// MeanScores averages each candidate's grades over the ballots that scored
// the candidate; unscored ballots do not count against the candidate.
func MeanScores(votes core.ScoreVotes) core.WeightedVotes {
	sums := core.WeightedVotes{}
	counts := map[core.Candidate]int64{}
	for _, ballot := range votes {
		for cand, score := range ballot.Scores {
			addWeight(sums, cand, big.NewRat(score*ballot.Count, 1))
			counts[cand] += ballot.Count
		}
	}
	for cand, sum := range sums {
		sum.Quo(sum, big.NewRat(counts[cand], 1))
	}
	return sums
}

// MedianLowScores takes each candidate's lower median grade over the
// ballots that scored the candidate. The aggregation behind Majority
// Judgment.
func MedianLowScores(votes core.ScoreVotes) core.WeightedVotes {
	out := core.WeightedVotes{}
	for cand, hist := range ScoreHistograms(votes) {
		if median, ok := LowerMedian(hist); ok {
			out[cand] = big.NewRat(median, 1)
		}
	}
	return out
}

// ScoreHistograms tallies, per candidate, how many ballots assigned each
// grade.
func ScoreHistograms(votes core.ScoreVotes) map[core.Candidate]map[int64]int64 {
	out := map[core.Candidate]map[int64]int64{}
	for _, ballot := range votes {
		for cand, score := range ballot.Scores {
			if out[cand] == nil {
				out[cand] = map[int64]int64{}
			}
			out[cand][score] += ballot.Count
		}
	}
	return out
}

// LowerMedian returns the lower median grade of a histogram; entries with
// non-positive counts are disregarded. ok is false when no grades remain.
func LowerMedian(hist map[int64]int64) (median int64, ok bool) {
	grades := make([]int64, 0, len(hist))
	var total int64
	for grade, count := range hist {
		if count > 0 {
			grades = append(grades, grade)
			total += count
		}
	}
	if total == 0 {
		return 0, false
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i] < grades[j] })
	at := (total - 1) / 2
	for _, grade := range grades {
		at -= hist[grade]
		if at < 0 {
			return grade, true
		}
	}
	return grades[len(grades)-1], true
}

// ScoreToRanked orders each ballot's candidates by descending grade; equal
// grades share a rank, unscored candidates stay unranked.
func ScoreToRanked(votes core.ScoreVotes) core.RankedVotes {
	out := make(core.RankedVotes, 0, len(votes))
	for _, ballot := range votes {
		byGrade := map[int64][]core.Candidate{}
		grades := make([]int64, 0, len(ballot.Scores))
		for cand, score := range ballot.Scores {
			if len(byGrade[score]) == 0 {
				grades = append(grades, score)
			}
			byGrade[score] = append(byGrade[score], cand)
		}
		sort.Slice(grades, func(i, j int) bool { return grades[i] > grades[j] })
		ranking := make([]core.Rank, len(grades))
		for i, grade := range grades {
			rank := byGrade[grade]
			sort.Slice(rank, func(a, b int) bool { return rank[a] < rank[b] })
			ranking[i] = rank
		}
		out = append(out, core.Ballot{Ranking: ranking, Count: ballot.Count})
	}
	return out
}
