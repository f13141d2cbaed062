package convert

import (
	"sort"

	"github.com/mkadlec/psephos/core"
)

// VoteTotals sums district-keyed simple votes into one national tally.
func VoteTotals(votes core.DistrictVotes) core.Votes {
	out := core.Votes{}
	for _, dvotes := range votes {
		for cand, n := range dvotes {
			out[cand] += n
		}
	}
	return out
}

// ConstituencyTotals counts the total votes cast in each district,
// the usual input of seat apportionment to districts.
func ConstituencyTotals(votes core.DistrictVotes) map[core.District]int64 {
	out := make(map[core.District]int64, len(votes))
	for district, dvotes := range votes {
		out[district] = dvotes.Total()
	}
	return out
}

// MergedSelections compiles district selection results into one national
// list, ordering candidates by how many districts elected them and how
// high they placed there; equal placements order by identifier. All
// partial selections must be fully decided.
func MergedSelections(elected core.DistrictSelection) (core.Selection, error) {
	type standing struct {
		appearances int
		rankSum     int
	}
	standings := map[core.Candidate]*standing{}
	for _, sel := range sortedSelections(elected) {
		cands, err := sel.Candidates()
		if err != nil {
			return nil, err
		}
		maxRank := len(cands) - 1
		for i, cand := range cands {
			st := standings[cand]
			if st == nil {
				st = &standing{}
				standings[cand] = st
			}
			st.appearances++
			st.rankSum += maxRank - i
		}
	}
	order := make([]core.Candidate, 0, len(standings))
	for cand := range standings {
		order = append(order, cand)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := standings[order[i]], standings[order[j]]
		if a.appearances != b.appearances {
			return a.appearances > b.appearances
		}
		if a.rankSum != b.rankSum {
			return a.rankSum > b.rankSum
		}
		return order[i] < order[j]
	})
	return core.SelectionOf(order...), nil
}

func sortedSelections(elected core.DistrictSelection) []core.Selection {
	districts := make([]core.District, 0, len(elected))
	for district := range elected {
		districts = append(districts, district)
	}
	sort.Slice(districts, func(i, j int) bool { return districts[i] < districts[j] })
	out := make([]core.Selection, len(districts))
	for i, district := range districts {
		out[i] = elected[district]
	}
	return out
}

// MergedDistributions aggregates district seat distributions into one,
// summing seat counts and carrying unresolved ties over unchanged.
func MergedDistributions(elected core.DistrictDistribution) core.Distribution {
	out := core.NewDistribution()
	for _, dist := range elected {
		for cand, n := range dist.Seats {
			out.Seats[cand] += n
		}
	}
	// Ties merge in district order so the output is deterministic.
	districts := make([]core.District, 0, len(elected))
	for district := range elected {
		districts = append(districts, district)
	}
	sort.Slice(districts, func(i, j int) bool { return districts[i] < districts[j] })
	for _, district := range districts {
		for _, ts := range elected[district].Ties {
			out.AddTie(ts.Tie, ts.Seats)
		}
	}
	return out
}

// SubsetVotes restricts simple votes to the given candidates, dropping all
// others. Total weight is not conserved.
func SubsetVotes(votes core.Votes, subset []core.Candidate) core.Votes {
	keep := make(map[core.Candidate]struct{}, len(subset))
	for _, cand := range subset {
		keep[cand] = struct{}{}
	}
	out := core.Votes{}
	for cand, n := range votes {
		if _, ok := keep[cand]; ok {
			out[cand] = n
		}
	}
	return out
}

// SubsetRankedVotes removes all candidates outside the subset from every
// ballot ranking, compacting emptied ranks; ballots left with no ranked
// candidate are dropped. Ballot counts are otherwise unchanged.
func SubsetRankedVotes(votes core.RankedVotes, subset []core.Candidate) core.RankedVotes {
	keep := make(map[core.Candidate]struct{}, len(subset))
	for _, cand := range subset {
		keep[cand] = struct{}{}
	}
	out := make(core.RankedVotes, 0, len(votes))
	for _, ballot := range votes {
		ranking := make([]core.Rank, 0, len(ballot.Ranking))
		for _, members := range ballot.Ranking {
			rank := make(core.Rank, 0, len(members))
			for _, cand := range members {
				if _, ok := keep[cand]; ok {
					rank = append(rank, cand)
				}
			}
			if len(rank) > 0 {
				ranking = append(ranking, rank)
			}
		}
		if len(ranking) > 0 {
			out = append(out, core.Ballot{Ranking: ranking, Count: ballot.Count})
		}
	}
	return out
}
