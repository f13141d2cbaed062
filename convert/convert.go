package convert

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/mkadlec/psephos/core"
)

// ErrUnmappedCandidate is returned by party converters running with
// UnmappedError when a candidate has no party mapping.
var ErrUnmappedCandidate = errors.New("convert: candidate has no party mapping")

// ApprovalBallot is an approval vote shape: an unordered candidate set
// approved by Count voters.
type ApprovalBallot struct {
	Candidates []core.Candidate
	Count      int64
}

// ApprovalVotes is a collection of approval ballots.
type ApprovalVotes []ApprovalBallot

// ApprovalToSimple aggregates approval ballots to per-candidate weights.
// With split false each approved candidate receives the ballot's full
// weight (ordinary approval voting); with split true the weight is divided
// equally among the approved candidates (satisfaction approval voting),
// conserving total weight.
func ApprovalToSimple(votes ApprovalVotes, split bool) core.WeightedVotes {
	out := core.WeightedVotes{}
	for _, ballot := range votes {
		if len(ballot.Candidates) == 0 {
			continue
		}
		weight := big.NewRat(ballot.Count, 1)
		if split {
			weight.Quo(weight, big.NewRat(int64(len(ballot.Candidates)), 1))
		}
		for _, cand := range ballot.Candidates {
			addWeight(out, cand, weight)
		}
	}
	return out
}

// RankedToSimple takes each ballot's first preference, yielding the tallies
// a plurality evaluation of the ranked votes would use. A shared first rank
// splits the ballot weight equally among its members.
func RankedToSimple(votes core.RankedVotes) core.WeightedVotes {
	out := core.WeightedVotes{}
	for _, ballot := range votes {
		if len(ballot.Ranking) == 0 || len(ballot.Ranking[0]) == 0 {
			continue
		}
		first := ballot.Ranking[0]
		weight := big.NewRat(ballot.Count, int64(len(first)))
		for _, cand := range first {
			addWeight(out, cand, weight)
		}
	}
	return out
}

// RankedToPositional sums per-rank scores over all ballots (Borda count
// family). Every member of a shared rank receives that rank's full score;
// unranked candidates score zero.
func RankedToPositional(votes core.RankedVotes, scorer RankScorer) core.WeightedVotes {
	nCands := len(votes.Candidates())
	out := core.WeightedVotes{}
	for _, cand := range votes.Candidates() {
		out[cand] = new(big.Rat)
	}
	for _, ballot := range votes {
		scores := scorer.Scores(len(ballot.Ranking), nCands)
		count := big.NewRat(ballot.Count, 1)
		for rank, members := range ballot.Ranking {
			score := new(big.Rat).Mul(scores[rank], count)
			for _, cand := range members {
				addWeight(out, cand, score)
			}
		}
	}
	return out
}

// RankedToCondorcet counts pairwise preferences: for each ballot ranking
// candidate a above candidate b, the (a over b) count grows by the ballot
// weight. Members of a shared rank are mutually unpreferred. With
// unrankedAtBottom true (the usual convention), every ranked candidate is
// counted over every unranked one; unranked candidates are mutually
// unpreferred.
func RankedToCondorcet(votes core.RankedVotes, unrankedAtBottom bool) core.PairwiseVotes {
	all := votes.Candidates()
	out := core.PairwiseVotes{}
	for _, ballot := range votes {
		ranked := map[core.Candidate]struct{}{}
		for _, members := range ballot.Ranking {
			for _, cand := range members {
				ranked[cand] = struct{}{}
			}
		}
		for i, upper := range ballot.Ranking {
			for _, upperCand := range upper {
				for _, lower := range ballot.Ranking[i+1:] {
					for _, lowerCand := range lower {
						out[core.Pair{Over: upperCand, Under: lowerCand}] += ballot.Count
					}
				}
				if unrankedAtBottom {
					for _, cand := range all {
						if _, ok := ranked[cand]; !ok {
							out[core.Pair{Over: upperCand, Under: cand}] += ballot.Count
						}
					}
				}
			}
		}
	}
	return out
}

// InvertedVotes negates vote counts, representing systems where voters
// vote against candidates.
func InvertedVotes(votes core.Votes) core.Votes {
	out := make(core.Votes, len(votes))
	for cand, n := range votes {
		out[cand] = -n
	}
	return out
}

// UnmappedPolicy selects what party converters do with candidates absent
// from the mapping.
type UnmappedPolicy int

const (
	// UnmappedKeep passes the candidate through under their own
	// identifier (independents keep their seat/votes).
	UnmappedKeep UnmappedPolicy = iota
	// UnmappedDrop omits the candidate from the result.
	UnmappedDrop
	// UnmappedError fails the conversion with ErrUnmappedCandidate.
	UnmappedError
)

// PartyMapping maps individual candidates to the party they stood for.
type PartyMapping map[core.Candidate]core.Candidate

func (m PartyMapping) resolve(cand core.Candidate, policy UnmappedPolicy) (core.Candidate, bool, error) {
	if party, ok := m[cand]; ok {
		return party, true, nil
	}
	switch policy {
	case UnmappedKeep:
		return cand, true, nil
	case UnmappedDrop:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("%w: %s", ErrUnmappedCandidate, cand)
	}
}

// IndividualToParty aggregates votes for individual candidates to votes
// for their parties (panachage systems).
func IndividualToParty(votes core.Votes, mapping PartyMapping, policy UnmappedPolicy) (core.Votes, error) {
	out := core.Votes{}
	for cand, n := range votes {
		party, keep, err := mapping.resolve(cand, policy)
		if err != nil {
			return nil, err
		}
		if keep {
			out[party] += n
		}
	}
	return out, nil
}

// IndividualToPartyResult counts elected individuals per party, e.g. to
// establish the constituency-round party totals of a mixed-member system.
// The selection must be fully decided.
func IndividualToPartyResult(elected core.Selection, mapping PartyMapping, policy UnmappedPolicy) (core.Votes, error) {
	cands, err := elected.Candidates()
	if err != nil {
		return nil, err
	}
	out := core.Votes{}
	for _, cand := range cands {
		party, keep, err := mapping.resolve(cand, policy)
		if err != nil {
			return nil, err
		}
		if keep {
			out[party]++
		}
	}
	return out, nil
}

// GroupVotesByParty groups individual vote counts under their parties,
// retaining the per-candidate breakdown for open-list evaluation.
func GroupVotesByParty(votes core.Votes, mapping PartyMapping, policy UnmappedPolicy) (map[core.Candidate]core.Votes, error) {
	out := map[core.Candidate]core.Votes{}
	for cand, n := range votes {
		party, keep, err := mapping.resolve(cand, policy)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}
		if out[party] == nil {
			out[party] = core.Votes{}
		}
		out[party][cand] += n
	}
	return out, nil
}

// PartyTotals sums grouped per-candidate votes to a per-party total.
func PartyTotals(grouped map[core.Candidate]core.Votes) core.Votes {
	out := make(core.Votes, len(grouped))
	for party, votes := range grouped {
		out[party] = votes.Total()
	}
	return out
}

// SelectionToDistribution grants each elected candidate the given number of
// seats; a tied slot parks its seats on the tie. Used e.g. for majority
// bonus seats and constituency rounds of mixed-member systems.
func SelectionToDistribution(elected core.Selection, amount int) core.Distribution {
	out := core.NewDistribution()
	for _, slot := range elected {
		if slot.IsTie() {
			out.AddTie(slot.Tied, amount)
		} else {
			out.Seats[slot.Candidate] += amount
		}
	}
	return out
}

func addWeight(w core.WeightedVotes, cand core.Candidate, weight *big.Rat) {
	if acc, ok := w[cand]; ok {
		acc.Add(acc, weight)
	} else {
		w[cand] = new(big.Rat).Set(weight)
	}
}
