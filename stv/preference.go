package stv

import (
	"math/big"

	"github.com/mkadlec/psephos/core"
)

// PreferenceAddition elects candidates by gradually adding lower
// preferences to the tallies until enough candidates hold a majority of
// the ballots. The zero value is Bucklin voting; Oklahoma-style systems
// set Coefficients to the harmonic sequence 1, 1/2, 1/3, ...
//
// Implements core.RankedSelector.
type PreferenceAddition struct {
	// Coefficients multiply the preferences added in each round; the last
	// entry repeats for later rounds. Empty means all rounds count fully.
	Coefficients []*big.Rat
	// KeepEqualWhole adds the full ballot weight to every member of a
	// shared rank instead of splitting it equally (the default).
	KeepEqualWhole bool
}

// Evaluate elects up to the requested seats, in order of election. The
// selection is short when no further candidate ever reaches a majority; a
// tie for the last seats occupies it as a Tie slot and its members stay
// out of later rounds.
func (p PreferenceAddition) Evaluate(votes core.RankedVotes, seats int) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	total := votes.Total()
	if total == 0 {
		return nil, core.ErrNoVotes
	}
	majority := big.NewRat(total, 2)

	rounds := 0
	for _, ballot := range votes {
		if n := p.roundSpan(ballot); n > rounds {
			rounds = n
		}
	}
	totals := core.WeightedVotes{}
	done := map[core.Candidate]struct{}{}
	var elected core.Selection
	for round := 0; round < rounds && len(elected) < seats; round++ {
		p.addRound(totals, votes, round, done)
		over := core.WeightedVotes{}
		for cand, sum := range totals {
			if sum.Cmp(majority) > 0 {
				over[cand] = sum
			}
		}
		if len(over) == 0 {
			continue
		}
		sel, err := core.NBest(over, seats-len(elected))
		if err != nil {
			return nil, err
		}
		for _, slot := range sel {
			elected = append(elected, slot)
			if slot.IsTie() {
				for _, cand := range slot.Tied {
					done[cand] = struct{}{}
					delete(totals, cand)
				}
			} else {
				done[slot.Candidate] = struct{}{}
				delete(totals, slot.Candidate)
			}
		}
	}
	return elected, nil
}

// roundSpan returns how many addition rounds the ballot participates in.
func (p PreferenceAddition) roundSpan(ballot core.Ballot) int {
	if p.KeepEqualWhole {
		return len(ballot.Ranking)
	}
	n := 0
	for _, rank := range ballot.Ranking {
		n += len(rank)
	}
	return n
}

// addRound adds the round's preferences to the running totals, skipping
// candidates already elected or tied out.
func (p PreferenceAddition) addRound(totals core.WeightedVotes, votes core.RankedVotes, round int, done map[core.Candidate]struct{}) {
	coef := p.coefficient(round)
	for _, ballot := range votes {
		members, splitBy := p.rankAt(ballot, round)
		if len(members) == 0 {
			continue
		}
		add := new(big.Rat).Mul(coef, big.NewRat(ballot.Count, int64(splitBy)))
		for _, cand := range members {
			if _, out := done[cand]; out {
				continue
			}
			if acc, ok := totals[cand]; ok {
				acc.Add(acc, add)
			} else {
				totals[cand] = new(big.Rat).Set(add)
			}
		}
	}
}

// rankAt locates the ballot rank covering the given round and the divisor
// to split its weight by. With splitting enabled, a shared rank of k
// members spans k consecutive rounds at weight 1/k each, which is the
// average over all orderings of the shared rank.
func (p PreferenceAddition) rankAt(ballot core.Ballot, round int) (core.Rank, int64) {
	if p.KeepEqualWhole {
		if round >= len(ballot.Ranking) {
			return nil, 1
		}
		return ballot.Ranking[round], 1
	}
	pos := 0
	for _, rank := range ballot.Ranking {
		if round < pos+len(rank) {
			return rank, int64(len(rank))
		}
		pos += len(rank)
	}
	return nil, 1
}

func (p PreferenceAddition) coefficient(round int) *big.Rat {
	if len(p.Coefficients) == 0 {
		return big.NewRat(1, 1)
	}
	if round < len(p.Coefficients) {
		return p.Coefficients[round]
	}
	return p.Coefficients[len(p.Coefficients)-1]
}
