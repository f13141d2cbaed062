package compose

import (
	"errors"
	"sort"

	"github.com/mkadlec/psephos/core"
)

// ErrListVotesMismatch is returned when per-list candidate votes are given
// without a list evaluator to use them, or a list evaluator has no
// candidate votes to work with.
var ErrListVotesMismatch = errors.New("compose: list votes and list evaluator must be given together")

// ListEvaluator picks candidates from a single party list, respecting the
// registered list ordering.
type ListEvaluator interface {
	Evaluate(votes core.Votes, seats int, list []core.Candidate) (core.Selection, error)
}

// PartyList turns a party-level seat distribution into elected candidates:
// the party evaluator distributes seats among parties, then each party's
// seats are filled from its candidate list. With no list evaluator the
// lists are closed and filled top down; an open-list evaluator reorders
// them by candidate votes.
type PartyList struct {
	PartyEval core.Distributor
	ListEval  ListEvaluator
}

// Evaluate fills each party's seats from its list. listVotes carries the
// per-party candidate votes for open lists; it must be present exactly
// when a list evaluator is configured.
func (p PartyList) Evaluate(
	votes core.Votes,
	seats int,
	lists map[core.Candidate][]core.Candidate,
	listVotes map[core.Candidate]core.Votes,
	opts ...core.EvalOption,
) (map[core.Candidate][]core.Candidate, error) {
	if (p.ListEval == nil) != (listVotes == nil) {
		return nil, ErrListVotesMismatch
	}
	byParty, err := p.PartyEval.Evaluate(votes, seats, opts...)
	if err != nil {
		return nil, err
	}
	if byParty.HasTie() {
		return nil, core.NewTieError(byParty.Ties[0].Tie, "party list distribution")
	}
	out := make(map[core.Candidate][]core.Candidate, len(byParty.Seats))
	for _, party := range sortedParties(byParty.Seats) {
		elected, err := p.fillList(party, byParty.Seats[party], lists[party], listVotes)
		if err != nil {
			return nil, err
		}
		out[party] = elected
	}
	return out, nil
}

func (p PartyList) fillList(party core.Candidate, seats int, list []core.Candidate, listVotes map[core.Candidate]core.Votes) ([]core.Candidate, error) {
	if p.ListEval == nil {
		if seats > len(list) {
			seats = len(list)
		}
		return append([]core.Candidate(nil), list[:seats]...), nil
	}
	selected, err := p.ListEval.Evaluate(listVotes[party], seats, list)
	if err != nil {
		return nil, err
	}
	return selected.Candidates()
}

func sortedParties(seats map[core.Candidate]int) []core.Candidate {
	parties := make([]core.Candidate, 0, len(seats))
	for party := range seats {
		parties = append(parties, party)
	}
	sort.Slice(parties, func(i, j int) bool { return parties[i] < parties[j] })
	return parties
}
