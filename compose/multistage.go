package compose

import (
	"errors"

	"github.com/mkadlec/psephos/core"
)

// ErrRoundMismatch is returned when per-round votes are supplied for a
// different number of rounds than the distributor has.
var ErrRoundMismatch = errors.New("compose: per-round votes do not match the number of rounds")

// MultistageDistributor awards seats in several rounds; every round sees
// the seats awarded so far (previous gains included) as its previous
// gains. The shape of mixed-member proportional systems: a district round
// followed by a national leveling round. Implements core.Distributor.
type MultistageDistributor struct {
	Rounds []core.Distributor
}

// Evaluate runs all rounds on the same votes. The result contains the
// previous gains passed in, with the rounds' awards added on top.
func (m MultistageDistributor) Evaluate(votes core.Votes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	rounds := make([]core.Votes, len(m.Rounds))
	for i := range rounds {
		rounds[i] = votes
	}
	return m.EvaluateStaged(rounds, seats, opts...)
}

// EvaluateStaged runs every round on its own votes, in order. Fails with
// ErrRoundMismatch unless exactly one vote set per round is given.
func (m MultistageDistributor) EvaluateStaged(roundVotes []core.Votes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	if len(roundVotes) != len(m.Rounds) {
		return core.Distribution{}, ErrRoundMismatch
	}
	cfg := core.NewEvalConfig(opts...)
	elected := map[core.Candidate]int{}
	for cand, n := range cfg.PrevGains {
		elected[cand] = n
	}
	for i, round := range m.Rounds {
		gains := make(map[core.Candidate]int, len(elected))
		for cand, n := range elected {
			gains[cand] = n
		}
		result, err := round.Evaluate(roundVotes[i], seats,
			core.WithPrevGains(gains), core.WithMaxSeats(cfg.MaxSeats))
		if err != nil {
			return core.Distribution{}, err
		}
		if result.HasTie() {
			return core.Distribution{}, core.NewTieError(result.Ties[0].Tie, "multistage round")
		}
		for cand, n := range result.Seats {
			elected[cand] += n
		}
	}
	return core.DistributionOf(elected), nil
}

// MultistageByDistrict is MultistageDistributor over constituency-keyed
// rounds, carrying previous gains per constituency. Implements
// core.DistrictDistributor.
type MultistageByDistrict struct {
	Rounds []core.DistrictDistributor
}

// Evaluate runs all rounds on the same constituency votes.
func (m MultistageByDistrict) Evaluate(votes core.DistrictVotes, seats int, opts ...core.EvalOption) (core.DistrictDistribution, error) {
	rounds := make([]core.DistrictVotes, len(m.Rounds))
	for i := range rounds {
		rounds[i] = votes
	}
	return m.EvaluateStaged(rounds, seats, opts...)
}

// EvaluateStaged runs every round on its own constituency votes, in
// order, carrying the accumulating per-constituency gains.
func (m MultistageByDistrict) EvaluateStaged(roundVotes []core.DistrictVotes, seats int, opts ...core.EvalOption) (core.DistrictDistribution, error) {
	if len(roundVotes) != len(m.Rounds) {
		return nil, ErrRoundMismatch
	}
	cfg := core.NewEvalConfig(opts...)
	elected := map[core.District]map[core.Candidate]int{}
	for district, gains := range cfg.DistrictPrevGains {
		elected[district] = map[core.Candidate]int{}
		for cand, n := range gains {
			elected[district][cand] = n
		}
	}
	for i, round := range m.Rounds {
		gains := make(map[core.District]map[core.Candidate]int, len(elected))
		for district, dgains := range elected {
			gains[district] = make(map[core.Candidate]int, len(dgains))
			for cand, n := range dgains {
				gains[district][cand] = n
			}
		}
		result, err := round.Evaluate(roundVotes[i], seats,
			core.WithDistrictPrevGains(gains),
			core.WithDistrictMaxSeats(cfg.DistrictMaxSeats))
		if err != nil {
			return nil, err
		}
		for district, distribution := range result {
			if distribution.HasTie() {
				return nil, core.NewTieError(distribution.Ties[0].Tie, "multistage round")
			}
			if elected[district] == nil {
				elected[district] = map[core.Candidate]int{}
			}
			for cand, n := range distribution.Seats {
				elected[district][cand] += n
			}
		}
	}
	out := make(core.DistrictDistribution, len(elected))
	for district, seatsByParty := range elected {
		out[district] = core.DistributionOf(seatsByParty)
	}
	return out, nil
}
