package compose

import (
	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/proportional"
)

// ByConstituency runs a distributor separately in every constituency.
// Seats are assigned to constituencies by the apportioner; without one,
// every constituency gets the full requested seat count. An optional
// preselector filters candidates on nationally aggregated votes before the
// per-constituency runs (e.g. a national threshold applied to regional
// lists). Implements core.DistrictDistributor.
type ByConstituency struct {
	Evaluator   core.Distributor
	Apportioner proportional.Apportioner
	Preselector core.SeatlessSelector
}

func (b ByConstituency) Evaluate(votes core.DistrictVotes, seats int, opts ...core.EvalOption) (core.DistrictDistribution, error) {
	cfg := core.NewEvalConfig(opts...)
	apportionment, err := apportionSeats(b.Apportioner, votes, seats)
	if err != nil {
		return nil, err
	}
	preselected, err := preselect(b.Preselector, votes, opts...)
	if err != nil {
		return nil, err
	}
	out := make(core.DistrictDistribution, len(votes))
	for _, district := range votes.Districts() {
		districtSeats := apportionment[district]
		if districtSeats == 0 {
			out[district] = core.NewDistribution()
			continue
		}
		dvotes := votes[district]
		if preselected != nil {
			dvotes = convert.SubsetVotes(dvotes, preselected)
		}
		result, err := b.Evaluator.Evaluate(dvotes, districtSeats,
			core.WithPrevGains(cfg.DistrictPrevGains[district]),
			core.WithMaxSeats(cfg.DistrictMaxSeats[district]))
		if err != nil {
			return nil, err
		}
		out[district] = result
	}
	return out, nil
}

// ByConstituencySelector is ByConstituency around a selection evaluator,
// e.g. plurality in single-member districts.
type ByConstituencySelector struct {
	Selector    core.Selector
	Apportioner proportional.Apportioner
	Preselector core.SeatlessSelector
}

func (b ByConstituencySelector) Evaluate(votes core.DistrictVotes, seats int, opts ...core.EvalOption) (core.DistrictSelection, error) {
	apportionment, err := apportionSeats(b.Apportioner, votes, seats)
	if err != nil {
		return nil, err
	}
	preselected, err := preselect(b.Preselector, votes, opts...)
	if err != nil {
		return nil, err
	}
	out := make(core.DistrictSelection, len(votes))
	for _, district := range votes.Districts() {
		districtSeats := apportionment[district]
		if districtSeats == 0 {
			out[district] = nil
			continue
		}
		dvotes := votes[district]
		if preselected != nil {
			dvotes = convert.SubsetVotes(dvotes, preselected)
		}
		result, err := b.Selector.Evaluate(dvotes, districtSeats)
		if err != nil {
			return nil, err
		}
		out[district] = result
	}
	return out, nil
}

// apportionSeats resolves per-district seat counts; a nil apportioner
// means the full seat count in every district.
func apportionSeats(app proportional.Apportioner, votes core.DistrictVotes, seats int) (map[core.District]int, error) {
	if app == nil {
		app = proportional.FixedApportioner(seats)
	}
	return app.Apportion(votes, seats)
}

// preselect evaluates the national preselection, nil when none is
// configured.
func preselect(sel core.SeatlessSelector, votes core.DistrictVotes, opts ...core.EvalOption) ([]core.Candidate, error) {
	if sel == nil {
		return nil, nil
	}
	passed, err := sel.Evaluate(convert.VoteTotals(votes), opts...)
	if err != nil {
		return nil, err
	}
	return passed.Candidates()
}

// ByParty determines each party's total seats with a nationwide
// distributor, then disaggregates every party's seats to constituencies by
// its per-constituency votes. The inverse of ByConstituency, used for
// leveling seat distribution in mixed-member systems. The allocator
// receives constituencies as candidates; nil reuses the overall
// distributor. Implements core.DistrictDistributor.
type ByParty struct {
	Overall   core.Distributor
	Allocator core.Distributor
}

func (b ByParty) Evaluate(votes core.DistrictVotes, seats int, opts ...core.EvalOption) (core.DistrictDistribution, error) {
	cfg := core.NewEvalConfig(opts...)
	overall, err := b.Overall.Evaluate(convert.VoteTotals(votes), seats)
	if err != nil {
		return nil, err
	}
	if overall.HasTie() {
		return nil, core.NewTieError(overall.Ties[0].Tie, "party seat distribution")
	}
	allocator := b.Allocator
	if allocator == nil {
		allocator = b.Overall
	}
	out := make(core.DistrictDistribution, len(votes))
	for _, district := range votes.Districts() {
		out[district] = core.NewDistribution()
	}
	for _, party := range overall.Candidates() {
		partyVotes := make(core.Votes, len(votes))
		prevGains := map[core.Candidate]int{}
		maxSeats := map[core.Candidate]int{}
		for district, dvotes := range votes {
			partyVotes[core.Candidate(district)] = dvotes[party]
			if gains, ok := cfg.DistrictPrevGains[district][party]; ok {
				prevGains[core.Candidate(district)] = gains
			}
			if limit, ok := cfg.DistrictMaxSeats[district][party]; ok {
				maxSeats[core.Candidate(district)] = limit
			}
		}
		allocated, err := allocator.Evaluate(partyVotes, overall.Seats[party],
			core.WithPrevGains(prevGains), core.WithMaxSeats(maxSeats))
		if err != nil {
			return nil, err
		}
		if allocated.HasTie() {
			return nil, core.NewTieError(allocated.Ties[0].Tie, "party constituency allocation")
		}
		for cand, n := range allocated.Seats {
			if n > 0 {
				out[core.District(cand)].Seats[party] = n
			}
		}
	}
	return out, nil
}
