package compose

import (
	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
)

// SeatCountCalculator works out how many seats to add to the intended
// house size before a distribution, typically to absorb overhang seats.
type SeatCountCalculator interface {
	Calculate(votes core.Votes, seats int, opts ...core.EvalOption) (int, error)
}

// DistrictSeatCalculator is SeatCountCalculator over constituency votes.
type DistrictSeatCalculator interface {
	Calculate(votes core.DistrictVotes, seats int, opts ...core.EvalOption) (int, error)
}

// AdjustedSeatCount distributes an adjusted total seat count: the
// calculator inspects the votes and previous gains, and the evaluator
// runs with the intended seats plus the computed adjustment. Implements
// core.Distributor.
type AdjustedSeatCount struct {
	Calculator SeatCountCalculator
	Evaluator  core.Distributor
}

func (a AdjustedSeatCount) Evaluate(votes core.Votes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	adjustment, err := a.Calculator.Calculate(votes, seats, opts...)
	if err != nil {
		return core.Distribution{}, err
	}
	return a.Evaluator.Evaluate(votes, seats+adjustment, opts...)
}

// AdjustedDistrictSeatCount is AdjustedSeatCount over constituency votes.
// Implements core.DistrictDistributor.
type AdjustedDistrictSeatCount struct {
	Calculator DistrictSeatCalculator
	Evaluator  core.DistrictDistributor
}

func (a AdjustedDistrictSeatCount) Evaluate(votes core.DistrictVotes, seats int, opts ...core.EvalOption) (core.DistrictDistribution, error) {
	adjustment, err := a.Calculator.Calculate(votes, seats, opts...)
	if err != nil {
		return nil, err
	}
	return a.Evaluator.Evaluate(votes, seats+adjustment, opts...)
}

// AllowOverhang adds exactly the overhang seats: parties keep what they
// won in the first round even where it exceeds their proportional share,
// and the seats awarded on top stay at the intended count. The New
// Zealand model. The evaluator computes the proportional reference
// result.
type AllowOverhang struct {
	Evaluator core.Distributor
}

func (a AllowOverhang) Calculate(votes core.Votes, seats int, opts ...core.EvalOption) (int, error) {
	cfg := core.NewEvalConfig(opts...)
	reference, err := a.proportionalReference(votes, seats, cfg)
	if err != nil {
		return 0, err
	}
	adjustment := 0
	for party, gained := range cfg.PrevGains {
		if entitled := reference.Seats[party]; entitled < gained {
			adjustment += gained - entitled
		}
	}
	return adjustment, nil
}

func (a AllowOverhang) proportionalReference(votes core.Votes, seats int, cfg core.EvalConfig) (core.Distribution, error) {
	reference, err := a.Evaluator.Evaluate(votes, seats, core.WithMaxSeats(cfg.MaxSeats))
	if err != nil {
		return core.Distribution{}, err
	}
	if reference.HasTie() {
		return core.Distribution{}, core.NewTieError(reference.Ties[0].Tie, "overhang detection")
	}
	return reference, nil
}

// LevelOverhang grows the house until every party's proportional share
// covers its first-round seats, keeping the overall result proportional
// despite overhang. First-round seats of parties outside the proportional
// result are carried outside the leveled total. The evaluator computes
// the proportional reference result.
type LevelOverhang struct {
	Evaluator core.Distributor
}

func (l LevelOverhang) Calculate(votes core.Votes, seats int, opts ...core.EvalOption) (int, error) {
	cfg := core.NewEvalConfig(opts...)
	reference, err := AllowOverhang(l).proportionalReference(votes, seats, cfg)
	if err != nil {
		return 0, err
	}
	lowest := map[core.Candidate]int{}
	for party, entitled := range reference.Seats {
		lowest[party] = entitled
		if gained := cfg.PrevGains[party]; gained > entitled {
			lowest[party] = gained
		}
	}
	nonPropDrop := 0
	for party, gained := range cfg.PrevGains {
		if _, inProp := lowest[party]; !inProp {
			nonPropDrop += gained
		}
	}
	adjusted := seats - nonPropDrop
	for belowMinimum(reference.Seats, lowest) {
		adjusted++
		reference, err = AllowOverhang(l).proportionalReference(votes, adjusted, cfg)
		if err != nil {
			return 0, err
		}
	}
	return adjusted + nonPropDrop - seats, nil
}

// LevelOverhangByConstituency levels overhang detected separately in each
// constituency (the German Bundestag model): the per-constituency
// proportional reference fixes a minimum seat count per party, and the
// house grows until the nationwide proportional result reaches every
// minimum. Overall, when set, computes the nationwide reference from
// aggregated votes; otherwise the merged constituency results are used.
type LevelOverhangByConstituency struct {
	Constituency core.DistrictDistributor
	Overall      core.Distributor
}

func (l LevelOverhangByConstituency) Calculate(votes core.DistrictVotes, seats int, opts ...core.EvalOption) (int, error) {
	cfg := core.NewEvalConfig(opts...)
	byDistrict, err := l.Constituency.Evaluate(votes, seats,
		core.WithDistrictMaxSeats(cfg.DistrictMaxSeats))
	if err != nil {
		return 0, err
	}
	lowest := map[core.Candidate]int{}
	for district, distribution := range byDistrict {
		if distribution.HasTie() {
			return 0, core.NewTieError(distribution.Ties[0].Tie, "overhang detection")
		}
		for party, entitled := range distribution.Seats {
			minimum := entitled
			if gained := cfg.DistrictPrevGains[district][party]; gained > entitled {
				minimum = gained
			}
			lowest[party] += minimum
		}
	}
	nonPropDrop := 0
	for _, gains := range cfg.DistrictPrevGains {
		for party, gained := range gains {
			if _, inProp := lowest[party]; !inProp {
				nonPropDrop += gained
			}
		}
	}
	nationwide := func(total int) (core.Distribution, error) {
		if l.Overall == nil {
			merged := PostConvertedDistricts{Inner: l.Constituency}
			return merged.Evaluate(votes, total,
				core.WithDistrictMaxSeats(cfg.DistrictMaxSeats))
		}
		return l.Overall.Evaluate(convert.VoteTotals(votes), total)
	}
	adjusted := seats - nonPropDrop
	for {
		reference, err := nationwide(adjusted)
		if err != nil {
			return 0, err
		}
		if reference.HasTie() {
			return 0, core.NewTieError(reference.Ties[0].Tie, "overhang leveling")
		}
		if !belowMinimum(reference.Seats, lowest) {
			break
		}
		adjusted++
	}
	return adjusted + nonPropDrop - seats, nil
}

// belowMinimum reports whether any party sits under its minimum in the
// reference result.
func belowMinimum(reference map[core.Candidate]int, lowest map[core.Candidate]int) bool {
	for party, minimum := range lowest {
		if reference[party] < minimum {
			return true
		}
	}
	return false
}
