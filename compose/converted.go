package compose

import (
	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
)

// PreConvertedRankedSelector runs a weighted selector on ranked ballots
// converted to tallies, e.g. positional (Borda-style) selection. Implements
// core.RankedSelector.
type PreConvertedRankedSelector struct {
	Convert func(core.RankedVotes) core.WeightedVotes
	Inner   core.WeightedSelector
}

func (p PreConvertedRankedSelector) Evaluate(votes core.RankedVotes, seats int) (core.Selection, error) {
	return p.Inner.Evaluate(p.Convert(votes), seats)
}

// PreConvertedRankedDistributor runs a distributor on ranked ballots
// converted to simple votes. The conversion must produce integer counts.
type PreConvertedRankedDistributor struct {
	Convert func(core.RankedVotes) core.Votes
	Inner   core.Distributor
}

func (p PreConvertedRankedDistributor) Evaluate(votes core.RankedVotes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	return p.Inner.Evaluate(p.Convert(votes), seats, opts...)
}

// PreConvertedDistricts evaluates constituency votes with a nationwide
// distributor. The default conversion sums the votes over constituencies.
type PreConvertedDistricts struct {
	Convert func(core.DistrictVotes) core.Votes
	Inner   core.Distributor
}

func (p PreConvertedDistricts) Evaluate(votes core.DistrictVotes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	conv := p.Convert
	if conv == nil {
		conv = convert.VoteTotals
	}
	return p.Inner.Evaluate(conv(votes), seats, opts...)
}

// PostConvertedSelection adapts a selector into a distributor awarding one
// seat per elected candidate; Tie slots park their seats on the
// distribution's tie ledger. The usual adapter for the district round of
// mixed-member systems. Implements core.Distributor.
type PostConvertedSelection struct {
	Inner core.Selector
}

func (p PostConvertedSelection) Evaluate(votes core.Votes, seats int, _ ...core.EvalOption) (core.Distribution, error) {
	elected, err := p.Inner.Evaluate(votes, seats)
	if err != nil {
		return core.Distribution{}, err
	}
	return convert.SelectionToDistribution(elected, 1), nil
}

// PostConvertedDistricts merges a constituency-wise distribution into a
// single nationwide one. Implements core.Distributor over district votes.
type PostConvertedDistricts struct {
	Inner core.DistrictDistributor
}

func (p PostConvertedDistricts) Evaluate(votes core.DistrictVotes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	byDistrict, err := p.Inner.Evaluate(votes, seats, opts...)
	if err != nil {
		return core.Distribution{}, err
	}
	return convert.MergedDistributions(byDistrict), nil
}
