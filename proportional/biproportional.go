package proportional

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/divisor"
)

// signposts holds the signpost subtraction constants defining the rounding
// rule of the tie-and-transfer algorithm. Known only for the D'Hondt and
// Sainte-Laguë divisors.
var signposts = map[string]*big.Rat{
	divisor.DHondt:      big.NewRat(0, 1),
	divisor.SainteLague: big.NewRat(1, 2),
}

// defaultIterationLimit bounds the tie-and-transfer outer loop.
const defaultIterationLimit = 1000

// Biproportional allocates seats proportionally along two dimensions at
// once: constituencies and parties. The initial solution is proportional to
// parties only; the tie-and-transfer algorithm (Pukelsheim) then moves
// seats along tied cells, adjusting row and column coefficients, until the
// per-constituency totals are proportional too. On success, row sums equal
// the constituency seat targets and column sums equal the national party
// entitlements.
type Biproportional struct {
	div         divisor.Function
	signpost    *big.Rat
	apportioner Apportioner
	maxIter     int
}

// BiOption adjusts a Biproportional evaluator.
type BiOption func(*Biproportional)

// WithApportioner sets how constituency seat targets are derived. Default
// is a highest-averages distribution of the total by votes cast per
// constituency, using the evaluator's own divisor.
func WithApportioner(a Apportioner) BiOption {
	return func(b *Biproportional) { b.apportioner = a }
}

// WithSignpost overrides the signpost constant, required for divisors
// outside the known set.
func WithSignpost(q *big.Rat) BiOption {
	return func(b *Biproportional) { b.signpost = new(big.Rat).Set(q) }
}

// WithIterationLimit overrides the tie-and-transfer iteration budget.
func WithIterationLimit(n int) BiOption {
	return func(b *Biproportional) { b.maxIter = n }
}

// NewBiproportional resolves the divisor by registered name. Without an
// explicit signpost, only d_hondt and sainte_lague are accepted; other
// divisors fail with ErrNoSignpost.
func NewBiproportional(divisorName string, opts ...BiOption) (*Biproportional, error) {
	fn, err := divisor.Get(divisorName)
	if err != nil {
		return nil, err
	}
	b := &Biproportional{div: fn, maxIter: defaultIterationLimit}
	for _, opt := range opts {
		opt(b)
	}
	if b.signpost == nil {
		q, ok := signposts[divisorName]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoSignpost, divisorName)
		}
		b.signpost = q
	}
	if b.apportioner == nil {
		b.apportioner = DistributorApportioner{Distributor: HighestAveragesOf(fn)}
	}
	return b, nil
}

// Evaluate distributes the total seats biproportionally. Knife-edge ties in
// the party or constituency entitlements cannot be carried through the
// transfer algorithm and surface as a TieError.
func (b *Biproportional) Evaluate(votes core.DistrictVotes, seats int, _ ...core.EvalOption) (core.DistrictDistribution, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	if len(votes) == 0 {
		return nil, core.ErrNoVotes
	}
	ha := HighestAveragesOf(b.div)

	partyTotals := convert.VoteTotals(votes)
	partyDist, err := ha.Evaluate(partyTotals, seats)
	if err != nil {
		return nil, err
	}
	if partyDist.HasTie() {
		return nil, core.NewTieError(partyDist.Ties[0].Tie, "party apportionment")
	}

	result, err := b.initialSolution(votes, partyDist.Seats, ha)
	if err != nil {
		return nil, err
	}
	targets, err := b.apportioner.Apportion(votes, seats)
	if err != nil {
		return nil, err
	}
	targetTotal := 0
	for _, n := range targets {
		targetTotal += n
	}
	if targetTotal != partyDist.TotalSeats() {
		return nil, core.ErrSeatMismatch
	}

	districtCoefs := map[core.District]*big.Rat{}
	for district := range votes {
		districtCoefs[district] = big.NewRat(1, 1)
	}
	partyCoefs := b.initialPartyCoefs(votes, result, partyTotals.Candidates())

	for iter := 0; iter < b.maxIter; iter++ {
		under, over := b.unsatisfied(result, targets, votes)
		if len(under) == 0 && len(over) == 0 {
			return toDistrictDistribution(result), nil
		}
		quots := b.quotients(votes, districtCoefs, partyCoefs)
		labeledD, labeledP := b.label(quots, result, votes, partyTotals.Candidates(), under, over)

		var start core.District
		found := false
		for _, district := range under {
			if _, ok := labeledD[district]; ok {
				start = district
				found = true
				break
			}
		}
		if found {
			if err := b.transfer(result, labeledD, labeledP, start, over); err != nil {
				return nil, err
			}
			continue
		}
		coef, err := b.adjustment(quots, result, labeledD, labeledP, votes)
		if err != nil {
			return nil, err
		}
		for district := range labeledD {
			districtCoefs[district].Mul(districtCoefs[district], coef)
		}
		for party := range labeledP {
			partyCoefs[party].Quo(partyCoefs[party], coef)
		}
	}
	return nil, ErrNoConvergence
}

// initialSolution allocates every party's national entitlement across
// constituencies by highest averages. A constituency tie here is broken
// toward the first constituency in identifier order; the transfer phase
// corrects any resulting imbalance.
func (b *Biproportional) initialSolution(votes core.DistrictVotes, partySeats map[core.Candidate]int, ha *HighestAverages) (map[core.District]map[core.Candidate]int, error) {
	result := map[core.District]map[core.Candidate]int{}
	for district := range votes {
		result[district] = map[core.Candidate]int{}
	}
	parties := make([]core.Candidate, 0, len(partySeats))
	for party := range partySeats {
		parties = append(parties, party)
	}
	sort.Slice(parties, func(i, j int) bool { return parties[i] < parties[j] })
	for _, party := range parties {
		byDistrict := core.Votes{}
		for district, dvotes := range votes {
			byDistrict[core.Candidate(district)] = dvotes[party]
		}
		dist, err := ha.Evaluate(byDistrict, partySeats[party])
		if err != nil {
			return nil, err
		}
		for cand, n := range dist.Seats {
			result[core.District(cand)][party] += n
		}
		for _, ts := range dist.Ties {
			result[core.District(ts.Tie[0])][party] += ts.Seats
		}
	}
	return result, nil
}

// initialPartyCoefs derives party coefficients consistent with the initial
// party-proportional solution, bracketing each party's coefficient between
// the tightest lower and upper signpost bound over its constituencies.
func (b *Biproportional) initialPartyCoefs(votes core.DistrictVotes, result map[core.District]map[core.Candidate]int, parties []core.Candidate) map[core.Candidate]*big.Rat {
	coefs := map[core.Candidate]*big.Rat{}
	for _, party := range parties {
		low := new(big.Rat)
		var high *big.Rat
		for district, dvotes := range votes {
			n := dvotes[party]
			if n == 0 {
				continue
			}
			seats := big.NewRat(int64(result[district][party]), 1)
			votesRat := big.NewRat(n, 1)
			lowBound := new(big.Rat).Sub(seats, b.signpost)
			lowBound.Quo(lowBound, votesRat)
			if lowBound.Cmp(low) > 0 {
				low = lowBound
			}
			highBound := new(big.Rat).Add(seats, big.NewRat(1, 1))
			highBound.Sub(highBound, b.signpost)
			highBound.Quo(highBound, votesRat)
			if high == nil || highBound.Cmp(high) < 0 {
				high = highBound
			}
		}
		if high == nil {
			coefs[party] = big.NewRat(1, 1)
			continue
		}
		coef := new(big.Rat).Add(low, high)
		coef.Quo(coef, big.NewRat(2, 1))
		coefs[party] = coef
	}
	return coefs
}

// quotients computes the fractional seat approximators
// votes · districtCoef · partyCoef for every cell with votes.
func (b *Biproportional) quotients(votes core.DistrictVotes, districtCoefs map[core.District]*big.Rat, partyCoefs map[core.Candidate]*big.Rat) map[core.District]map[core.Candidate]*big.Rat {
	out := map[core.District]map[core.Candidate]*big.Rat{}
	for district, dvotes := range votes {
		row := map[core.Candidate]*big.Rat{}
		for party, n := range dvotes {
			q := big.NewRat(n, 1)
			q.Mul(q, districtCoefs[district])
			q.Mul(q, partyCoefs[party])
			row[party] = q
		}
		out[district] = row
	}
	return out
}

// unsatisfied returns the constituencies holding fewer and more seats than
// their targets, each sorted by identifier.
func (b *Biproportional) unsatisfied(result map[core.District]map[core.Candidate]int, targets map[core.District]int, votes core.DistrictVotes) (under, over []core.District) {
	for _, district := range votes.Districts() {
		cur := 0
		for _, n := range result[district] {
			cur += n
		}
		switch {
		case cur < targets[district]:
			under = append(under, district)
		case cur > targets[district]:
			over = append(over, district)
		}
	}
	return under, over
}

// label searches for a seat transfer path along tied cells, starting from
// the over-seated constituencies. Returned maps carry back-pointers: a
// labeled constituency remembers the parties whose cells admit a seat, a
// labeled party the constituencies whose cells can give one up.
func (b *Biproportional) label(
	quots map[core.District]map[core.Candidate]*big.Rat,
	result map[core.District]map[core.Candidate]int,
	votes core.DistrictVotes,
	parties []core.Candidate,
	under, over []core.District,
) (map[core.District][]core.Candidate, map[core.Candidate][]core.District) {
	labeledD := map[core.District][]core.Candidate{}
	for _, district := range over {
		labeledD[district] = nil
	}
	labeledP := map[core.Candidate][]core.District{}
	districts := votes.Districts()
	underSet := map[core.District]struct{}{}
	for _, district := range under {
		underSet[district] = struct{}{}
	}
	for {
		added := 0
		for _, district := range sortedDistrictKeys(labeledD) {
			for _, party := range parties {
				if _, ok := labeledP[party]; ok {
					continue
				}
				if b.downgradable(quots[district][party], result[district][party]) {
					labeledP[party] = append(labeledP[party], district)
					added++
				}
			}
		}
		for _, party := range sortedPartyKeys(labeledP) {
			for _, district := range districts {
				if _, ok := labeledD[district]; ok {
					continue
				}
				if b.upgradable(quots[district][party], result[district][party]) {
					labeledD[district] = append(labeledD[district], party)
					added++
				}
			}
		}
		if added == 0 {
			return labeledD, labeledP
		}
		for district := range labeledD {
			if _, ok := underSet[district]; ok {
				return labeledD, labeledP
			}
		}
	}
}

// upgradable reports whether the cell sits exactly on a signpost tie and
// can absorb one more seat.
func (b *Biproportional) upgradable(quot *big.Rat, seats int) bool {
	if quot == nil {
		return false
	}
	want := new(big.Rat).Sub(big.NewRat(int64(seats)+1, 1), b.signpost)
	return b.onSignpost(quot) && quot.Cmp(want) == 0
}

// downgradable reports whether the cell sits exactly on a signpost tie and
// can give one seat up.
func (b *Biproportional) downgradable(quot *big.Rat, seats int) bool {
	if quot == nil || seats < 1 {
		return false
	}
	want := new(big.Rat).Sub(big.NewRat(int64(seats), 1), b.signpost)
	return b.onSignpost(quot) && quot.Cmp(want) == 0
}

// onSignpost reports whether floor(quot) == quot - signpost, i.e. the
// quotient lies exactly on a rounding boundary.
func (b *Biproportional) onSignpost(quot *big.Rat) bool {
	floor := new(big.Int).Quo(quot.Num(), quot.Denom())
	shifted := new(big.Rat).Sub(quot, b.signpost)
	return new(big.Rat).SetInt(floor).Cmp(shifted) == 0
}

// transfer moves one seat along the back-pointer path from start (an
// under-seated constituency) to some over-seated constituency, alternating
// additions and subtractions so party totals stay intact.
func (b *Biproportional) transfer(
	result map[core.District]map[core.Candidate]int,
	labeledD map[core.District][]core.Candidate,
	labeledP map[core.Candidate][]core.District,
	start core.District,
	over []core.District,
) error {
	overSet := map[core.District]struct{}{}
	for _, district := range over {
		overSet[district] = struct{}{}
	}
	district := start
	for step := 0; step <= 2*(len(result)+len(labeledP))+2; step++ {
		if _, done := overSet[district]; done {
			return nil
		}
		backD := labeledD[district]
		if len(backD) == 0 {
			break
		}
		party := backD[len(backD)-1]
		labeledD[district] = backD[:len(backD)-1]
		result[district][party]++

		backP := labeledP[party]
		if len(backP) == 0 {
			break
		}
		next := backP[len(backP)-1]
		labeledP[party] = backP[:len(backP)-1]
		result[next][party]--
		if result[next][party] == 0 {
			delete(result[next], party)
		}
		district = next
	}
	return fmt.Errorf("%w: broken transfer path", ErrNoConvergence)
}

// adjustment finds the coefficient scaling labeled rows and columns so
// that at least one new tie appears, letting the next iteration make
// progress. An out-of-range coefficient means the configuration admits no
// progress.
func (b *Biproportional) adjustment(
	quots map[core.District]map[core.Candidate]*big.Rat,
	result map[core.District]map[core.Candidate]int,
	labeledD map[core.District][]core.Candidate,
	labeledP map[core.Candidate][]core.District,
	votes core.DistrictVotes,
) (*big.Rat, error) {
	alpha := new(big.Rat)
	var beta *big.Rat
	for _, district := range votes.Districts() {
		_, dLabeled := labeledD[district]
		if !dLabeled && len(labeledP) == 0 {
			continue
		}
		for party, quot := range quots[district] {
			_, pLabeled := labeledP[party]
			if dLabeled == pLabeled || quot.Sign() <= 0 {
				continue
			}
			signpostVal := new(big.Rat).Sub(big.NewRat(int64(result[district][party]), 1), b.signpost)
			if dLabeled && signpostVal.Sign() > 0 {
				cand := new(big.Rat).Quo(signpostVal, quot)
				if cand.Cmp(alpha) > 0 {
					alpha = cand
				}
			}
			if pLabeled && !dLabeled {
				bound := new(big.Rat).Add(signpostVal, big.NewRat(1, 1))
				bound.Quo(bound, quot)
				if beta == nil || bound.Cmp(beta) < 0 {
					beta = bound
				}
			}
		}
	}
	coef := alpha
	if beta != nil {
		inv := new(big.Rat).Inv(beta)
		if inv.Cmp(alpha) > 0 {
			coef = inv
		}
	}
	one := big.NewRat(1, 1)
	if coef.Sign() <= 0 || coef.Cmp(one) >= 0 {
		return nil, fmt.Errorf("%w: invalid adjustment coefficient %s", ErrNoConvergence, coef)
	}
	return coef, nil
}

func toDistrictDistribution(result map[core.District]map[core.Candidate]int) core.DistrictDistribution {
	out := make(core.DistrictDistribution, len(result))
	for district, seats := range result {
		out[district] = core.DistributionOf(seats)
	}
	return out
}

func sortedDistrictKeys(m map[core.District][]core.Candidate) []core.District {
	out := make([]core.District, 0, len(m))
	for district := range m {
		out = append(out, district)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedPartyKeys(m map[core.Candidate][]core.District) []core.Candidate {
	out := make([]core.Candidate, 0, len(m))
	for party := range m {
		out = append(out, party)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
