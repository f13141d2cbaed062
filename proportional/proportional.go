package proportional

import (
	"errors"
	"math/big"

	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/divisor"
	"github.com/mkadlec/psephos/quota"
)

var (
	// ErrOveraward indicates that quota awards exceed the requested seat
	// budget (possible e.g. with the imperiali quota) and the evaluator
	// runs under OverawardError.
	ErrOveraward = errors.New("proportional: quota awards exceed seat budget")

	// ErrNoConvergence indicates the biproportional tie-and-transfer loop
	// exhausted its iteration budget without reaching biproportionality.
	ErrNoConvergence = errors.New("proportional: biproportional apportionment did not converge")

	// ErrNoSignpost indicates a biproportional evaluator was constructed
	// with a divisor that has no known signpost constant and none was
	// supplied explicitly.
	ErrNoSignpost = errors.New("proportional: no signpost constant for divisor")
)

// OverawardPolicy selects what a quota evaluator does when the seats due by
// quota exceed the requested budget.
type OverawardPolicy int

const (
	// OverawardError fails the evaluation with ErrOveraward.
	OverawardError OverawardPolicy = iota
	// OverawardAccept returns the oversized distribution unchanged; later
	// stages of a multi-round system absorb the excess through PrevGains.
	OverawardAccept
)

type config struct {
	acceptEqual bool
	overaward   OverawardPolicy
}

func defaultConfig() config {
	return config{acceptEqual: true, overaward: OverawardError}
}

// Option adjusts a quota-based evaluator.
type Option func(*config)

// AcceptEqual controls whether a vote count exactly equal to the quota (or
// an exact votes-per-seat multiple) earns the seat. Default true.
func AcceptEqual(v bool) Option {
	return func(c *config) { c.acceptEqual = v }
}

// Overaward sets the overaward policy. Default OverawardError.
func Overaward(p OverawardPolicy) Option {
	return func(c *config) { c.overaward = p }
}

// QuotaDistributor awards each candidate one seat per full quota of votes.
// It rarely fills the whole seat budget on its own and usually serves as
// the first pass of LargestRemainder or as a fixed-quota component.
type QuotaDistributor struct {
	quota quota.Function
	cfg   config
}

// NewQuotaDistributor resolves the quota function by registered name.
func NewQuotaDistributor(quotaName string, opts ...Option) (*QuotaDistributor, error) {
	fn, err := quota.Get(quotaName)
	if err != nil {
		return nil, err
	}
	return QuotaDistributorOf(fn, opts...), nil
}

// QuotaDistributorOf builds the distributor around an explicit quota
// function.
func QuotaDistributorOf(fn quota.Function, opts ...Option) *QuotaDistributor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &QuotaDistributor{quota: fn, cfg: cfg}
}

// Evaluate awards floor(votes/quota) seats per candidate, less previous
// gains. Candidates capped by MaxSeats have their excess entitlement
// re-awarded among the remaining candidates. An award total beyond the
// seat budget is handled per the overaward policy.
func (q *QuotaDistributor) Evaluate(votes core.Votes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	if seats < 0 {
		return core.Distribution{}, core.ErrNegativeSeats
	}
	if len(votes) == 0 {
		return core.Distribution{}, core.ErrNoVotes
	}
	cfg := core.NewEvalConfig(opts...)
	awarded := q.awards(votes, seats, cfg)
	total := 0
	for cand, n := range awarded {
		total += n + cfg.PrevGain(cand)
	}
	if total > seats && q.cfg.overaward == OverawardError {
		return core.Distribution{}, ErrOveraward
	}
	return core.DistributionOf(awarded), nil
}

// awards computes the per-candidate quota awards without the budget check.
func (q *QuotaDistributor) awards(votes core.Votes, seats int, cfg core.EvalConfig) map[core.Candidate]int {
	qval := q.quota(votes.Total(), int64(seats))
	selected := map[core.Candidate]int{}
	overshoot := 0
	capped := map[core.Candidate]struct{}{}
	for _, cand := range votes.Candidates() {
		n := big.NewRat(votes[cand], 1)
		cmp := n.Cmp(qval)
		if cmp < 0 || (cmp == 0 && !q.cfg.acceptEqual) {
			continue
		}
		prev := cfg.PrevGain(cand)
		award := int(floorQuo(votes[cand], qval)) - prev
		if award <= 0 {
			continue
		}
		if max, ok := cfg.MaxSeat(cand); ok && award+prev > max {
			overshoot += award + prev - max
			award = max - prev
			capped[cand] = struct{}{}
		}
		if award > 0 {
			selected[cand] = award
		}
	}
	if overshoot > 0 {
		remaining := core.Votes{}
		for cand, n := range votes {
			if _, ok := capped[cand]; !ok {
				remaining[cand] = n
			}
		}
		if len(remaining) > 0 {
			gained := map[core.Candidate]int{}
			for cand := range votes {
				gained[cand] = selected[cand] + cfg.PrevGain(cand)
			}
			redistributed := q.awards(remaining, overshoot, core.EvalConfig{
				PrevGains: gained,
				MaxSeats:  cfg.MaxSeats,
			})
			for cand, n := range redistributed {
				selected[cand] += n
			}
		}
	}
	return selected
}

// LargestRemainder fills the quota awards up to the seat budget by ranking
// the fractional remainders of votes/quota. Covers the Hare, Droop,
// Hagenbach-Bischoff and Imperiali largest-remainder family.
type LargestRemainder struct {
	quota quota.Function
	inner *QuotaDistributor
	cfg   config
}

// NewLargestRemainder resolves the quota function by registered name.
func NewLargestRemainder(quotaName string, opts ...Option) (*LargestRemainder, error) {
	fn, err := quota.Get(quotaName)
	if err != nil {
		return nil, err
	}
	return LargestRemainderOf(fn, opts...), nil
}

// LargestRemainderOf builds the evaluator around an explicit quota function.
func LargestRemainderOf(fn quota.Function, opts ...Option) *LargestRemainder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &LargestRemainder{
		quota: fn,
		inner: QuotaDistributorOf(fn, opts...),
		cfg:   cfg,
	}
}

// Evaluate distributes exactly the requested seats unless the quota pass
// alone overshoots the budget (overaward policy applies). A remainder tie
// at the last seat parks the affected seats on a Tie entry.
func (lr *LargestRemainder) Evaluate(votes core.Votes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	if seats < 0 {
		return core.Distribution{}, core.ErrNegativeSeats
	}
	if len(votes) == 0 {
		return core.Distribution{}, core.ErrNoVotes
	}
	cfg := core.NewEvalConfig(opts...)
	elected := lr.inner.awards(votes, seats, cfg)
	qval := lr.quota(votes.Total(), int64(seats))

	gained := map[core.Candidate]int{}
	total := 0
	for _, cand := range votes.Candidates() {
		gained[cand] = elected[cand] + cfg.PrevGain(cand)
		total += gained[cand]
	}
	forRemainder := seats - total
	if forRemainder < 0 {
		if lr.cfg.overaward == OverawardError {
			return core.Distribution{}, ErrOveraward
		}
		return core.DistributionOf(elected), nil
	}

	remainders := core.WeightedVotes{}
	for cand, n := range votes {
		if max, ok := cfg.MaxSeat(cand); ok && gained[cand] >= max {
			continue
		}
		rem := new(big.Rat).Quo(big.NewRat(n, 1), qval)
		rem.Sub(rem, big.NewRat(int64(gained[cand]), 1))
		remainders[cand] = rem
	}
	sel, err := core.NBest(remainders, forRemainder)
	if err != nil {
		return core.Distribution{}, err
	}
	out := core.DistributionOf(elected)
	for _, slot := range sel {
		if slot.IsTie() {
			out.AddTie(slot.Tied, 1)
		} else {
			out.Seats[slot.Candidate]++
		}
	}
	return out, nil
}

// HighestAverages awards seats one by one to the candidate with the
// currently largest votes/divisor(held seats) quotient. Covers D'Hondt,
// Sainte-Laguë and the rest of the divisor family.
type HighestAverages struct {
	div divisor.Function
}

// NewHighestAverages resolves the divisor function by registered name.
func NewHighestAverages(divisorName string) (*HighestAverages, error) {
	fn, err := divisor.Get(divisorName)
	if err != nil {
		return nil, err
	}
	return HighestAveragesOf(fn), nil
}

// HighestAveragesOf builds the evaluator around an explicit divisor
// function, e.g. one wrapped by divisor.ModifiedFirstCoef.
func HighestAveragesOf(fn divisor.Function) *HighestAverages {
	return &HighestAverages{div: fn}
}

// Evaluate distributes the requested seats. PrevGains set the starting
// divisor order per candidate; MaxSeats cap a candidate's total (defaulting
// to the seat budget). A quotient tie wider than the remaining seats parks
// those seats on a Tie entry.
//
// Complexity: O(seats · candidates) quotient evaluations.
func (h *HighestAverages) Evaluate(votes core.Votes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	if seats < 0 {
		return core.Distribution{}, core.ErrNegativeSeats
	}
	if len(votes) == 0 {
		return core.Distribution{}, core.ErrNoVotes
	}
	cfg := core.NewEvalConfig(opts...)
	totals := map[core.Candidate]int{}
	held := 0
	for cand, prev := range cfg.PrevGains {
		totals[cand] = prev
		held += prev
	}
	out := core.NewDistribution()
	order := votes.Candidates()
	remaining := seats - held
	for remaining > 0 {
		var best *big.Rat
		var group []core.Candidate
		for _, cand := range order {
			total := totals[cand]
			limit := seats
			if max, ok := cfg.MaxSeat(cand); ok {
				limit = max
			}
			if total >= limit {
				continue
			}
			div := h.div(int64(total))
			if div.Sign() <= 0 {
				continue
			}
			quot := new(big.Rat).Quo(big.NewRat(votes[cand], 1), div)
			if best == nil || quot.Cmp(best) > 0 {
				best = quot
				group = group[:0]
				group = append(group, cand)
			} else if quot.Cmp(best) == 0 {
				group = append(group, cand)
			}
		}
		if len(group) == 0 {
			break
		}
		if len(group) > remaining {
			out.AddTie(core.NewTie(group...), remaining)
			remaining = 0
			break
		}
		for _, cand := range group {
			totals[cand]++
			remaining--
		}
	}
	for cand, total := range totals {
		if awarded := total - cfg.PrevGain(cand); awarded > 0 {
			out.Seats[cand] = awarded
		}
	}
	return out, nil
}

// VotesPerSeat awards one seat per fixed number of votes, rounding down.
// A seatless distributor: the house size follows from the votes cast.
type VotesPerSeat struct {
	perSeat int64
	cfg     config
}

// NewVotesPerSeat builds the evaluator; perSeat must be positive.
func NewVotesPerSeat(perSeat int64, opts ...Option) *VotesPerSeat {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &VotesPerSeat{perSeat: perSeat, cfg: cfg}
}

// Evaluate awards floor(votes/perSeat) seats per candidate, less previous
// gains and capped by MaxSeats. With AcceptEqual(false), an exactly
// divisible vote count earns one seat less.
func (v *VotesPerSeat) Evaluate(votes core.Votes, opts ...core.EvalOption) (core.Distribution, error) {
	if len(votes) == 0 {
		return core.Distribution{}, core.ErrNoVotes
	}
	cfg := core.NewEvalConfig(opts...)
	out := core.NewDistribution()
	for cand, n := range votes {
		entitled := int(n / v.perSeat)
		if !v.cfg.acceptEqual && entitled > 0 && int64(entitled)*v.perSeat == n {
			entitled--
		}
		if max, ok := cfg.MaxSeat(cand); ok && entitled > max {
			entitled = max
		}
		entitled -= cfg.PrevGain(cand)
		if entitled > 0 {
			out.Seats[cand] = entitled
		}
	}
	return out, nil
}

// floorQuo returns floor(n / q) for non-negative n and positive rational q.
func floorQuo(n int64, q *big.Rat) int64 {
	quot := new(big.Rat).Quo(big.NewRat(n, 1), q)
	return new(big.Int).Quo(quot.Num(), quot.Denom()).Int64()
}
