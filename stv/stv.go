package stv

import (
	"math/big"

	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/quota"
)

type config struct {
	transferName  string
	transferer    Transferer
	quotaName     string
	quotaFn       quota.Function
	noQuota       bool
	acceptEqual   bool
	eliminateStep int
}

// Option adjusts a TransferableVoteSelector.
type Option func(*config)

// Transfer selects the transfer strategy by registered name.
// Default "gregory".
func Transfer(name string) Option {
	return func(c *config) { c.transferName = name; c.transferer = nil }
}

// TransferWith supplies an explicit transfer strategy, e.g. a seeded Hare.
func TransferWith(t Transferer) Option {
	return func(c *config) { c.transferer = t }
}

// Quota selects the quota function by registered name. Default "droop".
func Quota(name string) Option {
	return func(c *config) { c.quotaName = name; c.quotaFn = nil; c.noQuota = false }
}

// QuotaWith supplies an explicit quota function.
func QuotaWith(fn quota.Function) Option {
	return func(c *config) { c.quotaFn = fn; c.noQuota = false }
}

// NoQuota disables election by quota; candidates are only eliminated until
// the requested number remains (pure elimination runoff).
func NoQuota() Option {
	return func(c *config) { c.noQuota = true }
}

// AcceptQuotaEqual controls whether a tally exactly equal to the quota
// elects. Default true.
func AcceptQuotaEqual(v bool) Option {
	return func(c *config) { c.acceptEqual = v }
}

// EliminateStep sets how many candidates each elimination removes.
// Negative values remove that many per step (default -1, one at a time);
// a positive value is the number of candidates to retain instead.
func EliminateStep(n int) Option {
	return func(c *config) { c.eliminateStep = n }
}

// TransferableVoteSelector elects candidates from ranked ballots by quota
// election with surplus transfer and bottom elimination. Implements
// core.RankedSelector.
type TransferableVoteSelector struct {
	cfg config
}

// New builds a selector, resolving strategy and quota names. Defaults:
// Gregory transfers, droop quota, single elimination.
func New(opts ...Option) (*TransferableVoteSelector, error) {
	cfg := config{
		transferName:  TransferGregory,
		quotaName:     quota.Droop,
		acceptEqual:   true,
		eliminateStep: -1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.transferer == nil {
		t, err := NewTransferer(cfg.transferName)
		if err != nil {
			return nil, err
		}
		cfg.transferer = t
	}
	if !cfg.noQuota && cfg.quotaFn == nil {
		fn, err := quota.Get(cfg.quotaName)
		if err != nil {
			return nil, err
		}
		cfg.quotaFn = fn
	}
	return &TransferableVoteSelector{cfg: cfg}, nil
}

// Evaluate runs the full count and returns the elected candidates in order
// of election. Fails with a TieError when an elimination or a quota
// election cut hits an exact tie.
func (s *TransferableVoteSelector) Evaluate(votes core.RankedVotes, seats int) (core.Selection, error) {
	_, elected, err := s.count(votes, seats, int(^uint(0)>>1))
	return elected, err
}

// NthCount exposes the intermediate state of the count for audit: the
// tallies the given count operated on (1-indexed) and the candidates
// elected up to and including it.
func (s *TransferableVoteSelector) NthCount(votes core.RankedVotes, seats, count int) (core.WeightedVotes, core.Selection, error) {
	return s.count(votes, seats, count)
}

func (s *TransferableVoteSelector) count(votes core.RankedVotes, seats, countNumber int) (core.WeightedVotes, core.Selection, error) {
	if seats < 0 {
		return nil, nil, core.ErrNegativeSeats
	}
	if votes.Total() == 0 {
		return nil, nil, core.ErrNoVotes
	}
	alloc := s.firstPreferences(votes)
	var quotaVal *big.Rat
	if !s.cfg.noQuota {
		quotaVal = s.cfg.quotaFn(votes.Total(), int64(seats))
	}
	var elected core.Selection
	totals := alloc.Totals()
	// Each count removes at least one candidate, so the loop is bounded.
	maxCounts := len(totals) + seats + 1
	if countNumber < maxCounts {
		maxCounts = countNumber
	}
	for i := 0; i < maxCounts; i++ {
		if len(elected) >= seats {
			break
		}
		totals = alloc.Totals()
		next, newly, err := s.nextCount(alloc, quotaVal, seats-len(elected))
		if err != nil {
			return nil, nil, err
		}
		elected = append(elected, newly...)
		alloc = next
	}
	if len(elected) > seats {
		elected = elected[:seats]
	}
	return totals, elected, nil
}

// nextCount advances the process by one count, returning the new
// allocation and any newly elected candidates.
func (s *TransferableVoteSelector) nextCount(alloc Allocation, quotaVal *big.Rat, remSeats int) (Allocation, core.Selection, error) {
	totals := alloc.Totals()
	if len(totals) <= remSeats {
		// No elimination can help; elect everyone still standing.
		sel, err := core.NBest(totals, len(totals))
		if err != nil {
			return nil, nil, err
		}
		return Allocation{}, sel, nil
	}
	if quotaVal != nil {
		elected, err := s.electByQuota(totals, quotaVal, remSeats)
		if err != nil {
			return nil, nil, err
		}
		if len(elected) > 0 {
			used := make(map[core.Candidate]*big.Rat, len(elected))
			cands := make([]core.Candidate, len(elected))
			for i, slot := range elected {
				used[slot.Candidate] = quotaVal
				cands[i] = slot.Candidate
			}
			next := s.cfg.transferer.Subtract(alloc, used)
			next = s.cfg.transferer.Transfer(next, cands)
			return next, elected, nil
		}
	}
	eliminated, err := s.selectEliminated(totals)
	if err != nil {
		return nil, nil, err
	}
	return s.cfg.transferer.Transfer(alloc, eliminated), nil, nil
}

// electByQuota returns the candidates at or above the quota, strongest
// first, at most remSeats of them.
func (s *TransferableVoteSelector) electByQuota(totals core.WeightedVotes, quotaVal *big.Rat, remSeats int) (core.Selection, error) {
	fill := core.WeightedVotes{}
	for cand, total := range totals {
		cmp := total.Cmp(quotaVal)
		if cmp > 0 || (cmp == 0 && s.cfg.acceptEqual) {
			fill[cand] = total
		}
	}
	if len(fill) == 0 {
		return nil, nil
	}
	n := len(fill)
	if n > remSeats {
		n = remSeats
	}
	sel, err := core.NBest(fill, n)
	if err != nil {
		return nil, err
	}
	for _, slot := range sel {
		if slot.IsTie() {
			return nil, core.NewTieError(slot.Tied, "transferable vote quota election")
		}
	}
	return sel, nil
}

// selectEliminated picks the candidates leaving the count, per the
// eliminate step.
func (s *TransferableVoteSelector) selectEliminated(totals core.WeightedVotes) ([]core.Candidate, error) {
	retainCount := 0
	if s.cfg.eliminateStep < 0 {
		retainCount = len(totals) + s.cfg.eliminateStep
		if retainCount < 1 {
			retainCount = 1
		}
	} else {
		retainCount = s.cfg.eliminateStep
		if retainCount > len(totals)-1 {
			retainCount = len(totals) - 1
		}
	}
	sel, err := core.NBest(totals, retainCount)
	if err != nil {
		return nil, err
	}
	retained := map[core.Candidate]struct{}{}
	for _, slot := range sel {
		if slot.IsTie() {
			return nil, core.NewTieError(slot.Tied, "transferable vote elimination")
		}
		retained[slot.Candidate] = struct{}{}
	}
	var eliminated []core.Candidate
	for cand := range totals {
		if _, keep := retained[cand]; !keep {
			eliminated = append(eliminated, cand)
		}
	}
	return eliminated, nil
}

// firstPreferences allocates every ballot to its first-ranked candidate,
// splitting shared first ranks with the transfer strategy.
func (s *TransferableVoteSelector) firstPreferences(votes core.RankedVotes) Allocation {
	alloc := Allocation{}
	for _, cand := range votes.Candidates() {
		alloc[cand] = nil
	}
	for _, ballot := range votes {
		if len(ballot.Ranking) == 0 || ballot.Count == 0 {
			continue
		}
		first := ballot.Ranking[0]
		weight := big.NewRat(ballot.Count, 1)
		if len(first) == 1 {
			alloc[first[0]] = append(alloc[first[0]], BallotShare{
				Ranking: ballot.Ranking,
				Weight:  weight,
			})
			continue
		}
		for cand, split := range s.cfg.transferer.Split(first, weight) {
			if split.Sign() > 0 {
				alloc[cand] = append(alloc[cand], BallotShare{
					Ranking: ballot.Ranking,
					Weight:  split,
				})
			}
		}
	}
	return alloc
}
