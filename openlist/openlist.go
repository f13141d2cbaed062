// Package openlist selects the candidates actually seated from an open
// party list: the party orders its list, voters cast preferential votes
// for individual candidates, and sufficiently supported candidates jump
// over the list ordering. The evaluators take the original list ordering
// as an extra argument and use it to break ties.
package openlist

import (
	"math/big"
	"sort"

	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/quota"
)

type config struct {
	jumpFraction  *big.Rat
	quotaName     string
	quotaFn       quota.Function
	quotaFraction *big.Rat
	takeHigher    bool
	acceptEqual   bool
	listFirst     bool
}

// Option adjusts a ThresholdOpenList.
type Option func(*config)

// JumpFraction lets candidates holding at least this fraction of the
// list's preferential votes jump.
func JumpFraction(f *big.Rat) Option {
	return func(c *config) { c.jumpFraction = f }
}

// QuotaFunction lets candidates reaching a vote quota jump, resolving the
// quota by registered name ("hare" is the most frequent choice).
func QuotaFunction(name string) Option {
	return func(c *config) { c.quotaName = name; c.quotaFn = nil }
}

// QuotaWith is QuotaFunction with an explicit quota function.
func QuotaWith(fn quota.Function) Option {
	return func(c *config) { c.quotaFn = fn; c.quotaName = "" }
}

// QuotaFraction scales the computed quota, e.g. 1/2 to let candidates with
// half a quota jump. Default 1.
func QuotaFraction(f *big.Rat) Option {
	return func(c *config) { c.quotaFraction = f }
}

// TakeHigher combines the jump fraction and quota thresholds with AND
// (the higher bar applies) instead of the default OR.
func TakeHigher() Option {
	return func(c *config) { c.takeHigher = true }
}

// AcceptEqual lets candidates exactly at the threshold jump. Default off.
func AcceptEqual(v bool) Option {
	return func(c *config) { c.acceptEqual = v }
}

// ListPrecedence drops the jumping candidates lowest on the list, instead
// of those with the least votes, when more candidates jump than there are
// seats.
func ListPrecedence() Option {
	return func(c *config) { c.listFirst = true }
}

// ThresholdOpenList seats the candidates whose preferential votes clear a
// jump threshold first, ordered by votes, and fills the remaining seats in
// the original list order. The threshold is a fraction of the list total,
// a seat quota, or both.
type ThresholdOpenList struct {
	cfg config
}

// New builds the evaluator, resolving a configured quota name. Without
// JumpFraction or a quota the list order alone decides.
func New(opts ...Option) (*ThresholdOpenList, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.quotaName != "" {
		fn, err := quota.Get(cfg.quotaName)
		if err != nil {
			return nil, err
		}
		cfg.quotaFn = fn
	}
	return &ThresholdOpenList{cfg: cfg}, nil
}

// Evaluate selects seats candidates from the list. Equal vote counts at
// any cut are broken by list position, so the result is always fully
// decided.
func (t *ThresholdOpenList) Evaluate(votes core.Votes, seats int, list []core.Candidate) (core.Selection, error) {
	if seats < 0 {
		return nil, core.ErrNegativeSeats
	}
	if seats == 0 {
		return nil, nil
	}
	threshold := t.threshold(votes.Total(), seats)
	if threshold == nil {
		if len(list) > seats {
			list = list[:seats]
		}
		return core.SelectionOf(list...), nil
	}
	position := listPositions(list)
	jumping := t.jumping(votes, threshold, position)
	if len(jumping) > seats {
		if t.cfg.listFirst {
			sort.Slice(jumping, func(i, j int) bool {
				return listLess(jumping[i], jumping[j], position)
			})
			jumping = jumping[:seats]
			sortByVotes(jumping, votes, position)
		} else {
			jumping = jumping[:seats]
		}
		return core.SelectionOf(jumping...), nil
	}
	elected := jumping
	taken := map[core.Candidate]struct{}{}
	for _, cand := range elected {
		taken[cand] = struct{}{}
	}
	for _, cand := range list {
		if len(elected) == seats {
			break
		}
		if _, ok := taken[cand]; !ok {
			taken[cand] = struct{}{}
			elected = append(elected, cand)
		}
	}
	return core.SelectionOf(elected...), nil
}

// threshold resolves the effective jump threshold, nil when none is
// configured.
func (t *ThresholdOpenList) threshold(total int64, seats int) *big.Rat {
	var thresholds []*big.Rat
	if t.cfg.jumpFraction != nil {
		thresholds = append(thresholds,
			new(big.Rat).Mul(t.cfg.jumpFraction, big.NewRat(total, 1)))
	}
	if t.cfg.quotaFn != nil {
		q := t.cfg.quotaFn(total, int64(seats))
		if t.cfg.quotaFraction != nil {
			q = new(big.Rat).Mul(q, t.cfg.quotaFraction)
		}
		thresholds = append(thresholds, q)
	}
	if len(thresholds) == 0 {
		return nil
	}
	pick := thresholds[0]
	for _, cand := range thresholds[1:] {
		cmp := cand.Cmp(pick)
		if (t.cfg.takeHigher && cmp > 0) || (!t.cfg.takeHigher && cmp < 0) {
			pick = cand
		}
	}
	return pick
}

// jumping returns the candidates clearing the threshold, ordered by votes
// descending with list position breaking ties.
func (t *ThresholdOpenList) jumping(votes core.Votes, threshold *big.Rat, position map[core.Candidate]int) []core.Candidate {
	var out []core.Candidate
	for cand, n := range votes {
		cmp := big.NewRat(n, 1).Cmp(threshold)
		if cmp > 0 || (t.cfg.acceptEqual && cmp == 0) {
			out = append(out, cand)
		}
	}
	sortByVotes(out, votes, position)
	return out
}

func sortByVotes(cands []core.Candidate, votes core.Votes, position map[core.Candidate]int) {
	sort.Slice(cands, func(i, j int) bool {
		if votes[cands[i]] != votes[cands[j]] {
			return votes[cands[i]] > votes[cands[j]]
		}
		return listLess(cands[i], cands[j], position)
	})
}

// listLess orders by list position; candidates off the list go last, by
// identifier.
func listLess(a, b core.Candidate, position map[core.Candidate]int) bool {
	pa, aOn := position[a]
	pb, bOn := position[b]
	switch {
	case aOn && bOn:
		return pa < pb
	case aOn:
		return true
	case bOn:
		return false
	default:
		return a < b
	}
}

func listPositions(list []core.Candidate) map[core.Candidate]int {
	out := make(map[core.Candidate]int, len(list))
	for i, cand := range list {
		if _, dup := out[cand]; !dup {
			out[cand] = i
		}
	}
	return out
}

// ListOrderTieBreaker wraps a selector and resolves any Tie slots in its
// result by the party list ordering: tied candidates are seated in list
// order until the tie's slots are used up.
type ListOrderTieBreaker struct {
	Selector core.Selector
}

// Evaluate runs the inner selector and returns its result with all ties
// broken, fully decided.
func (l ListOrderTieBreaker) Evaluate(votes core.Votes, seats int, list []core.Candidate) (core.Selection, error) {
	inner, err := l.Selector.Evaluate(votes, seats)
	if err != nil {
		return nil, err
	}
	if !inner.HasTie() {
		return inner, nil
	}
	position := listPositions(list)
	// Queue of remaining members per tie set, in list order.
	queues := map[string][]core.Candidate{}
	out := make(core.Selection, 0, len(inner))
	for _, slot := range inner {
		if !slot.IsTie() {
			out = append(out, slot)
			continue
		}
		key := tieKey(slot.Tied)
		queue, ok := queues[key]
		if !ok {
			queue = append([]core.Candidate(nil), slot.Tied...)
			sort.Slice(queue, func(i, j int) bool {
				return listLess(queue[i], queue[j], position)
			})
		}
		out = append(out, core.Decided(queue[0]))
		queues[key] = queue[1:]
	}
	return out, nil
}

func tieKey(t core.Tie) string {
	key := ""
	for _, cand := range t {
		key += string(cand) + "\x00"
	}
	return key
}
