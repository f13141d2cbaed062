package stv

import (
	"errors"
	"math/big"
	"math/rand"
	"sort"

	"github.com/mkadlec/psephos/core"
)

// ErrUnknownTransfer is returned by NewTransferer for an identifier outside
// the closed set of registered transfer strategies.
var ErrUnknownTransfer = errors.New("stv: unknown transfer strategy")

// Registered transfer strategy identifiers.
const (
	TransferGregory = "gregory"
	TransferHare    = "hare"
)

// BallotShare is a ballot (or fraction of one) currently allocated to a
// candidate.
type BallotShare struct {
	Ranking []core.Rank
	Weight  *big.Rat
}

// Allocation maps each continuing candidate to the ballot shares they hold.
// Candidates leave the allocation when elected or eliminated; their shares
// move to continuing candidates or exhaust.
type Allocation map[core.Candidate][]BallotShare

// Total returns the vote weight currently held by the candidate.
func (a Allocation) Total(cand core.Candidate) *big.Rat {
	sum := new(big.Rat)
	for _, share := range a[cand] {
		sum.Add(sum, share.Weight)
	}
	return sum
}

// Totals returns the vote weight held by every continuing candidate.
func (a Allocation) Totals() core.WeightedVotes {
	out := make(core.WeightedVotes, len(a))
	for cand := range a {
		out[cand] = a.Total(cand)
	}
	return out
}

// Transferer moves ballot weight between candidates as the count proceeds.
//
// Contracts:
//   - Methods never mutate the input allocation; they return a new one.
//   - Transfer reallocates the removed candidates' shares to the next
//     usable preference among candidates still in the allocation; shares
//     with none are exhausted and dropped.
//   - Split divides a shared-rank weight among its members, conserving it.
type Transferer interface {
	Subtract(alloc Allocation, elected map[core.Candidate]*big.Rat) Allocation
	Transfer(alloc Allocation, removed []core.Candidate) Allocation
	Split(targets []core.Candidate, weight *big.Rat) map[core.Candidate]*big.Rat
}

// NewTransferer resolves a transfer strategy by its registered name. The
// hare strategy is created with seed 0; use NewHare for a different seed.
func NewTransferer(name string) (Transferer, error) {
	switch name {
	case TransferGregory:
		return Gregory{}, nil
	case TransferHare:
		return NewHare(0), nil
	default:
		return nil, ErrUnknownTransfer
	}
}

// Gregory is the fractional transfer strategy (Weighted Inclusive Gregory
// Method, as used in Scottish local elections). Surplus transfers scale
// every ballot of the elected candidate by surplus/total; shared ranks
// split weight equally. All arithmetic is exact.
type Gregory struct{}

func (Gregory) Subtract(alloc Allocation, elected map[core.Candidate]*big.Rat) Allocation {
	out := cloneAllocation(alloc)
	for cand, used := range elected {
		total := out.Total(cand)
		if total.Cmp(used) <= 0 {
			out[cand] = nil
			continue
		}
		factor := new(big.Rat).Sub(total, used)
		factor.Quo(factor, total)
		scaled := make([]BallotShare, len(out[cand]))
		for i, share := range out[cand] {
			scaled[i] = BallotShare{
				Ranking: share.Ranking,
				Weight:  new(big.Rat).Mul(share.Weight, factor),
			}
		}
		out[cand] = scaled
	}
	return out
}

func (g Gregory) Transfer(alloc Allocation, removed []core.Candidate) Allocation {
	return transferShares(alloc, removed, g.Split)
}

func (Gregory) Split(targets []core.Candidate, weight *big.Rat) map[core.Candidate]*big.Rat {
	share := new(big.Rat).Quo(weight, big.NewRat(int64(len(targets)), 1))
	out := make(map[core.Candidate]*big.Rat, len(targets))
	for _, cand := range targets {
		out[cand] = new(big.Rat).Set(share)
	}
	return out
}

// Hare is the whole-ballot transfer strategy (used in Irish Dáil
// elections). The quota's worth of ballots is discarded by uniform random
// selection without replacement; the generator is reseeded from the fixed
// seed before every operation, so the count is reproducible.
type Hare struct {
	seed int64
}

// NewHare builds the strategy with the given random seed.
func NewHare(seed int64) *Hare {
	return &Hare{seed: seed}
}

func (h *Hare) Subtract(alloc Allocation, elected map[core.Candidate]*big.Rat) Allocation {
	out := cloneAllocation(alloc)
	cands := make([]core.Candidate, 0, len(elected))
	for cand := range elected {
		cands = append(cands, cand)
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i] < cands[j] })
	for _, cand := range cands {
		rng := rand.New(rand.NewSource(h.seed))
		weights, scale := integerWeights(out[cand])
		used := ceilScaled(elected[cand], scale)
		total := int64(0)
		for _, w := range weights {
			total += w
		}
		if used >= total {
			out[cand] = nil
			continue
		}
		counts := sampleByWeight(rng, weights, used)
		kept := make([]BallotShare, 0, len(out[cand]))
		for i, share := range out[cand] {
			rest := weights[i] - counts[i]
			if rest <= 0 {
				continue
			}
			kept = append(kept, BallotShare{
				Ranking: share.Ranking,
				Weight:  big.NewRat(rest, scale),
			})
		}
		out[cand] = kept
	}
	return out
}

func (h *Hare) Transfer(alloc Allocation, removed []core.Candidate) Allocation {
	return transferShares(alloc, removed, h.Split)
}

func (h *Hare) Split(targets []core.Candidate, weight *big.Rat) map[core.Candidate]*big.Rat {
	sorted := append([]core.Candidate(nil), targets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	n := weight.Num().Int64()
	scale := weight.Denom().Int64()
	whole := n / int64(len(sorted))
	remainder := n - whole*int64(len(sorted))
	out := make(map[core.Candidate]*big.Rat, len(sorted))
	for _, cand := range sorted {
		out[cand] = big.NewRat(whole, scale)
	}
	if remainder > 0 {
		rng := rand.New(rand.NewSource(h.seed))
		weights := make([]int64, len(sorted))
		for i := range weights {
			weights[i] = remainder
		}
		counts := sampleByWeight(rng, weights, remainder)
		for i, cand := range sorted {
			out[cand].Add(out[cand], big.NewRat(counts[i], scale))
		}
	}
	return out
}

// transferShares reallocates the removed candidates' shares to the next
// usable preference among continuing candidates, splitting shared ranks
// with the supplied strategy.
func transferShares(alloc Allocation, removed []core.Candidate, split func([]core.Candidate, *big.Rat) map[core.Candidate]*big.Rat) Allocation {
	removedSet := map[core.Candidate]struct{}{}
	for _, cand := range removed {
		removedSet[cand] = struct{}{}
	}
	continuing := map[core.Candidate]struct{}{}
	for cand := range alloc {
		if _, gone := removedSet[cand]; !gone {
			continuing[cand] = struct{}{}
		}
	}
	out := make(Allocation, len(continuing))
	for cand := range continuing {
		out[cand] = append([]BallotShare(nil), alloc[cand]...)
	}
	sortedRemoved := append([]core.Candidate(nil), removed...)
	sort.Slice(sortedRemoved, func(i, j int) bool { return sortedRemoved[i] < sortedRemoved[j] })
	for _, cand := range sortedRemoved {
		for _, share := range alloc[cand] {
			targets := nextRanked(share.Ranking, cand, continuing)
			if len(targets) == 0 {
				continue // exhausted
			}
			for target, weight := range split(targets, share.Weight) {
				if weight.Sign() > 0 {
					out[target] = append(out[target], BallotShare{
						Ranking: share.Ranking,
						Weight:  weight,
					})
				}
			}
		}
	}
	return out
}

// nextRanked returns the continuing candidates at the first usable rank
// below cand's rank on the ballot, sorted. Empty if the ballot is
// exhausted.
func nextRanked(ranking []core.Rank, cand core.Candidate, continuing map[core.Candidate]struct{}) []core.Candidate {
	found := false
	for _, rank := range ranking {
		if !found {
			for _, member := range rank {
				if member == cand {
					found = true
					break
				}
			}
			continue
		}
		var usable []core.Candidate
		for _, member := range rank {
			if _, ok := continuing[member]; ok {
				usable = append(usable, member)
			}
		}
		if len(usable) > 0 {
			sort.Slice(usable, func(i, j int) bool { return usable[i] < usable[j] })
			return usable
		}
	}
	return nil
}

func cloneAllocation(alloc Allocation) Allocation {
	out := make(Allocation, len(alloc))
	for cand, shares := range alloc {
		out[cand] = append([]BallotShare(nil), shares...)
	}
	return out
}

// integerWeights maps the shares' weights to integers by scaling with the
// least common denominator, returning the scale used.
func integerWeights(shares []BallotShare) ([]int64, int64) {
	scale := big.NewInt(1)
	for _, share := range shares {
		d := share.Weight.Denom()
		gcd := new(big.Int).GCD(nil, nil, scale, d)
		scale.Div(new(big.Int).Mul(scale, d), gcd)
	}
	out := make([]int64, len(shares))
	for i, share := range shares {
		w := new(big.Int).Mul(share.Weight.Num(), scale)
		w.Div(w, share.Weight.Denom())
		out[i] = w.Int64()
	}
	return out, scale.Int64()
}

// ceilScaled returns ceil(r · scale) as an integer.
func ceilScaled(r *big.Rat, scale int64) int64 {
	scaled := new(big.Rat).Mul(r, big.NewRat(scale, 1))
	q, rem := new(big.Int).QuoRem(scaled.Num(), scaled.Denom(), new(big.Int))
	if rem.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Int64()
}

// sampleByWeight draws n units without replacement from buckets of the
// given integer widths, returning how many units each bucket lost.
func sampleByWeight(rng *rand.Rand, weights []int64, n int64) []int64 {
	total := int64(0)
	cum := make([]int64, len(weights))
	for i, w := range weights {
		total += w
		cum[i] = total
	}
	counts := make([]int64, len(weights))
	if n >= total {
		copy(counts, weights)
		return counts
	}
	for _, pos := range sampleDistinct(rng, n, total) {
		idx := sort.Search(len(cum), func(i int) bool { return cum[i] > pos })
		counts[idx]++
	}
	return counts
}

// sampleDistinct draws n distinct integers from [0, total) by Floyd's
// algorithm.
func sampleDistinct(rng *rand.Rand, n, total int64) []int64 {
	chosen := make(map[int64]struct{}, n)
	for i := total - n; i < total; i++ {
		j := rng.Int63n(i + 1)
		if _, taken := chosen[j]; taken {
			chosen[i] = struct{}{}
		} else {
			chosen[j] = struct{}{}
		}
	}
	out := make([]int64, 0, n)
	for v := range chosen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
