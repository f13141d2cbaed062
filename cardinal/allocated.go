package cardinal

import (
	"math/big"

	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/quota"
)

// AllocatedScore is the Allocated Score (Proportional STAR) distributor.
// It repeatedly elects the candidate with the highest weighted score sum,
// then spends a quota of ballot weight taken from the winner's strongest
// supporters, so later rounds answer to voters not yet represented.
//
// Contracts:
//   - PrevGains count toward a candidate's seat cap but are not
//     subtracted from the seats awarded here.
//   - A candidate reaching their seat cap is struck from all ballots.
//   - A round tie that fits in the remaining seats elects all tied
//     candidates; one that does not parks the remaining seats on the tie.
type AllocatedScore struct {
	quota quota.Function
}

// NewAllocatedScore resolves the quota function by registered name;
// Droop is the conventional choice.
func NewAllocatedScore(quotaName string) (*AllocatedScore, error) {
	fn, err := quota.Get(quotaName)
	if err != nil {
		return nil, err
	}
	return AllocatedScoreOf(fn), nil
}

// AllocatedScoreOf builds the distributor around an explicit quota
// function.
func AllocatedScoreOf(fn quota.Function) *AllocatedScore {
	return &AllocatedScore{quota: fn}
}

func (a *AllocatedScore) Evaluate(votes core.ScoreVotes, seats int, opts ...core.EvalOption) (core.Distribution, error) {
	dist, _, err := a.allocate(votes, seats, core.NewEvalConfig(opts...))
	return dist, err
}

type allocBallot struct {
	scores map[core.Candidate]int64
	weight *big.Rat
}

func (a *AllocatedScore) allocate(votes core.ScoreVotes, seats int, cfg core.EvalConfig) (core.Distribution, []core.Candidate, error) {
	if seats < 0 {
		return core.Distribution{}, nil, core.ErrNegativeSeats
	}
	total := votes.Total()
	if total == 0 {
		return core.Distribution{}, nil, core.ErrNoVotes
	}
	ballots := make([]*allocBallot, 0, len(votes))
	for _, ballot := range votes {
		scores := make(map[core.Candidate]int64, len(ballot.Scores))
		for cand, grade := range ballot.Scores {
			scores[cand] = grade
		}
		ballots = append(ballots, &allocBallot{
			scores: scores,
			weight: big.NewRat(ballot.Count, 1),
		})
	}
	qval := a.quota(total, int64(seats))
	dist := core.NewDistribution()
	var order []core.Candidate
	remaining := seats
	for remaining > 0 {
		sums := scoreSums(ballots)
		if len(sums) == 0 {
			break
		}
		best, err := core.NBest(sums, 1)
		if err != nil {
			return core.Distribution{}, nil, err
		}
		if best[0].IsTie() {
			tie := best[0].Tied
			if remaining < len(tie) {
				dist.AddTie(tie, remaining)
				for ; remaining > 0; remaining-- {
					order = append(order, "")
				}
				break
			}
			for _, cand := range tie {
				dist.Seats[cand]++
				order = append(order, cand)
				ballots = a.spendQuota(ballots, cand, qval, dist.Seats[cand]+cfg.PrevGain(cand), cfg)
			}
			remaining -= len(tie)
			continue
		}
		cand := best[0].Candidate
		dist.Seats[cand]++
		order = append(order, cand)
		remaining--
		ballots = a.spendQuota(ballots, cand, qval, dist.Seats[cand]+cfg.PrevGain(cand), cfg)
	}
	return dist, order, nil
}

// spendQuota removes a quota of ballot weight from the ballots giving
// cand their highest remaining grade, descending through grade levels and
// scaling the last level fractionally; a capped-out candidate is then
// struck from all ballots.
func (a *AllocatedScore) spendQuota(ballots []*allocBallot, cand core.Candidate, qval *big.Rat, gained int, cfg core.EvalConfig) []*allocBallot {
	toSpend := new(big.Rat).Set(qval)
	for toSpend.Sign() > 0 {
		members := topGrade(ballots, cand)
		if len(members) == 0 {
			break
		}
		size := new(big.Rat)
		for _, ballot := range members {
			size.Add(size, ballot.weight)
		}
		if size.Sign() == 0 {
			break
		}
		if size.Cmp(toSpend) > 0 {
			scale := new(big.Rat).Quo(new(big.Rat).Sub(size, toSpend), size)
			for _, ballot := range members {
				ballot.weight.Mul(ballot.weight, scale)
			}
			break
		}
		for _, ballot := range members {
			ballot.weight.SetInt64(0)
		}
		toSpend.Sub(toSpend, size)
	}
	if cap, ok := cfg.MaxSeat(cand); ok && gained >= cap {
		out := ballots[:0]
		for _, ballot := range ballots {
			delete(ballot.scores, cand)
			if len(ballot.scores) > 0 {
				out = append(out, ballot)
			}
		}
		return out
	}
	return ballots
}

// topGrade finds the ballots scoring cand at their highest remaining
// grade.
func topGrade(ballots []*allocBallot, cand core.Candidate) []*allocBallot {
	var best int64
	var members []*allocBallot
	for _, ballot := range ballots {
		grade, scored := ballot.scores[cand]
		if !scored || ballot.weight.Sign() == 0 {
			continue
		}
		switch {
		case members == nil || grade > best:
			best = grade
			members = []*allocBallot{ballot}
		case grade == best:
			members = append(members, ballot)
		}
	}
	return members
}

func scoreSums(ballots []*allocBallot) core.WeightedVotes {
	out := core.WeightedVotes{}
	for _, ballot := range ballots {
		if ballot.weight.Sign() == 0 {
			continue
		}
		for cand, grade := range ballot.scores {
			term := new(big.Rat).Mul(ballot.weight, big.NewRat(grade, 1))
			if prev, ok := out[cand]; ok {
				prev.Add(prev, term)
			} else {
				out[cand] = term
			}
		}
	}
	return out
}

// AllocatedScoreSelector runs Allocated Score as a selector: every
// candidate is capped at one seat and the winners come back in election
// order. A round tie past the remaining seats fills the tail of the
// selection with tie slots.
type AllocatedScoreSelector struct {
	dist *AllocatedScore
}

// NewAllocatedScoreSelector resolves the quota function by registered
// name.
func NewAllocatedScoreSelector(quotaName string) (*AllocatedScoreSelector, error) {
	dist, err := NewAllocatedScore(quotaName)
	if err != nil {
		return nil, err
	}
	return &AllocatedScoreSelector{dist: dist}, nil
}

// AllocatedScoreSelectorOf builds the selector around an explicit quota
// function.
func AllocatedScoreSelectorOf(fn quota.Function) *AllocatedScoreSelector {
	return &AllocatedScoreSelector{dist: AllocatedScoreOf(fn)}
}

func (s *AllocatedScoreSelector) Evaluate(votes core.ScoreVotes, seats int) (core.Selection, error) {
	caps := map[core.Candidate]int{}
	for _, ballot := range votes {
		for cand := range ballot.Scores {
			caps[cand] = 1
		}
	}
	dist, order, err := s.dist.allocate(votes, seats, core.NewEvalConfig(core.WithMaxSeats(caps)))
	if err != nil {
		return nil, err
	}
	out := make(core.Selection, 0, len(order))
	for _, cand := range order {
		if cand == "" {
			out = append(out, core.Unresolved(dist.Ties[0].Tie))
			continue
		}
		out = append(out, core.Decided(cand))
	}
	return out, nil
}
