package sortition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/sortition"
)

var pool = core.Votes{"A": 10, "B": 20, "C": 30, "D": 40}

func TestSortitor_Reproducible(t *testing.T) {
	s := sortition.NewSortitor(42)

	first, err := s.Evaluate(pool, 2)
	require.NoError(t, err)
	second, err := s.Evaluate(pool, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.Len(t, first, 2)
	cands, err := first.Candidates()
	require.NoError(t, err)
	assert.NotEqual(t, cands[0], cands[1])
	for _, cand := range cands {
		assert.Contains(t, pool, cand)
	}
}

func TestSortitor_SeedMatters(t *testing.T) {
	votes := core.Votes{}
	for _, cand := range []core.Candidate{
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J",
		"K", "L", "M", "N", "O", "P", "Q", "R", "S", "T",
	} {
		votes[cand] = 1
	}
	a, err := sortition.NewSortitor(1).Evaluate(votes, 6)
	require.NoError(t, err)
	b, err := sortition.NewSortitor(2).Evaluate(votes, 6)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSortitor_FewerCandidatesThanSeats(t *testing.T) {
	sel, err := sortition.NewSortitor(7).Evaluate(core.Votes{"A": 1, "B": 9}, 5)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A", "B"), sel)
}

func TestSortitor_NoVotes(t *testing.T) {
	_, err := sortition.NewSortitor(7).Evaluate(core.Votes{}, 1)
	assert.ErrorIs(t, err, core.ErrNoVotes)
}

func TestBallotSampler_Reproducible(t *testing.T) {
	s := sortition.NewBallotSampler(42)

	first, err := s.Evaluate(pool, 3)
	require.NoError(t, err)
	second, err := s.Evaluate(pool, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	cands, err := first.Candidates()
	require.NoError(t, err)
	require.Len(t, cands, 3)
	seen := map[core.Candidate]bool{}
	for _, cand := range cands {
		assert.Contains(t, pool, cand)
		assert.False(t, seen[cand])
		seen[cand] = true
	}
}

func TestBallotSampler_IgnoresUnvoted(t *testing.T) {
	// Zero-vote candidates never come out of the ballot box.
	votes := core.Votes{"A": 100, "B": 0, "C": 0, "D": 0}
	sel, err := sortition.NewBallotSampler(3).Evaluate(votes, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A"), sel)
}

func TestBallotSampler_NoVotes(t *testing.T) {
	_, err := sortition.NewBallotSampler(3).Evaluate(core.Votes{"A": 0}, 1)
	assert.ErrorIs(t, err, core.ErrNoVotes)
}

func TestOrderSelector(t *testing.T) {
	order := sortition.OrderSelector{"C", "A", "D", "B"}

	sel, err := order.Evaluate(pool, 2)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("C", "A"), sel)

	// Candidates absent from the votes are skipped.
	sel, err = order.Evaluate(core.Votes{"B": 1, "D": 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("D"), sel)
}
