package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/psephos/core"
)

func TestNBest_SimpleOrdering(t *testing.T) {
	votes := core.Votes{"A": 120, "B": 300, "C": 80}
	sel, err := core.NBestCounts(votes, 2)
	require.NoError(t, err)
	require.Len(t, sel, 2)
	assert.Equal(t, core.Decided("B"), sel[0])
	assert.Equal(t, core.Decided("A"), sel[1])
	assert.False(t, sel.HasTie())
}

func TestNBest_TieAtCut(t *testing.T) {
	votes := core.Votes{"A": 100, "B": 100, "C": 50}
	sel, err := core.NBestCounts(votes, 1)
	require.NoError(t, err)
	require.Len(t, sel, 1)
	require.True(t, sel[0].IsTie())
	assert.Equal(t, core.NewTie("A", "B"), sel[0].Tied)
}

func TestNBest_TieGroupFillsRemainingSlots(t *testing.T) {
	votes := core.Votes{"A": 200, "B": 100, "C": 100, "D": 100}
	sel, err := core.NBestCounts(votes, 3)
	require.NoError(t, err)
	require.Len(t, sel, 3)
	assert.Equal(t, core.Decided("A"), sel[0])
	wantTie := core.NewTie("B", "C", "D")
	for _, slot := range sel[1:] {
		require.True(t, slot.IsTie())
		assert.True(t, slot.Tied.Equal(wantTie))
	}
}

func TestNBest_FewerCandidatesThanSeats(t *testing.T) {
	votes := core.Votes{"A": 5, "B": 3}
	sel, err := core.NBestCounts(votes, 4)
	require.NoError(t, err)
	require.Len(t, sel, 2)
	assert.False(t, sel.HasTie())
}

func TestNBest_NegativeSeats(t *testing.T) {
	_, err := core.NBestCounts(core.Votes{"A": 1}, -1)
	assert.ErrorIs(t, err, core.ErrNegativeSeats)
}

func TestNBest_ZeroSeats(t *testing.T) {
	sel, err := core.NBestCounts(core.Votes{"A": 100, "B": 100}, 0)
	require.NoError(t, err)
	assert.Empty(t, sel)
}

func TestNBest_EqualScoresAboveCutAreDecided(t *testing.T) {
	// A and B tie but both fit into the seat count: no Tie marker.
	votes := core.Votes{"A": 100, "B": 100, "C": 50}
	sel, err := core.NBestCounts(votes, 2)
	require.NoError(t, err)
	require.Len(t, sel, 2)
	assert.False(t, sel.HasTie())
	assert.Equal(t, core.Decided("A"), sel[0])
	assert.Equal(t, core.Decided("B"), sel[1])
}

func TestPlurality_EmptyVotes(t *testing.T) {
	_, err := core.Plurality{}.Evaluate(core.Votes{}, 1)
	assert.ErrorIs(t, err, core.ErrNoVotes)
}

func TestSelection_CandidatesFailsOnTie(t *testing.T) {
	sel := core.Selection{core.Decided("A"), core.Unresolved(core.NewTie("B", "C"))}
	_, err := sel.Candidates()
	assert.ErrorIs(t, err, core.ErrUnresolvedTie)
}

func TestTieError_CarriesSetAndMatchesSentinel(t *testing.T) {
	err := core.NewTieError(core.NewTie("X", "Y"), "elimination")
	assert.ErrorIs(t, err, core.ErrTie)
	te, ok := core.AsTieError(err)
	require.True(t, ok)
	assert.Equal(t, core.NewTie("X", "Y"), te.Tie)
}

func TestDistribution_TotalsAndTies(t *testing.T) {
	d := core.NewDistribution()
	d.Seats["A"] = 3
	d.Seats["B"] = 1
	d.AddTie(core.NewTie("C", "D"), 1)
	d.AddTie(core.NewTie("C", "D"), 1)
	assert.Equal(t, 6, d.TotalSeats())
	require.Len(t, d.Ties, 1)
	assert.Equal(t, 2, d.Ties[0].Seats)
}
