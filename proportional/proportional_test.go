package proportional_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/divisor"
	"github.com/mkadlec/psephos/proportional"
	"github.com/mkadlec/psephos/quota"
)

// nineParties is a 200-seat party-list regression profile.
var nineParties = core.Votes{
	"Unity": 1084500, "Progress": 876300, "Greens": 512400,
	"Liberty": 498200, "Heritage": 340100, "Labour": 301750,
	"Farmers": 155600, "Coast": 98200, "Reform": 61100,
}

func TestHighestAverages_DHondt(t *testing.T) {
	ha, err := proportional.NewHighestAverages(divisor.DHondt)
	require.NoError(t, err)
	got, err := ha.Evaluate(nineParties, 200)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{
		"Unity": 56, "Progress": 45, "Greens": 26, "Liberty": 25,
		"Heritage": 17, "Labour": 15, "Farmers": 8, "Coast": 5, "Reform": 3,
	}, got.Seats)
	assert.False(t, got.HasTie())
	assert.Equal(t, 200, got.TotalSeats())
}

func TestLargestRemainder_Hare(t *testing.T) {
	lr, err := proportional.NewLargestRemainder(quota.Hare)
	require.NoError(t, err)
	got, err := lr.Evaluate(nineParties, 200)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{
		"Unity": 55, "Progress": 45, "Greens": 26, "Liberty": 26,
		"Heritage": 17, "Labour": 15, "Farmers": 8, "Coast": 5, "Reform": 3,
	}, got.Seats)
	assert.Equal(t, 200, got.TotalSeats())
}

func TestLargestRemainder_Small(t *testing.T) {
	lr, err := proportional.NewLargestRemainder(quota.Hare)
	require.NoError(t, err)
	got, err := lr.Evaluate(core.Votes{"A": 100, "B": 80, "C": 20}, 4)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 2, "B": 2}, got.Seats)
}

func TestLargestRemainder_QuotaExactFill(t *testing.T) {
	// The quota pass alone fills the house; no remainder seats are left.
	lr, err := proportional.NewLargestRemainder(quota.Hare)
	require.NoError(t, err)
	got, err := lr.Evaluate(core.Votes{"A": 100, "B": 100}, 2)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 1, "B": 1}, got.Seats)
	assert.False(t, got.HasTie())
}

func TestLargestRemainder_RemainderTie(t *testing.T) {
	lr, err := proportional.NewLargestRemainder(quota.Hare)
	require.NoError(t, err)
	got, err := lr.Evaluate(core.Votes{"A": 3, "B": 3, "C": 4}, 2)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"C": 1}, got.Seats)
	require.Len(t, got.Ties, 1)
	assert.Equal(t, core.NewTie("A", "B"), got.Ties[0].Tie)
	assert.Equal(t, 1, got.Ties[0].Seats)
}

func TestLargestRemainder_UnknownQuota(t *testing.T) {
	_, err := proportional.NewLargestRemainder("nonesuch")
	assert.ErrorIs(t, err, quota.ErrUnknownQuota)
}

func TestHighestAverages_FinalSeatTie(t *testing.T) {
	ha, err := proportional.NewHighestAverages(divisor.DHondt)
	require.NoError(t, err)
	got, err := ha.Evaluate(core.Votes{"A": 6, "B": 6}, 3)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 1, "B": 1}, got.Seats)
	require.Len(t, got.Ties, 1)
	assert.Equal(t, core.NewTie("A", "B"), got.Ties[0].Tie)
	assert.Equal(t, 3, got.TotalSeats())
}

func TestHighestAverages_PrevGains(t *testing.T) {
	ha, err := proportional.NewHighestAverages(divisor.DHondt)
	require.NoError(t, err)
	got, err := ha.Evaluate(core.Votes{"A": 100, "B": 60}, 4,
		core.WithPrevGains(map[core.Candidate]int{"A": 1}))
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 2, "B": 1}, got.Seats)
}

func TestHighestAverages_MaxSeats(t *testing.T) {
	ha, err := proportional.NewHighestAverages(divisor.DHondt)
	require.NoError(t, err)
	got, err := ha.Evaluate(core.Votes{"A": 100, "B": 10}, 4,
		core.WithMaxSeats(map[core.Candidate]int{"A": 2}))
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 2, "B": 2}, got.Seats)
}

func TestHighestAverages_HuntingtonHillNeedsPrevGain(t *testing.T) {
	// The order-0 divisor is zero, so without previous gains nobody is
	// eligible for a quotient and no seats can be awarded.
	ha, err := proportional.NewHighestAverages(divisor.HuntingtonHill)
	require.NoError(t, err)
	got, err := ha.Evaluate(core.Votes{"A": 100, "B": 10}, 3)
	require.NoError(t, err)
	assert.Empty(t, got.Seats)

	got, err = ha.Evaluate(core.Votes{"A": 100, "B": 10}, 3,
		core.WithPrevGains(map[core.Candidate]int{"A": 1, "B": 1}))
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 1}, got.Seats)
}

func TestQuotaDistributor(t *testing.T) {
	qd, err := proportional.NewQuotaDistributor(quota.Hare)
	require.NoError(t, err)
	got, err := qd.Evaluate(core.Votes{"A": 100, "B": 80, "C": 20}, 4)
	require.NoError(t, err)
	// Hare quota 50: only full multiples are awarded.
	assert.Equal(t, map[core.Candidate]int{"A": 2, "B": 1}, got.Seats)
}

func TestQuotaDistributor_Overaward(t *testing.T) {
	// Imperiali quota 100/4 = 25 entitles three seats where two were asked.
	qd, err := proportional.NewQuotaDistributor(quota.Imperiali)
	require.NoError(t, err)
	_, err = qd.Evaluate(core.Votes{"A": 60, "B": 40}, 2)
	assert.ErrorIs(t, err, proportional.ErrOveraward)

	accepting, err := proportional.NewQuotaDistributor(quota.Imperiali,
		proportional.Overaward(proportional.OverawardAccept))
	require.NoError(t, err)
	got, err := accepting.Evaluate(core.Votes{"A": 60, "B": 40}, 2)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 2, "B": 1}, got.Seats)
}

func TestVotesPerSeat(t *testing.T) {
	vps := proportional.NewVotesPerSeat(10)
	got, err := vps.Evaluate(core.Votes{"A": 25, "B": 10, "C": 4})
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 2, "B": 1}, got.Seats)

	strict := proportional.NewVotesPerSeat(10, proportional.AcceptEqual(false))
	got, err = strict.Evaluate(core.Votes{"A": 25, "B": 10, "C": 4})
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 2}, got.Seats)
}

func TestEvaluate_InputErrors(t *testing.T) {
	ha, err := proportional.NewHighestAverages(divisor.DHondt)
	require.NoError(t, err)
	_, err = ha.Evaluate(core.Votes{"A": 1}, -1)
	assert.ErrorIs(t, err, core.ErrNegativeSeats)
	_, err = ha.Evaluate(core.Votes{}, 3)
	assert.ErrorIs(t, err, core.ErrNoVotes)
}
