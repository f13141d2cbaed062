package proportional_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/divisor"
	"github.com/mkadlec/psephos/proportional"
)

var biVotes = core.DistrictVotes{
	"I":   {"A": 1347, "B": 123, "C": 912},
	"II":  {"A": 114, "B": 456, "C": 444},
	"III": {"A": 815, "B": 414, "C": 215},
}

func TestBiproportional_SainteLague(t *testing.T) {
	bi, err := proportional.NewBiproportional(divisor.SainteLague)
	require.NoError(t, err)
	got, err := bi.Evaluate(biVotes, 20)
	require.NoError(t, err)
	want := core.DistrictDistribution{
		"I":   core.DistributionOf(map[core.Candidate]int{"A": 6, "C": 4}),
		"II":  core.DistributionOf(map[core.Candidate]int{"B": 2, "C": 2}),
		"III": core.DistributionOf(map[core.Candidate]int{"A": 3, "B": 2, "C": 1}),
	}
	assert.Equal(t, want, got)
}

func TestBiproportional_MarginalSums(t *testing.T) {
	bi, err := proportional.NewBiproportional(divisor.SainteLague)
	require.NoError(t, err)
	got, err := bi.Evaluate(biVotes, 20)
	require.NoError(t, err)

	// Row sums match an independent apportionment of seats to districts.
	ha, err := proportional.NewHighestAverages(divisor.SainteLague)
	require.NoError(t, err)
	totals := core.Votes{}
	national := core.Votes{}
	for district, dvotes := range biVotes {
		totals[core.Candidate(district)] = dvotes.Total()
		for party, n := range dvotes {
			national[party] += n
		}
	}
	districtSeats, err := ha.Evaluate(totals, 20)
	require.NoError(t, err)
	for district, dist := range got {
		assert.Equalf(t, districtSeats.Seats[core.Candidate(district)], dist.TotalSeats(),
			"district %s row sum", district)
	}

	// Column sums match the national party entitlement.
	partySeats, err := ha.Evaluate(national, 20)
	require.NoError(t, err)
	colSums := map[core.Candidate]int{}
	for _, dist := range got {
		for party, n := range dist.Seats {
			colSums[party] += n
		}
	}
	assert.Equal(t, partySeats.Seats, colSums)
}

func TestBiproportional_StaticApportioner(t *testing.T) {
	bi, err := proportional.NewBiproportional(divisor.SainteLague,
		proportional.WithApportioner(proportional.StaticApportioner{
			"I": 10, "II": 4, "III": 6,
		}))
	require.NoError(t, err)
	got, err := bi.Evaluate(biVotes, 20)
	require.NoError(t, err)
	assert.Equal(t, 10, got["I"].TotalSeats())
	assert.Equal(t, 4, got["II"].TotalSeats())
	assert.Equal(t, 6, got["III"].TotalSeats())
}

func TestBiproportional_SeatMismatch(t *testing.T) {
	bi, err := proportional.NewBiproportional(divisor.SainteLague,
		proportional.WithApportioner(proportional.StaticApportioner{
			"I": 1, "II": 1, "III": 1,
		}))
	require.NoError(t, err)
	_, err = bi.Evaluate(biVotes, 20)
	assert.ErrorIs(t, err, core.ErrSeatMismatch)
}

func TestBiproportional_NoSignpost(t *testing.T) {
	_, err := proportional.NewBiproportional(divisor.Danish)
	assert.ErrorIs(t, err, proportional.ErrNoSignpost)
}

func TestApportioners(t *testing.T) {
	fixed, err := proportional.FixedApportioner(3).Apportion(biVotes, 0)
	require.NoError(t, err)
	assert.Equal(t, map[core.District]int{"I": 3, "II": 3, "III": 3}, fixed)

	ha, err := proportional.NewHighestAverages(divisor.SainteLague)
	require.NoError(t, err)
	byVotes, err := proportional.DistributorApportioner{Distributor: ha}.Apportion(biVotes, 20)
	require.NoError(t, err)
	assert.Equal(t, map[core.District]int{"I": 10, "II": 4, "III": 6}, byVotes)
}
