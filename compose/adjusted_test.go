package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/psephos/compose"
	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/proportional"
)

func TestAllowOverhang(t *testing.T) {
	calc := compose.AllowOverhang{Evaluator: dhondt(t)}
	votes := core.Votes{"Purple": 10, "Qualm": 85}

	adj, err := calc.Calculate(votes, 10,
		core.WithPrevGains(map[core.Candidate]int{"Purple": 3}))
	require.NoError(t, err)
	assert.Equal(t, 2, adj)

	adj, err = calc.Calculate(votes, 10,
		core.WithPrevGains(map[core.Candidate]int{"Purple": 1}))
	require.NoError(t, err)
	assert.Equal(t, 0, adj)
}

func TestAdjustedSeatCount_Overhang(t *testing.T) {
	ha := dhondt(t)
	ev := compose.AdjustedSeatCount{
		Calculator: compose.AllowOverhang{Evaluator: ha},
		Evaluator:  ha,
	}
	votes := core.Votes{"Purple": 10, "Qualm": 85}
	got, err := ev.Evaluate(votes, 10,
		core.WithPrevGains(map[core.Candidate]int{"Purple": 3}))
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"Qualm": 9}, got.Seats)
}

func TestLevelOverhang(t *testing.T) {
	calc := compose.LevelOverhang{Evaluator: dhondt(t)}
	votes := core.Votes{"Purple": 21, "Qualm": 79}

	adj, err := calc.Calculate(votes, 10,
		core.WithPrevGains(map[core.Candidate]int{"Purple": 4}))
	require.NoError(t, err)
	assert.Equal(t, 9, adj)
}

// Seats won by a party outside the proportional result stay outside the
// leveled house size.
func TestLevelOverhang_NonProportionalGains(t *testing.T) {
	calc := compose.LevelOverhang{Evaluator: dhondt(t)}
	votes := core.Votes{"Purple": 21, "Qualm": 79}

	adj, err := calc.Calculate(votes, 10,
		core.WithPrevGains(map[core.Candidate]int{"Rise": 1}))
	require.NoError(t, err)
	assert.Equal(t, 0, adj)
}

func TestLevelOverhangByConstituency(t *testing.T) {
	ha := dhondt(t)
	calc := compose.LevelOverhangByConstituency{
		Constituency: compose.ByConstituency{
			Evaluator:   ha,
			Apportioner: proportional.StaticApportioner{"North": 5, "South": 5},
		},
		Overall: ha,
	}
	votes := core.DistrictVotes{
		"North": {"Purple": 21, "Qualm": 79},
		"South": {"Purple": 65, "Qualm": 35},
	}
	adj, err := calc.Calculate(votes, 10,
		core.WithDistrictPrevGains(map[core.District]map[core.Candidate]int{
			"North": {"Qualm": 5},
		}))
	require.NoError(t, err)
	assert.Equal(t, 2, adj)
}

func TestAllowOverhang_TieFails(t *testing.T) {
	calc := compose.AllowOverhang{Evaluator: dhondt(t)}
	_, err := calc.Calculate(core.Votes{"A": 10, "B": 10}, 1,
		core.WithPrevGains(map[core.Candidate]int{"A": 1}))
	te, ok := core.AsTieError(err)
	require.True(t, ok)
	assert.Equal(t, "overhang detection", te.Stage)
}

func TestAdjustedDistrictSeatCount(t *testing.T) {
	ha := dhondt(t)
	inner := compose.ByConstituency{
		Evaluator:   ha,
		Apportioner: proportional.StaticApportioner{"North": 5, "South": 5},
	}
	ev := compose.AdjustedDistrictSeatCount{
		Calculator: compose.LevelOverhangByConstituency{Constituency: inner, Overall: ha},
		Evaluator:  compose.ByParty{Overall: ha},
	}
	votes := core.DistrictVotes{
		"North": {"Purple": 21, "Qualm": 79},
		"South": {"Purple": 65, "Qualm": 35},
	}
	got, err := ev.Evaluate(votes, 10,
		core.WithDistrictPrevGains(map[core.District]map[core.Candidate]int{
			"North": {"Qualm": 5},
		}))
	require.NoError(t, err)
	// The leveled house has 12 seats; 5 were already won in North, so 7
	// top-up seats are distributed here.
	assert.Equal(t, map[core.Candidate]int{"Purple": 1}, got["North"].Seats)
	assert.Equal(t, map[core.Candidate]int{"Purple": 4, "Qualm": 2}, got["South"].Seats)
}
