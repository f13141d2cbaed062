package compose_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/psephos/compose"
	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
	"github.com/mkadlec/psephos/divisor"
	"github.com/mkadlec/psephos/openlist"
	"github.com/mkadlec/psephos/proportional"
	"github.com/mkadlec/psephos/quota"
	"github.com/mkadlec/psephos/sortition"
	"github.com/mkadlec/psephos/threshold"
)

func dhondt(t *testing.T) *proportional.HighestAverages {
	t.Helper()
	ha, err := proportional.NewHighestAverages(divisor.DHondt)
	require.NoError(t, err)
	return ha
}

func hareLR(t *testing.T) *proportional.LargestRemainder {
	t.Helper()
	lr, err := proportional.NewLargestRemainder(quota.Hare)
	require.NoError(t, err)
	return lr
}

func TestConditioned_ThresholdProportional(t *testing.T) {
	ev := compose.Conditioned{
		Eliminator:  threshold.NewRelative(big.NewRat(1, 20)),
		Distributor: hareLR(t),
	}
	votes := core.Votes{"Alliance": 47000, "Bloc": 38000, "Centre": 11000, "Dawn": 4000}
	got, err := ev.Evaluate(votes, 10)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"Alliance": 5, "Bloc": 4, "Centre": 1}, got.Seats)
	assert.False(t, got.HasTie())
}

func TestConditionedSelector(t *testing.T) {
	ev := compose.ConditionedSelector{
		Eliminator: threshold.NewAbsolute(10),
		Selector:   core.Plurality{},
	}
	got, err := ev.Evaluate(core.Votes{"A": 50, "B": 8, "C": 30}, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A"), got)
}

func TestByConstituency(t *testing.T) {
	ev := compose.ByConstituency{
		Evaluator:   dhondt(t),
		Apportioner: proportional.StaticApportioner{"North": 2, "South": 1, "East": 0},
		Preselector: threshold.NewRelative(big.NewRat(1, 10)),
	}
	votes := core.DistrictVotes{
		"North": {"X": 100, "Y": 60, "Z": 5},
		"South": {"X": 30, "Y": 70, "Z": 4},
		"East":  {"X": 10, "Y": 5},
	}
	got, err := ev.Evaluate(votes, 3)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"X": 1, "Y": 1}, got["North"].Seats)
	assert.Equal(t, map[core.Candidate]int{"Y": 1}, got["South"].Seats)
	assert.Empty(t, got["East"].Seats)
}

func TestByConstituencySelector_SingleMember(t *testing.T) {
	ev := compose.ByConstituencySelector{Selector: core.Plurality{}}
	votes := core.DistrictVotes{
		"North": {"X": 100, "Y": 60},
		"South": {"X": 30, "Y": 70},
	}
	got, err := ev.Evaluate(votes, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("X"), got["North"])
	assert.Equal(t, core.SelectionOf("Y"), got["South"])
}

func TestByParty(t *testing.T) {
	ev := compose.ByParty{Overall: dhondt(t)}
	votes := core.DistrictVotes{
		"North": {"Purple": 60, "Qualm": 30},
		"South": {"Purple": 40, "Qualm": 10},
	}
	got, err := ev.Evaluate(votes, 3)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"Purple": 1, "Qualm": 1}, got["North"].Seats)
	assert.Equal(t, map[core.Candidate]int{"Purple": 1}, got["South"].Seats)
}

func TestMultistage_TopUp(t *testing.T) {
	ev := compose.MultistageDistributor{Rounds: []core.Distributor{
		compose.PostConvertedSelection{Inner: core.Plurality{}},
		dhondt(t),
	}}
	districtRound := core.Votes{"Purple": 100, "Qualm": 60, "Rise": 10}
	listRound := core.Votes{"Purple": 200, "Qualm": 100, "Rise": 20}
	got, err := ev.EvaluateStaged([]core.Votes{districtRound, listRound}, 4)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"Purple": 2, "Qualm": 1, "Rise": 1}, got.Seats)
}

func TestMultistage_ResultIncludesPrevGains(t *testing.T) {
	ev := compose.MultistageDistributor{Rounds: []core.Distributor{
		compose.PostConvertedSelection{Inner: core.Plurality{}},
		dhondt(t),
	}}
	votes := core.Votes{"Purple": 100, "Qualm": 60, "Rise": 10}
	got, err := ev.EvaluateStaged([]core.Votes{votes, votes}, 4,
		core.WithPrevGains(map[core.Candidate]int{"Qualm": 1}))
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"Purple": 1, "Qualm": 2, "Rise": 1}, got.Seats)
}

func TestMultistage_RoundMismatch(t *testing.T) {
	ev := compose.MultistageDistributor{Rounds: []core.Distributor{dhondt(t), dhondt(t)}}
	_, err := ev.EvaluateStaged([]core.Votes{{"A": 1}}, 3)
	assert.ErrorIs(t, err, compose.ErrRoundMismatch)
}

func TestMultistage_RoundTie(t *testing.T) {
	ev := compose.MultistageDistributor{Rounds: []core.Distributor{dhondt(t)}}
	_, err := ev.Evaluate(core.Votes{"A": 10, "B": 10}, 1)
	te, ok := core.AsTieError(err)
	require.True(t, ok)
	assert.Equal(t, core.NewTie("A", "B"), te.Tie)
}

func TestFixedSeatCount(t *testing.T) {
	ev, err := compose.NewFixedSeatCount(dhondt(t), 3)
	require.NoError(t, err)
	got, err := ev.Evaluate(core.Votes{"A": 60, "B": 40})
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 2, "B": 1}, got.Seats)
}

func TestFixedSeatCount_RejectsSeatless(t *testing.T) {
	_, err := compose.NewFixedSeatCount(threshold.NewAbsolute(5), 3)
	assert.ErrorIs(t, err, compose.ErrSeatlessEvaluator)

	_, err = compose.NewFixedSeatCount(42, 3)
	assert.Error(t, err)
}

func TestTieBreakingSelector(t *testing.T) {
	ev := compose.TieBreakingSelector{
		Main:    core.Plurality{},
		Breaker: sortition.OrderSelector{"C", "B", "A"},
	}
	got, err := ev.Evaluate(core.Votes{"A": 100, "B": 50, "C": 50}, 2)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A", "C"), got)
}

func TestTieBreakingSelector_MultiSlotTie(t *testing.T) {
	ev := compose.TieBreakingSelector{
		Main:    core.Plurality{},
		Breaker: sortition.OrderSelector{"B", "A", "C"},
	}
	got, err := ev.Evaluate(core.Votes{"A": 50, "B": 50, "C": 50}, 2)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("B", "A"), got)
}

func TestTieBreakingSelector_BreakerStillTied(t *testing.T) {
	ev := compose.TieBreakingSelector{Main: core.Plurality{}, Breaker: core.Plurality{}}
	_, err := ev.Evaluate(core.Votes{"A": 100, "B": 50, "C": 50}, 2)
	te, ok := core.AsTieError(err)
	require.True(t, ok)
	assert.Equal(t, "tie breaking", te.Stage)
}

func TestTieBreakingDistributor(t *testing.T) {
	ev := compose.TieBreakingDistributor{
		Main:    hareLR(t),
		Breaker: sortition.OrderSelector{"Qualm", "Purple"},
	}
	votes := core.Votes{"Purple": 300, "Qualm": 300, "Rise": 200}
	got, err := ev.Evaluate(votes, 4)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"Purple": 1, "Qualm": 2, "Rise": 1}, got.Seats)
	assert.False(t, got.HasTie())
}

func TestPartyList_Closed(t *testing.T) {
	ev := compose.PartyList{PartyEval: dhondt(t)}
	lists := map[core.Candidate][]core.Candidate{
		"Reds":  {"Ruiz", "Rahn", "Roth"},
		"Blues": {"Beck", "Baar"},
	}
	got, err := ev.Evaluate(core.Votes{"Reds": 60, "Blues": 40}, 3, lists, nil)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate][]core.Candidate{
		"Reds":  {"Ruiz", "Rahn"},
		"Blues": {"Beck"},
	}, got)
}

func TestPartyList_Open(t *testing.T) {
	listEval, err := openlist.New(openlist.JumpFraction(big.NewRat(1, 4)))
	require.NoError(t, err)
	ev := compose.PartyList{PartyEval: dhondt(t), ListEval: listEval}
	lists := map[core.Candidate][]core.Candidate{
		"Reds":  {"Ruiz", "Rahn", "Roth"},
		"Blues": {"Beck", "Baar"},
	}
	listVotes := map[core.Candidate]core.Votes{
		"Reds":  {"Ruiz": 10, "Rahn": 5, "Roth": 85},
		"Blues": {"Beck": 3, "Baar": 1},
	}
	got, err := ev.Evaluate(core.Votes{"Reds": 60, "Blues": 40}, 3, lists, listVotes)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate][]core.Candidate{
		"Reds":  {"Roth", "Ruiz"},
		"Blues": {"Beck"},
	}, got)
}

func TestPartyList_VotesMismatch(t *testing.T) {
	lists := map[core.Candidate][]core.Candidate{"Reds": {"Ruiz"}}

	listEval, err := openlist.New(openlist.JumpFraction(big.NewRat(1, 4)))
	require.NoError(t, err)
	open := compose.PartyList{PartyEval: dhondt(t), ListEval: listEval}
	_, err = open.Evaluate(core.Votes{"Reds": 60}, 1, lists, nil)
	assert.ErrorIs(t, err, compose.ErrListVotesMismatch)

	closed := compose.PartyList{PartyEval: dhondt(t)}
	_, err = closed.Evaluate(core.Votes{"Reds": 60}, 1, lists,
		map[core.Candidate]core.Votes{"Reds": {"Ruiz": 1}})
	assert.ErrorIs(t, err, compose.ErrListVotesMismatch)
}

func TestPreConvertedRankedSelector_Borda(t *testing.T) {
	ev := compose.PreConvertedRankedSelector{
		Convert: func(votes core.RankedVotes) core.WeightedVotes {
			return convert.RankedToPositional(votes, convert.Borda{Base: 1})
		},
		Inner: core.WeightedPlurality{},
	}
	votes := core.RankedVotes{
		{Ranking: core.Ranking("A", "B", "C"), Count: 3},
		{Ranking: core.Ranking("B", "C", "A"), Count: 2},
	}
	got, err := ev.Evaluate(votes, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("B"), got)
}

func TestPreConvertedDistricts_DefaultTotals(t *testing.T) {
	ev := compose.PreConvertedDistricts{Inner: dhondt(t)}
	votes := core.DistrictVotes{
		"North": {"A": 40, "B": 10},
		"South": {"A": 20, "B": 30},
	}
	got, err := ev.Evaluate(votes, 3)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 2, "B": 1}, got.Seats)
}

func TestPostConvertedSelection(t *testing.T) {
	ev := compose.PostConvertedSelection{Inner: core.Plurality{}}
	got, err := ev.Evaluate(core.Votes{"A": 100, "B": 60, "C": 10}, 2)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 1, "B": 1}, got.Seats)
}

func TestPostConvertedDistricts_Merge(t *testing.T) {
	ev := compose.PostConvertedDistricts{
		Inner: compose.ByConstituency{Evaluator: dhondt(t)},
	}
	votes := core.DistrictVotes{
		"North": {"A": 60, "B": 25},
		"South": {"A": 10, "B": 90},
	}
	got, err := ev.Evaluate(votes, 2)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 2, "B": 2}, got.Seats)
}

// Composites must not mutate votes or carry state between evaluations.
func TestComposites_RepeatedEvaluation(t *testing.T) {
	ev := compose.Conditioned{
		Eliminator:  threshold.NewRelative(big.NewRat(1, 20)),
		Distributor: hareLR(t),
	}
	votes := core.Votes{"Alliance": 47000, "Bloc": 38000, "Centre": 11000, "Dawn": 4000}
	first, err := ev.Evaluate(votes, 10)
	require.NoError(t, err)
	second, err := ev.Evaluate(votes, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, core.Votes{"Alliance": 47000, "Bloc": 38000, "Centre": 11000, "Dawn": 4000}, votes)
}
