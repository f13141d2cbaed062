package cardinal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/psephos/cardinal"
	"github.com/mkadlec/psephos/core"
)

func sb(count int64, scores map[core.Candidate]int64) core.ScoreBallot {
	return core.ScoreBallot{Scores: scores, Count: count}
}

// gradePoll has B ahead on score sums but A ahead on mean and median;
// the last ballot group does not score A at all.
var gradePoll = core.ScoreVotes{
	sb(10, map[core.Candidate]int64{"A": 5, "B": 3, "C": 0}),
	sb(8, map[core.Candidate]int64{"A": 2, "B": 4, "C": 5}),
	sb(6, map[core.Candidate]int64{"A": 4, "B": 4, "C": 1}),
	sb(5, map[core.Candidate]int64{"B": 2, "C": 5}),
}

func TestScoreVoting_Sum(t *testing.T) {
	ev, err := cardinal.NewScoreVoting(cardinal.Sum)
	require.NoError(t, err)

	sel, err := ev.Evaluate(gradePoll, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("B"), sel)

	sel, err = ev.Evaluate(gradePoll, 2)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("B", "A"), sel)
}

func TestScoreVoting_Mean(t *testing.T) {
	ev, err := cardinal.NewScoreVoting(cardinal.Mean)
	require.NoError(t, err)
	sel, err := ev.Evaluate(gradePoll, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A"), sel)
}

func TestScoreVoting_MedianLow(t *testing.T) {
	ev, err := cardinal.NewScoreVoting(cardinal.MedianLow)
	require.NoError(t, err)
	sel, err := ev.Evaluate(gradePoll, 2)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A", "B"), sel)
}

func TestScoreVoting_UnknownAggregate(t *testing.T) {
	_, err := cardinal.NewScoreVoting("geometric")
	assert.ErrorIs(t, err, cardinal.ErrUnknownAggregate)
}

func TestMajorityJudgment(t *testing.T) {
	mj := cardinal.MajorityJudgment{}

	sel, err := mj.Evaluate(gradePoll, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A"), sel)

	sel, err = mj.Evaluate(gradePoll, 2)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A", "B"), sel)
}

// medianTied grades A and B to the same lower median of 3; only the
// tiebreak separates them.
var medianTied = core.ScoreVotes{
	sb(4, map[core.Candidate]int64{"A": 5, "B": 3}),
	sb(3, map[core.Candidate]int64{"A": 3, "B": 5}),
	sb(2, map[core.Candidate]int64{"A": 3, "B": 3}),
	sb(3, map[core.Candidate]int64{"A": 1, "B": 2}),
}

func TestMajorityJudgment_BalinskiTiebreak(t *testing.T) {
	sel, err := cardinal.MajorityJudgment{}.Evaluate(medianTied, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A"), sel)
}

func TestMajorityJudgment_BosworthTiebreak(t *testing.T) {
	// Both candidates hold nine grades at or above the shared median;
	// the plus tiebreak cannot separate them.
	sel, err := cardinal.MajorityJudgment{TieBreak: cardinal.Bosworth}.Evaluate(medianTied, 1)
	require.NoError(t, err)
	require.Len(t, sel, 1)
	require.True(t, sel[0].IsTie())
	assert.Equal(t, core.NewTie("A", "B"), sel[0].Tied)
}

func TestMajorityJudgment_ThreeWayTiedMedian(t *testing.T) {
	votes := core.ScoreVotes{
		sb(5, map[core.Candidate]int64{"X": 4, "Y": 4, "Z": 2}),
		sb(4, map[core.Candidate]int64{"X": 4, "Y": 2, "Z": 4}),
		sb(4, map[core.Candidate]int64{"X": 2, "Y": 4, "Z": 4}),
		sb(2, map[core.Candidate]int64{"X": 1, "Y": 3, "Z": 3}),
	}
	sel, err := cardinal.MajorityJudgment{}.Evaluate(votes, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("Y"), sel)

	sel, err = cardinal.MajorityJudgment{}.Evaluate(votes, 2)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("X", "Y"), sel)
}

func TestSTAR(t *testing.T) {
	// A and B reach the run-off on score sums; B takes it head to head,
	// 13 votes to 10.
	sel, err := cardinal.NewSTAR().Evaluate(gradePoll, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("B"), sel)
}

func TestAllocatedScore(t *testing.T) {
	dist, err := cardinal.NewAllocatedScore("droop")
	require.NoError(t, err)

	res, err := dist.Evaluate(gradePoll, 2)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 1, "B": 1}, res.Seats)
	assert.False(t, res.HasTie())

	res, err = dist.Evaluate(gradePoll, 3)
	require.NoError(t, err)
	assert.Equal(t, map[core.Candidate]int{"A": 1, "B": 1, "C": 1}, res.Seats)
}

func TestAllocatedScore_NoVotes(t *testing.T) {
	dist, err := cardinal.NewAllocatedScore("droop")
	require.NoError(t, err)
	_, err = dist.Evaluate(core.ScoreVotes{}, 2)
	assert.ErrorIs(t, err, core.ErrNoVotes)
}

func TestAllocatedScoreSelector(t *testing.T) {
	sel, err := cardinal.NewAllocatedScoreSelector("droop")
	require.NoError(t, err)

	res, err := sel.Evaluate(gradePoll, 2)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("B", "A"), res)

	res, err = sel.Evaluate(gradePoll, 3)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("B", "A", "C"), res)
}
