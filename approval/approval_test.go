package approval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/psephos/approval"
	"github.com/mkadlec/psephos/convert"
	"github.com/mkadlec/psephos/core"
)

func ab(count int64, cands ...core.Candidate) convert.ApprovalBallot {
	return convert.ApprovalBallot{Candidates: cands, Count: count}
}

// fourParty has A and B as the strongest pair: A+B approvers dominate,
// C and D trail.
var fourParty = convert.ApprovalVotes{
	ab(35, "A", "B"),
	ab(20, "A", "C"),
	ab(25, "B"),
	ab(10, "C", "D"),
	ab(4, "D"),
}

func TestProportionalApproval(t *testing.T) {
	sel, err := approval.ProportionalApproval{}.Evaluate(fourParty, 2)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("B", "A"), sel)

	sel, err = approval.ProportionalApproval{}.Evaluate(fourParty, 3)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("B", "A", "C"), sel)
}

func TestProportionalApproval_AllCandidatesFit(t *testing.T) {
	sel, err := approval.ProportionalApproval{}.Evaluate(fourParty, 6)
	require.NoError(t, err)
	cands, err := sel.Candidates()
	require.NoError(t, err)
	assert.ElementsMatch(t, []core.Candidate{"A", "B", "C", "D"}, cands)
}

func TestProportionalApproval_TiedAlternatives(t *testing.T) {
	// {A,B} and {B,C} reach the same satisfaction; only B is certain.
	votes := convert.ApprovalVotes{
		ab(30, "A", "B"),
		ab(24, "A", "C"),
		ab(20, "B"),
		ab(15, "C", "D"),
		ab(10, "D"),
	}
	_, err := approval.ProportionalApproval{}.Evaluate(votes, 2)
	tieErr, ok := core.AsTieError(err)
	require.True(t, ok)
	assert.True(t, tieErr.Tie.Contains("A"))
	assert.True(t, tieErr.Tie.Contains("C"))
	assert.False(t, tieErr.Tie.Contains("B"))
}

func TestSequentialProportionalApproval(t *testing.T) {
	sel, err := approval.SequentialProportionalApproval{}.Evaluate(fourParty, 2)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("B", "A"), sel)

	sel, err = approval.SequentialProportionalApproval{}.Evaluate(fourParty, 3)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("B", "A", "C"), sel)
}

func TestSequentialProportionalApproval_RunsOutOfCandidates(t *testing.T) {
	votes := convert.ApprovalVotes{ab(10, "A"), ab(5, "B")}
	sel, err := approval.SequentialProportionalApproval{}.Evaluate(votes, 4)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A", "B"), sel)
}

func TestSequentialProportionalApproval_RoundTie(t *testing.T) {
	votes := convert.ApprovalVotes{ab(10, "A"), ab(10, "B")}
	_, err := approval.SequentialProportionalApproval{}.Evaluate(votes, 1)
	tieErr, ok := core.AsTieError(err)
	require.True(t, ok)
	assert.Equal(t, core.NewTie("A", "B"), tieErr.Tie)
}

func TestQuotaSelector_Droop(t *testing.T) {
	qs, err := approval.NewQuotaSelector("droop")
	require.NoError(t, err)

	sel, err := qs.Evaluate(core.Votes{"A": 55, "B": 30, "C": 15}, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A"), sel)

	// Nobody reaches a majority: the selector elects nobody rather than
	// the frontrunner.
	sel, err = qs.Evaluate(core.Votes{"A": 40, "B": 35, "C": 25}, 1)
	require.NoError(t, err)
	assert.Empty(t, sel)
}

func TestQuotaSelector_AcceptEqual(t *testing.T) {
	votes := core.Votes{"A": 50, "B": 25, "C": 25}

	qs, err := approval.NewQuotaSelector("hare")
	require.NoError(t, err)
	sel, err := qs.Evaluate(votes, 2)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A"), sel)

	strict, err := approval.NewQuotaSelector("hare", approval.QuotaAcceptEqual(false))
	require.NoError(t, err)
	sel, err = strict.Evaluate(votes, 2)
	require.NoError(t, err)
	assert.Empty(t, sel)
}

func TestQuotaSelector_Overrun(t *testing.T) {
	// The Imperiali quota for one seat is a third of the votes; A and B
	// both clear it.
	votes := core.Votes{"A": 40, "B": 31, "C": 19}

	qs, err := approval.NewQuotaSelector("imperiali")
	require.NoError(t, err)
	_, err = qs.Evaluate(votes, 1)
	assert.ErrorIs(t, err, approval.ErrQuotaOverrun)

	trim, err := approval.NewQuotaSelector("imperiali", approval.OnOverrun(approval.OverrunSelect))
	require.NoError(t, err)
	sel, err := trim.Evaluate(votes, 1)
	require.NoError(t, err)
	assert.Equal(t, core.SelectionOf("A"), sel)
}

func TestQuotaSelector_UnknownQuota(t *testing.T) {
	_, err := approval.NewQuotaSelector("imaginary")
	assert.Error(t, err)
}
