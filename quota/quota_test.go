package quota_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/psephos/quota"
)

func rat(a, b int64) *big.Rat { return big.NewRat(a, b) }

func TestKnownValues(t *testing.T) {
	cases := []struct {
		name         string
		votes, seats int64
		want         *big.Rat
	}{
		{quota.Hare, 100, 4, rat(25, 1)},
		{quota.Hare, 100, 3, rat(100, 3)},
		{quota.HareRounded, 100, 3, rat(33, 1)},
		{quota.HareRounded, 7, 2, rat(4, 1)}, // 3.5 rounds up
		{quota.Droop, 100, 4, rat(21, 1)},
		{quota.Droop, 1554651, 1, rat(777326, 1)},
		{quota.HagenbachBischoff, 100, 4, rat(20, 1)},
		{quota.HagenbachBischoffCeil, 100, 4, rat(20, 1)},
		{quota.HagenbachBischoffCeil, 101, 4, rat(21, 1)},
		{quota.HagenbachBischoffRounded, 110, 3, rat(28, 1)}, // 27.5 rounds up
		{quota.Imperiali, 120, 4, rat(20, 1)},
	}
	for _, c := range cases {
		fn, err := quota.Get(c.name)
		require.NoError(t, err, c.name)
		got := fn(c.votes, c.seats)
		assert.Zerof(t, got.Cmp(c.want), "%s(%d, %d) = %s, want %s",
			c.name, c.votes, c.seats, got, c.want)
	}
}

func TestPositivity(t *testing.T) {
	// quota(v, s) must be positive and at most v for all registered
	// functions over a spread of vote/seat combinations.
	pairs := [][2]int64{
		{1, 1}, {2, 1}, {5, 1}, {1000, 1}, {5, 2}, {1000, 2},
		{42, 42}, {15000000, 200}, {150000000, 1},
	}
	for _, name := range quota.Names() {
		fn, err := quota.Get(name)
		require.NoError(t, err)
		for _, p := range pairs {
			got := fn(p[0], p[1])
			assert.Positivef(t, got.Sign(), "%s(%d, %d) not positive", name, p[0], p[1])
			assert.LessOrEqualf(t, got.Cmp(rat(p[0], 1)), 0,
				"%s(%d, %d) above total votes", name, p[0], p[1])
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	for _, bad := range []string{"oapsdjf", ""} {
		_, err := quota.Get(bad)
		assert.ErrorIs(t, err, quota.ErrUnknownQuota)
	}
}

func TestConstant(t *testing.T) {
	fn := quota.Constant(rat(7, 2))
	assert.Zero(t, fn(100, 4).Cmp(rat(7, 2)))
	assert.Zero(t, fn(9, 1).Cmp(rat(7, 2)))
}
