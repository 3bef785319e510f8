package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGraph(t *testing.T, users []int64, ratings []Rating) *Graph {
	t.Helper()
	g, err := NewGraph(users, ratings)
	require.NoError(t, err)
	return g
}

// fullRating is shorthand for a max-score rating (local trust 1.0).
func fullRating(rater, target int64) Rating {
	return Rating{RaterID: rater, TargetID: target, Contribution: 10, Communication: 10, WouldWorkAgain: true}
}

func assertStochastic(t *testing.T, scores map[int64]float64) {
	t.Helper()
	sum := 0.0
	for _, w := range scores {
		assert.GreaterOrEqual(t, w, 0.0)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestNormalizeRows(t *testing.T) {
	g := mustGraph(t, []int64{4}, []Rating{
		fullRating(1, 2),
		{RaterID: 1, TargetID: 3, Contribution: 5, Communication: 5, WouldWorkAgain: false},
		fullRating(2, 1),
	})

	index := make(map[int64]int, len(g.Users))
	for i, id := range g.Users {
		index[id] = i
	}
	rows := normalizeRows(g, index)

	// Every row with outgoing edges sums to 1.
	for _, links := range rows {
		if links == nil {
			continue
		}
		sum := 0.0
		for _, l := range links {
			sum += l.weight
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}

	// User 1 splits 1.0 and 1/3 across two targets.
	row1 := rows[index[int64(1)]]
	require.Len(t, row1, 2)
	assert.InDelta(t, 1.0/(1.0+1.0/3.0), row1[0].weight, 1e-9)
	assert.InDelta(t, (1.0/3.0)/(1.0+1.0/3.0), row1[1].weight, 1e-9)

	// Users 3 and 4 have no outgoing mass: dangling rows.
	assert.Nil(t, rows[index[int64(3)]])
	assert.Nil(t, rows[index[int64(4)]])
}

func TestNormalizeRows_ZeroWeightRowIsDangling(t *testing.T) {
	// All of user 1's outgoing edges average to 0: no mass to normalize.
	g := mustGraph(t, nil, []Rating{
		{RaterID: 1, TargetID: 2, Contribution: 0, Communication: 0, WouldWorkAgain: false},
		fullRating(2, 1),
	})

	index := map[int64]int{1: 0, 2: 1}
	rows := normalizeRows(g, index)
	assert.Nil(t, rows[0])
	require.Len(t, rows[1], 1)
}

func TestPropagate_EmptyGraph(t *testing.T) {
	res := Propagate(&Graph{}, DefaultConfig())
	assert.Empty(t, res.Scores)
	assert.True(t, res.Converged)
}

func TestPropagate_SingleUser(t *testing.T) {
	g := mustGraph(t, []int64{42}, nil)
	res := Propagate(g, DefaultConfig())
	require.Len(t, res.Scores, 1)
	assert.InDelta(t, 1.0, res.Scores[42], 1e-9)
	assert.True(t, res.Converged)
}

func TestPropagate_SymmetricCycle(t *testing.T) {
	// A->B->C->A, all local trust 1.0: symmetry forces the uniform vector.
	g := mustGraph(t, nil, []Rating{
		fullRating(1, 2),
		fullRating(2, 3),
		fullRating(3, 1),
	})

	res := Propagate(g, DefaultConfig())
	require.True(t, res.Converged)
	for _, id := range []int64{1, 2, 3} {
		assert.InDelta(t, 1.0/3.0, res.Scores[id], 1e-9)
	}
	assertStochastic(t, res.Scores)
}

func TestPropagate_Deterministic(t *testing.T) {
	ratings := []Rating{
		fullRating(1, 2),
		{RaterID: 2, TargetID: 3, Contribution: 7, Communication: 4, WouldWorkAgain: true},
		{RaterID: 3, TargetID: 1, Contribution: 3, Communication: 8, WouldWorkAgain: false},
		{RaterID: 1, TargetID: 3, Contribution: 6, Communication: 6, WouldWorkAgain: false},
		{RaterID: 4, TargetID: 1, Contribution: 9, Communication: 2, WouldWorkAgain: true},
	}
	g1 := mustGraph(t, []int64{5}, ratings)
	g2 := mustGraph(t, []int64{5}, ratings)

	r1 := Propagate(g1, DefaultConfig())
	r2 := Propagate(g2, DefaultConfig())

	assert.Equal(t, r1.Scores, r2.Scores)
	assert.Equal(t, r1.Iterations, r2.Iterations)
	assertStochastic(t, r1.Scores)
}

func TestPropagate_NoIncomingEdgesGetsPersonalizationFloor(t *testing.T) {
	// User 3 rates but is never rated, and no dangling rows exist, so its
	// score is exactly the personalization floor (1-d)/N.
	g := mustGraph(t, nil, []Rating{
		fullRating(1, 2),
		fullRating(2, 1),
		fullRating(3, 1),
	})

	// The 1<->2 two-cycle decays as (-d)^k, too slow for the default
	// iteration cap at tol 1e-10; raise the cap so the run converges.
	cfg := DefaultConfig()
	cfg.MaxIter = 500

	res := Propagate(g, cfg)
	require.True(t, res.Converged)
	assert.InDelta(t, (1.0-DampingDefault)/3.0, res.Scores[3], 1e-9)
	assertStochastic(t, res.Scores)
}

func TestPropagate_IsolatedUser(t *testing.T) {
	// User 3 has no edges at all. Its own row is dangling, so at the
	// fixed point it holds the floor plus its own uniformly redistributed
	// mass: x = (1-d)/N + d*x/N, i.e. (1-d)/(N-d) for N=3.
	g := mustGraph(t, []int64{3}, []Rating{
		fullRating(1, 2),
		fullRating(2, 1),
	})

	cfg := DefaultConfig()
	cfg.MaxIter = 500

	res := Propagate(g, cfg)
	require.True(t, res.Converged)

	d := DampingDefault
	assert.InDelta(t, (1.0-d)/(3.0-d), res.Scores[3], 1e-9)
	// Far below the connected pair, but never starved to zero.
	assert.Greater(t, res.Scores[1], res.Scores[3])
	assert.Greater(t, res.Scores[2], res.Scores[3])
	assertStochastic(t, res.Scores)
}

func TestPropagate_DanglingRedistribution(t *testing.T) {
	// D (id 4) is rated but never rates anyone. Its mass must flow back
	// into the system each step instead of vanishing, so upstream users
	// keep receiving more than the floor.
	g := mustGraph(t, nil, []Rating{
		fullRating(1, 4),
		fullRating(2, 4),
		fullRating(3, 1),
		fullRating(1, 2),
		fullRating(2, 3),
	})

	cfg := DefaultConfig()
	cfg.MaxIter = 500

	res := Propagate(g, cfg)
	require.True(t, res.Converged)
	assertStochastic(t, res.Scores)

	floor := (1.0 - DampingDefault) / 4.0
	for _, id := range []int64{1, 2, 3, 4} {
		assert.Greater(t, res.Scores[id], floor)
	}
}

func TestPropagate_MaxIterNotAnError(t *testing.T) {
	g := mustGraph(t, nil, []Rating{
		fullRating(1, 2),
		fullRating(2, 3),
		fullRating(3, 1),
	})

	cfg := DefaultConfig()
	cfg.MaxIter = 2
	cfg.Tol = 0 // unreachable, forces the iteration cap

	res := Propagate(g, cfg)
	assert.False(t, res.Converged)
	assert.Equal(t, 2, res.Iterations)
	assertStochastic(t, res.Scores)
}

func TestPropagate_ConvergesFasterWithLowerDamping(t *testing.T) {
	ratings := []Rating{
		fullRating(1, 2),
		{RaterID: 2, TargetID: 1, Contribution: 4, Communication: 9, WouldWorkAgain: false},
		fullRating(2, 3),
		{RaterID: 3, TargetID: 2, Contribution: 8, Communication: 1, WouldWorkAgain: true},
	}

	low := DefaultConfig()
	low.Damping = 0.3
	low.MaxIter = 1000
	high := DefaultConfig()
	high.Damping = 0.85
	high.MaxIter = 1000

	rLow := Propagate(mustGraph(t, nil, ratings), low)
	rHigh := Propagate(mustGraph(t, nil, ratings), high)

	require.True(t, rLow.Converged)
	require.True(t, rHigh.Converged)
	assert.Less(t, rLow.Iterations, rHigh.Iterations)
}
