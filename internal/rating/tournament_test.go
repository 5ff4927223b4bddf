package rating

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/target"
)

// solvedDataset reaches value 0 at the given evaluation in every run.
func solvedDataset(alg, fn string, dim, runs int, at int64) *dataset.Dataset {
	rs := make([]dataset.Run, runs)
	for i := range rs {
		r, err := dataset.NewRun([]int64{1, at}, []float64{5, 0})
		if err != nil {
			panic(err)
		}
		rs[i] = r
	}
	return &dataset.Dataset{Algorithm: alg, Function: fn, Dimension: dim, Runs: rs}
}

// stuckDataset never improves past its initial value.
func stuckDataset(alg, fn string, dim, runs int) *dataset.Dataset {
	rs := make([]dataset.Run, runs)
	for i := range rs {
		r, err := dataset.NewRun([]int64{1, 100}, []float64{5, 5})
		if err != nil {
			panic(err)
		}
		rs[i] = r
	}
	return &dataset.Dataset{Algorithm: alg, Function: fn, Dimension: dim, Runs: rs}
}

func TestRunTournament_DominantAlgorithmRanksFirst(t *testing.T) {
	c := dataset.Collection{
		solvedDataset("fast", "f1", 5, 3, 10),
		stuckDataset("stuck", "f1", 5, 3),
	}
	o := TournamentOpts{
		Rounds:      5,
		Targets:     target.Scalar(0),
		Orientation: dataset.ByFunctionValue,
		Rng:         rand.New(rand.NewPCG(1, 2)),
	}

	players, games, err := RunTournament(context.Background(), c, o)
	require.NoError(t, err)

	require.Len(t, players, 2)
	assert.Equal(t, "fast", players[0].Algorithm)
	assert.Greater(t, players[0].Rating.Value, players[1].Rating.Value)
	assert.Greater(t, players[0].Rating.Value, 1500.0)
	assert.Less(t, players[1].Rating.Value, 1500.0)

	assert.Equal(t, 5, players[0].Wins, "one game per round, all won")
	assert.Equal(t, 5, players[1].Losses)
	assert.Zero(t, players[0].Ties)

	require.Len(t, games, 5)
	for _, g := range games {
		assert.Equal(t, "fast", g.P1, "pairs follow collection order")
		assert.Equal(t, "stuck", g.P2)
		assert.Equal(t, 1.0, g.Score)
		assert.Equal(t, dataset.Cell{Function: "f1", Dimension: 5}, g.Cell)
	}
}

func TestRunTournament_EqualAlgorithmsTie(t *testing.T) {
	c := dataset.Collection{
		solvedDataset("mirror-a", "f1", 5, 3, 10),
		solvedDataset("mirror-b", "f1", 5, 3, 10),
	}
	o := TournamentOpts{
		Rounds:      4,
		Targets:     target.Scalar(0),
		Orientation: dataset.ByFunctionValue,
		Rng:         rand.New(rand.NewPCG(3, 4)),
	}

	players, games, err := RunTournament(context.Background(), c, o)
	require.NoError(t, err)

	assert.InDelta(t, 1500.0, players[0].Rating.Value, 1e-9)
	assert.InDelta(t, 1500.0, players[1].Rating.Value, 1e-9)
	assert.Equal(t, 4, players[0].Ties)
	assert.Equal(t, 4, players[1].Ties)
	assert.Less(t, players[0].Rating.Deviation, InitialDeviation, "games played shrink uncertainty")

	for _, g := range games {
		assert.Equal(t, 0.5, g.Score)
	}
}

func TestRunTournament_FixedBudgetOrientation(t *testing.T) {
	// at budget 100 "high" holds value 5, "low" holds 0
	c := dataset.Collection{
		stuckDataset("high", "f1", 5, 3),
		solvedDataset("low", "f1", 5, 3, 10),
	}

	t.Run("minimize", func(t *testing.T) {
		o := TournamentOpts{
			Rounds:      3,
			Targets:     target.Scalar(100),
			Orientation: dataset.ByRuntimeBudget,
			Rng:         rand.New(rand.NewPCG(5, 6)),
		}
		players, _, err := RunTournament(context.Background(), c, o)
		require.NoError(t, err)
		assert.Equal(t, "low", players[0].Algorithm)
	})

	t.Run("maximize", func(t *testing.T) {
		maxC := dataset.Collection{
			{Algorithm: "high", Function: "f1", Dimension: 5, Maximize: true, Runs: mustRuns(t, [][2][]float64{{{1, 100}, {5, 5}}})},
			{Algorithm: "low", Function: "f1", Dimension: 5, Maximize: true, Runs: mustRuns(t, [][2][]float64{{{1, 100}, {0, 0}}})},
		}
		o := TournamentOpts{
			Rounds:      3,
			Targets:     target.Scalar(100),
			Orientation: dataset.ByRuntimeBudget,
			Rng:         rand.New(rand.NewPCG(7, 8)),
		}
		players, _, err := RunTournament(context.Background(), maxC, o)
		require.NoError(t, err)
		assert.Equal(t, "high", players[0].Algorithm)
	})
}

func mustRuns(t *testing.T, pts [][2][]float64) []dataset.Run {
	t.Helper()
	out := make([]dataset.Run, len(pts))
	for i, p := range pts {
		evals := make([]int64, len(p[0]))
		for j, e := range p[0] {
			evals[j] = int64(e)
		}
		r, err := dataset.NewRun(evals, p[1])
		require.NoError(t, err)
		out[i] = r
	}
	return out
}

func TestRunTournament_DerivesTargetsWhenUnset(t *testing.T) {
	c := dataset.Collection{
		solvedDataset("fast", "f1", 5, 3, 10),
		stuckDataset("stuck", "f1", 5, 3),
	}
	o := TournamentOpts{
		Rounds:      3,
		Orientation: dataset.ByFunctionValue,
		Rng:         rand.New(rand.NewPCG(9, 10)),
	}

	// the derived target is the best value reached anywhere: 0, which only
	// "fast" attains
	players, _, err := RunTournament(context.Background(), c, o)
	require.NoError(t, err)
	assert.Equal(t, "fast", players[0].Algorithm)
	assert.Equal(t, 3, players[0].Wins)
}

func TestRunTournament_MultipleCells(t *testing.T) {
	c := dataset.Collection{
		solvedDataset("fast", "f1", 5, 2, 10),
		stuckDataset("stuck", "f1", 5, 2),
		solvedDataset("fast", "f2", 10, 2, 20),
		stuckDataset("stuck", "f2", 10, 2),
	}
	o := TournamentOpts{
		Rounds:      2,
		Targets:     target.Scalar(0),
		Orientation: dataset.ByFunctionValue,
		Rng:         rand.New(rand.NewPCG(11, 12)),
	}

	players, games, err := RunTournament(context.Background(), c, o)
	require.NoError(t, err)

	assert.Len(t, games, 4, "one game per cell per round")
	assert.Equal(t, 4, players[0].Wins)
}

func TestRunTournament_Deterministic(t *testing.T) {
	build := func() (dataset.Collection, TournamentOpts) {
		c := dataset.Collection{
			solvedDataset("a", "f1", 5, 4, 10),
			solvedDataset("b", "f1", 5, 4, 12),
			stuckDataset("c", "f1", 5, 4),
		}
		return c, TournamentOpts{
			Rounds:      10,
			Targets:     target.Scalar(0),
			Orientation: dataset.ByFunctionValue,
			Rng:         rand.New(rand.NewPCG(42, 42)),
		}
	}

	c1, o1 := build()
	first, games1, err := RunTournament(context.Background(), c1, o1)
	require.NoError(t, err)

	c2, o2 := build()
	second, games2, err := RunTournament(context.Background(), c2, o2)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same seed replays the same ranking")
	assert.Equal(t, games1, games2)
}

func TestRunTournament_Rejections(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(1, 1))
	c := dataset.Collection{
		solvedDataset("a", "f1", 5, 2, 10),
		solvedDataset("b", "f1", 5, 2, 12),
	}

	t.Run("single algorithm", func(t *testing.T) {
		_, _, err := RunTournament(ctx, c.Select("a", "", 0), TournamentOpts{Rounds: 1, Rng: rng})
		assert.Error(t, err)
	})

	t.Run("no rounds", func(t *testing.T) {
		_, _, err := RunTournament(ctx, c, TournamentOpts{Rounds: 0, Rng: rng})
		assert.Error(t, err)
	})

	t.Run("missing random source", func(t *testing.T) {
		_, _, err := RunTournament(ctx, c, TournamentOpts{Rounds: 1})
		assert.Error(t, err)
	})

	t.Run("unresolvable targets", func(t *testing.T) {
		_, _, err := RunTournament(ctx, c, TournamentOpts{
			Rounds:  1,
			Targets: target.PerCell{"f9;9": {1}},
			Rng:     rng,
		})
		assert.Error(t, err)
	})
}

func TestRunTournament_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := dataset.Collection{
		solvedDataset("a", "f1", 5, 2, 10),
		solvedDataset("b", "f1", 5, 2, 12),
	}
	o := TournamentOpts{Rounds: 1, Targets: target.Scalar(0), Rng: rand.New(rand.NewPCG(1, 1))}

	_, _, err := RunTournament(ctx, c, o)
	assert.ErrorIs(t, err, context.Canceled)
}
