package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/lox/trickserver/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	sim, err := New(Config{Variant: "pinochle", Seed: 12345})
	require.NoError(t, err)
	assert.Equal(t, game.Pinochle, sim.config.Variant)
	assert.Equal(t, game.DefaultRules(), sim.config.Rules)
	assert.Equal(t, 1, sim.config.Games)
	assert.Positive(t, sim.config.Parallel)
	assert.Equal(t, defaultMaxRounds, sim.config.MaxRounds)

	_, err = New(Config{Variant: "euchre"})
	assert.ErrorContains(t, err, "unknown game type")
}

func TestSimulatorPlaysEveryVariant(t *testing.T) {
	tests := []struct {
		variant string
		seats   int
		rounds  func(t *testing.T, r Result)
	}{
		{game.Hearts, 4, func(t *testing.T, r Result) {
			assert.Positive(t, r.Rounds)
			for _, score := range r.Scores {
				assert.LessOrEqual(t, r.Scores[r.Winner], score, "hearts is won with the lowest score")
			}
		}},
		{game.Pinochle, 3, func(t *testing.T, r Result) {
			assert.Positive(t, r.Rounds)
			assert.GreaterOrEqual(t, r.Scores[r.Winner], 100)
		}},
		{game.Mizerka, 3, func(t *testing.T, r Result) {
			assert.Equal(t, 18, r.Rounds, "each dealer declares all six options")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			sim, err := New(Config{
				Variant:  tt.variant,
				Games:    3,
				Parallel: 2,
				Seed:     42,
				Timeout:  30 * time.Second,
			})
			require.NoError(t, err)

			results, err := sim.Run(context.Background())
			require.NoError(t, err)
			require.Len(t, results, 3)

			for i, r := range results {
				assert.Equal(t, i+1, r.Game)
				assert.Equal(t, tt.variant, r.Variant)
				assert.Len(t, r.Scores, tt.seats)
				assert.Contains(t, r.Scores, r.Winner)
				tt.rounds(t, r)
			}
		})
	}
}

func TestSimulatorIsDeterministic(t *testing.T) {
	play := func() Result {
		sim, err := New(Config{Variant: game.Hearts, Seed: 7})
		require.NoError(t, err)
		r, err := sim.Play(context.Background(), 0)
		require.NoError(t, err)
		return r
	}

	a, b := play(), play()
	assert.Equal(t, a.Winner, b.Winner)
	assert.Equal(t, a.Rounds, b.Rounds)
	assert.Equal(t, a.Scores, b.Scores)
}

func TestSimulatorRoundLimit(t *testing.T) {
	sim, err := New(Config{Variant: game.Mizerka, MaxRounds: 2})
	require.NoError(t, err)

	_, err = sim.Run(context.Background())
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestSimulatorCancelled(t *testing.T) {
	sim, err := New(Config{Variant: game.Hearts})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]Result{
		{Winner: "north", Rounds: 4},
		{Winner: "east", Rounds: 6},
		{Winner: "north", Rounds: 5},
	})
	assert.Equal(t, 3, sum.Games)
	assert.Equal(t, map[string]int{"north": 2, "east": 1}, sum.Wins)
	assert.InDelta(t, 5.0, sum.AverageRounds(), 0.001)
	assert.Zero(t, Summary{}.AverageRounds())
}
