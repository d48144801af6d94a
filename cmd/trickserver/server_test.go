package main

import (
	"testing"

	"github.com/lox/trickserver/internal/server"
	"github.com/lox/trickserver/internal/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerCmdOverridesConfig(t *testing.T) {
	seed := int64(99)
	cmd := ServerCmd{Addr: "0.0.0.0", Port: 8080, LogLevel: "debug", Seed: &seed}

	cfg := server.DefaultConfig()
	cmd.apply(cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, int64(99), cfg.Server.Seed)
}

func TestServerCmdKeepsConfigWithoutFlags(t *testing.T) {
	cfg := server.DefaultConfig()
	(&ServerCmd{}).apply(cfg)
	assert.Equal(t, "localhost:2000", cfg.Address())
	assert.Zero(t, cfg.Server.Seed)
}

func TestResultsTable(t *testing.T) {
	out := resultsTable([]simulator.Result{
		{Game: 1, Rounds: 18, Winner: "east", Scores: map[string]int{"north": -2, "east": 3, "south": -1}},
		{Game: 2, Rounds: 18, Winner: "east", Scores: map[string]int{"north": 0, "east": 1, "south": -1}},
	})
	assert.Contains(t, out, "Winner")
	assert.Contains(t, out, "18.0 avg")
	assert.Contains(t, out, "east")
}
