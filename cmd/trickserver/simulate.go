package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/lox/trickserver/cmd/trickserver/shared"
	"github.com/lox/trickserver/internal/fileutil"
	"github.com/lox/trickserver/internal/game"
	"github.com/lox/trickserver/internal/simulator"
)

// SimulateCmd plays batches of random-bot games through the game service
type SimulateCmd struct {
	Variant  string        `kong:"short='g',default='hearts',help='Game type to simulate (hearts, pinochle, mizerka)'"`
	Games    int           `kong:"short='n',default='10',help='Number of games to play'"`
	Parallel int           `kong:"short='p',help='Games to play at once (default: GOMAXPROCS)'"`
	Seed     *int64        `kong:"help='Deterministic RNG seed (optional)'"`
	Target   int           `kong:"help='Override the target score'"`
	Timeout  time.Duration `kong:"default='1m',help='Per-game timeout'"`
	Out      string        `kong:"short='o',help='Write per-game results as JSON to this file'"`
	Debug    bool          `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger, err := shared.SetupLogger("warn", c.Debug)
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rules := game.DefaultRules()
	if c.Target > 0 {
		rules.TargetScore = c.Target
	}

	sim, err := simulator.New(simulator.Config{
		Variant:  c.Variant,
		Rules:    rules,
		Games:    c.Games,
		Parallel: c.Parallel,
		Seed:     seed,
		Timeout:  c.Timeout,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx := shared.SetupSignalHandler(logger)
	start := time.Now()
	results, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s: %d games in %s (seed %d)",
		results[0].Variant, len(results), time.Since(start).Round(time.Millisecond), seed)))
	fmt.Println(resultsTable(results))

	if c.Out != "" {
		if err := fileutil.WriteJSON(c.Out, results); err != nil {
			return err
		}
		fmt.Printf("Results written to %s\n", c.Out)
	}
	return nil
}

func resultsTable(results []simulator.Result) string {
	sum := simulator.Summarize(results)
	seats := slices.Sorted(maps.Keys(results[0].Scores))

	headers := append([]string{"Game", "Rounds", "Winner"}, seats...)
	var rows [][]string
	for _, r := range results {
		row := []string{strconv.Itoa(r.Game), strconv.Itoa(r.Rounds), r.Winner}
		for _, seat := range seats {
			row = append(row, strconv.Itoa(r.Scores[seat]))
		}
		rows = append(rows, row)
	}

	total := []string{"Wins", fmt.Sprintf("%.1f avg", sum.AverageRounds()), ""}
	for _, seat := range seats {
		total = append(total, strconv.Itoa(sum.Wins[seat]))
	}
	rows = append(rows, total)

	return newTable(headers, rows, len(rows)-1).String()
}
