// Package simulator plays complete games between random legal bots through
// the same dispatch layer the network server uses.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lox/trickserver/internal/game"
	"github.com/lox/trickserver/internal/protocol"
	"github.com/lox/trickserver/internal/randutil"
	"github.com/lox/trickserver/internal/server"
	"golang.org/x/sync/errgroup"
)

var (
	ErrStalled  = errors.New("game stalled")
	ErrRejected = errors.New("bot move rejected")
	ErrTooLong  = errors.New("game exceeded round limit")
)

// defaultMaxRounds bounds a game that never reaches its target
const defaultMaxRounds = 500

var botNames = []string{"north", "east", "south", "west"}

// Config holds configuration for running simulations
type Config struct {
	Variant   string
	Rules     game.Rules
	Games     int
	Parallel  int
	Seed      int64
	MaxRounds int
	Timeout   time.Duration
	Logger    *log.Logger
}

// Result is the outcome of one simulated game
type Result struct {
	Game     int            `json:"game"`
	Variant  string         `json:"variant"`
	Winner   string         `json:"winner"`
	Rounds   int            `json:"rounds"`
	Scores   map[string]int `json:"scores"`
	Duration time.Duration  `json:"duration"`
}

// Simulator runs batches of bot-only games
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	canonical, ok := game.CanonicalVariant(config.Variant)
	if !ok {
		return nil, fmt.Errorf("unknown game type %q, expected one of %v", config.Variant, game.Variants())
	}
	config.Variant = canonical
	if config.Rules == (game.Rules{}) {
		config.Rules = game.DefaultRules()
	}
	if config.Games <= 0 {
		config.Games = 1
	}
	if config.Parallel <= 0 {
		config.Parallel = runtime.GOMAXPROCS(0)
	}
	if config.MaxRounds <= 0 {
		config.MaxRounds = defaultMaxRounds
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}, nil
}

// Run plays every configured game and returns the results in game order
func (s *Simulator) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, s.config.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallel)
	for i := range s.config.Games {
		g.Go(func() error {
			r, err := s.playWithTimeout(ctx, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Simulator) playWithTimeout(ctx context.Context, n int) (Result, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	return s.Play(ctx, n)
}

type delivery struct {
	to  string
	msg protocol.Message
}

// Play runs game n to completion. Every message the service emits is queued
// and handed to its bot in order; the game is over once a bot sees
// GameEnded.
func (s *Simulator) Play(ctx context.Context, n int) (Result, error) {
	start := time.Now()
	seed := randutil.Derive(s.config.Seed, uint64(n))
	logger := s.config.Logger.With("game", n+1)

	var queue []delivery
	sender := server.SenderFunc(func(id string, msg protocol.Message) {
		queue = append(queue, delivery{to: id, msg: msg})
	})
	svc := server.NewGameService(
		map[string]game.Rules{s.config.Variant: s.config.Rules},
		sender,
		server.WithSeed(seed),
		server.WithServiceLogger(logger),
	)

	v, err := game.NewVariant(s.config.Variant, s.config.Rules)
	if err != nil {
		return Result{}, err
	}
	table := fmt.Sprintf("sim-%d", n+1)
	bots := make(map[string]*bot, v.MinPlayers())
	var first *bot
	for i := range v.MinPlayers() {
		b := &bot{
			id:      uuid.NewString(),
			name:    botNames[i],
			variant: s.config.Variant,
			game:    table,
			rng:     randutil.New(randutil.Derive(seed, uint64(i+1))),
		}
		bots[b.id] = b
		if first == nil {
			first = b
		}
		svc.Deliver(svc.Connect(b.id))
	}

	for first.ended == nil {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if len(queue) == 0 {
			return Result{}, ErrStalled
		}
		d := queue[0]
		queue = queue[1:]

		if notice, ok := d.msg.(protocol.ErrorNotice); ok {
			return Result{}, fmt.Errorf("%w: %s: %s", ErrRejected, notice.Code, notice.Message)
		}
		if rej, ok := d.msg.(protocol.JoinRejected); ok {
			return Result{}, fmt.Errorf("%w: join: %s", ErrRejected, rej.Reason)
		}

		b := bots[d.to]
		env, err := b.react(d.msg)
		if err != nil {
			return Result{}, err
		}
		if env != nil {
			svc.Dispatch(b.id, env)
		}
		if b.rounds > s.config.MaxRounds {
			return Result{}, fmt.Errorf("%w: %d", ErrTooLong, s.config.MaxRounds)
		}
	}

	// drain so every bot sees the end of the game
	for _, d := range queue {
		_, _ = bots[d.to].react(d.msg)
	}

	result := Result{
		Game:     n + 1,
		Variant:  s.config.Variant,
		Winner:   first.ended.Winner,
		Rounds:   first.rounds,
		Scores:   first.ended.Scores,
		Duration: time.Since(start),
	}
	logger.Debug("Game finished", "winner", result.Winner, "rounds", result.Rounds, "scores", result.Scores)

	for id := range bots {
		svc.Disconnect(id)
	}
	return result, nil
}

// Summary tallies wins per seat name across results
type Summary struct {
	Games  int
	Rounds int
	Wins   map[string]int
}

// Summarize aggregates a batch of results
func Summarize(results []Result) Summary {
	sum := Summary{Games: len(results), Wins: make(map[string]int)}
	for _, r := range results {
		sum.Rounds += r.Rounds
		sum.Wins[r.Winner]++
	}
	return sum
}

// AverageRounds is the mean number of rounds per game
func (s Summary) AverageRounds() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Rounds) / float64(s.Games)
}
