package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/trickserver/internal/deck"
	"github.com/lox/trickserver/internal/protocol"
	"github.com/lox/trickserver/internal/randutil"
	"github.com/lox/trickserver/internal/rules"
)

// Manager owns one game session. Every exported method holds the session
// lock for its whole duration, validates before mutating, and returns the
// outbound packets instead of sending them.
type Manager struct {
	mu sync.Mutex

	name    string
	variant Variant
	decider rules.Decider
	order   deck.Ordering
	logger  *log.Logger
	rng     *rand.Rand

	players      []*Player
	trick        []deck.Card
	dealer       int
	leader       int
	current      int
	phase        Phase
	started      bool
	over         bool
	round        int
	tricksPlayed int
}

// Option configures a Manager during creation.
type Option func(*Manager)

// WithLogger sets the session logger
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRNG sets the shuffle source, making deals reproducible
func WithRNG(rng *rand.Rand) Option {
	return func(m *Manager) {
		m.rng = rng
	}
}

// NewManager creates an empty session named name playing variant v
func NewManager(name string, v Variant, opts ...Option) *Manager {
	m := &Manager{
		name:    name,
		variant: v,
		decider: v.Decider(),
		order:   v.Deck().Ordering(),
		phase:   PhaseLobby,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if m.rng == nil {
		m.rng = randutil.New(time.Now().UnixNano())
	}
	m.logger = m.logger.WithPrefix("game").With("game", name, "variant", v.Name())
	return m
}

// Name returns the session name
func (m *Manager) Name() string {
	return m.name
}

// Info is a point-in-time summary of a session
type Info struct {
	Name    string   `json:"name"`
	Variant string   `json:"variant"`
	Phase   Phase    `json:"phase"`
	Players []string `json:"players"`
	Seats   int      `json:"seats"`
	Started bool     `json:"started"`
	Over    bool     `json:"over"`
	Round   int      `json:"round"`
}

// Info returns a summary of the session
func (m *Manager) Info() Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, len(m.players))
	for i, p := range m.players {
		names[i] = p.Name
	}
	return Info{
		Name:    m.name,
		Variant: m.variant.Name(),
		Phase:   m.phase,
		Players: names,
		Seats:   m.variant.MinPlayers(),
		Started: m.started,
		Over:    m.over,
		Round:   m.round,
	}
}

// Joinable reports whether new players may join
func (m *Manager) Joinable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.started && !m.over
}

// Empty reports whether no players remain
func (m *Manager) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players) == 0
}

// Players returns copies of every seat in order
func (m *Manager) Players() []Player {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Player, len(m.players))
	for i, p := range m.players {
		out[i] = p.clone()
	}
	return out
}

// Phase returns the current phase
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Join seats a participant under a display name. The round starts as soon as
// the variant's seat count is reached.
func (m *Manager) Join(id, name string) (protocol.Packets, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if m.over {
		return nil, fmt.Errorf("%w: %q has ended", ErrGameOver, m.name)
	}
	if m.started {
		return nil, fmt.Errorf("%w: %q is full", ErrGameStarted, m.name)
	}
	for _, p := range m.players {
		if p.Name == name {
			return nil, fmt.Errorf("%w: the name %q already exists in the game %q", ErrNameTaken, name, m.name)
		}
		if p.ID == id {
			return nil, fmt.Errorf("%w: already seated as %q", ErrNameTaken, p.Name)
		}
	}

	var out protocol.Packets
	out.Add(protocol.JoinAccepted{Name: name}, id)
	for _, p := range m.players {
		out.Add(protocol.SeatJoined{Name: p.Name, Game: m.name, Order: p.Order}, id)
	}

	player := &Player{ID: id, Name: name, Order: len(m.players)}
	m.players = append(m.players, player)
	out.Add(protocol.SeatJoined{Name: name, Game: m.name, Order: player.Order}, m.ids()...)

	m.logger.Info("Player joined", "player", name, "order", player.Order, "seated", len(m.players))

	if len(m.players) == m.variant.MinPlayers() {
		out.Append(m.startRound())
	}
	return out, nil
}

// Turn plays a card for the current player
func (m *Manager) Turn(id string, msg protocol.Turn) (protocol.Packets, error) {
	return m.act(id, func(p *Player) (protocol.Packets, error) {
		if err := m.require(p, PhasePlaying, true); err != nil {
			return nil, err
		}
		if !deck.Contains(p.Hand, msg.Card) {
			return nil, fmt.Errorf("%w: %s is not in your hand", ErrIllegalCard, msg.Card)
		}
		if legal := m.legalCards(p); !deck.Contains(legal, msg.Card) {
			return nil, fmt.Errorf("%w: %s is not playable, choose from %v", ErrIllegalCard, msg.Card, legal)
		}

		var out protocol.Packets
		out.Add(protocol.CardPlayed{Player: p.Name, Card: msg.Card}, m.ids()...)
		p.Hand, _ = deck.Remove(p.Hand, msg.Card)
		m.trick = append(m.trick, msg.Card)
		m.current = m.next(m.current)

		m.logger.Debug("Card played", "player", p.Name, "card", msg.Card, "trick", len(m.trick))

		if m.current != m.leader {
			out.Append(m.offerTurn())
			return out, nil
		}
		out.Append(m.resolveTrick())
		return out, nil
	})
}

// Bid handles a bid or pass
func (m *Manager) Bid(id string, msg protocol.Bid) (protocol.Packets, error) {
	return m.act(id, func(p *Player) (protocol.Packets, error) {
		return m.variant.Bid(m, p, msg)
	})
}

// Kitty handles the discard after taking the kitty or talon
func (m *Manager) Kitty(id string, msg protocol.Kitty) (protocol.Packets, error) {
	return m.act(id, func(p *Player) (protocol.Packets, error) {
		return m.variant.Kitty(m, p, msg)
	})
}

// Trump handles a trump declaration
func (m *Manager) Trump(id string, msg protocol.Trump) (protocol.Packets, error) {
	return m.act(id, func(p *Player) (protocol.Packets, error) {
		return m.variant.Trump(m, p, msg)
	})
}

// Meld handles a meld declaration
func (m *Manager) Meld(id string, msg protocol.Meld) (protocol.Packets, error) {
	return m.act(id, func(p *Player) (protocol.Packets, error) {
		return m.variant.Meld(m, p, msg)
	})
}

// Pass handles a set of cards passed to another seat
func (m *Manager) Pass(id string, msg protocol.Pass) (protocol.Packets, error) {
	return m.act(id, func(p *Player) (protocol.Packets, error) {
		return m.variant.Pass(m, p, msg)
	})
}

// Disconnect removes a participant. Losing a seat from a running game
// disables the session permanently.
func (m *Manager) Disconnect(id string) (protocol.Packets, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.lookup(id)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	return m.removePlayer(p), nil
}

// Restart either redeals the same session from scratch or detaches the
// requester so they can join another game.
func (m *Manager) Restart(id string, msg protocol.Restart) (protocol.Packets, error) {
	return m.act(id, func(p *Player) (protocol.Packets, error) {
		if msg.NewGame {
			var out protocol.Packets
			out.Add(protocol.RestartAccepted{NewGame: true}, p.ID)
			out.Append(m.removePlayer(p))
			return out, nil
		}

		if !m.started {
			return nil, fmt.Errorf("%w: %q has not started", ErrWrongPhase, m.name)
		}
		if len(m.players) < m.variant.MinPlayers() {
			return nil, fmt.Errorf("%w: %d of %d seats filled", ErrNotEnoughPlayers, len(m.players), m.variant.MinPlayers())
		}

		m.reset()
		m.logger.Info("Game restarted", "by", p.Name)

		var out protocol.Packets
		out.Add(protocol.RestartAccepted{NewGame: false}, p.ID)
		out.Append(m.startRound())
		return out, nil
	})
}

// act looks up the sender under the session lock and runs fn
func (m *Manager) act(id string, fn func(p *Player) (protocol.Packets, error)) (protocol.Packets, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.lookup(id)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	out, err := fn(p)
	if err != nil {
		m.logger.Warn("Action rejected", "player", p.Name, "phase", m.phase, "error", err)
		return nil, err
	}
	return out, nil
}

// require checks that the session is in phase and, when turn is set, that p
// is the expected actor
func (m *Manager) require(p *Player, phase Phase, turn bool) error {
	if m.phase != phase {
		return fmt.Errorf("%w: expected %s, game is in %s", ErrWrongPhase, phase, m.phase)
	}
	if turn && m.players[m.current] != p {
		return fmt.Errorf("%w: waiting for %s", ErrNotYourTurn, m.players[m.current].Name)
	}
	return nil
}

func (m *Manager) lookup(id string) *Player {
	for _, p := range m.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *Manager) index(p *Player) int {
	return slices.Index(m.players, p)
}

// ids returns every seated participant, the broadcast recipient set
func (m *Manager) ids() []string {
	ids := make([]string, len(m.players))
	for i, p := range m.players {
		ids[i] = p.ID
	}
	return ids
}

// idsExcept returns every seated participant but p
func (m *Manager) idsExcept(p *Player) []string {
	ids := make([]string, 0, len(m.players))
	for _, other := range m.players {
		if other != p {
			ids = append(ids, other.ID)
		}
	}
	return ids
}

func (m *Manager) next(i int) int {
	return (i + 1) % len(m.players)
}

// seat returns the player offset seats after i, wrapping in either direction
func (m *Manager) seat(i, offset int) *Player {
	n := len(m.players)
	return m.players[((i+offset)%n+n)%n]
}

// sortHand orders a hand by the variant's table order
func (m *Manager) sortHand(p *Player) {
	m.order.Sort(p.Hand)
}

func (m *Manager) startRound() protocol.Packets {
	m.started = true
	m.round++
	m.trick = m.trick[:0]
	m.tricksPlayed = 0
	m.current = m.next(m.dealer)
	m.leader = m.current

	d := deck.New(m.variant.Deck(), m.rng)
	d.Shuffle()
	for _, p := range m.players {
		p.Hand = d.DealN(m.variant.HandSize())
		p.TricksTaken = 0
	}
	m.variant.DealExtra(m, d.Rest())

	m.logger.Info("Round started", "round", m.round, "dealer", m.players[m.dealer].Name)
	return m.variant.StartRound(m)
}

// dealPackets sorts every hand and unicasts it to its owner
func (m *Manager) dealPackets() protocol.Packets {
	var out protocol.Packets
	for _, p := range m.players {
		m.sortHand(p)
		out.Add(protocol.HandDealt{Cards: slices.Clone(p.Hand)}, p.ID)
	}
	return out
}

// startTrick hands the lead to seat leader
func (m *Manager) startTrick(leader int) protocol.Packets {
	m.phase = PhasePlaying
	m.leader = leader
	m.current = leader
	m.trick = m.trick[:0]
	return m.offerTurn()
}

// offerTurn tells the current player what they may play and everyone else
// whose turn it is
func (m *Manager) offerTurn() protocol.Packets {
	p := m.players[m.current]
	leading := len(m.trick) == 0

	var out protocol.Packets
	out.Add(protocol.TurnOffered{Recipient: p.Name, LegalCards: m.legalCards(p), Leading: leading}, p.ID)
	out.Add(protocol.TurnOffered{Recipient: p.Name, Leading: leading}, m.idsExcept(p)...)
	return out
}

func (m *Manager) legalCards(p *Player) []deck.Card {
	first := m.tricksPlayed == 0
	switch {
	case len(m.trick) == 0 && first:
		return m.decider.OpeningCardsForFirstTrick(p.Hand)
	case len(m.trick) == 0:
		return m.decider.OpeningCardsForTrick(p.Hand)
	case first:
		return m.decider.FirstTrickLegalFollows(p.Hand, m.trick)
	default:
		return m.decider.LegalFollows(p.Hand, m.trick)
	}
}

func (m *Manager) resolveTrick() protocol.Packets {
	trick := slices.Clone(m.trick)
	winnerIdx := (m.leader + m.decider.TrickWinner(trick)) % len(m.players)
	winner := m.players[winnerIdx]
	winner.TricksTaken++
	m.tricksPlayed++
	m.trick = m.trick[:0]

	m.logger.Debug("Trick resolved", "winner", winner.Name, "cards", trick, "trick", m.tricksPlayed)

	var out protocol.Packets
	out.Append(m.variant.ScoreTrick(m, trick, winner))
	out.Add(protocol.TrickResolved{Winner: winner.Name, Cards: trick}, m.ids()...)

	for _, p := range m.players {
		if len(p.Hand) > 0 {
			out.Append(m.startTrick(winnerIdx))
			return out
		}
	}

	m.variant.LastTrick(m, winner)
	out.Append(m.finishRound())
	return out
}

// finishRound applies round scores, then ends the game or deals the next round
func (m *Manager) finishRound() protocol.Packets {
	for _, p := range m.players {
		p.OldScore = p.Score
	}
	m.variant.UpdateScores(m)

	var out protocol.Packets
	for _, p := range m.players {
		out.Add(protocol.ScoreUpdate{
			Player:   p.Name,
			Score:    p.Score,
			Delta:    p.Score - p.OldScore,
			MissedBy: p.MissedBy,
		}, m.ids()...)
	}
	for _, p := range m.players {
		p.clearRound()
	}

	if m.variant.IsGameOver(m) {
		out.Append(m.endGame())
		return out
	}
	m.dealer = m.next(m.dealer)
	out.Append(m.startRound())
	return out
}

func (m *Manager) endGame() protocol.Packets {
	m.over = true
	m.phase = PhaseGameOver

	scores := make(map[string]int, len(m.players))
	for _, p := range m.players {
		scores[p.Name] = p.Score
	}
	winner := m.variant.Winner(m)
	m.logger.Info("Game over", "winner", winner.Name, "rounds", m.round)

	var out protocol.Packets
	out.Add(protocol.GameEnded{Winner: winner.Name, Scores: scores}, m.ids()...)
	return out
}

func (m *Manager) removePlayer(p *Player) protocol.Packets {
	m.players = slices.DeleteFunc(m.players, func(other *Player) bool { return other == p })

	disables := m.started && !m.over
	if m.started {
		m.over = true
	}
	if disables {
		m.phase = PhaseDisabled
	}
	if !m.started {
		for i, other := range m.players {
			other.Order = i
		}
	}

	m.logger.Info("Player left", "player", p.Name, "disablesGame", disables, "remaining", len(m.players))

	var out protocol.Packets
	out.Add(protocol.SeatDisconnected{Player: p.Name, DisablesGame: disables}, m.ids()...)
	return out
}

// reset clears all mutable game state for a fresh game with the same seats
func (m *Manager) reset() {
	for _, p := range m.players {
		p.Score = 0
		p.OldScore = 0
		p.UsedOptions = nil
		p.Hand = nil
		p.clearRound()
	}
	m.trick = m.trick[:0]
	m.dealer = 0
	m.leader = 0
	m.current = 0
	m.round = 0
	m.tricksPlayed = 0
	m.started = false
	m.over = false
	m.phase = PhaseLobby
	m.variant.Reset(m)
}
