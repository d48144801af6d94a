package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/trickserver/internal/deck"
	"github.com/lox/trickserver/internal/protocol"
	"github.com/lox/trickserver/internal/rules"
)

// Variant bundles the rules of one game. A Manager calls these hooks while
// holding its lock; a Variant value belongs to exactly one session.
type Variant interface {
	Name() string
	MinPlayers() int
	HandSize() int
	Deck() deck.Spec
	Decider() rules.Decider

	// DealExtra receives the cards left after dealing every hand.
	DealExtra(m *Manager, cards []deck.Card)
	// StartRound runs after the deal and opens the first phase of the round.
	StartRound(m *Manager) protocol.Packets
	// ScoreTrick accrues per-trick points for the winner.
	ScoreTrick(m *Manager, trick []deck.Card, winner *Player) protocol.Packets
	// LastTrick applies any bonus for taking the final trick.
	LastTrick(m *Manager, winner *Player)
	// UpdateScores rolls the round's hidden scores into Score.
	UpdateScores(m *Manager)
	IsGameOver(m *Manager) bool
	Winner(m *Manager) *Player
	// Reset clears variant state when the session restarts.
	Reset(m *Manager)

	Bid(m *Manager, p *Player, msg protocol.Bid) (protocol.Packets, error)
	Kitty(m *Manager, p *Player, msg protocol.Kitty) (protocol.Packets, error)
	Trump(m *Manager, p *Player, msg protocol.Trump) (protocol.Packets, error)
	Meld(m *Manager, p *Player, msg protocol.Meld) (protocol.Packets, error)
	Pass(m *Manager, p *Player, msg protocol.Pass) (protocol.Packets, error)
}

// Rules are the tunable numbers of a variant
type Rules struct {
	TargetScore    int
	MinBid         int
	LastTrickBonus int
}

// DefaultRules returns the standard table rules
func DefaultRules() Rules {
	return Rules{
		TargetScore:    100,
		MinBid:         20,
		LastTrickBonus: 1,
	}
}

// Variant names as offered to clients
const (
	Hearts   = "Hearts"
	Pinochle = "Pinochle"
	Mizerka  = "Mizerka"
)

var variants = map[string]func(Rules) Variant{
	Hearts:   newHearts,
	Pinochle: newPinochle,
	Mizerka:  newMizerka,
}

// Variants lists every known variant name in sorted order
func Variants() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CanonicalVariant resolves a case-insensitive variant name
func CanonicalVariant(name string) (string, bool) {
	for known := range variants {
		if strings.EqualFold(known, name) {
			return known, true
		}
	}
	return "", false
}

// NewVariant creates a fresh rule bundle for one session
func NewVariant(name string, r Rules) (Variant, error) {
	canonical, ok := CanonicalVariant(name)
	if !ok {
		return nil, fmt.Errorf("unknown game type %q", name)
	}
	return variants[canonical](r), nil
}

// baseVariant supplies the default hooks: deal and lead straight away, no
// per-trick scoring, first to the target score ends the game, highest wins,
// and every optional action is unsupported.
type baseVariant struct {
	name  string
	rules Rules
}

func (b *baseVariant) Name() string {
	return b.name
}

func (b *baseVariant) DealExtra(*Manager, []deck.Card) {}

func (b *baseVariant) StartRound(m *Manager) protocol.Packets {
	out := m.dealPackets()
	out.Append(m.startTrick(m.current))
	return out
}

func (b *baseVariant) ScoreTrick(*Manager, []deck.Card, *Player) protocol.Packets {
	return nil
}

func (b *baseVariant) LastTrick(*Manager, *Player) {}

func (b *baseVariant) UpdateScores(m *Manager) {
	for _, p := range m.players {
		p.Score += p.SecretScore
	}
}

func (b *baseVariant) IsGameOver(m *Manager) bool {
	return slices.ContainsFunc(m.players, func(p *Player) bool {
		return p.Score >= b.rules.TargetScore
	})
}

func (b *baseVariant) Winner(m *Manager) *Player {
	best := m.players[0]
	for _, p := range m.players[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best
}

func (b *baseVariant) Reset(*Manager) {}

func (b *baseVariant) Bid(*Manager, *Player, protocol.Bid) (protocol.Packets, error) {
	return nil, b.unsupported("bid")
}

func (b *baseVariant) Kitty(*Manager, *Player, protocol.Kitty) (protocol.Packets, error) {
	return nil, b.unsupported("kitty")
}

func (b *baseVariant) Trump(*Manager, *Player, protocol.Trump) (protocol.Packets, error) {
	return nil, b.unsupported("trump")
}

func (b *baseVariant) Meld(*Manager, *Player, protocol.Meld) (protocol.Packets, error) {
	return nil, b.unsupported("meld")
}

func (b *baseVariant) Pass(*Manager, *Player, protocol.Pass) (protocol.Packets, error) {
	return nil, b.unsupported("pass")
}

func (b *baseVariant) unsupported(action string) error {
	return fmt.Errorf("%w: %s has no %s", ErrUnsupported, b.name, action)
}

// discard removes cards from p's hand for a kitty or talon exchange of size n
func discard(p *Player, cards []deck.Card, n int) error {
	if len(cards) != n {
		return fmt.Errorf("%w: discard exactly %d cards, got %d", ErrInvalidDiscard, n, len(cards))
	}
	hand, ok := deck.RemoveAll(p.Hand, cards)
	if !ok {
		return fmt.Errorf("%w: %v are not all in your hand", ErrInvalidDiscard, cards)
	}
	p.Hand = hand
	return nil
}

// offerKitty gives cards to p, showing them only to p
func offerKitty(m *Manager, p *Player, cards []deck.Card) protocol.Packets {
	p.Hand = append(p.Hand, cards...)
	m.sortHand(p)
	m.phase = PhaseKitty

	var out protocol.Packets
	out.Add(protocol.KittyOffered{
		Recipient:    p.Name,
		Cards:        slices.Clone(cards),
		Count:        len(cards),
		DiscardCount: len(cards),
	}, p.ID)
	out.Add(protocol.KittyOffered{
		Recipient:    p.Name,
		Count:        len(cards),
		DiscardCount: len(cards),
	}, m.idsExcept(p)...)
	return out
}
