package game

import (
	"fmt"
	"slices"

	"github.com/lox/trickserver/internal/deck"
	"github.com/lox/trickserver/internal/protocol"
	"github.com/lox/trickserver/internal/rules"
)

const (
	mizerkaPlayers  = 3
	mizerkaHandSize = 13
	mizerkaPreview  = 5
)

// Non-suit trump options. Both play the round without trump.
const (
	OptionNoTrump = "No Trump"
	OptionMizerka = "Mizerka"
)

var mizerkaOptions = []string{"C", "D", "S", "H", OptionNoTrump, OptionMizerka}

// tricksNeeded by seat offset from the dealer
var tricksNeeded = []int{7, 5, 1}

// mizerka is the trump-exhaustion game: each dealer must use every trump
// option once, and each seat owes a fixed number of tricks per round
type mizerka struct {
	baseVariant
	decider *rules.Trump
	talon   []deck.Card
}

func newMizerka(r Rules) Variant {
	return &mizerka{
		baseVariant: baseVariant{name: Mizerka, rules: r},
		decider:     rules.NewTrump(deck.Standard.Ordering()),
	}
}

func (v *mizerka) MinPlayers() int        { return mizerkaPlayers }
func (v *mizerka) HandSize() int          { return mizerkaHandSize }
func (v *mizerka) Deck() deck.Spec        { return deck.Standard }
func (v *mizerka) Decider() rules.Decider { return v.decider }

func (v *mizerka) DealExtra(_ *Manager, cards []deck.Card) {
	v.talon = cards
}

// StartRound shows the dealer a preview of their hand and asks for trump
func (v *mizerka) StartRound(m *Manager) protocol.Packets {
	m.current = m.dealer
	m.phase = PhaseTrump
	dealer := m.players[m.dealer]

	preview := slices.Clone(dealer.Hand[:mizerkaPreview])
	m.order.Sort(preview)

	var out protocol.Packets
	out.Add(protocol.HandDealt{Cards: preview}, dealer.ID)
	out.Add(protocol.TrumpRequested{Recipient: dealer.Name, Options: v.remaining(dealer)}, m.ids()...)
	return out
}

func (v *mizerka) remaining(p *Player) []string {
	var out []string
	for _, opt := range mizerkaOptions {
		if !p.hasUsed(opt) {
			out = append(out, opt)
		}
	}
	return out
}

// Trump records the dealer's choice, deals the full hands and hands the
// dealer the talon
func (v *mizerka) Trump(m *Manager, p *Player, msg protocol.Trump) (protocol.Packets, error) {
	if err := m.require(p, PhaseTrump, true); err != nil {
		return nil, err
	}
	if !slices.Contains(mizerkaOptions, msg.Choice) {
		return nil, fmt.Errorf("%w: %q is not an option", ErrInvalidTrump, msg.Choice)
	}
	if p.hasUsed(msg.Choice) {
		return nil, fmt.Errorf("%w: %q already used", ErrInvalidTrump, msg.Choice)
	}

	p.UsedOptions = append(p.UsedOptions, msg.Choice)
	suit, err := deck.ParseSuit(msg.Choice)
	if err != nil {
		suit = deck.NoSuit
	}
	v.decider.SetTrump(suit)
	m.logger.Info("Trump declared", "player", p.Name, "choice", msg.Choice)

	var out protocol.Packets
	out.Add(protocol.TrumpDeclared{Chooser: p.Name, Choice: msg.Choice}, m.ids()...)
	out.Append(m.dealPackets())
	out.Append(offerKitty(m, p, v.talon))
	return out, nil
}

// Kitty takes the dealer's talon discards and starts play
func (v *mizerka) Kitty(m *Manager, p *Player, msg protocol.Kitty) (protocol.Packets, error) {
	if err := m.require(p, PhaseKitty, true); err != nil {
		return nil, err
	}
	if err := discard(p, msg.Cards, len(v.talon)); err != nil {
		return nil, err
	}

	var out protocol.Packets
	out.Add(v.tally(m), m.ids()...)
	out.Append(m.startTrick(m.dealer))
	return out, nil
}

func (v *mizerka) ScoreTrick(m *Manager, _ []deck.Card, _ *Player) protocol.Packets {
	var out protocol.Packets
	out.Add(v.tally(m), m.ids()...)
	return out
}

// needed returns how many more tricks seat i must take to break even
func (v *mizerka) needed(m *Manager, i int) int {
	offset := (i - m.dealer + len(m.players)) % len(m.players)
	return tricksNeeded[offset] - m.players[i].TricksTaken
}

func (v *mizerka) tally(m *Manager) protocol.TrickTally {
	remaining := make(map[string]int, len(m.players))
	for i, p := range m.players {
		remaining[p.Name] = v.needed(m, i)
	}
	return protocol.TrickTally{Remaining: remaining}
}

// UpdateScores charges each seat the tricks it fell short, crediting overtricks
func (v *mizerka) UpdateScores(m *Manager) {
	for i, p := range m.players {
		p.Score -= v.needed(m, i)
	}
}

// IsGameOver ends the game once every seat has used every option
func (v *mizerka) IsGameOver(m *Manager) bool {
	for _, p := range m.players {
		if len(p.UsedOptions) < len(mizerkaOptions) {
			return false
		}
	}
	return true
}

func (v *mizerka) Reset(*Manager) {
	v.talon = nil
	v.decider.Reset()
}
