package game

import (
	"fmt"
	"slices"

	"github.com/lox/trickserver/internal/deck"
	"github.com/lox/trickserver/internal/protocol"
	"github.com/lox/trickserver/internal/rules"
)

const (
	heartsPlayers  = 4
	heartsHandSize = 13
	heartsPassSize = 3
	heartsPool     = 26 // every heart plus the queen of spades
	queenPoints    = 13
)

// passDirections cycles left, right, across, hold
var passDirections = []int{1, -1, 2, 0}

var (
	queenOfSpades = deck.NewCard(deck.Spades, deck.Queen)
	twoOfClubs    = deck.NewCard(deck.Clubs, deck.Two)
)

func heartsPoints(c deck.Card) int {
	switch {
	case c == queenOfSpades:
		return queenPoints
	case c.Suit == deck.Hearts:
		return 1
	}
	return 0
}

func isHeartsPoint(c deck.Card) bool {
	return heartsPoints(c) > 0
}

// hearts is the passing game: lowest score wins, points are avoided
type hearts struct {
	baseVariant
	decider *rules.PointRestricted
	passes  map[*Player][]deck.Card
}

func newHearts(r Rules) Variant {
	return &hearts{
		baseVariant: baseVariant{name: Hearts, rules: r},
		decider:     rules.NewPointRestricted(deck.Standard.Ordering(), twoOfClubs, isHeartsPoint),
	}
}

func (h *hearts) MinPlayers() int        { return heartsPlayers }
func (h *hearts) HandSize() int          { return heartsHandSize }
func (h *hearts) Deck() deck.Spec        { return deck.Standard }
func (h *hearts) Decider() rules.Decider { return h.decider }

func (h *hearts) direction(m *Manager) int {
	return passDirections[(m.round-1)%len(passDirections)]
}

func (h *hearts) StartRound(m *Manager) protocol.Packets {
	h.passes = make(map[*Player][]deck.Card, len(m.players))
	out := m.dealPackets()

	dir := h.direction(m)
	if dir == 0 {
		out.Append(h.openFirstTrick(m))
		return out
	}

	m.phase = PhasePassing
	for i, p := range m.players {
		out.Add(protocol.PassRequest{
			Recipient: p.Name,
			Count:     heartsPassSize,
			Target:    m.seat(i, dir).Name,
		}, p.ID)
	}
	return out
}

// openFirstTrick gives the lead to whoever holds the designated opener
func (h *hearts) openFirstTrick(m *Manager) protocol.Packets {
	leader := slices.IndexFunc(m.players, func(p *Player) bool {
		return deck.Contains(p.Hand, h.decider.Opener())
	})
	return m.startTrick(leader)
}

func (h *hearts) Pass(m *Manager, p *Player, msg protocol.Pass) (protocol.Packets, error) {
	if err := m.require(p, PhasePassing, false); err != nil {
		return nil, err
	}
	if _, ok := h.passes[p]; ok {
		return nil, fmt.Errorf("%w: cards already passed this round", ErrAlreadySubmitted)
	}
	if len(msg.Cards) != heartsPassSize {
		return nil, fmt.Errorf("%w: pass exactly %d cards, got %d", ErrInvalidPass, heartsPassSize, len(msg.Cards))
	}
	if !deck.ContainsAll(p.Hand, msg.Cards) {
		return nil, fmt.Errorf("%w: %v are not all in your hand", ErrInvalidPass, msg.Cards)
	}

	h.passes[p] = slices.Clone(msg.Cards)
	m.logger.Debug("Cards passed", "player", p.Name, "waiting", len(m.players)-len(h.passes))
	if len(h.passes) < len(m.players) {
		return nil, nil
	}
	return h.exchange(m), nil
}

// exchange delivers every held pass at once
func (h *hearts) exchange(m *Manager) protocol.Packets {
	dir := h.direction(m)
	for p, cards := range h.passes {
		p.Hand, _ = deck.RemoveAll(p.Hand, cards)
	}

	var out protocol.Packets
	for i, p := range m.players {
		target := m.seat(i, dir)
		cards := h.passes[p]
		target.Hand = append(target.Hand, cards...)
		out.Add(protocol.PassDelivered{Recipient: target.Name, From: p.Name, Cards: cards}, target.ID)
	}
	for _, p := range m.players {
		m.sortHand(p)
	}
	clear(h.passes)

	out.Append(h.openFirstTrick(m))
	return out
}

func (h *hearts) ScoreTrick(_ *Manager, trick []deck.Card, winner *Player) protocol.Packets {
	for _, c := range trick {
		if pts := heartsPoints(c); pts > 0 {
			winner.SecretScore += pts
			h.decider.BreakPoints()
		}
	}
	return nil
}

// UpdateScores charges each seat its points, unless one seat took them all,
// in which case every other seat is charged the whole pool
func (h *hearts) UpdateScores(m *Manager) {
	shooter := slices.IndexFunc(m.players, func(p *Player) bool { return p.SecretScore == heartsPool })
	if shooter < 0 {
		h.baseVariant.UpdateScores(m)
		return
	}
	m.logger.Info("Shot the moon", "player", m.players[shooter].Name)
	for i, p := range m.players {
		if i != shooter {
			p.Score += heartsPool
		}
	}
}

func (h *hearts) Winner(m *Manager) *Player {
	best := m.players[0]
	for _, p := range m.players[1:] {
		if p.Score < best.Score {
			best = p
		}
	}
	return best
}

func (h *hearts) Reset(*Manager) {
	h.passes = nil
	h.decider.Reset()
}
