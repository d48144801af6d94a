package rules

import (
	"github.com/lox/trickserver/internal/deck"
)

// PointRestricted is the passing-game decider. The designated opener must lead
// the first trick, point cards may not be dumped on the first trick, and point
// cards may not be led until points are broken.
type PointRestricted struct {
	Plain
	opener  deck.Card
	isPoint func(deck.Card) bool
	broken  bool
}

// NewPointRestricted creates the decider. opener is the card that must lead
// the first trick of each round; isPoint identifies restricted cards.
func NewPointRestricted(order deck.Ordering, opener deck.Card, isPoint func(deck.Card) bool) *PointRestricted {
	return &PointRestricted{
		Plain:   Plain{order: order},
		opener:  opener,
		isPoint: isPoint,
	}
}

// BreakPoints sets the latch allowing point cards to be led
func (p *PointRestricted) BreakPoints() {
	p.broken = true
}

// PointsBroken reports whether the latch is set
func (p *PointRestricted) PointsBroken() bool {
	return p.broken
}

// Reset clears the latch for a new game; it stays set across rounds
func (p *PointRestricted) Reset() {
	p.broken = false
}

// Opener returns the card that must lead the first trick
func (p *PointRestricted) Opener() deck.Card {
	return p.opener
}

func (p *PointRestricted) OpeningCardsForFirstTrick(hand []deck.Card) []deck.Card {
	if deck.Contains(hand, p.opener) {
		return []deck.Card{p.opener}
	}
	return p.OpeningCardsForTrick(hand)
}

func (p *PointRestricted) OpeningCardsForTrick(hand []deck.Card) []deck.Card {
	if p.broken {
		return p.Plain.OpeningCardsForTrick(hand)
	}
	return p.withoutPoints(hand)
}

func (p *PointRestricted) FirstTrickLegalFollows(hand, trick []deck.Card) []deck.Card {
	return p.withoutPoints(p.LegalFollows(hand, trick))
}

// withoutPoints drops point cards unless nothing else is left
func (p *PointRestricted) withoutPoints(cards []deck.Card) []deck.Card {
	if safe := deck.Filter(cards, func(c deck.Card) bool { return !p.isPoint(c) }); len(safe) > 0 {
		return safe
	}
	return cards
}
