// Package rules holds the trick-legality and trick-winner strategies shared by
// the game variants.
package rules

import (
	"slices"

	"github.com/lox/trickserver/internal/deck"
)

// Decider answers which cards may be played and which card takes a trick.
// Every method returns a fresh slice holding only cards from hand.
type Decider interface {
	// OpeningCardsForFirstTrick restricts the lead of a round's first trick.
	OpeningCardsForFirstTrick(hand []deck.Card) []deck.Card
	// OpeningCardsForTrick restricts the lead of every later trick.
	OpeningCardsForTrick(hand []deck.Card) []deck.Card
	// LegalFollows returns the cards that may be played onto a non-empty trick.
	LegalFollows(hand, trick []deck.Card) []deck.Card
	// FirstTrickLegalFollows is LegalFollows during the first trick of a round.
	FirstTrickLegalFollows(hand, trick []deck.Card) []deck.Card
	// TrickWinner returns the index into a complete trick of the winning card.
	TrickWinner(trick []deck.Card) int
}

// Plain is the no-trump decider: follow suit if possible, highest card of the
// led suit wins.
type Plain struct {
	order deck.Ordering
}

// NewPlain creates a plain decider over the variant's card order
func NewPlain(order deck.Ordering) *Plain {
	return &Plain{order: order}
}

func (p *Plain) OpeningCardsForFirstTrick(hand []deck.Card) []deck.Card {
	return slices.Clone(hand)
}

func (p *Plain) OpeningCardsForTrick(hand []deck.Card) []deck.Card {
	return slices.Clone(hand)
}

func (p *Plain) LegalFollows(hand, trick []deck.Card) []deck.Card {
	if len(trick) == 0 {
		return slices.Clone(hand)
	}
	if follow := deck.OfSuit(hand, trick[0].Suit); len(follow) > 0 {
		return follow
	}
	return slices.Clone(hand)
}

func (p *Plain) FirstTrickLegalFollows(hand, trick []deck.Card) []deck.Card {
	return p.LegalFollows(hand, trick)
}

func (p *Plain) TrickWinner(trick []deck.Card) int {
	return highestOfSuit(p.order, trick, trick[0].Suit)
}

// highestOfSuit returns the index of the highest card of suit in trick, or -1.
// Equal cards never displace an earlier one, so the first copy played wins.
func highestOfSuit(order deck.Ordering, trick []deck.Card, suit deck.Suit) int {
	best := -1
	for i, c := range trick {
		if c.Suit != suit {
			continue
		}
		if best < 0 || order.Higher(c, trick[best]) {
			best = i
		}
	}
	return best
}

// higherThan returns the cards in cards that outrank top
func higherThan(order deck.Ordering, cards []deck.Card, top deck.Card) []deck.Card {
	return deck.Filter(cards, func(c deck.Card) bool { return order.Higher(c, top) })
}
