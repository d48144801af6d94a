package rules

import (
	"github.com/lox/trickserver/internal/deck"
)

// Trump extends Plain with a declared trump suit: the highest trump played
// takes the trick outright.
type Trump struct {
	Plain
	trump deck.Suit
}

// NewTrump creates a trump decider with no trump declared
func NewTrump(order deck.Ordering) *Trump {
	return &Trump{Plain: Plain{order: order}, trump: deck.NoSuit}
}

// SetTrump declares trump for the rest of the round. deck.NoSuit plays without trump.
func (t *Trump) SetTrump(s deck.Suit) {
	t.trump = s
}

// TrumpSuit returns the declared trump suit
func (t *Trump) TrumpSuit() deck.Suit {
	return t.trump
}

// Reset clears trump when the session restarts
func (t *Trump) Reset() {
	t.trump = deck.NoSuit
}

func (t *Trump) TrickWinner(trick []deck.Card) int {
	if t.trump.Valid() {
		if i := highestOfSuit(t.order, trick, t.trump); i >= 0 {
			return i
		}
	}
	return t.Plain.TrickWinner(trick)
}

// RaisingTrump is the bid/meld follow rule: follow suit and beat the best card
// of that suit when the led suit is trump or nothing has been trumped yet;
// when void, trump (over the best trump if possible); otherwise anything.
type RaisingTrump struct {
	Trump
}

// NewRaisingTrump creates a raising trump decider
func NewRaisingTrump(order deck.Ordering) *RaisingTrump {
	return &RaisingTrump{Trump: *NewTrump(order)}
}

func (r *RaisingTrump) LegalFollows(hand, trick []deck.Card) []deck.Card {
	if len(trick) == 0 {
		return r.Plain.LegalFollows(hand, trick)
	}

	led := trick[0].Suit
	follow := deck.OfSuit(hand, led)
	topTrump := -1
	if r.trump.Valid() {
		topTrump = highestOfSuit(r.order, trick, r.trump)
	}

	if len(follow) > 0 {
		if led == r.trump || topTrump < 0 {
			top := trick[highestOfSuit(r.order, trick, led)]
			if higher := higherThan(r.order, follow, top); len(higher) > 0 {
				return higher
			}
		}
		return follow
	}

	if r.trump.Valid() {
		if trumps := deck.OfSuit(hand, r.trump); len(trumps) > 0 {
			if topTrump >= 0 {
				if higher := higherThan(r.order, trumps, trick[topTrump]); len(higher) > 0 {
					return higher
				}
			}
			return trumps
		}
	}
	return r.Plain.LegalFollows(hand, trick)
}

func (r *RaisingTrump) FirstTrickLegalFollows(hand, trick []deck.Card) []deck.Card {
	return r.LegalFollows(hand, trick)
}
