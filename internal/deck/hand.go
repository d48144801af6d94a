package deck

import "slices"

// Contains reports whether hand holds at least one copy of c
func Contains(hand []Card, c Card) bool {
	return slices.Contains(hand, c)
}

// Count returns how many copies of c hand holds
func Count(hand []Card, c Card) int {
	n := 0
	for _, h := range hand {
		if h == c {
			n++
		}
	}
	return n
}

// Remove returns a copy of hand without the first occurrence of c
func Remove(hand []Card, c Card) ([]Card, bool) {
	i := slices.Index(hand, c)
	if i < 0 {
		return slices.Clone(hand), false
	}
	out := make([]Card, 0, len(hand)-1)
	out = append(out, hand[:i]...)
	return append(out, hand[i+1:]...), true
}

// RemoveAll removes cards from hand as a multiset. It returns false, and the
// original hand, when any card is not held often enough.
func RemoveAll(hand, cards []Card) ([]Card, bool) {
	out := slices.Clone(hand)
	for _, c := range cards {
		var ok bool
		out, ok = Remove(out, c)
		if !ok {
			return slices.Clone(hand), false
		}
	}
	return out, true
}

// ContainsAll reports whether hand holds every card in cards as a multiset
func ContainsAll(hand, cards []Card) bool {
	_, ok := RemoveAll(hand, cards)
	return ok
}

// OfSuit returns the cards in hand of the given suit
func OfSuit(hand []Card, suit Suit) []Card {
	return Filter(hand, func(c Card) bool { return c.Suit == suit })
}

// Filter returns the cards for which keep returns true
func Filter(hand []Card, keep func(Card) bool) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
