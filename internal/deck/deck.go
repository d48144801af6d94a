package deck

import (
	rand "math/rand/v2"
	"slices"
)

// Spec describes the multiset of cards a variant plays with
type Spec struct {
	Suits  []Suit
	Ranks  []Rank // low to high
	Copies int
}

// Standard is the 52-card deck
var Standard = Spec{Suits: StandardSuits, Ranks: StandardRanks, Copies: 1}

// Pinochle is the doubled 48-card deck with 10 ranked between K and A
var Pinochle = Spec{
	Suits:  StandardSuits,
	Ranks:  []Rank{Nine, Jack, Queen, King, Ten, Ace},
	Copies: 2,
}

// Size returns the number of cards in the deck
func (s Spec) Size() int {
	copies := max(s.Copies, 1)
	return len(s.Suits) * len(s.Ranks) * copies
}

// Cards returns the full unshuffled deck in table order
func (s Spec) Cards() []Card {
	cards := make([]Card, 0, s.Size())
	for range max(s.Copies, 1) {
		for _, suit := range s.Suits {
			for _, rank := range s.Ranks {
				cards = append(cards, NewCard(suit, rank))
			}
		}
	}
	return cards
}

// Ordering returns the card order implied by the spec's suit and rank lists
func (s Spec) Ordering() Ordering {
	return NewOrdering(s.Suits, s.Ranks)
}

// Ordering is a total order over cards derived from table position.
// It is a property of the variant, not of the card.
type Ordering struct {
	suitIdx [Hearts + 1]int
	rankIdx [Ace + 1]int
}

// NewOrdering builds an ordering from suit and rank lists (both low to high)
func NewOrdering(suits []Suit, ranks []Rank) Ordering {
	var o Ordering
	for i := range o.suitIdx {
		o.suitIdx[i] = -1
	}
	for i := range o.rankIdx {
		o.rankIdx[i] = -1
	}
	for i, s := range suits {
		if s.Valid() {
			o.suitIdx[s] = i
		}
	}
	for i, r := range ranks {
		if r >= Two && r <= Ace {
			o.rankIdx[r] = i
		}
	}
	return o
}

// RankIndex returns the position of the rank within the ordering, or -1
func (o Ordering) RankIndex(r Rank) int {
	if r < Two || r > Ace {
		return -1
	}
	return o.rankIdx[r]
}

// Key returns suitIndex*100 + rankIndex
func (o Ordering) Key(c Card) int {
	if !c.Suit.Valid() {
		return -1
	}
	return o.suitIdx[c.Suit]*100 + o.RankIndex(c.Rank)
}

// Compare orders a before b by key; equal cards compare 0
func (o Ordering) Compare(a, b Card) int {
	return o.Key(a) - o.Key(b)
}

// Higher reports whether a outranks b within the same suit
func (o Ordering) Higher(a, b Card) bool {
	return a.Suit == b.Suit && o.RankIndex(a.Rank) > o.RankIndex(b.Rank)
}

// Sort sorts cards in place by key
func (o Ordering) Sort(cards []Card) {
	slices.SortStableFunc(cards, o.Compare)
}

// Deck represents a deck of playing cards
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full, unshuffled deck for the spec
func New(spec Spec, rng *rand.Rand) *Deck {
	return &Deck{
		cards: spec.Cards(),
		rng:   rng,
	}
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// DealN deals up to n cards from the deck
func (d *Deck) DealN(n int) []Card {
	n = min(n, len(d.cards))
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// Rest removes and returns every undealt card
func (d *Deck) Rest() []Card {
	return d.DealN(len(d.cards))
}
