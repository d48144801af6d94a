package meld

import (
	"testing"

	"github.com/lox/trickserver/internal/deck"
	"github.com/lox/trickserver/internal/randutil"
	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	counter := NewCounter(deck.Pinochle, DefaultPoints)

	tests := []struct {
		name     string
		hand     string
		trump    deck.Suit
		expected Counts
	}{
		{
			name:     "empty hand",
			hand:     "",
			trump:    deck.Hearts,
			expected: Counts{},
		},
		{
			name:     "aces around",
			hand:     "AC AD AS AH 9C",
			trump:    deck.Spades,
			expected: Counts{AcesAround: 1, Total: 10},
		},
		{
			name:     "double aces around",
			hand:     "AC AD AS AH AC AD AS AH",
			trump:    deck.Spades,
			expected: Counts{AcesAround: 2, Total: 100},
		},
		{
			name:     "three suits is not around",
			hand:     "KC KD KS KS",
			trump:    deck.Spades,
			expected: Counts{},
		},
		{
			name:     "run absorbs its marriage",
			hand:     "AH 10H KH QH JH",
			trump:    deck.Hearts,
			expected: Counts{Run: 1, Total: 15},
		},
		{
			name:     "run plus extra trump marriage",
			hand:     "AH 10H KH QH JH KH QH",
			trump:    deck.Hearts,
			expected: Counts{Run: 1, HeartsMarriage: 1, Total: 19},
		},
		{
			name:     "double run",
			hand:     "AH 10H KH QH JH AH 10H KH QH JH",
			trump:    deck.Hearts,
			expected: Counts{Run: 2, Total: 150},
		},
		{
			name:     "pinochle",
			hand:     "JD QS",
			trump:    deck.Clubs,
			expected: Counts{Pinochle: 1, Total: 4},
		},
		{
			name:     "double pinochle",
			hand:     "JD QS JD QS",
			trump:    deck.Clubs,
			expected: Counts{Pinochle: 2, Total: 30},
		},
		{
			name:     "pinochle with spade marriage",
			hand:     "JD QS KS",
			trump:    deck.Clubs,
			expected: Counts{Pinochle: 1, SpadesMarriage: 1, Total: 6},
		},
		{
			name:     "nines of trump are uncapped",
			hand:     "9H 9H 9C",
			trump:    deck.Hearts,
			expected: Counts{TrumpNine: 2, Total: 2},
		},
		{
			name:     "marriages off trump and in trump",
			hand:     "KC QC KD QD KD QD",
			trump:    deck.Diamonds,
			expected: Counts{ClubsMarriage: 1, DiamondsMarriage: 2, Total: 10},
		},
		{
			name:  "every around doubled",
			hand:  "AC AD AS AH AC AD AS AH KC KD KS KH KC KD KS KH QC QD QS QH QC QD QS QH JC JD JS JH JC JD JS JH",
			trump: deck.Hearts,
			expected: Counts{
				AcesAround: 2, KingsAround: 2, QueensAround: 2, JacksAround: 2,
				Pinochle:      2,
				ClubsMarriage: 2, DiamondsMarriage: 2, SpadesMarriage: 2, HeartsMarriage: 2,
				Total: 330,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := counter.Count(deck.MustParseCards(tt.hand), tt.trump)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestItemize(t *testing.T) {
	counter := NewCounter(deck.Pinochle, DefaultPoints)
	hand := deck.MustParseCards("AH 10H KH QH JH 9H JD QS KC QC")
	c := counter.Count(hand, deck.Hearts)

	items := counter.Itemize(c, deck.Hearts)
	assert.Equal(t, []Item{
		{Name: "Run", Count: 1, Points: 15},
		{Name: "Pinochle", Count: 1, Points: 4},
		{Name: "Nine of Trump", Count: 1, Points: 1},
		{Name: "Marriage in C", Count: 1, Points: 2},
	}, items)
	assert.Equal(t, 22, c.Total)
}

// price computes the value of c directly from a point table
func price(c Counts, trump deck.Suit, p PointTable) int {
	around := func(n, base int) int {
		switch n {
		case 1:
			return base
		case 2:
			return base * p.AroundMultiplier
		}
		return 0
	}
	total := around(c.AcesAround, p.AcesAround) +
		around(c.KingsAround, p.KingsAround) +
		around(c.QueensAround, p.QueensAround) +
		around(c.JacksAround, p.JacksAround) +
		around(c.Run, p.Run) +
		c.TrumpNine*p.TrumpNine
	switch c.Pinochle {
	case 1:
		total += p.Pinochle
	case 2:
		total += p.DoublePinochle
	}
	for _, suit := range deck.StandardSuits {
		if suit == trump {
			total += c.Marriage(suit) * p.TrumpMarriage
		} else {
			total += c.Marriage(suit) * p.Marriage
		}
	}
	return total
}

func TestTotalIsAdditive(t *testing.T) {
	tables := map[string]PointTable{
		"default": DefaultPoints,
		"custom": {
			AcesAround: 11, KingsAround: 7, QueensAround: 5, JacksAround: 3,
			AroundMultiplier: 4, Marriage: 1, TrumpMarriage: 6, Pinochle: 9,
			DoublePinochle: 50, TrumpNine: 2, Run: 13,
		},
	}
	for name, points := range tables {
		t.Run(name, func(t *testing.T) {
			counter := NewCounter(deck.Pinochle, points)
			rng := randutil.New(3)

			for range 500 {
				d := deck.New(deck.Pinochle, rng)
				d.Shuffle()
				hand := d.DealN(15 + rng.IntN(4))
				trump := deck.StandardSuits[rng.IntN(4)]

				c := counter.Count(hand, trump)
				assert.Equal(t, price(c, trump, points), c.Total, "hand %v trump %s", hand, trump)

				itemized := 0
				for _, item := range counter.Itemize(c, trump) {
					itemized += item.Points
				}
				assert.Equal(t, c.Total, itemized)
				assert.GreaterOrEqual(t, c.Marriage(trump), 0)
			}
		})
	}
}
