package rules

import (
	"testing"

	"github.com/lox/trickserver/internal/deck"
	"github.com/lox/trickserver/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cards = deck.MustParseCards

func isHeartsPoint(c deck.Card) bool {
	return c.Suit == deck.Hearts || c == deck.NewCard(deck.Spades, deck.Queen)
}

func TestPlainLegalFollows(t *testing.T) {
	p := NewPlain(deck.Standard.Ordering())

	tests := []struct {
		name     string
		hand     string
		trick    string
		expected string
	}{
		{"must follow suit", "2C 5H KH AS", "3H", "5H KH"},
		{"void plays anything", "2C AS", "3H", "2C AS"},
		{"single follow", "2C 5H AS", "QH 4C", "5H"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, cards(tt.expected), p.LegalFollows(cards(tt.hand), cards(tt.trick)))
		})
	}
}

func TestPlainTrickWinner(t *testing.T) {
	p := NewPlain(deck.Standard.Ordering())

	tests := []struct {
		name   string
		trick  string
		winner int
	}{
		{"highest of led suit", "5H KH 2H AS", 1},
		{"off-suit ace loses", "2C AH AS AD", 0},
		{"last card wins", "2D 3D 4D 5D", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.winner, p.TrickWinner(cards(tt.trick)))
		})
	}
}

func TestTrumpTrickWinner(t *testing.T) {
	d := NewTrump(deck.Standard.Ordering())

	assert.Equal(t, 3, d.TrickWinner(cards("AS KS QS AH")), "no trump falls back to led suit")

	d.SetTrump(deck.Clubs)
	assert.Equal(t, 2, d.TrickWinner(cards("AS KS 2C AH")), "any trump beats any non-trump")
	assert.Equal(t, 1, d.TrickWinner(cards("AS 3C 2C AH")), "highest trump wins")
	assert.Equal(t, 0, d.TrickWinner(cards("AS KS QS")), "led suit when nobody trumps")

	d.Reset()
	assert.Equal(t, deck.NoSuit, d.TrumpSuit())
}

func TestTrumpWinnerIndependentOfPlayOrder(t *testing.T) {
	d := NewTrump(deck.Standard.Ordering())
	d.SetTrump(deck.Hearts)

	trick := cards("AS 2H KS")
	w := d.TrickWinner(trick)
	assert.Equal(t, "2H", trick[w].String())

	reordered := cards("AS KS 2H")
	w = d.TrickWinner(reordered)
	assert.Equal(t, "2H", reordered[w].String())
}

func TestRaisingTrumpDuplicateCards(t *testing.T) {
	d := NewRaisingTrump(deck.Pinochle.Ordering())
	d.SetTrump(deck.Spades)

	assert.Equal(t, 0, d.TrickWinner(cards("AH AH 9H")), "first of two identical cards wins")
	assert.Equal(t, 1, d.TrickWinner(cards("AH QS QS")), "first identical trump wins")
}

func TestRaisingTrumpLegalFollows(t *testing.T) {
	order := deck.Pinochle.Ordering()

	tests := []struct {
		name     string
		trump    deck.Suit
		hand     string
		trick    string
		expected string
	}{
		{
			name:     "must beat led suit when no trump played",
			trump:    deck.Spades,
			hand:     "9H 10H AH QS",
			trick:    "KH",
			expected: "10H AH",
		},
		{
			name:     "follows low when cannot beat",
			trump:    deck.Spades,
			hand:     "9H JH QS",
			trick:    "AH",
			expected: "9H JH",
		},
		{
			name:     "no need to beat after trick was trumped",
			trump:    deck.Spades,
			hand:     "9H AH QS",
			trick:    "KH 9S",
			expected: "9H AH",
		},
		{
			name:     "must raise within trump when trump led",
			trump:    deck.Spades,
			hand:     "9S AS KH",
			trick:    "10S",
			expected: "AS",
		},
		{
			name:     "void must trump",
			trump:    deck.Spades,
			hand:     "9S KS AD",
			trick:    "KH",
			expected: "9S KS",
		},
		{
			name:     "void must over-trump when able",
			trump:    deck.Spades,
			hand:     "9S AS AD",
			trick:    "KH QS",
			expected: "AS",
		},
		{
			name:     "void trumps low when cannot over-trump",
			trump:    deck.Spades,
			hand:     "9S AD",
			trick:    "KH AS",
			expected: "9S",
		},
		{
			name:     "void of suit and trump plays anything",
			trump:    deck.Spades,
			hand:     "AD 9C",
			trick:    "KH",
			expected: "AD 9C",
		},
		{
			name:     "no trump still raises led suit",
			trump:    deck.NoSuit,
			hand:     "9H AH",
			trick:    "KH",
			expected: "AH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewRaisingTrump(order)
			d.SetTrump(tt.trump)
			assert.Equal(t, cards(tt.expected), d.LegalFollows(cards(tt.hand), cards(tt.trick)))
		})
	}
}

func TestPointRestricted(t *testing.T) {
	newDecider := func() *PointRestricted {
		return NewPointRestricted(deck.Standard.Ordering(), deck.MustParseCard("2C"), isHeartsPoint)
	}

	t.Run("opener must lead first trick", func(t *testing.T) {
		d := newDecider()
		assert.Equal(t, cards("2C"), d.OpeningCardsForFirstTrick(cards("AH 2C 5D")))
	})

	t.Run("points cannot be led before broken", func(t *testing.T) {
		d := newDecider()
		assert.Equal(t, cards("5D"), d.OpeningCardsForTrick(cards("AH QS 5D")))
	})

	t.Run("hand of only points may lead points", func(t *testing.T) {
		d := newDecider()
		assert.Equal(t, cards("AH QS"), d.OpeningCardsForTrick(cards("AH QS")))
	})

	t.Run("anything once broken", func(t *testing.T) {
		d := newDecider()
		d.BreakPoints()
		assert.True(t, d.PointsBroken())
		assert.Equal(t, cards("AH QS 5D"), d.OpeningCardsForTrick(cards("AH QS 5D")))

		d.Reset()
		assert.False(t, d.PointsBroken())
	})

	t.Run("no point dumping on the first trick", func(t *testing.T) {
		d := newDecider()
		assert.Equal(t, cards("5D"), d.FirstTrickLegalFollows(cards("AH QS 5D"), cards("2C")))
		assert.Equal(t, cards("AH QS"), d.FirstTrickLegalFollows(cards("AH QS"), cards("2C")))
		assert.Equal(t, cards("AH QS"), d.LegalFollows(cards("AH QS"), cards("2C")))
	})
}

// Every decider returns a non-empty subset of the hand for any hand and trick.
func TestLegalityProperty(t *testing.T) {
	order := deck.Standard.Ordering()
	trump := NewTrump(order)
	trump.SetTrump(deck.Diamonds)
	raising := NewRaisingTrump(order)
	raising.SetTrump(deck.Spades)

	deciders := map[string]Decider{
		"plain":   NewPlain(order),
		"trump":   trump,
		"raising": raising,
		"points":  NewPointRestricted(order, deck.MustParseCard("2C"), isHeartsPoint),
	}

	rng := randutil.New(11)
	for name, d := range deciders {
		t.Run(name, func(t *testing.T) {
			for range 200 {
				dk := deck.New(deck.Standard, rng)
				dk.Shuffle()
				hand := dk.DealN(1 + rng.IntN(13))
				trick := dk.DealN(1 + rng.IntN(3))

				for _, legal := range [][]deck.Card{
					d.LegalFollows(hand, trick),
					d.FirstTrickLegalFollows(hand, trick),
					d.OpeningCardsForTrick(hand),
					d.OpeningCardsForFirstTrick(hand),
				} {
					require.NotEmpty(t, legal, "hand %v trick %v", hand, trick)
					assert.True(t, deck.ContainsAll(hand, legal))
				}

				w := d.TrickWinner(trick)
				assert.GreaterOrEqual(t, w, 0)
				assert.Less(t, w, len(trick))
			}
		})
	}
}
