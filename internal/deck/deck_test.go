package deck

import (
	"testing"

	"github.com/lox/trickserver/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecCards(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		size int
	}{
		{"standard", Standard, 52},
		{"pinochle", Pinochle, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := tt.spec.Cards()
			assert.Len(t, cards, tt.size)
			assert.Equal(t, tt.size, tt.spec.Size())
			for _, c := range cards {
				assert.Equal(t, tt.spec.Copies, Count(cards, c), "card %s", c)
			}
		})
	}
}

func TestDeckDeal(t *testing.T) {
	d := New(Pinochle, randutil.New(42))
	d.Shuffle()

	hands := [][]Card{d.DealN(15), d.DealN(15), d.DealN(15)}
	kitty := d.Rest()

	require.Len(t, kitty, 3)

	var all []Card
	for _, h := range hands {
		assert.Len(t, h, 15)
		all = append(all, h...)
	}
	all = append(all, kitty...)
	assert.ElementsMatch(t, Pinochle.Cards(), all)

	assert.Empty(t, d.DealN(1), "an exhausted deck deals nothing")
	assert.Empty(t, d.Rest())
}

func TestDeckShuffleDeterministic(t *testing.T) {
	a := New(Standard, randutil.New(7))
	b := New(Standard, randutil.New(7))
	a.Shuffle()
	b.Shuffle()
	assert.Equal(t, a.Rest(), b.Rest())
}

func TestHandHelpers(t *testing.T) {
	hand := MustParseCards("QS QS JD 9H")

	t.Run("remove takes one copy", func(t *testing.T) {
		out, ok := Remove(hand, MustParseCard("QS"))
		require.True(t, ok)
		assert.Equal(t, MustParseCards("QS JD 9H"), out)
		assert.Len(t, hand, 4, "input is not mutated")
	})

	t.Run("remove missing card", func(t *testing.T) {
		_, ok := Remove(hand, MustParseCard("AH"))
		assert.False(t, ok)
	})

	t.Run("multiset containment", func(t *testing.T) {
		assert.True(t, ContainsAll(hand, MustParseCards("QS QS")))
		assert.False(t, ContainsAll(hand, MustParseCards("JD JD")))
	})

	t.Run("remove all", func(t *testing.T) {
		out, ok := RemoveAll(hand, MustParseCards("QS 9H"))
		require.True(t, ok)
		assert.Equal(t, MustParseCards("QS JD"), out)

		out, ok = RemoveAll(hand, MustParseCards("QS AH"))
		assert.False(t, ok)
		assert.Equal(t, hand, out)
	})

	t.Run("of suit", func(t *testing.T) {
		assert.Equal(t, MustParseCards("QS QS"), OfSuit(hand, Spades))
		assert.Empty(t, OfSuit(hand, Clubs))
	})
}
