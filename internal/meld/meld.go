// Package meld counts and prices pinochle meld combinations in a hand.
package meld

import (
	"github.com/lox/trickserver/internal/deck"
)

// PointTable prices each meld component
type PointTable struct {
	AcesAround       int `json:"acesAround"`
	KingsAround      int `json:"kingsAround"`
	QueensAround     int `json:"queensAround"`
	JacksAround      int `json:"jacksAround"`
	AroundMultiplier int `json:"aroundMultiplier"`
	Marriage         int `json:"marriage"`
	TrumpMarriage    int `json:"trumpMarriage"`
	Pinochle         int `json:"pinochle"`
	DoublePinochle   int `json:"doublePinochle"`
	TrumpNine        int `json:"trumpNine"`
	Run              int `json:"run"`
}

// DefaultPoints is the standard single-deck-doubled price sheet
var DefaultPoints = PointTable{
	AcesAround:       10,
	KingsAround:      8,
	QueensAround:     6,
	JacksAround:      4,
	AroundMultiplier: 10,
	Marriage:         2,
	TrumpMarriage:    4,
	Pinochle:         4,
	DoublePinochle:   30,
	TrumpNine:        1,
	Run:              15,
}

// Counts is the itemized meld in a hand. Around, run and pinochle fields hold
// 0, 1 or 2 (a doubled set); nines and marriages are plain counts.
type Counts struct {
	AcesAround       int `json:"acesAround"`
	KingsAround      int `json:"kingsAround"`
	QueensAround     int `json:"queensAround"`
	JacksAround      int `json:"jacksAround"`
	ClubsMarriage    int `json:"clubsMarriage"`
	DiamondsMarriage int `json:"diamondsMarriage"`
	SpadesMarriage   int `json:"spadesMarriage"`
	HeartsMarriage   int `json:"heartsMarriage"`
	Pinochle         int `json:"pinochle"`
	TrumpNine        int `json:"trumpNine"`
	Run              int `json:"run"`
	Total            int `json:"total"`
}

// Marriage returns the marriage count for suit
func (c Counts) Marriage(suit deck.Suit) int {
	switch suit {
	case deck.Clubs:
		return c.ClubsMarriage
	case deck.Diamonds:
		return c.DiamondsMarriage
	case deck.Spades:
		return c.SpadesMarriage
	case deck.Hearts:
		return c.HeartsMarriage
	}
	return 0
}

func (c *Counts) setMarriage(suit deck.Suit, n int) {
	switch suit {
	case deck.Clubs:
		c.ClubsMarriage = n
	case deck.Diamonds:
		c.DiamondsMarriage = n
	case deck.Spades:
		c.SpadesMarriage = n
	case deck.Hearts:
		c.HeartsMarriage = n
	}
}

// Item is one priced meld component
type Item struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Points int    `json:"points"`
}

// Counter computes meld for a deck spec under a point table
type Counter struct {
	spec   deck.Spec
	points PointTable
}

// NewCounter creates a meld counter
func NewCounter(spec deck.Spec, points PointTable) *Counter {
	return &Counter{spec: spec, points: points}
}

// Points returns the price sheet
func (m *Counter) Points() PointTable {
	return m.points
}

// Count returns the itemized meld of hand with trump declared
func (m *Counter) Count(hand []deck.Card, trump deck.Suit) Counts {
	var c Counts
	c.AcesAround = m.around(hand, deck.Ace)
	c.KingsAround = m.around(hand, deck.King)
	c.QueensAround = m.around(hand, deck.Queen)
	c.JacksAround = m.around(hand, deck.Jack)
	c.Run = m.run(hand, trump)
	c.Pinochle = pairs(
		deck.Count(hand, deck.NewCard(deck.Diamonds, deck.Jack)),
		deck.Count(hand, deck.NewCard(deck.Spades, deck.Queen)),
	)
	c.TrumpNine = deck.Count(hand, deck.NewCard(trump, deck.Nine))
	for _, suit := range m.spec.Suits {
		n := pairs(
			deck.Count(hand, deck.NewCard(suit, deck.King)),
			deck.Count(hand, deck.NewCard(suit, deck.Queen)),
		)
		// marriages inside a counted run are already paid for
		if suit == trump {
			n -= c.Run
		}
		c.setMarriage(suit, n)
	}
	c.Total = m.total(c, trump)
	return c
}

// Itemize prices every non-zero component of c
func (m *Counter) Itemize(c Counts, trump deck.Suit) []Item {
	p := m.points
	var items []Item
	add := func(name string, count, points int) {
		if count > 0 {
			items = append(items, Item{Name: name, Count: count, Points: points})
		}
	}
	add("Aces Around", c.AcesAround, m.aroundPoints(c.AcesAround, p.AcesAround))
	add("Kings Around", c.KingsAround, m.aroundPoints(c.KingsAround, p.KingsAround))
	add("Queens Around", c.QueensAround, m.aroundPoints(c.QueensAround, p.QueensAround))
	add("Jacks Around", c.JacksAround, m.aroundPoints(c.JacksAround, p.JacksAround))
	add("Run", c.Run, m.aroundPoints(c.Run, p.Run))
	switch c.Pinochle {
	case 1:
		add("Pinochle", 1, p.Pinochle)
	case 2:
		add("Double Pinochle", 2, p.DoublePinochle)
	}
	add("Nine of Trump", c.TrumpNine, c.TrumpNine*p.TrumpNine)
	for _, suit := range m.spec.Suits {
		n := c.Marriage(suit)
		price := p.Marriage
		name := "Marriage in " + suit.String()
		if suit == trump {
			price = p.TrumpMarriage
			name = "Trump Marriage"
		}
		add(name, n, n*price)
	}
	return items
}

func (m *Counter) total(c Counts, trump deck.Suit) int {
	sum := 0
	for _, item := range m.Itemize(c, trump) {
		sum += item.Points
	}
	return sum
}

// around returns 2 for two complete sets of rank r, 1 for one, 0 otherwise
func (m *Counter) around(hand []deck.Card, r deck.Rank) int {
	ofRank := deck.Filter(hand, func(c deck.Card) bool { return c.Rank == r })
	if len(ofRank) == len(m.spec.Suits)*2 {
		return 2
	}
	seen := make(map[deck.Suit]bool, len(m.spec.Suits))
	for _, c := range ofRank {
		seen[c.Suit] = true
	}
	if len(seen) == len(m.spec.Suits) {
		return 1
	}
	return 0
}

// run counts trump sequences covering every rank above nine
func (m *Counter) run(hand []deck.Card, trump deck.Suit) int {
	if !trump.Valid() {
		return 0
	}
	runRanks := len(m.spec.Ranks) - 1
	cards := deck.Filter(hand, func(c deck.Card) bool { return c.Suit == trump && c.Rank != deck.Nine })
	if len(cards) == runRanks*2 {
		return 2
	}
	seen := make(map[deck.Rank]bool, runRanks)
	for _, c := range cards {
		seen[c.Rank] = true
	}
	if len(seen) == runRanks {
		return 1
	}
	return 0
}

func (m *Counter) aroundPoints(count, base int) int {
	switch count {
	case 2:
		return base * m.points.AroundMultiplier
	case 1:
		return base
	}
	return 0
}

func pairs(a, b int) int {
	switch {
	case a == 2 && b == 2:
		return 2
	case a >= 1 && b >= 1:
		return 1
	}
	return 0
}
