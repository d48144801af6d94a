// Package deck provides cards, deck specs, orderings and hand helpers.
package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	NoSuit Suit = iota - 1
	Clubs
	Diamonds
	Spades
	Hearts
)

// StandardSuits lists the four suits in table order.
var StandardSuits = []Suit{Clubs, Diamonds, Spades, Hearts}

// String returns the wire letter for a suit
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Spades:
		return "S"
	case Hearts:
		return "H"
	default:
		return "?"
	}
}

// Symbol returns the unicode symbol for a suit
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	default:
		return "?"
	}
}

// Valid reports whether s is one of the four standard suits
func (s Suit) Valid() bool {
	return s >= Clubs && s <= Hearts
}

// ParseSuit parses a single suit letter (C, D, S or H)
func ParseSuit(s string) (Suit, error) {
	switch strings.ToUpper(s) {
	case "C":
		return Clubs, nil
	case "D":
		return Diamonds, nil
	case "S":
		return Spades, nil
	case "H":
		return Hearts, nil
	default:
		return NoSuit, fmt.Errorf("invalid suit: %q", s)
	}
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// StandardRanks lists the thirteen ranks from low to high.
var StandardRanks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// String returns the wire form of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// ParseRank parses a rank such as "2", "10", "T" or "Q"
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "2", "3", "4", "5", "6", "7", "8", "9":
		return Rank(s[0] - '0'), nil
	case "10", "T":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	default:
		return 0, fmt.Errorf("invalid rank: %q", s)
	}
}

// Card represents a playing card. Two cards are equal when suit and rank match;
// a doubled deck simply holds two equal values.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the wire form of a card (e.g. "10H", "QS")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Pretty returns the card with a suit symbol (e.g. "10♥")
func (c Card) Pretty() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// MarshalText implements encoding.TextMarshaler so cards travel as strings in JSON
func (c Card) MarshalText() ([]byte, error) {
	if !c.Suit.Valid() {
		return nil, fmt.Errorf("cannot marshal card with invalid suit %d", c.Suit)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a card in "<rank><suit>" form, case-insensitively
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 3 {
		return Card{}, fmt.Errorf("invalid card: %q", s)
	}
	suit, err := ParseSuit(s[len(s)-1:])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	rank, err := ParseRank(s[:len(s)-1])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards parses whitespace or comma separated cards (e.g. "AH 10H, QS")
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals in tests and tables
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// MustParseCard is ParseCard for literals
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}
