package game

import (
	"slices"

	"github.com/lox/trickserver/internal/deck"
)

// Player is one seat in a session
type Player struct {
	ID    string
	Name  string
	Order int
	Hand  []deck.Card

	Score       int
	SecretScore int // round points not yet revealed
	MeldScore   int
	OldScore    int // score before the last round was applied
	MissedBy    int // how far the bidder fell short, 0 if made
	TricksTaken int
	UsedOptions []string // trump choices already used this game
}

// clone returns a deep copy safe to hand outside the session lock
func (p *Player) clone() Player {
	c := *p
	c.Hand = slices.Clone(p.Hand)
	c.UsedOptions = slices.Clone(p.UsedOptions)
	return c
}

// clearRound resets the per-round counters
func (p *Player) clearRound() {
	p.SecretScore = 0
	p.MeldScore = 0
	p.MissedBy = 0
	p.TricksTaken = 0
}

// hasUsed reports whether the trump option was already chosen this game
func (p *Player) hasUsed(option string) bool {
	return slices.Contains(p.UsedOptions, option)
}
