package simulator

import (
	rand "math/rand/v2"

	"github.com/lox/trickserver/internal/deck"
	"github.com/lox/trickserver/internal/protocol"
)

// bidCeiling is the highest amount a bot will bid
const bidCeiling = 35

// bot plays uniformly random legal moves. It reacts only to messages
// addressed to it and keeps just enough state to know its own hand.
type bot struct {
	id      string
	name    string
	variant string
	game    string
	rng     *rand.Rand

	hand   []deck.Card
	joined bool
	rounds int
	ended  *protocol.GameEnded
}

// react returns the bot's answer to msg, or nil when it has nothing to say
func (b *bot) react(msg protocol.Message) (*protocol.Envelope, error) {
	switch m := msg.(type) {
	case protocol.GameTypes:
		return protocol.Encode(protocol.MessageTypeGameType, protocol.GameType{Game: b.variant})

	case protocol.AvailableGames:
		if b.joined {
			return nil, nil
		}
		b.joined = true
		return protocol.Encode(protocol.MessageTypeJoin, protocol.Join{Name: b.name, Game: b.game})

	case protocol.HandDealt:
		b.hand = append([]deck.Card(nil), m.Cards...)

	case protocol.BidUpdate:
		if m.Bidder != b.name || m.Amount != protocol.BidRequest {
			return nil, nil
		}
		amount := 0
		if m.CurrentBid < bidCeiling && b.rng.IntN(3) == 0 {
			amount = m.CurrentBid + 1 + b.rng.IntN(3)
		}
		return protocol.Encode(protocol.MessageTypeBid, protocol.Bid{Amount: amount})

	case protocol.KittyOffered:
		if m.Recipient != b.name {
			return nil, nil
		}
		b.hand = append(b.hand, m.Cards...)
		discard := b.take(m.DiscardCount)
		return protocol.Encode(protocol.MessageTypeKitty, protocol.Kitty{Cards: discard})

	case protocol.TrumpRequested:
		if m.Recipient != b.name || len(m.Options) == 0 {
			return nil, nil
		}
		choice := m.Options[b.rng.IntN(len(m.Options))]
		return protocol.Encode(protocol.MessageTypeTrump, protocol.Trump{Choice: choice})

	case protocol.MeldOffer:
		if m.Player != b.name {
			return nil, nil
		}
		return protocol.Encode(protocol.MessageTypeMeld, protocol.Meld{Counts: m.Counts})

	case protocol.PassRequest:
		if m.Recipient != b.name {
			return nil, nil
		}
		pass := b.take(m.Count)
		return protocol.Encode(protocol.MessageTypePass, protocol.Pass{Cards: pass})

	case protocol.PassDelivered:
		if m.Recipient != b.name {
			return nil, nil
		}
		b.hand = append(b.hand, m.Cards...)

	case protocol.TurnOffered:
		if m.Recipient != b.name || len(m.LegalCards) == 0 {
			return nil, nil
		}
		card := m.LegalCards[b.rng.IntN(len(m.LegalCards))]
		b.hand, _ = deck.Remove(b.hand, card)
		return protocol.Encode(protocol.MessageTypeTurn, protocol.Turn{Card: card})

	case protocol.ScoreUpdate:
		if m.Player == b.name {
			b.rounds++
		}

	case protocol.GameEnded:
		b.ended = &m
	}
	return nil, nil
}

// take removes n random cards from the hand
func (b *bot) take(n int) []deck.Card {
	b.rng.Shuffle(len(b.hand), func(i, j int) {
		b.hand[i], b.hand[j] = b.hand[j], b.hand[i]
	})
	n = min(n, len(b.hand))
	out := append([]deck.Card(nil), b.hand[:n]...)
	b.hand = b.hand[n:]
	return out
}
