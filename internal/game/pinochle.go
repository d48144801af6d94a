package game

import (
	"fmt"

	"github.com/lox/trickserver/internal/deck"
	"github.com/lox/trickserver/internal/meld"
	"github.com/lox/trickserver/internal/protocol"
	"github.com/lox/trickserver/internal/rules"
)

const (
	pinochlePlayers  = 3
	pinochleHandSize = 15
)

// isCounter reports whether a card is worth a point in tricks
func isCounter(c deck.Card) bool {
	return c.Rank == deck.Ten || c.Rank == deck.King || c.Rank == deck.Ace
}

// pinochle is the bid, kitty, trump and meld game
type pinochle struct {
	baseVariant
	decider *rules.RaisingTrump
	counter *meld.Counter

	kitty      []deck.Card
	passed     map[int]bool
	lastBidder int
	curBid     int
	offers     map[*Player]meld.Counts
	declared   map[*Player]bool
	sheetSent  bool
}

func newPinochle(r Rules) Variant {
	return &pinochle{
		baseVariant: baseVariant{name: Pinochle, rules: r},
		decider:     rules.NewRaisingTrump(deck.Pinochle.Ordering()),
		counter:     meld.NewCounter(deck.Pinochle, meld.DefaultPoints),
	}
}

func (v *pinochle) MinPlayers() int        { return pinochlePlayers }
func (v *pinochle) HandSize() int          { return pinochleHandSize }
func (v *pinochle) Deck() deck.Spec        { return deck.Pinochle }
func (v *pinochle) Decider() rules.Decider { return v.decider }

func (v *pinochle) DealExtra(_ *Manager, cards []deck.Card) {
	v.kitty = cards
}

// StartRound opens bidding left of the dealer; the dealer holds the
// opening bid
func (v *pinochle) StartRound(m *Manager) protocol.Packets {
	v.passed = make(map[int]bool, len(m.players))
	v.offers = make(map[*Player]meld.Counts, len(m.players))
	v.declared = make(map[*Player]bool, len(m.players))
	v.lastBidder = m.dealer
	v.curBid = v.rules.MinBid
	m.phase = PhaseBidding

	out := m.dealPackets()
	if !v.sheetSent {
		out.Add(protocol.MeldPriceSheet{Points: v.counter.Points()}, m.ids()...)
		v.sheetSent = true
	}
	out.Add(v.bidRequest(m), m.ids()...)
	return out
}

func (v *pinochle) bidRequest(m *Manager) protocol.BidUpdate {
	return protocol.BidUpdate{
		Bidder:     m.players[m.current].Name,
		Amount:     protocol.BidRequest,
		CurrentBid: v.curBid,
	}
}

func (v *pinochle) Bid(m *Manager, p *Player, msg protocol.Bid) (protocol.Packets, error) {
	if err := m.require(p, PhaseBidding, true); err != nil {
		return nil, err
	}
	if msg.Amount < 0 {
		return nil, fmt.Errorf("%w: %d is negative", ErrInvalidBid, msg.Amount)
	}
	if msg.Amount != 0 && msg.Amount <= v.curBid {
		return nil, fmt.Errorf("%w: %d does not beat %d", ErrInvalidBid, msg.Amount, v.curBid)
	}

	if msg.Amount == 0 {
		v.passed[m.current] = true
	} else {
		v.curBid = msg.Amount
		v.lastBidder = m.current
	}

	var out protocol.Packets
	out.Add(protocol.BidUpdate{Bidder: p.Name, Amount: msg.Amount, CurrentBid: v.curBid}, m.ids()...)

	m.current = m.next(m.current)
	for v.passed[m.current] && m.current != v.lastBidder {
		m.current = m.next(m.current)
	}

	if m.current != v.lastBidder {
		out.Add(v.bidRequest(m), m.ids()...)
		return out, nil
	}

	winner := m.players[v.lastBidder]
	m.logger.Info("Bidding won", "player", winner.Name, "bid", v.curBid)
	out.Add(protocol.BidUpdate{Bidder: winner.Name, Amount: v.curBid, CurrentBid: v.curBid, Won: true}, m.ids()...)
	out.Append(offerKitty(m, winner, v.kitty))
	return out, nil
}

// Kitty takes the bidder's discards; counters buried this way score for
// the bidder
func (v *pinochle) Kitty(m *Manager, p *Player, msg protocol.Kitty) (protocol.Packets, error) {
	if err := m.require(p, PhaseKitty, true); err != nil {
		return nil, err
	}
	if err := discard(p, msg.Cards, len(v.kitty)); err != nil {
		return nil, err
	}
	for _, c := range msg.Cards {
		if isCounter(c) {
			p.SecretScore++
		}
	}

	m.phase = PhaseTrump
	options := make([]string, len(deck.StandardSuits))
	for i, s := range deck.StandardSuits {
		options[i] = s.String()
	}

	var out protocol.Packets
	out.Add(protocol.TrumpRequested{Recipient: p.Name, Options: options}, m.ids()...)
	return out, nil
}

// Trump declares trump and privately offers every seat its counted meld
func (v *pinochle) Trump(m *Manager, p *Player, msg protocol.Trump) (protocol.Packets, error) {
	if err := m.require(p, PhaseTrump, true); err != nil {
		return nil, err
	}
	suit, err := deck.ParseSuit(msg.Choice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTrump, err)
	}

	v.decider.SetTrump(suit)
	m.phase = PhaseMeld
	m.logger.Info("Trump declared", "player", p.Name, "trump", suit)

	var out protocol.Packets
	out.Add(protocol.TrumpDeclared{Chooser: p.Name, Choice: suit.String()}, m.ids()...)
	for _, seat := range m.players {
		counts := v.counter.Count(seat.Hand, suit)
		v.offers[seat] = counts
		seat.MeldScore = counts.Total
		out.Add(protocol.MeldOffer{
			Player: seat.Name,
			Trump:  suit.String(),
			Counts: counts,
			Items:  v.counter.Itemize(counts, suit),
		}, seat.ID)
	}
	return out, nil
}

// Meld accepts each seat's declaration once; play starts when all are in
func (v *pinochle) Meld(m *Manager, p *Player, msg protocol.Meld) (protocol.Packets, error) {
	if err := m.require(p, PhaseMeld, false); err != nil {
		return nil, err
	}
	if v.declared[p] {
		return nil, fmt.Errorf("%w: meld already declared", ErrAlreadySubmitted)
	}
	if offer := v.offers[p]; msg.Counts != offer {
		return nil, fmt.Errorf("%w: declared %+v, hand holds %+v", ErrInvalidMeld, msg.Counts, offer)
	}

	v.declared[p] = true

	var out protocol.Packets
	out.Add(protocol.MeldDeclared{Player: p.Name, Counts: msg.Counts}, m.ids()...)
	if len(v.declared) == len(m.players) {
		out.Append(m.startTrick(v.lastBidder))
	}
	return out, nil
}

func (v *pinochle) ScoreTrick(_ *Manager, trick []deck.Card, winner *Player) protocol.Packets {
	for _, c := range trick {
		if isCounter(c) {
			winner.SecretScore++
		}
	}
	return nil
}

func (v *pinochle) LastTrick(_ *Manager, winner *Player) {
	winner.SecretScore += v.rules.LastTrickBonus
}

// UpdateScores sets the bidder back by the full bid when short, and voids
// the meld of any seat that took no tricks
func (v *pinochle) UpdateScores(m *Manager) {
	bidder := m.players[v.lastBidder]
	if made := bidder.SecretScore + bidder.MeldScore; made < v.curBid {
		bidder.MissedBy = v.curBid - made
		bidder.Score -= v.curBid
		bidder.SecretScore = 0
		bidder.MeldScore = 0
		m.logger.Info("Bidder went set", "player", bidder.Name, "bid", v.curBid, "made", made)
	}

	for _, p := range m.players {
		if p.TricksTaken == 0 {
			p.MeldScore = 0
		}
		p.Score += p.SecretScore + p.MeldScore
	}
}

func (v *pinochle) Reset(*Manager) {
	v.kitty = nil
	v.passed = nil
	v.offers = nil
	v.declared = nil
	v.decider.Reset()
}
