package game

import (
	"fmt"
	"testing"

	"github.com/lox/trickserver/internal/deck"
	"github.com/lox/trickserver/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartsPassing(t *testing.T) {
	m := newTestManager(t, Hearts)
	out := seatPlayers(t, m, 4)
	require.Equal(t, PhasePassing, m.Phase())

	// first round passes left
	for i := range 4 {
		id := fmt.Sprintf("p%d", i)
		req := messagesOf[protocol.PassRequest](out, id)
		require.Len(t, req, 1)
		assert.Equal(t, 3, req[0].Count)
		assert.Equal(t, m.players[(i+1)%4].Name, req[0].Target)
	}

	passed := make(map[string][]deck.Card)
	var last protocol.Packets
	for i, p := range m.players {
		cards := append([]deck.Card(nil), p.Hand[:3]...)
		passed[p.Name] = cards

		res, err := m.Pass(p.ID, protocol.Pass{Cards: cards})
		require.NoError(t, err)
		if i < 3 {
			assert.Empty(t, res, "passes are held until everyone has passed")
			_, err = m.Pass(p.ID, protocol.Pass{Cards: cards})
			assert.ErrorIs(t, err, ErrAlreadySubmitted)
		}
		last = res
	}

	for i, p := range m.players {
		from := m.players[(i+3)%4]
		delivered := messagesOf[protocol.PassDelivered](last, p.ID)
		require.Len(t, delivered, 1)
		assert.Equal(t, from.Name, delivered[0].From)
		assert.Equal(t, passed[from.Name], delivered[0].Cards)
		assert.True(t, deck.ContainsAll(p.Hand, passed[from.Name]))
		assert.Len(t, p.Hand, 13)
	}

	assert.Equal(t, PhasePlaying, m.Phase())
	opener := m.players[m.current]
	assert.True(t, deck.Contains(opener.Hand, twoOfClubs))

	offered := messagesOf[protocol.TurnOffered](last, opener.ID)
	require.Len(t, offered, 1)
	assert.Equal(t, []deck.Card{twoOfClubs}, offered[0].LegalCards)
}

func TestHeartsPassValidation(t *testing.T) {
	m := newTestManager(t, Hearts)
	seatPlayers(t, m, 4)
	p := m.players[0]
	other := m.players[1]

	tests := []struct {
		name  string
		cards []deck.Card
	}{
		{"too few", p.Hand[:2]},
		{"too many", p.Hand[:4]},
		{"not held", other.Hand[:3]},
		{"same card twice", []deck.Card{p.Hand[0], p.Hand[0], p.Hand[1]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Pass(p.ID, protocol.Pass{Cards: tt.cards})
			assert.ErrorIs(t, err, ErrInvalidPass)
		})
	}

	_, err := m.Turn(p.ID, protocol.Turn{Card: p.Hand[0]})
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestHeartsPassDirections(t *testing.T) {
	m := newTestManager(t, Hearts)
	seatPlayers(t, m, 4)
	h := m.variant.(*hearts)

	for round, dir := range []int{1, -1, 2, 0, 1} {
		m.round = round + 1
		assert.Equal(t, dir, h.direction(m), "round %d", round+1)
	}

	// the hold round skips passing and opens play immediately
	m.round = 3
	m.dealer = 2
	out := m.finishRound()
	assert.Equal(t, 4, m.round)
	assert.Equal(t, PhasePlaying, m.Phase())
	for _, p := range m.players {
		assert.Empty(t, messagesOf[protocol.PassRequest](out, p.ID))
	}
}

// stackLastTrick gives each seat one card and hands the lead to seat leader
// for the final trick of a round
func stackLastTrick(m *Manager, leader int, hands ...string) {
	for i, h := range hands {
		m.players[i].Hand = deck.MustParseCards(h)
	}
	m.tricksPlayed = 12
	m.startTrick(leader)
}

func TestHeartsShootTheMoon(t *testing.T) {
	m := newTestManager(t, Hearts)
	seatPlayers(t, m, 4)
	m.variant.(*hearts).decider.BreakPoints()

	for _, p := range m.players {
		p.Score = 10
	}
	// alice already holds 10 points and takes the last 16
	m.players[0].SecretScore = 10
	stackLastTrick(m, 0, "AH", "2H", "3H", "QS")

	var out protocol.Packets
	for range 4 {
		p := m.players[m.current]
		var err error
		out, err = m.Turn(p.ID, protocol.Turn{Card: p.Hand[0]})
		require.NoError(t, err)
	}

	scores := messagesOf[protocol.ScoreUpdate](out, "p0")
	require.Len(t, scores, 4)
	assert.Equal(t, protocol.ScoreUpdate{Player: "alice", Score: 10, Delta: 0}, scores[0])
	for _, s := range scores[1:] {
		assert.Equal(t, 36, s.Score)
		assert.Equal(t, 26, s.Delta)
	}
	assert.Equal(t, 2, m.round, "next round dealt")
}

func TestHeartsScoring(t *testing.T) {
	m := newTestManager(t, Hearts)
	seatPlayers(t, m, 4)
	h := m.variant.(*hearts)

	winner := m.players[1]
	h.ScoreTrick(m, deck.MustParseCards("2C QS 5H 9C"), winner)
	assert.Equal(t, 14, winner.SecretScore)
	assert.True(t, h.decider.PointsBroken())

	m.players[2].SecretScore = 12
	h.UpdateScores(m)
	assert.Equal(t, []int{0, 14, 12, 0}, []int{m.players[0].Score, m.players[1].Score, m.players[2].Score, m.players[3].Score})
}

func TestHeartsPointsStayBrokenAcrossRounds(t *testing.T) {
	m := newTestManager(t, Hearts)
	seatPlayers(t, m, 4)
	h := m.variant.(*hearts)
	require.False(t, h.decider.PointsBroken())

	// alice leads a heart on the last trick of round one
	stackLastTrick(m, 0, "AH", "2C", "3C", "4C")
	for range 4 {
		p := m.players[m.current]
		_, err := m.Turn(p.ID, protocol.Turn{Card: p.Hand[0]})
		require.NoError(t, err)
	}
	require.Equal(t, 2, m.round)
	assert.True(t, h.decider.PointsBroken(), "a new round keeps points broken")

	// mid round two, alice may lead a heart while still holding a club
	m.players[0].Hand = deck.MustParseCards("5H 9C")
	m.tricksPlayed = 3
	out := m.startTrick(0)
	offered := messagesOf[protocol.TurnOffered](out, "p0")
	require.Len(t, offered, 1)
	assert.ElementsMatch(t, deck.MustParseCards("5H 9C"), offered[0].LegalCards)

	_, err := m.Turn("p0", protocol.Turn{Card: deck.MustParseCard("5H")})
	require.NoError(t, err)

	h.Reset(m)
	assert.False(t, h.decider.PointsBroken(), "restarting the game clears the latch")
}

func TestHeartsGameOver(t *testing.T) {
	m := newTestManager(t, Hearts)
	seatPlayers(t, m, 4)
	m.variant.(*hearts).decider.BreakPoints()

	m.players[0].Score = 97
	m.players[1].Score = 40
	m.players[2].Score = 20
	m.players[3].Score = 60
	stackLastTrick(m, 0, "AH", "2H", "3H", "4H")

	var out protocol.Packets
	for range 4 {
		p := m.players[m.current]
		var err error
		out, err = m.Turn(p.ID, protocol.Turn{Card: p.Hand[0]})
		require.NoError(t, err)
	}

	ended := messagesOf[protocol.GameEnded](out, "p3")
	require.Len(t, ended, 1)
	assert.Equal(t, "carol", ended[0].Winner, "lowest score wins")
	assert.Equal(t, 101, ended[0].Scores["alice"])
	assert.Equal(t, PhaseGameOver, m.Phase())
	assert.False(t, m.Joinable())
}
