package protocol

import (
	"encoding/json"
	"testing"

	"github.com/lox/trickserver/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeWireFormat(t *testing.T) {
	env, err := NewEnvelope(TurnOffered{
		Recipient:  "alice",
		LegalCards: deck.MustParseCards("10H QS"),
		Leading:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeTurnOffered, env.Type)
	assert.JSONEq(t, `{"recipient":"alice","legalCards":["10H","QS"],"leading":true}`, string(env.Data))

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	var offer TurnOffered
	require.NoError(t, decoded.Decode(&offer))
	assert.Equal(t, deck.MustParseCards("10H QS"), offer.LegalCards)
}

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		target  any
		wantErr bool
	}{
		{name: "turn", raw: `{"type":"turn","data":{"card":"9C"}}`, target: &Turn{}},
		{name: "kitty", raw: `{"type":"kitty","data":{"cards":["AH","10S","KD"]}}`, target: &Kitty{}},
		{name: "bad card", raw: `{"type":"turn","data":{"card":"1Z"}}`, target: &Turn{}, wantErr: true},
		{name: "missing data", raw: `{"type":"bid"}`, target: &Bid{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &env))
			err := env.Decode(tt.target)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPackets(t *testing.T) {
	var p Packets
	p.Add(JoinAccepted{Name: "a"}, "p1")
	p.Add(SeatJoined{Name: "a", Order: 0}, "p1", "p2")
	p.Add(ErrorNotice{Code: "x"})

	require.Len(t, p, 2, "packets without recipients are dropped")
	assert.Len(t, p.For("p1"), 2)
	assert.Equal(t, []Message{SeatJoined{Name: "a", Order: 0}}, p.For("p2"))
	assert.Len(t, p.OfType(MessageTypeSeatJoined), 1)

	var more Packets
	more.Add(GameEnded{Winner: "a"}, "p2")
	p.Append(more)
	assert.Len(t, p, 3)
}
