// Package protocol defines the messages exchanged with remote participants and
// the outbound packet batch every game handler returns.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/trickserver/internal/deck"
	"github.com/lox/trickserver/internal/meld"
)

// Message is implemented by every outbound payload
type Message interface {
	MessageType() MessageType
}

// Envelope represents the base WebSocket message structure
type Envelope struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEnvelope wraps an outbound message with the current timestamp
func NewEnvelope(msg Message) (*Envelope, error) {
	return Encode(msg.MessageType(), msg)
}

// Encode wraps any payload, inbound or outbound, as message type t
func Encode(t MessageType, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", t, err)
	}
	return &Envelope{
		Type:      t,
		Data:      data,
		Timestamp: time.Now(),
	}, nil
}

// Decode unmarshals the envelope payload into v
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%s: empty payload", e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("%s: %w", e.Type, err)
	}
	return nil
}

// Client → Server Messages

type GameType struct {
	Game string `json:"game"`
}

type Join struct {
	Name string `json:"name"`
	Game string `json:"game"`
}

// Bid carries a bid amount; 0 passes
type Bid struct {
	Amount int `json:"amount"`
}

// Kitty carries the cards discarded after taking the kitty or talon
type Kitty struct {
	Cards []deck.Card `json:"cards"`
}

// Trump carries a suit letter or a named non-suit option
type Trump struct {
	Choice string `json:"choice"`
}

// Meld echoes back the itemized meld the server offered
type Meld struct {
	Counts meld.Counts `json:"counts"`
}

type Pass struct {
	Cards []deck.Card `json:"cards"`
}

type Turn struct {
	Card deck.Card `json:"card"`
}

type Restart struct {
	NewGame bool `json:"newGame"`
}

// Server → Client Messages

type GameTypes struct {
	Types []string `json:"types"`
}

type AvailableGames struct {
	GameType string   `json:"gameType"`
	Games    []string `json:"games"`
}

type JoinAccepted struct {
	Name string `json:"name"`
}

type JoinRejected struct {
	Reason string `json:"reason"`
}

type SeatJoined struct {
	Name  string `json:"name"`
	Game  string `json:"game"`
	Order int    `json:"order"`
}

type HandDealt struct {
	Cards []deck.Card `json:"cards"`
}

// BidRequest is the Amount of a BidUpdate asking Bidder to bid
const BidRequest = -1

// BidUpdate announces a bid, a request to bid, or the winning bid
type BidUpdate struct {
	Bidder     string `json:"bidder"`
	Amount     int    `json:"amount"`
	CurrentBid int    `json:"currentBid"`
	Won        bool   `json:"won,omitempty"`
}

// KittyOffered carries the kitty cards only in the copy sent to Recipient
type KittyOffered struct {
	Recipient    string      `json:"recipient"`
	Cards        []deck.Card `json:"cards,omitempty"`
	Count        int         `json:"count"`
	DiscardCount int         `json:"discardCount"`
}

type TrumpRequested struct {
	Recipient string   `json:"recipient"`
	Options   []string `json:"options"`
}

type TrumpDeclared struct {
	Chooser string `json:"chooser"`
	Choice  string `json:"choice"`
}

type MeldPriceSheet struct {
	Points meld.PointTable `json:"points"`
}

type MeldOffer struct {
	Player string      `json:"player"`
	Trump  string      `json:"trump"`
	Counts meld.Counts `json:"counts"`
	Items  []meld.Item `json:"items"`
}

type MeldDeclared struct {
	Player string      `json:"player"`
	Counts meld.Counts `json:"counts"`
}

type PassRequest struct {
	Recipient string `json:"recipient"`
	Count     int    `json:"count"`
	Target    string `json:"target"`
}

type PassDelivered struct {
	Recipient string      `json:"recipient"`
	From      string      `json:"from"`
	Cards     []deck.Card `json:"cards"`
}

type CardPlayed struct {
	Player string    `json:"player"`
	Card   deck.Card `json:"card"`
}

// TurnOffered asks Recipient to play; LegalCards is only filled for Recipient
type TurnOffered struct {
	Recipient  string      `json:"recipient"`
	LegalCards []deck.Card `json:"legalCards,omitempty"`
	Leading    bool        `json:"leading"`
}

type TrickResolved struct {
	Winner string      `json:"winner"`
	Cards  []deck.Card `json:"cards"`
}

// TrickTally holds tricks still needed per seat; negative when over
type TrickTally struct {
	Remaining map[string]int `json:"remaining"`
}

type ScoreUpdate struct {
	Player   string `json:"player"`
	Score    int    `json:"score"`
	Delta    int    `json:"delta"`
	MissedBy int    `json:"missedBy,omitempty"`
}

type GameEnded struct {
	Winner string         `json:"winner"`
	Scores map[string]int `json:"scores"`
}

type SeatDisconnected struct {
	Player       string `json:"player"`
	DisablesGame bool   `json:"disablesGame"`
}

type RestartAccepted struct {
	NewGame bool `json:"newGame"`
}

type ErrorNotice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (GameTypes) MessageType() MessageType        { return MessageTypeGameTypes }
func (AvailableGames) MessageType() MessageType   { return MessageTypeAvailableGames }
func (JoinAccepted) MessageType() MessageType     { return MessageTypeJoinAccepted }
func (JoinRejected) MessageType() MessageType     { return MessageTypeJoinRejected }
func (SeatJoined) MessageType() MessageType       { return MessageTypeSeatJoined }
func (HandDealt) MessageType() MessageType        { return MessageTypeHandDealt }
func (BidUpdate) MessageType() MessageType        { return MessageTypeBidUpdate }
func (KittyOffered) MessageType() MessageType     { return MessageTypeKittyOffered }
func (TrumpRequested) MessageType() MessageType   { return MessageTypeTrumpRequested }
func (TrumpDeclared) MessageType() MessageType    { return MessageTypeTrumpDeclared }
func (MeldPriceSheet) MessageType() MessageType   { return MessageTypeMeldPriceSheet }
func (MeldOffer) MessageType() MessageType        { return MessageTypeMeldOffer }
func (MeldDeclared) MessageType() MessageType     { return MessageTypeMeldDeclared }
func (PassRequest) MessageType() MessageType      { return MessageTypePassRequest }
func (PassDelivered) MessageType() MessageType    { return MessageTypePassDelivered }
func (CardPlayed) MessageType() MessageType       { return MessageTypeCardPlayed }
func (TurnOffered) MessageType() MessageType      { return MessageTypeTurnOffered }
func (TrickResolved) MessageType() MessageType    { return MessageTypeTrickResolved }
func (TrickTally) MessageType() MessageType       { return MessageTypeTrickTally }
func (ScoreUpdate) MessageType() MessageType      { return MessageTypeScoreUpdate }
func (GameEnded) MessageType() MessageType        { return MessageTypeGameEnded }
func (SeatDisconnected) MessageType() MessageType { return MessageTypeSeatDisconnected }
func (RestartAccepted) MessageType() MessageType  { return MessageTypeRestartAccepted }
func (ErrorNotice) MessageType() MessageType      { return MessageTypeError }
