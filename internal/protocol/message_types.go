package protocol

// MessageType represents a WebSocket message type with type safety
type MessageType string

// Client to server messages
const (
	MessageTypeGameType MessageType = "game_type"
	MessageTypeJoin     MessageType = "join"
	MessageTypeBid      MessageType = "bid"
	MessageTypeKitty    MessageType = "kitty"
	MessageTypeTrump    MessageType = "trump"
	MessageTypeMeld     MessageType = "meld"
	MessageTypePass     MessageType = "pass"
	MessageTypeTurn     MessageType = "turn"
	MessageTypeRestart  MessageType = "restart"
)

// Server to client messages
const (
	MessageTypeGameTypes        MessageType = "game_types"
	MessageTypeAvailableGames   MessageType = "available_games"
	MessageTypeJoinAccepted     MessageType = "join_accepted"
	MessageTypeJoinRejected     MessageType = "join_rejected"
	MessageTypeSeatJoined       MessageType = "seat_joined"
	MessageTypeHandDealt        MessageType = "hand_dealt"
	MessageTypeBidUpdate        MessageType = "bid_update"
	MessageTypeKittyOffered     MessageType = "kitty_offered"
	MessageTypeTrumpRequested   MessageType = "trump_requested"
	MessageTypeTrumpDeclared    MessageType = "trump_declared"
	MessageTypeMeldPriceSheet   MessageType = "meld_price_sheet"
	MessageTypeMeldOffer        MessageType = "meld_offer"
	MessageTypeMeldDeclared     MessageType = "meld_declared"
	MessageTypePassRequest      MessageType = "pass_request"
	MessageTypePassDelivered    MessageType = "pass_delivered"
	MessageTypeCardPlayed       MessageType = "card_played"
	MessageTypeTurnOffered      MessageType = "turn_offered"
	MessageTypeTrickResolved    MessageType = "trick_resolved"
	MessageTypeTrickTally       MessageType = "trick_tally"
	MessageTypeScoreUpdate      MessageType = "score_update"
	MessageTypeGameEnded        MessageType = "game_ended"
	MessageTypeSeatDisconnected MessageType = "seat_disconnected"
	MessageTypeRestartAccepted  MessageType = "restart_accepted"
	MessageTypeError            MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
