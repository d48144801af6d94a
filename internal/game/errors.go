package game

import "errors"

// Rejections. Handlers wrap these with context; callers classify with errors.Is.
var (
	ErrWrongPhase       = errors.New("action not allowed in this phase")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrNameTaken        = errors.New("name already taken")
	ErrGameStarted      = errors.New("game already started")
	ErrGameOver         = errors.New("game is over")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrUnsupported      = errors.New("action not supported by this game")

	ErrUnknownPlayer    = errors.New("unknown player")
	ErrInvalidName      = errors.New("invalid name")
	ErrIllegalCard      = errors.New("illegal card")
	ErrInvalidBid       = errors.New("invalid bid")
	ErrInvalidDiscard   = errors.New("invalid discard")
	ErrInvalidTrump     = errors.New("invalid trump")
	ErrInvalidMeld      = errors.New("invalid meld")
	ErrInvalidPass      = errors.New("invalid pass")
	ErrAlreadySubmitted = errors.New("already submitted")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrWrongPhase, "wrong_phase"},
	{ErrNotYourTurn, "not_your_turn"},
	{ErrNameTaken, "name_taken"},
	{ErrGameStarted, "game_started"},
	{ErrGameOver, "game_over"},
	{ErrNotEnoughPlayers, "not_enough_players"},
	{ErrUnsupported, "unsupported"},
	{ErrUnknownPlayer, "unknown_player"},
	{ErrInvalidName, "invalid_name"},
	{ErrIllegalCard, "illegal_card"},
	{ErrInvalidBid, "invalid_bid"},
	{ErrInvalidDiscard, "invalid_discard"},
	{ErrInvalidTrump, "invalid_trump"},
	{ErrInvalidMeld, "invalid_meld"},
	{ErrInvalidPass, "invalid_pass"},
	{ErrAlreadySubmitted, "already_submitted"},
}

// ErrorCode returns the wire code for a game error, or "" if err is not one
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ""
}
