package game

// Phase is the session's position in the round lifecycle
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePassing  Phase = "passing"
	PhaseBidding  Phase = "bidding"
	PhaseKitty    Phase = "kitty"
	PhaseTrump    Phase = "trump"
	PhaseMeld     Phase = "meld"
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "game_over"
	PhaseDisabled Phase = "disabled"
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}
