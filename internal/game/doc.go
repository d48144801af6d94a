// Package game implements the session state machine for trick-taking card
// games: Hearts, Pinochle and Mizerka.
//
// The main type is Manager, which owns one named session: its seats, the
// deal, the bidding/kitty/trump/meld/pass phases a variant needs, trick play
// and scoring. Every handler returns the protocol.Packets the caller must
// deliver; a Manager never writes to a connection itself.
//
// # Basic Usage
//
//	v, _ := game.NewVariant(game.Hearts, game.DefaultRules())
//	m := game.NewManager("table", v)
//	out, err := m.Join("conn-1", "alice")
//
// The round starts as soon as the variant's seat count is reached.
//
// # Deterministic Testing
//
// Inject a seeded generator to replay identical deals:
//
//	m := game.NewManager("table", v, game.WithRNG(randutil.New(42)))
package game
