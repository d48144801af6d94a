package server

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/trickserver/internal/game"
	"github.com/lox/trickserver/internal/protocol"
	"github.com/lox/trickserver/internal/randutil"
)

// Registry rejections
var (
	ErrUnknownGameType = errors.New("unknown game type")
	ErrNoGameType      = errors.New("no game type chosen")
	ErrNotInGame       = errors.New("not in a game")
	ErrAlreadyInGame   = errors.New("already in a game")
	ErrUnknownMessage  = errors.New("unknown message type")
	ErrInvalidMessage  = errors.New("invalid message")
)

var registryCodes = []struct {
	err  error
	code string
}{
	{ErrUnknownGameType, "unknown_game_type"},
	{ErrNoGameType, "no_game_type"},
	{ErrNotInGame, "not_in_game"},
	{ErrAlreadyInGame, "already_in_game"},
	{ErrUnknownMessage, "unknown_message_type"},
	{ErrInvalidMessage, "invalid_message"},
}

// errorCode maps any handler error to its wire code
func errorCode(err error) string {
	if code := game.ErrorCode(err); code != "" {
		return code
	}
	for _, rc := range registryCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return "internal_error"
}

// Sender delivers one outbound message to one participant
type Sender interface {
	Send(id string, msg protocol.Message)
}

// SenderFunc adapts a plain function to Sender
type SenderFunc func(id string, msg protocol.Message)

// Send calls f(id, msg)
func (f SenderFunc) Send(id string, msg protocol.Message) {
	f(id, msg)
}

// participant is a connected client's position in the registry
type participant struct {
	gameType string
	game     string
}

// GameService is the registry of running sessions, keyed by game type and
// game name, and the dispatch layer between a transport and the sessions.
// Its lock is always taken before a session's, never while holding one.
type GameService struct {
	mu           sync.Mutex
	rules        map[string]game.Rules
	types        []string
	games        map[string]map[string]*game.Manager
	participants map[string]*participant
	seeds        *randutil.Source
	sender       Sender
	logger       *log.Logger
}

// ServiceOption configures a GameService
type ServiceOption func(*GameService)

// WithSeed makes every session shuffle from a generator derived from seed
func WithSeed(seed int64) ServiceOption {
	return func(s *GameService) {
		s.seeds = randutil.NewSource(seed)
	}
}

// WithServiceLogger sets the service logger
func WithServiceLogger(logger *log.Logger) ServiceOption {
	return func(s *GameService) {
		s.logger = logger
	}
}

// NewGameService creates a registry offering the given variants. Outbound
// packets are handed to sender one recipient at a time.
func NewGameService(rules map[string]game.Rules, sender Sender, opts ...ServiceOption) *GameService {
	s := &GameService{
		rules:        rules,
		games:        make(map[string]map[string]*game.Manager),
		participants: make(map[string]*participant),
		sender:       sender,
	}
	for name := range rules {
		s.types = append(s.types, name)
		s.games[name] = make(map[string]*game.Manager)
	}
	slices.Sort(s.types)

	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.logger = s.logger.WithPrefix("game-service")
	return s
}

// GameTypes lists the offered variants
func (s *GameService) GameTypes() []string {
	return slices.Clone(s.types)
}

// Games returns a summary of every session of gameType, sorted by name
func (s *GameService) Games(gameType string) ([]game.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	canonical, err := s.canonicalType(gameType)
	if err != nil {
		return nil, err
	}
	infos := make([]game.Info, 0, len(s.games[canonical]))
	for _, m := range s.games[canonical] {
		infos = append(infos, m.Info())
	}
	slices.SortFunc(infos, func(a, b game.Info) int { return strings.Compare(a.Name, b.Name) })
	return infos, nil
}

// Connect registers a new participant and offers it the game types
func (s *GameService) Connect(id string) protocol.Packets {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.participants[id] = &participant{}
	s.logger.Info("Participant connected", "participant", id, "total", len(s.participants))

	var out protocol.Packets
	out.Add(protocol.GameTypes{Types: slices.Clone(s.types)}, id)
	return out
}

// ChooseGameType records which variant a participant wants to play and
// replies with the sessions it can join
func (s *GameService) ChooseGameType(id string, msg protocol.GameType) (protocol.Packets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.participant(id)
	if err != nil {
		return nil, err
	}
	if p.game != "" {
		return nil, fmt.Errorf("%w: seated in %q", ErrAlreadyInGame, p.game)
	}
	canonical, err := s.canonicalType(msg.Game)
	if err != nil {
		return nil, err
	}
	p.gameType = canonical

	var out protocol.Packets
	out.Add(protocol.AvailableGames{GameType: canonical, Games: s.available(canonical)}, id)
	return out, nil
}

// Join seats a participant in the named session of its chosen type,
// creating the session if it does not exist yet
func (s *GameService) Join(id string, msg protocol.Join) (protocol.Packets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.participant(id)
	if err != nil {
		return nil, err
	}
	if p.gameType == "" {
		return nil, ErrNoGameType
	}
	if p.game != "" {
		return nil, fmt.Errorf("%w: seated in %q", ErrAlreadyInGame, p.game)
	}
	name := strings.TrimSpace(msg.Game)
	if name == "" {
		return nil, fmt.Errorf("%w: game name is empty", game.ErrInvalidName)
	}

	m, created := s.games[p.gameType][name], false
	if m == nil {
		if m, err = s.newSession(p.gameType, name); err != nil {
			return nil, err
		}
		created = true
	}

	out, err := m.Join(id, msg.Name)
	if err != nil {
		return nil, err
	}
	if created {
		s.games[p.gameType][name] = m
		s.logger.Info("Game created", "game", name, "type", p.gameType)
	}
	p.game = name

	if created || !m.Joinable() {
		out.Append(s.lobbyPackets(p.gameType))
	}
	return out, nil
}

// Restart forwards a restart to the participant's session. A new-game
// restart also releases the participant so it can join elsewhere.
func (s *GameService) Restart(id string, msg protocol.Restart) (protocol.Packets, error) {
	m, err := s.session(id)
	if err != nil {
		return nil, err
	}
	out, err := m.Restart(id, msg)
	if err != nil || !msg.NewGame {
		return out, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.participants[id]; ok {
		out.Append(s.leave(p))
	}
	return out, nil
}

// Disconnect removes a participant and its seat. An emptied session is
// removed from the registry.
func (s *GameService) Disconnect(id string) protocol.Packets {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[id]
	if !ok {
		return nil
	}
	delete(s.participants, id)
	s.logger.Info("Participant disconnected", "participant", id, "game", p.game, "total", len(s.participants))

	if p.game == "" {
		return nil
	}
	m := s.games[p.gameType][p.game]
	if m == nil {
		return nil
	}
	out, err := m.Disconnect(id)
	if err != nil {
		s.logger.Warn("Disconnect from game failed", "participant", id, "game", p.game, "error", err)
	}
	out.Append(s.leave(p))
	return out
}

// leave unmaps p from its session and collects the session if it is empty.
// Callers hold s.mu.
func (s *GameService) leave(p *participant) protocol.Packets {
	name := p.game
	p.game = ""

	m := s.games[p.gameType][name]
	if m == nil || !m.Empty() {
		return nil
	}
	delete(s.games[p.gameType], name)
	s.logger.Info("Game removed", "game", name, "type", p.gameType)
	return s.lobbyPackets(p.gameType)
}

// Handle decodes an inbound envelope and routes it to the registry or to
// the sender's session
func (s *GameService) Handle(id string, env *protocol.Envelope) (protocol.Packets, error) {
	switch env.Type {
	case protocol.MessageTypeGameType:
		return handle(env, func(msg protocol.GameType) (protocol.Packets, error) {
			return s.ChooseGameType(id, msg)
		})
	case protocol.MessageTypeJoin:
		return handle(env, func(msg protocol.Join) (protocol.Packets, error) {
			return s.Join(id, msg)
		})
	case protocol.MessageTypeRestart:
		return handle(env, func(msg protocol.Restart) (protocol.Packets, error) {
			return s.Restart(id, msg)
		})
	case protocol.MessageTypeBid:
		return s.play(id, func(m *game.Manager) (protocol.Packets, error) {
			return handle(env, func(msg protocol.Bid) (protocol.Packets, error) { return m.Bid(id, msg) })
		})
	case protocol.MessageTypeKitty:
		return s.play(id, func(m *game.Manager) (protocol.Packets, error) {
			return handle(env, func(msg protocol.Kitty) (protocol.Packets, error) { return m.Kitty(id, msg) })
		})
	case protocol.MessageTypeTrump:
		return s.play(id, func(m *game.Manager) (protocol.Packets, error) {
			return handle(env, func(msg protocol.Trump) (protocol.Packets, error) { return m.Trump(id, msg) })
		})
	case protocol.MessageTypeMeld:
		return s.play(id, func(m *game.Manager) (protocol.Packets, error) {
			return handle(env, func(msg protocol.Meld) (protocol.Packets, error) { return m.Meld(id, msg) })
		})
	case protocol.MessageTypePass:
		return s.play(id, func(m *game.Manager) (protocol.Packets, error) {
			return handle(env, func(msg protocol.Pass) (protocol.Packets, error) { return m.Pass(id, msg) })
		})
	case protocol.MessageTypeTurn:
		return s.play(id, func(m *game.Manager) (protocol.Packets, error) {
			return handle(env, func(msg protocol.Turn) (protocol.Packets, error) { return m.Turn(id, msg) })
		})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
}

// Dispatch handles an envelope and delivers the result. Rejections reach
// only the sender: a failed join as JoinRejected, anything else as an
// error notice.
func (s *GameService) Dispatch(id string, env *protocol.Envelope) {
	s.logger.Debug("Received message", "participant", id, "type", env.Type)

	out, err := s.Handle(id, env)
	if err != nil {
		s.logger.Debug("Request rejected", "participant", id, "type", env.Type, "error", err)
		out = nil
		if env.Type == protocol.MessageTypeJoin {
			out.Add(protocol.JoinRejected{Reason: err.Error()}, id)
		} else {
			out.Add(protocol.ErrorNotice{Code: errorCode(err), Message: err.Error()}, id)
		}
	}
	s.Deliver(out)
}

// Deliver hands every packet to the sender, one recipient at a time, in order
func (s *GameService) Deliver(out protocol.Packets) {
	for _, pkt := range out {
		for _, id := range pkt.To {
			s.sender.Send(id, pkt.Message)
		}
	}
}

func handle[T any](env *protocol.Envelope, fn func(T) (protocol.Packets, error)) (protocol.Packets, error) {
	var msg T
	if err := env.Decode(&msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return fn(msg)
}

// play resolves the sender's session under the registry lock, then runs fn
// with the registry unlocked
func (s *GameService) play(id string, fn func(m *game.Manager) (protocol.Packets, error)) (protocol.Packets, error) {
	m, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return fn(m)
}

func (s *GameService) session(id string) (*game.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.participant(id)
	if err != nil {
		return nil, err
	}
	m := s.games[p.gameType][p.game]
	if p.game == "" || m == nil {
		return nil, ErrNotInGame
	}
	return m, nil
}

func (s *GameService) participant(id string) (*participant, error) {
	p, ok := s.participants[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", game.ErrUnknownPlayer, id)
	}
	return p, nil
}

func (s *GameService) canonicalType(name string) (string, error) {
	canonical, ok := game.CanonicalVariant(name)
	if !ok || !slices.Contains(s.types, canonical) {
		return "", fmt.Errorf("%w: %q, expected one of %v", ErrUnknownGameType, name, s.types)
	}
	return canonical, nil
}

func (s *GameService) newSession(gameType, name string) (*game.Manager, error) {
	v, err := game.NewVariant(gameType, s.rules[gameType])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownGameType, err)
	}
	opts := []game.Option{game.WithLogger(s.logger)}
	if s.seeds != nil {
		opts = append(opts, game.WithRNG(s.seeds.Next()))
	}
	return game.NewManager(name, v, opts...), nil
}

// available lists the joinable sessions of gameType. Callers hold s.mu.
func (s *GameService) available(gameType string) []string {
	names := []string{}
	for name, m := range s.games[gameType] {
		if m.Joinable() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// lobbyPackets pushes the current joinable list to every unseated
// participant that chose gameType. Callers hold s.mu.
func (s *GameService) lobbyPackets(gameType string) protocol.Packets {
	var ids []string
	for id, p := range s.participants {
		if p.gameType == gameType && p.game == "" {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	var out protocol.Packets
	out.Add(protocol.AvailableGames{GameType: gameType, Games: s.available(gameType)}, ids...)
	return out
}
