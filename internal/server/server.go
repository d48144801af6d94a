// Package server exposes game sessions over WebSocket and routes inbound
// messages to them through a GameService.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/trickserver/internal/protocol"
)

// Server represents the WebSocket server
type Server struct {
	cfg         *Config
	upgrader    websocket.Upgrader
	router      *gin.Engine
	httpServer  *http.Server
	service     *GameService
	idle        *idleWatch
	logger      *log.Logger
	mu          sync.RWMutex
	connections map[string]*Connection
}

// ServerOption configures a Server
type ServerOption func(*serverOptions)

type serverOptions struct {
	clock quartz.Clock
}

// WithClock sets the clock driving idle timeouts
func WithClock(clock quartz.Clock) ServerOption {
	return func(o *serverOptions) {
		o.clock = clock
	}
}

// NewServer creates a new WebSocket server from cfg
func NewServer(cfg *Config, logger *log.Logger, opts ...ServerOption) *Server {
	o := serverOptions{clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		connections: make(map[string]*Connection),
	}

	serviceOpts := []ServiceOption{WithServiceLogger(logger)}
	if cfg.Server.Seed != 0 {
		serviceOpts = append(serviceOpts, WithSeed(cfg.Server.Seed))
	}
	s.service = NewGameService(cfg.Rules(), s, serviceOpts...)
	s.idle = newIdleWatch(o.clock, cfg.IdleTimeout(), s.expire)
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/ws", s.handleWebSocket)
	r.GET("/health", s.handleHealth)
	r.GET("/games", s.handleGameTypes)
	r.GET("/games/:type", s.handleGames)
	return r
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.router
}

// Service returns the game registry behind the server
func (s *Server) Service() *GameService {
	return s.service
}

// Start listens on the configured address until Shutdown is called
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", srv.Addr, "games", s.service.GameTypes())
	return srv.ListenAndServe()
}

// Shutdown closes every connection and stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	conns := make([]*Connection, 0, len(s.connections))
	for _, c := range s.connections {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Send implements Sender by queueing msg on the participant's connection
func (s *Server) Send(id string, msg protocol.Message) {
	s.mu.RLock()
	c, ok := s.connections[id]
	s.mu.RUnlock()

	if !ok {
		s.logger.Debug("Dropping message for departed participant", "participant", id, "type", msg.MessageType())
		return
	}
	if err := c.SendMessage(msg); err != nil {
		s.logger.Warn("Failed to send message", "participant", id, "type", msg.MessageType(), "error", err)
	}
}

// ConnectedParticipants returns how many clients are connected
func (s *Server) ConnectedParticipants() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// handleWebSocket upgrades the request and registers the participant
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(uuid.NewString(), conn, s.logger, s)
	s.mu.Lock()
	s.connections[client.ID()] = client
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "participant", client.ID(), "total", total)

	// the participant exists before the read pump can dispatch for it
	s.idle.Touch(client.ID())
	s.service.Deliver(s.service.Connect(client.ID()))
	client.Start()

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

// receive handles one inbound envelope from a connection
func (s *Server) receive(c *Connection, env *protocol.Envelope) {
	s.idle.Touch(c.ID())
	s.service.Dispatch(c.ID(), env)
}

func (s *Server) unregister(c *Connection) {
	s.mu.Lock()
	delete(s.connections, c.ID())
	total := len(s.connections)
	s.mu.Unlock()

	s.idle.Forget(c.ID())
	s.service.Deliver(s.service.Disconnect(c.ID()))
	s.logger.Info("Client disconnected", "participant", c.ID(), "total", total)
}

// expire drops a participant whose idle timer ran out
func (s *Server) expire(id string) {
	s.mu.RLock()
	c, ok := s.connections[id]
	s.mu.RUnlock()

	if ok {
		s.logger.Info("Closing idle connection", "participant", id, "timeout", s.idle.timeout)
		_ = c.Close()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *Server) handleGameTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": s.service.GameTypes()})
}

func (s *Server) handleGames(c *gin.Context) {
	games, err := s.service.Games(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

// requestLogger logs each HTTP request at debug level
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
