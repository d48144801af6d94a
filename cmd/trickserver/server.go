package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lox/trickserver/cmd/trickserver/shared"
	"github.com/lox/trickserver/internal/server"
)

// ServerCmd runs the WebSocket server. Flags override the config file.
type ServerCmd struct {
	Config   string `kong:"short='c',default='trickserver.hcl',help='HCL configuration file'"`
	Addr     string `kong:"help='Listen address, overrides server.address'"`
	Port     int    `kong:"help='Listen port, overrides server.port'"`
	LogLevel string `kong:"help='Log level (debug, info, warn, error)'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
	Seed     *int64 `kong:"help='Deterministic RNG seed for every deal (optional)'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := shared.SetupLogger(cfg.Server.LogLevel, c.Debug)
	if err != nil {
		return err
	}
	if cfg.Server.Seed != 0 {
		logger.Info("Using deterministic seed", "seed", cfg.Server.Seed)
	}

	s := server.NewServer(cfg, logger)
	logger.Info("Starting trickserver",
		"address", cfg.Address(),
		"games", cfg.GameTypes(),
		"idle_timeout", cfg.IdleTimeout())

	ctx := shared.SetupSignalHandler(logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func (c *ServerCmd) apply(cfg *server.Config) {
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Seed != nil {
		cfg.Server.Seed = *c.Seed
	}
}
