package server

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/trickserver/internal/game"
)

// DefaultConfigFile is read when no --config flag is given
const DefaultConfigFile = "trickserver.hcl"

// Config represents the complete server configuration
type Config struct {
	Server   Settings        `hcl:"server,block"`
	Variants []VariantConfig `hcl:"variant,block"`
}

// Settings contains server-level configuration
type Settings struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	IdleTimeout string `hcl:"idle_timeout,optional"`
	Seed        int64  `hcl:"seed,optional"`
}

// VariantConfig enables one game type and tunes its numbers
type VariantConfig struct {
	Name           string `hcl:"name,label"`
	TargetScore    int    `hcl:"target_score,optional"`
	MinBid         int    `hcl:"min_bid,optional"`
	LastTrickBonus *int   `hcl:"last_trick_bonus,optional"` // nil uses the default; 0 disables
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	cfg := &Config{}
	for _, name := range game.Variants() {
		cfg.Variants = append(cfg.Variants, VariantConfig{Name: name})
	}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if len(cfg.Variants) == 0 {
		cfg.Variants = DefaultConfig().Variants
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 2000
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.IdleTimeout == "" {
		c.Server.IdleTimeout = "15m"
	}

	defaults := game.DefaultRules()
	for i := range c.Variants {
		v := &c.Variants[i]
		if canonical, ok := game.CanonicalVariant(v.Name); ok {
			v.Name = canonical
		}
		if v.TargetScore == 0 {
			v.TargetScore = defaults.TargetScore
		}
		if v.MinBid == 0 {
			v.MinBid = defaults.MinBid
		}
		if v.LastTrickBonus == nil {
			bonus := defaults.LastTrickBonus
			v.LastTrickBonus = &bonus
		}
	}
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if d, err := time.ParseDuration(c.Server.IdleTimeout); err != nil {
		return fmt.Errorf("invalid idle_timeout %q: %w", c.Server.IdleTimeout, err)
	} else if d < 0 {
		return fmt.Errorf("idle_timeout must not be negative")
	}

	if len(c.Variants) == 0 {
		return fmt.Errorf("at least one variant must be configured")
	}
	seen := make(map[string]bool, len(c.Variants))
	for _, v := range c.Variants {
		if _, ok := game.CanonicalVariant(v.Name); !ok {
			return fmt.Errorf("variant %q: unknown game type, expected one of %v", v.Name, game.Variants())
		}
		if seen[v.Name] {
			return fmt.Errorf("variant %q: configured twice", v.Name)
		}
		seen[v.Name] = true
		if v.TargetScore <= 0 {
			return fmt.Errorf("variant %s: target score must be positive", v.Name)
		}
		if v.MinBid <= 0 {
			return fmt.Errorf("variant %s: minimum bid must be positive", v.Name)
		}
		if v.LastTrickBonus != nil && *v.LastTrickBonus < 0 {
			return fmt.Errorf("variant %s: last trick bonus must not be negative", v.Name)
		}
	}
	return nil
}

// Address returns the full listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// IdleTimeout returns the parsed idle timeout; zero disables the watchdog
func (c *Config) IdleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.IdleTimeout)
	return d
}

// Rules returns the rule numbers for each configured variant, keyed by
// canonical variant name
func (c *Config) Rules() map[string]game.Rules {
	out := make(map[string]game.Rules, len(c.Variants))
	for _, v := range c.Variants {
		rules := game.Rules{
			TargetScore:    v.TargetScore,
			MinBid:         v.MinBid,
			LastTrickBonus: game.DefaultRules().LastTrickBonus,
		}
		if v.LastTrickBonus != nil {
			rules.LastTrickBonus = *v.LastTrickBonus
		}
		out[v.Name] = rules
	}
	return out
}

// GameTypes lists the configured variant names in sorted order
func (c *Config) GameTypes() []string {
	names := make([]string, 0, len(c.Variants))
	for _, v := range c.Variants {
		names = append(names, v.Name)
	}
	slices.Sort(names)
	return names
}
