// Package config loads server and game settings.
//
// Precedence: environment variables > .env file > defaults.
// Keys are the upper-case environment names (PORT, LOG_LEVEL, ...).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/robalobadob/colorguess/internal/color"
	"github.com/robalobadob/colorguess/internal/game"
)

// Config is the full application configuration.
type Config struct {
	Port         string `mapstructure:"port"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"` // json | console
	ClientOrigin string `mapstructure:"client_origin"`

	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	SweepEvery    time.Duration `mapstructure:"sweep_every"`

	QuestionCap   int    `mapstructure:"question_cap"`
	ScoringPolicy string `mapstructure:"scoring_policy"`
	CatalogFile   string `mapstructure:"catalog_file"`
	ShuffleSalt   string `mapstructure:"shuffle_salt"`

	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Defaults mirror a local development setup.
var defaults = map[string]any{
	"port":             "5175",
	"log_level":        "info",
	"log_format":       "json",
	"client_origin":    "http://localhost:5173",
	"session_secret":   "dev_secret_change_me",
	"session_ttl":      2 * time.Hour,
	"sweep_every":      5 * time.Minute,
	"question_cap":     game.DefaultCap,
	"scoring_policy":   color.DefaultPolicy.String(),
	"catalog_file":     "",
	"shuffle_salt":     "local_dev_salt",
	"rate_limit_rps":   10.0,
	"rate_limit_burst": 20,
}

// Load reads envFiles (missing files are ignored; none means ".env") and
// the process environment into a Config.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("SCORING_POLICY: %w", err)
	}
	if c.QuestionCap < 0 {
		return fmt.Errorf("QUESTION_CAP must be >= 0, got %d", c.QuestionCap)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.SweepEvery <= 0 {
		return fmt.Errorf("SWEEP_EVERY must be positive, got %s", c.SweepEvery)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 1, got %d", c.RateLimitBurst)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	return nil
}

// Policy is the parsed scoring policy.
func (c *Config) Policy() (color.Policy, error) {
	return color.ParsePolicy(c.ScoringPolicy)
}
