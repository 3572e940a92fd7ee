package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds process-level settings. Values come from LUCKYDRAW_* environment
// variables and can be overridden on the command line.
type Config struct {
	Port          int           `env:"PORT" envDefault:"8081"`
	DBPath        string        `env:"DB" envDefault:"luckydraw.db"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON       bool          `env:"LOG_JSON" envDefault:"false"`
	Tick          time.Duration `env:"TICK" envDefault:"16ms"`
	Seed          int64         `env:"SEED" envDefault:"0"` // 0 means seed from crypto/rand
	Metrics       bool          `env:"METRICS" envDefault:"true"`
	NoAnimate     bool          `env:"NO_ANIMATE" envDefault:"false"`
	NoKeyboard    bool          `env:"NO_KEYBOARD" envDefault:"false"`
	StaticDir     string        `env:"STATIC_DIR"` // front end build served at /
}

const envPrefix = "LUCKYDRAW_"

// ParseEnv loads configuration from the environment
func ParseEnv() (Config, error) {
	return parse(env.Options{Prefix: envPrefix})
}

// ParseEnvFrom loads configuration from an explicit environment map (tests)
func ParseEnvFrom(environment map[string]string) (Config, error) {
	return parse(env.Options{Prefix: envPrefix, Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RegisterFlags binds command-line flags to cfg, using the current values as defaults
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Port, "port", c.Port, "HTTP server port")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path")
	fs.StringVar(&c.AdminPassword, "adminpw", c.AdminPassword, "Admin password (auto-generated if not set)")
	fs.StringVar(&c.LogLevel, "loglevel", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&c.LogJSON, "logjson", c.LogJSON, "Write logs as JSON lines")
	fs.DurationVar(&c.Tick, "tick", c.Tick, "Animation tick interval")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Random seed (0 = unpredictable)")
	fs.BoolVar(&c.Metrics, "metrics", c.Metrics, "Expose /metrics")
	fs.BoolVar(&c.NoAnimate, "noanimate", c.NoAnimate, "Skip the startup ladder")
	fs.BoolVar(&c.NoKeyboard, "nokeyboard", c.NoKeyboard, "Disable keyboard shortcuts")
	fs.StringVar(&c.StaticDir, "static", c.StaticDir, "Directory of a front end build to serve at /")
}

// Validate checks ranges that flags and env cannot express
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %s", c.Tick)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
