package game

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/samdwyer/turnbattle/internal/action"
	"github.com/samdwyer/turnbattle/internal/battle"
)

// MaxSideSize is the most combatants a side may field.
const MaxSideSize = 8

// Config holds game configuration options. Values come from the environment
// and can be overridden by flags.
type Config struct {
	// Seed for random number generation. Used for reproducible battles.
	// A seed of 0 means a random seed will be generated.
	Seed int64 `env:"TURNBATTLE_SEED" envDefault:"0"`

	TickInterval    time.Duration `env:"TURNBATTLE_TICK_INTERVAL" envDefault:"16ms"`
	ComboDelay      time.Duration `env:"TURNBATTLE_COMBO_DELAY" envDefault:"250ms"`
	HitDuration     time.Duration `env:"TURNBATTLE_HIT_DURATION" envDefault:"300ms"`
	AttackMoveSpeed float64       `env:"TURNBATTLE_ATTACK_MOVE_SPEED" envDefault:"12"`
	ReturnMoveSpeed float64       `env:"TURNBATTLE_RETURN_MOVE_SPEED" envDefault:"16"`

	PartySize  int `env:"TURNBATTLE_PARTY_SIZE" envDefault:"4"`
	EnemyCount int `env:"TURNBATTLE_ENEMY_COUNT" envDefault:"3"`

	// TUI draws the battle in the terminal in real time. Without it the
	// battle is simulated as fast as possible and narrated line by line.
	TUI       bool   `env:"TURNBATTLE_TUI" envDefault:"false"`
	LogLevel  string `env:"TURNBATTLE_LOG_LEVEL" envDefault:"info"`
	Telemetry bool   `env:"TURNBATTLE_TELEMETRY" envDefault:"true"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 picks one)")
	fs.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "Battle clock tick interval")
	fs.DurationVar(&cfg.ComboDelay, "combo-delay", cfg.ComboDelay, "Pause between combo hits")
	fs.DurationVar(&cfg.HitDuration, "hit-duration", cfg.HitDuration, "Length of the hit reaction")
	fs.Float64Var(&cfg.AttackMoveSpeed, "attack-speed", cfg.AttackMoveSpeed, "Move speed toward the target, units per second")
	fs.Float64Var(&cfg.ReturnMoveSpeed, "return-speed", cfg.ReturnMoveSpeed, "Move speed back home, units per second")
	fs.IntVar(&cfg.PartySize, "party", cfg.PartySize, "Number of party members")
	fs.IntVar(&cfg.EnemyCount, "enemies", cfg.EnemyCount, "Number of enemies")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "Draw the battle in the terminal")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.Telemetry, "telemetry", cfg.Telemetry, "Export OpenTelemetry traces")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the values can run a battle.
func (c Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %v", c.TickInterval))
	}
	if c.ComboDelay < 0 || c.HitDuration < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.AttackMoveSpeed < 0 || c.ReturnMoveSpeed < 0 {
		errs = append(errs, errors.New("move speeds must not be negative"))
	}
	if c.PartySize < 1 || c.EnemyCount < 1 {
		errs = append(errs, fmt.Errorf("each side needs at least one combatant, got %d vs %d", c.PartySize, c.EnemyCount))
	}
	if c.PartySize > MaxSideSize || c.EnemyCount > MaxSideSize {
		errs = append(errs, fmt.Errorf("each side holds at most %d combatants, got %d vs %d", MaxSideSize, c.PartySize, c.EnemyCount))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// BattleConfig derives the orchestrator tuning.
func (c Config) BattleConfig() battle.Config {
	cfg := battle.DefaultConfig()
	cfg.ComboDelay = c.ComboDelay
	cfg.Action = action.DefaultConfig()
	cfg.Action.HitDuration = c.HitDuration
	cfg.Action.AttackMoveSpeed = c.AttackMoveSpeed
	cfg.Action.ReturnMoveSpeed = c.ReturnMoveSpeed
	return cfg
}
