// Package config provides Viper-based configuration loading for the tactics
// engine and its tools.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EngineConfig holds the rules and pacing tunables of a level.
type EngineConfig struct {
	// InventorySize is the number of backpack slots of every character.
	InventorySize int `mapstructure:"inventory_size"`
	// DiarySize is the number of diary lines kept.
	DiarySize int `mapstructure:"diary_size"`
	// XPDivisor divides dealt damage into experience.
	XPDivisor int `mapstructure:"xp_divisor"`
	// LevelUpFactor scales xp_next for classes without their own factor.
	LevelUpFactor float64 `mapstructure:"level_up_factor"`
	// MaxLevel caps character levels.
	MaxLevel int `mapstructure:"max_level"`
	// FramesPerTile is the animation length of one step.
	FramesPerTile int `mapstructure:"frames_per_tile"`
	// TileSize is the side of a tile in pixels.
	TileSize int `mapstructure:"tile_size"`
	// FrameRate is the number of frames the host loop runs per second.
	FrameRate int `mapstructure:"frame_rate"`
	// ScriptInstructionLimit bounds each Lua hook call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// FrameInterval returns the duration of one frame.
//
// Precondition: FrameRate > 0.
func (e EngineConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(e.FrameRate)
}

// ContentConfig locates the static game data.
type ContentConfig struct {
	// Root is the catalog directory (items, foes, characters, ...).
	Root string `mapstructure:"root"`
	// Levels is the directory holding level_<n>.xml documents.
	Levels string `mapstructure:"levels"`
	// Scripts is an optional directory of Lua hooks shared by levels that
	// have no scripts of their own.
	Scripts string `mapstructure:"scripts"`
	// Options is the path of the user options document.
	Options string `mapstructure:"options"`
}

// LevelPath returns the document path of level index.
func (c ContentConfig) LevelPath(index int) string {
	return fmt.Sprintf("%s/level_%d.xml", strings.TrimRight(c.Levels, "/"), index)
}

// SavesConfig selects where save slots live.
type SavesConfig struct {
	// Backend is "file" or "postgres".
	Backend string `mapstructure:"backend"`
	// Dir is the save directory of the file backend.
	Dir string `mapstructure:"dir"`
	// Slots is the number of save slots offered.
	Slots int `mapstructure:"slots"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"`
	Content  ContentConfig  `mapstructure:"content"`
	Saves    SavesConfig    `mapstructure:"saves"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Validate checks all configuration invariants. The database section is only
// checked when saves go to PostgreSQL.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateEngine(c.Engine); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSaves(c.Saves); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Saves.Backend == BackendPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Save backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

func validateEngine(e EngineConfig) error {
	var errs []string
	positive := []struct {
		name string
		v    int
	}{
		{"inventory_size", e.InventorySize},
		{"diary_size", e.DiarySize},
		{"xp_divisor", e.XPDivisor},
		{"max_level", e.MaxLevel},
		{"frames_per_tile", e.FramesPerTile},
		{"tile_size", e.TileSize},
		{"frame_rate", e.FrameRate},
	}
	for _, p := range positive {
		if p.v < 1 {
			errs = append(errs, fmt.Sprintf("engine.%s must be >= 1, got %d", p.name, p.v))
		}
	}
	if e.LevelUpFactor < 1 {
		errs = append(errs, fmt.Sprintf("engine.level_up_factor must be >= 1, got %g", e.LevelUpFactor))
	}
	if e.ScriptInstructionLimit < 0 {
		errs = append(errs, "engine.script_instruction_limit must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.Root == "" {
		errs = append(errs, "content.root must not be empty")
	}
	if c.Levels == "" {
		errs = append(errs, "content.levels must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSaves(s SavesConfig) error {
	var errs []string
	switch s.Backend {
	case BackendFile:
		if s.Dir == "" {
			errs = append(errs, "saves.dir must not be empty for the file backend")
		}
	case BackendPostgres:
	default:
		errs = append(errs, fmt.Sprintf("saves.backend must be one of [file, postgres], got %q", s.Backend))
	}
	if s.Slots < 1 {
		errs = append(errs, fmt.Sprintf("saves.slots must be >= 1, got %d", s.Slots))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path uses the
// defaults and the environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance carrying the defaults and the TACTICS_
// environment overrides.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TACTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.inventory_size", 8)
	v.SetDefault("engine.diary_size", 30)
	v.SetDefault("engine.xp_divisor", 2)
	v.SetDefault("engine.level_up_factor", 1.5)
	v.SetDefault("engine.max_level", 20)
	v.SetDefault("engine.frames_per_tile", 4)
	v.SetDefault("engine.tile_size", 48)
	v.SetDefault("engine.frame_rate", 60)
	v.SetDefault("engine.script_instruction_limit", 0)

	v.SetDefault("content.root", "content")
	v.SetDefault("content.levels", "content/levels")
	v.SetDefault("content.scripts", "")
	v.SetDefault("content.options", "saves/options.xml")

	v.SetDefault("saves.backend", BackendFile)
	v.SetDefault("saves.dir", "saves")
	v.SetDefault("saves.slots", 3)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "tactics")
	v.SetDefault("database.password", "tactics")
	v.SetDefault("database.name", "tactics")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
