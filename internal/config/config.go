package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/balkashynov/grind/internal/metrics"
	"github.com/balkashynov/grind/internal/models"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Audio    AudioConfig    `yaml:"audio"`
	Speech   SpeechConfig   `yaml:"speech"`
	Session  SessionConfig  `yaml:"session"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type AudioConfig struct {
	Player string `yaml:"player"`
	Volume int    `yaml:"volume"`
}

type SpeechConfig struct {
	Engine string `yaml:"engine"`
}

type SessionConfig struct {
	ExtendSeconds int    `yaml:"extend_seconds"`
	WorkoutsDir   string `yaml:"workouts_dir"`
}

type MetricsConfig struct {
	SecondsPerRep       int                           `yaml:"seconds_per_rep"`
	DefaultRepsEstimate int                           `yaml:"default_reps_estimate"`
	TagWeights          map[string]map[string]float64 `yaml:"tag_weights"`
}

// Dir returns the grind home directory, ~/.grind
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".grind"), nil
}

// DefaultPath returns ~/.grind/config.yaml
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{
		Log:     LogConfig{Level: "info"},
		Audio:   AudioConfig{Player: "auto", Volume: 60},
		Speech:  SpeechConfig{Engine: "auto"},
		Session: SessionConfig{ExtendSeconds: 15},
		Metrics: MetricsConfig{
			SecondsPerRep:       metrics.DefaultSecondsPerRep,
			DefaultRepsEstimate: metrics.DefaultRepsEstimate,
		},
	}
	if dir, err := Dir(); err == nil {
		cfg.Database.Path = filepath.Join(dir, "grind.db")
		cfg.Log.File = filepath.Join(dir, "grind.log")
		cfg.Session.WorkoutsDir = filepath.Join(dir, "workouts")
	}
	return cfg
}

// Load reads config from a YAML file, then applies environment variable overrides.
// An empty path means the default location, where a missing file is fine.
// Env vars use the prefix GRIND_:
//
//	GRIND_DB_PATH, GRIND_LOG_LEVEL, GRIND_LOG_FILE,
//	GRIND_AUDIO_PLAYER, GRIND_AUDIO_VOLUME,
//	GRIND_SPEECH_ENGINE, GRIND_WORKOUTS_DIR
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRIND_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("GRIND_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GRIND_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("GRIND_AUDIO_PLAYER"); v != "" {
		cfg.Audio.Player = v
	}
	if v := os.Getenv("GRIND_AUDIO_VOLUME"); v != "" {
		if volume, err := strconv.Atoi(v); err == nil {
			cfg.Audio.Volume = volume
		}
	}
	if v := os.Getenv("GRIND_SPEECH_ENGINE"); v != "" {
		cfg.Speech.Engine = v
	}
	if v := os.Getenv("GRIND_WORKOUTS_DIR"); v != "" {
		cfg.Session.WorkoutsDir = v
	}
}

var (
	players = map[string]bool{"auto": true, "mpv": true, "null": true, "none": true}
	voices  = map[string]bool{"auto": true, "say": true, "espeak": true, "espeak-ng": true, "spd-say": true, "none": true}
)

func (c *Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("audio.volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	if !players[c.Audio.Player] {
		return fmt.Errorf("audio.player %q is not one of auto, mpv, null, none", c.Audio.Player)
	}
	if !voices[c.Speech.Engine] {
		return fmt.Errorf("speech.engine %q is not supported", c.Speech.Engine)
	}
	if c.Session.ExtendSeconds <= 0 {
		return fmt.Errorf("session.extend_seconds must be positive")
	}
	if c.Metrics.SecondsPerRep <= 0 {
		return fmt.Errorf("metrics.seconds_per_rep must be positive")
	}
	if c.Metrics.DefaultRepsEstimate <= 0 {
		return fmt.Errorf("metrics.default_reps_estimate must be positive")
	}
	for tag, weights := range c.Metrics.TagWeights {
		for name, w := range weights {
			if _, ok := models.ParseAttribute(name); !ok {
				return fmt.Errorf("metrics.tag_weights.%s: unknown attribute %q", tag, name)
			}
			if w < 0 {
				return fmt.Errorf("metrics.tag_weights.%s.%s must not be negative", tag, name)
			}
		}
	}
	return nil
}

// MetricsConfig converts the metrics section, merging configured tag weights
// over the built-in table
func (c *Config) MetricsConfig() metrics.Config {
	overrides := make(metrics.TagWeights, len(c.Metrics.TagWeights))
	for tag, weights := range c.Metrics.TagWeights {
		vec := make(map[models.Attribute]float64, len(weights))
		for name, w := range weights {
			if a, ok := models.ParseAttribute(name); ok {
				vec[a] = w
			}
		}
		overrides[tag] = vec
	}
	return metrics.Config{
		SecondsPerRep:       c.Metrics.SecondsPerRep,
		DefaultRepsEstimate: c.Metrics.DefaultRepsEstimate,
		TagWeights:          metrics.DefaultTagWeights().Merge(overrides),
	}
}
