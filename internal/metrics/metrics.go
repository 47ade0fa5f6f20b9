// Package metrics derives the reward numbers of a workout: estimated duration,
// experience points and the split of those points across attributes.
// Everything here is pure so the authoring preview and the completion record
// always agree for the same definition.
package metrics

import (
	"math"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
)

const (
	DefaultSecondsPerRep = 3
	DefaultRepsEstimate  = 10
	xpPerMinute          = 10
)

// Config tunes the estimation policy
type Config struct {
	SecondsPerRep       int
	DefaultRepsEstimate int // used when a reps target has no leading integer
	TagWeights          TagWeights
}

// DefaultConfig returns the built-in policy
func DefaultConfig() Config {
	return Config{
		SecondsPerRep:       DefaultSecondsPerRep,
		DefaultRepsEstimate: DefaultRepsEstimate,
		TagWeights:          DefaultTagWeights(),
	}
}

// Engine computes session summaries
type Engine struct {
	cfg Config
}

// New creates an engine; zero values in cfg fall back to the defaults
func New(cfg Config) *Engine {
	if cfg.SecondsPerRep <= 0 {
		cfg.SecondsPerRep = DefaultSecondsPerRep
	}
	if cfg.DefaultRepsEstimate <= 0 {
		cfg.DefaultRepsEstimate = DefaultRepsEstimate
	}
	if cfg.TagWeights == nil {
		cfg.TagWeights = DefaultTagWeights()
	}
	return &Engine{cfg: cfg}
}

// RepsEstimate returns the number of reps assumed for a target
func (e *Engine) RepsEstimate(target string) int {
	if n, ok := parser.ParseRepsTarget(target); ok {
		return n
	}
	return e.cfg.DefaultRepsEstimate
}

// SetSeconds returns the estimated working time of one set
func (e *Engine) SetSeconds(ex models.Exercise) int {
	if ex.Timed() {
		return ex.Duration()
	}
	return e.RepsEstimate(ex.RepsTarget) * e.cfg.SecondsPerRep
}

// ExerciseSeconds returns setCount × (set time + rest)
func (e *Engine) ExerciseSeconds(ex models.Exercise) int {
	return ex.Sets() * (e.SetSeconds(ex) + ex.Rest())
}

// EstimateDuration sums ExerciseSeconds over every exercise of every section
func (e *Engine) EstimateDuration(w models.WorkoutDefinition) int {
	total := 0
	for _, s := range w.Sections {
		for _, ex := range s.Exercises {
			total += e.ExerciseSeconds(ex)
		}
	}
	return total
}

// DifficultyMultiplier returns the XP multiplier; unknown difficulties count as beginner
func DifficultyMultiplier(d models.Difficulty) float64 {
	switch d {
	case models.DifficultyIntermediate:
		return 1.5
	case models.DifficultyAdvanced:
		return 2
	default:
		return 1
	}
}

// XP converts an estimated duration into experience points
func XP(durationSeconds int, d models.Difficulty) int {
	if durationSeconds <= 0 {
		return 0
	}
	return int(math.Round(float64(durationSeconds) / 60 * xpPerMinute * DifficultyMultiplier(d)))
}

// Distribute splits xp across attributes using the weights of the given tags.
// Without any recognised tag every attribute weighs 1. Attributes with zero
// weight are left out; each share is rounded on its own so the shares may not
// add up to xp exactly.
func (e *Engine) Distribute(tags []string, xp int) map[models.Attribute]int {
	raw := make(map[models.Attribute]float64, len(models.Attributes))
	for _, tag := range tags {
		weights, ok := e.cfg.TagWeights.Lookup(tag)
		if !ok {
			continue
		}
		for _, attr := range models.Attributes {
			raw[attr] += weights[attr]
		}
	}

	total := 0.0
	for _, attr := range models.Attributes {
		total += raw[attr]
	}
	if total == 0 {
		for _, attr := range models.Attributes {
			raw[attr] = 1
		}
		total = float64(len(models.Attributes))
	}

	out := make(map[models.Attribute]int, len(models.Attributes))
	for _, attr := range models.Attributes {
		if raw[attr] == 0 {
			continue
		}
		out[attr] = int(math.Round(raw[attr] / total * float64(xp)))
	}
	return out
}

// Summarize computes the full reward summary for a workout. A workout without
// any exercise earns the zero summary.
func (e *Engine) Summarize(w models.WorkoutDefinition) models.SessionSummary {
	if w.ExerciseCount() == 0 {
		return models.SessionSummary{}
	}
	duration := e.EstimateDuration(w)
	xp := XP(duration, w.Difficulty)
	return models.SessionSummary{
		EstimatedDurationSeconds: duration,
		XPEarned:                 xp,
		AttributeDistribution:    e.Distribute(w.Tags, xp),
	}
}
