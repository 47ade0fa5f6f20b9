package models

import "fmt"

// ExerciseMode selects whether an exercise is counted in reps or timed
type ExerciseMode string

const (
	ModeReps ExerciseMode = "reps"
	ModeTime ExerciseMode = "time"
)

// OrderPolicy describes how the exercises of a section are meant to be visited
type OrderPolicy string

const (
	OrderStraightSets OrderPolicy = "straight_sets"
	OrderCircuit      OrderPolicy = "circuit"
)

// Difficulty of a workout, drives the XP multiplier
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// WorkoutDefinition is a fully resolved workout, immutable for the lifetime of a session
type WorkoutDefinition struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Cover         string     `json:"cover"`
	AudioPlaylist []string   `json:"audio_playlist"`
	Tags          []string   `json:"tags"`
	Difficulty    Difficulty `json:"difficulty"`
	Sections      []Section  `json:"sections"`
}

// Section is a named, ordered group of exercises
type Section struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	OrderPolicy OrderPolicy `json:"order_policy"`
	Exercises   []Exercise  `json:"exercises"`
}

// Exercise is a single movement repeated for a number of sets.
// RepsTarget is meaningful when Mode is reps, DurationSeconds when Mode is time.
type Exercise struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Mode            ExerciseMode `json:"mode"`
	SetCount        int          `json:"set_count"`
	RepsTarget      string       `json:"reps_target,omitempty"`
	DurationSeconds int          `json:"duration_seconds,omitempty"`
	RestSeconds     int          `json:"rest_seconds"`
	MediaURL        string       `json:"media_url,omitempty"`
	Description     string       `json:"description,omitempty"`
}

// Sets returns the set count, never less than one
func (e Exercise) Sets() int {
	if e.SetCount < 1 {
		return 1
	}
	return e.SetCount
}

// Duration returns the work duration in seconds for time-mode exercises.
// Reps-mode exercises and malformed durations yield 0.
func (e Exercise) Duration() int {
	if e.Mode != ModeTime || e.DurationSeconds < 0 {
		return 0
	}
	return e.DurationSeconds
}

// Rest returns the rest interval in seconds, never negative
func (e Exercise) Rest() int {
	if e.RestSeconds < 0 {
		return 0
	}
	return e.RestSeconds
}

// Timed reports whether the exercise is driven by a countdown
func (e Exercise) Timed() bool {
	return e.Mode == ModeTime
}

// Target describes what the user has to do in one set, e.g. "12 reps" or "45 seconds"
func (e Exercise) Target() string {
	if e.Timed() {
		return fmt.Sprintf("%d seconds", e.Duration())
	}
	if e.RepsTarget == "" {
		return "reps"
	}
	return e.RepsTarget + " reps"
}

// ExerciseCount returns the number of exercises across all sections
func (w WorkoutDefinition) ExerciseCount() int {
	n := 0
	for _, s := range w.Sections {
		n += len(s.Exercises)
	}
	return n
}

// SetCount returns the number of performed units (exercise sets) in the workout
func (w WorkoutDefinition) SetCount() int {
	n := 0
	for _, s := range w.Sections {
		for _, e := range s.Exercises {
			n += e.Sets()
		}
	}
	return n
}

// Problems lists malformed fields that the runtime will paper over with safe defaults
func (w WorkoutDefinition) Problems() []string {
	var problems []string
	for si, s := range w.Sections {
		for ei, e := range s.Exercises {
			where := fmt.Sprintf("section %d (%s) exercise %d (%s)", si+1, s.Name, ei+1, e.Name)
			switch e.Mode {
			case ModeTime:
				if e.DurationSeconds <= 0 {
					problems = append(problems, where+": time mode without a duration, treating as 0s")
				}
			case ModeReps:
			default:
				problems = append(problems, fmt.Sprintf("%s: unknown mode %q, treating as reps", where, e.Mode))
			}
			if e.SetCount < 1 {
				problems = append(problems, fmt.Sprintf("%s: set count %d, treating as 1", where, e.SetCount))
			}
			if e.RestSeconds < 0 {
				problems = append(problems, fmt.Sprintf("%s: negative rest %ds, treating as 0s", where, e.RestSeconds))
			}
		}
	}
	return problems
}
