package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/balkashynov/grind/internal/models"
)

var (
	ErrNoTitle    = errors.New("workout has no title")
	ErrNoSections = errors.New("workout has no sections")
)

// ParsedWorkout is a workout read from a file plus anything that looked off
type ParsedWorkout struct {
	Workout  models.WorkoutDefinition
	Warnings []string
}

type workoutFile struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Cover       string        `yaml:"cover"`
	Playlist    []string      `yaml:"playlist"`
	Tags        []string      `yaml:"tags"`
	Difficulty  string        `yaml:"difficulty"`
	Sections    []sectionFile `yaml:"sections"`
}

type sectionFile struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Order     string         `yaml:"order"`
	Exercises []exerciseFile `yaml:"exercises"`
}

type exerciseFile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Mode        string `yaml:"mode"`
	Sets        *int   `yaml:"sets"`
	Reps        string `yaml:"reps"`
	Duration    string `yaml:"duration"`
	Rest        string `yaml:"rest"`
	Media       string `yaml:"media"`
	Description string `yaml:"description"`
}

// LoadWorkout reads and parses a workout file
func LoadWorkout(path string) (*ParsedWorkout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workout file: %w", err)
	}
	parsed, err := ParseWorkout(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return parsed, nil
}

// ParseWorkout parses a YAML workout document.
// Problems the session can absorb (missing durations, bad set counts) become
// warnings; structural problems are errors.
func ParseWorkout(data []byte) (*ParsedWorkout, error) {
	var file workoutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing workout: %w", err)
	}

	title := strings.TrimSpace(file.Title)
	if title == "" {
		return nil, ErrNoTitle
	}
	if len(file.Sections) == 0 {
		return nil, ErrNoSections
	}

	result := &ParsedWorkout{Warnings: []string{}}
	w := models.WorkoutDefinition{
		ID:            orNewID(file.ID),
		Title:         title,
		Description:   strings.TrimSpace(file.Description),
		Cover:         file.Cover,
		AudioPlaylist: nonEmpty(file.Playlist),
		Tags:          nonEmpty(file.Tags),
		Difficulty:    models.Difficulty(strings.ToLower(strings.TrimSpace(file.Difficulty))),
	}
	if w.Difficulty == "" {
		w.Difficulty = models.DifficultyBeginner
	}
	switch w.Difficulty {
	case models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced:
	default:
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown difficulty %q, XP multiplier will be 1", w.Difficulty))
	}

	for si, sf := range file.Sections {
		section := models.Section{
			ID:          orNewID(sf.ID),
			Name:        strings.TrimSpace(sf.Name),
			OrderPolicy: parseOrder(sf.Order),
		}
		if section.Name == "" {
			section.Name = fmt.Sprintf("Section %d", si+1)
		}
		if len(sf.Exercises) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("section %q has no exercises and will be skipped", section.Name))
		}
		for ei, ef := range sf.Exercises {
			exercise, warnings := parseExercise(ef)
			if exercise.Name == "" {
				exercise.Name = fmt.Sprintf("Exercise %d", ei+1)
			}
			for _, warning := range warnings {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s / %s: %s", section.Name, exercise.Name, warning))
			}
			section.Exercises = append(section.Exercises, exercise)
		}
		w.Sections = append(w.Sections, section)
	}

	if w.ExerciseCount() == 0 {
		result.Warnings = append(result.Warnings, "workout has no exercises, a session will complete immediately")
	}

	result.Workout = w
	return result, nil
}

func parseExercise(ef exerciseFile) (models.Exercise, []string) {
	var warnings []string
	e := models.Exercise{
		ID:          orNewID(ef.ID),
		Name:        strings.TrimSpace(ef.Name),
		SetCount:    1,
		RepsTarget:  NormalizeRepsTarget(ef.Reps),
		MediaURL:    ef.Media,
		Description: strings.TrimSpace(ef.Description),
	}

	if ef.Sets != nil {
		e.SetCount = *ef.Sets
		if e.SetCount < 1 {
			warnings = append(warnings, fmt.Sprintf("sets must be at least 1, got %d", e.SetCount))
		}
	}

	switch strings.ToLower(strings.TrimSpace(ef.Mode)) {
	case "time", "timed":
		e.Mode = models.ModeTime
	case "reps", "rep":
		e.Mode = models.ModeReps
	case "":
		e.Mode = models.ModeReps
		if strings.TrimSpace(ef.Duration) != "" {
			e.Mode = models.ModeTime
		}
	default:
		warnings = append(warnings, fmt.Sprintf("unknown mode %q, using reps", ef.Mode))
		e.Mode = models.ModeReps
	}

	if e.Mode == models.ModeTime {
		seconds, err := ParseSeconds(ef.Duration)
		if err != nil {
			warnings = append(warnings, err.Error())
		}
		if seconds == 0 {
			warnings = append(warnings, "timed exercise without a duration")
		}
		e.DurationSeconds = seconds
		e.RepsTarget = ""
	} else if e.RepsTarget == "" {
		warnings = append(warnings, "no reps target, reward estimate uses the default")
	}

	rest, err := ParseSeconds(ef.Rest)
	if err != nil {
		warnings = append(warnings, "rest: "+err.Error())
	}
	e.RestSeconds = rest

	return e, warnings
}

func parseOrder(order string) models.OrderPolicy {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "circuit":
		return models.OrderCircuit
	default:
		return models.OrderStraightSets
	}
}

func orNewID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func nonEmpty(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
