package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/grind/internal/models"
)

const fullBodyYAML = `
id: full-body
title: Full Body Basics
description: A short full body session
playlist:
  - music/one.mp3
  - " "
  - music/two.mp3
tags: [Strength, Mobility]
difficulty: Intermediate
sections:
  - name: Warm-up
    order: circuit
    exercises:
      - name: Jumping Jacks
        duration: 45s
        rest: 15
  - name: Empty
  - name: Main
    exercises:
      - id: squat
        name: Squats
        sets: 3
        reps: 12
        rest: 1:00
      - name: Lunges
        mode: reps
        sets: 2
        reps: 12/leg
        rest: 30s
      - name: Plank
        mode: time
        duration: 1m
`

func TestParseWorkout(t *testing.T) {
	parsed, err := ParseWorkout([]byte(fullBodyYAML))
	require.NoError(t, err)

	w := parsed.Workout
	assert.Equal(t, "full-body", w.ID)
	assert.Equal(t, "Full Body Basics", w.Title)
	assert.Equal(t, models.DifficultyIntermediate, w.Difficulty)
	assert.Equal(t, []string{"music/one.mp3", "music/two.mp3"}, w.AudioPlaylist)
	assert.Equal(t, []string{"Strength", "Mobility"}, w.Tags)
	require.Len(t, w.Sections, 3)

	warmup := w.Sections[0]
	assert.Equal(t, models.OrderCircuit, warmup.OrderPolicy)
	require.Len(t, warmup.Exercises, 1)
	jacks := warmup.Exercises[0]
	assert.Equal(t, models.ModeTime, jacks.Mode)
	assert.Equal(t, 45, jacks.DurationSeconds)
	assert.Equal(t, 15, jacks.RestSeconds)
	assert.Equal(t, 1, jacks.SetCount)
	assert.NotEmpty(t, jacks.ID)

	assert.Empty(t, w.Sections[1].Exercises)
	assert.Equal(t, models.OrderStraightSets, w.Sections[1].OrderPolicy)

	main := w.Sections[2]
	require.Len(t, main.Exercises, 3)
	assert.Equal(t, "squat", main.Exercises[0].ID)
	assert.Equal(t, "12", main.Exercises[0].RepsTarget)
	assert.Equal(t, 3, main.Exercises[0].SetCount)
	assert.Equal(t, 60, main.Exercises[0].RestSeconds)
	assert.Equal(t, "12/leg", main.Exercises[1].RepsTarget)
	assert.Equal(t, 60, main.Exercises[2].DurationSeconds)

	assert.Contains(t, parsed.Warnings, `section "Empty" has no exercises and will be skipped`)
}

func TestParseWorkout_Warnings(t *testing.T) {
	doc := `
title: Sloppy
difficulty: legendary
sections:
  - exercises:
      - name: Mystery
        mode: swim
      - name: Hold
        mode: time
      - name: Burpees
        sets: 0
        reps: AMRAP
`
	parsed, err := ParseWorkout([]byte(doc))
	require.NoError(t, err)

	ex := parsed.Workout.Sections[0].Exercises
	assert.Equal(t, models.ModeReps, ex[0].Mode)
	assert.Equal(t, models.ModeTime, ex[1].Mode)
	assert.Equal(t, 0, ex[1].DurationSeconds)
	assert.Equal(t, 0, ex[2].SetCount)
	assert.Equal(t, "AMRAP", ex[2].RepsTarget)
	assert.Equal(t, "Section 1", parsed.Workout.Sections[0].Name)

	assert.Contains(t, parsed.Warnings, `unknown difficulty "legendary", XP multiplier will be 1`)
	assert.Contains(t, parsed.Warnings, `Section 1 / Mystery: unknown mode "swim", using reps`)
	assert.Contains(t, parsed.Warnings, "Section 1 / Hold: timed exercise without a duration")
	assert.Contains(t, parsed.Warnings, "Section 1 / Burpees: sets must be at least 1, got 0")
}

func TestParseWorkout_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{"no title", "sections:\n  - name: a\n", ErrNoTitle},
		{"no sections", "title: Empty\n", ErrNoSections},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWorkout([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := ParseWorkout([]byte("title: [unterminated"))
	assert.Error(t, err)
}

func TestLoadWorkout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullBodyYAML), 0644))

	parsed, err := LoadWorkout(path)
	require.NoError(t, err)
	assert.Equal(t, "Full Body Basics", parsed.Workout.Title)

	_, err = LoadWorkout(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
