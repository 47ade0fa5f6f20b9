package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/grind/internal/models"
)

func pickerEntries() []PickerEntry {
	return []PickerEntry{
		{Path: "/w/legs.yaml", Workout: models.WorkoutDefinition{Title: "Leg Day", Tags: []string{"strength"}, Difficulty: models.DifficultyBeginner}},
		{Path: "/w/flow.yaml", Workout: models.WorkoutDefinition{Title: "Morning Flow", Tags: []string{"Yoga"}, Difficulty: models.DifficultyBeginner}},
		{Path: "/w/broken.yaml", Err: errors.New("yaml: line 3: mapping values are not allowed")},
	}
}

func pick(m PickerModel, msgs ...tea.Msg) PickerModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(PickerModel)
	}
	return m
}

func TestPickerSelectsHighlightedWorkout(t *testing.T) {
	m := pick(NewPickerModel(pickerEntries()), keyPress("j"), keyPress("enter"))

	entry, ok := m.Chosen()
	require.True(t, ok)
	assert.Equal(t, "Morning Flow", entry.Title())
}

func TestPickerCannotStartBrokenEntry(t *testing.T) {
	m := pick(NewPickerModel(pickerEntries()), keyPress("j"), keyPress("j"), keyPress("enter"))

	_, ok := m.Chosen()
	assert.False(t, ok)
	assert.Equal(t, "broken.yaml", m.entries[m.visible[m.selected]].Title())
}

func TestPickerFilterMatchesTitleAndTag(t *testing.T) {
	m := pick(NewPickerModel(pickerEntries()), keyPress("/"))
	require.True(t, m.filtering)

	m = pick(m, keyPress("y"), keyPress("o"), keyPress("g"))
	assert.Equal(t, []int{1}, m.visible)

	m = pick(m, keyPress("enter"), keyPress("enter"))
	entry, ok := m.Chosen()
	require.True(t, ok)
	assert.Equal(t, "/w/flow.yaml", entry.Path)
}

func TestPickerEscClearsFilterThenQuits(t *testing.T) {
	m := pick(NewPickerModel(pickerEntries()), keyPress("/"), keyPress("l"), keyPress("e"), keyPress("g"), keyPress("enter"))
	assert.Len(t, m.visible, 1)

	m = pick(m, keyPress("esc"))
	assert.Len(t, m.visible, 3)
	assert.False(t, m.cancelled)

	m = pick(m, keyPress("esc"))
	assert.True(t, m.cancelled)
}

func TestPickerView(t *testing.T) {
	m := pick(NewPickerModel(pickerEntries()), tea.WindowSizeMsg{Width: 120, Height: 30})
	view := m.View()
	assert.Contains(t, view, "Leg Day")
	assert.Contains(t, view, "broken.yaml")

	empty := pick(NewPickerModel(nil), tea.WindowSizeMsg{Width: 120, Height: 30})
	assert.Contains(t, empty.View(), "No workouts found")
}
