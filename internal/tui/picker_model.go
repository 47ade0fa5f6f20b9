package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
)

// PickerEntry is one workout file offered by the picker. Err is set when
// the file could not be parsed; such entries are shown but cannot be started.
type PickerEntry struct {
	Path     string
	Workout  models.WorkoutDefinition
	Summary  models.SessionSummary
	Warnings []string
	Err      error
}

// Title returns the workout title, or the file name for broken entries
func (e PickerEntry) Title() string {
	if e.Err != nil || e.Workout.Title == "" {
		return filepath.Base(e.Path)
	}
	return e.Workout.Title
}

// PickerModel lets the user choose a workout to start
type PickerModel struct {
	width  int
	height int

	entries  []PickerEntry
	visible  []int // indexes into entries matching the filter
	selected int   // index into visible

	filter    textinput.Model
	filtering bool

	keys pickerKeyMap
	help help.Model

	chosen    *PickerEntry
	cancelled bool
}

// NewPickerModel creates a picker over entries
func NewPickerModel(entries []PickerEntry) PickerModel {
	ti := textinput.New()
	ti.Placeholder = "title or tag"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := PickerModel{
		entries: entries,
		filter:  ti,
		keys:    newPickerKeyMap(),
		help:    help.New(),
	}
	m.applyFilter()
	return m
}

// Init initializes the model
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKeys(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			if m.filter.Value() != "" {
				m.filter.SetValue("")
				m.applyFilter()
				return m, nil
			}
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, m.filter.Focus()
		case key.Matches(msg, m.keys.Select):
			if entry, ok := m.current(); ok && entry.Err == nil {
				m.chosen = &entry
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// handleFilterKeys routes keys to the filter box while it has focus
func (m PickerModel) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		m.filter.Blur()
		m.filtering = false
		m.applyFilter()
		return m, nil
	case "enter":
		m.filter.Blur()
		m.filtering = false
		return m, nil
	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter recomputes the visible entries; matching is case-insensitive
// on title and tags
func (m *PickerModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if query == "" || matches(e, query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func matches(e PickerEntry, query string) bool {
	if strings.Contains(strings.ToLower(e.Title()), query) {
		return true
	}
	for _, tag := range e.Workout.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func (m PickerModel) current() (PickerEntry, bool) {
	if len(m.visible) == 0 {
		return PickerEntry{}, false
	}
	return m.entries[m.visible[m.selected]], true
}

// Chosen returns the entry the user started, if any
func (m PickerModel) Chosen() (PickerEntry, bool) {
	if m.chosen == nil {
		return PickerEntry{}, false
	}
	return *m.chosen, true
}

// View renders the picker
func (m PickerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderList(leftWidth),
		" ",
		m.renderPreview(rightWidth),
	)

	bottom := lipgloss.NewStyle().Align(lipgloss.Center).Width(m.width).Render(m.help.View(m.keys))
	if m.filtering || m.filter.Value() != "" {
		bottom = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorBorder)).
			Padding(0, 1).
			Width(m.width - 2).
			Render(m.filter.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", bottom)
}

// renderList renders the left panel with the workout list
func (m PickerModel) renderList(width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render("🏋  Workouts"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).Render("No workouts found"))
	}

	// Keep the selection on screen
	rows := max(m.height-10, 3)
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := min(start+rows, len(m.visible))

	for i := start; i < end; i++ {
		e := m.entries[m.visible[i]]
		level := string(e.Workout.Difficulty)
		if e.Err != nil {
			level = "invalid"
		}
		row := fmt.Sprintf("%-*s %-12s %6s", max(width-26, 10), truncate(e.Title(), max(width-27, 10)), level, parser.FormatSeconds(e.Summary.EstimatedDurationSeconds))

		if i == m.selected {
			b.WriteString(lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Foreground(lipgloss.Color(ColorAccentBright)).
				Bold(true).
				Padding(0, 1).
				Render(row))
		} else {
			color := ColorPrimaryText
			if e.Err != nil {
				color = ColorDisabledText
			}
			b.WriteString(" " + lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(row))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}

// renderPreview renders the right panel with the reward preview of the
// highlighted workout
func (m PickerModel) renderPreview(width int) string {
	var b strings.Builder

	e, ok := m.current()
	switch {
	case !ok:
		b.WriteString(centered(width).Foreground(lipgloss.Color(ColorAccentMain)).Bold(true).Render("grind"))
		b.WriteString("\n\n")
		b.WriteString(centered(width).Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).Render("Drop workout files into the workouts directory"))

	case e.Err != nil:
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorError)).Render("❌ " + filepath.Base(e.Path)))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Width(width - 2).Render(e.Err.Error()))

	default:
		w := e.Workout
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText)).Width(width - 2).Render(w.Title))
		b.WriteString("\n")
		if w.Description != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).Width(width - 2).Render(w.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")

		b.WriteString(fmt.Sprintf("Difficulty: %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(string(w.Difficulty))))
		if len(w.Tags) > 0 {
			b.WriteString(fmt.Sprintf("Tags: %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(strings.Join(w.Tags, ", "))))
		}
		b.WriteString(fmt.Sprintf("Exercises: %d · sets: %d\n", w.ExerciseCount(), w.SetCount()))
		b.WriteString(fmt.Sprintf("Estimated: %s\n", parser.FormatSeconds(e.Summary.EstimatedDurationSeconds)))
		b.WriteString(fmt.Sprintf("Reward: %s\n\n", lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Bold(true).Render(fmt.Sprintf("%d XP", e.Summary.XPEarned))))

		if bars := renderDistribution(e.Summary, max(width-24, 5)); bars != "" {
			b.WriteString(bars)
			b.WriteString("\n")
		}
		if len(e.Warnings) > 0 {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render(fmt.Sprintf("⚠ %d warning(s)", len(e.Warnings))))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}
