package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/grind/internal/parser"
)

// RunSessionTUI runs a workout session and reports the outcome once the
// screen closes
func RunSessionTUI(opts SessionOptions) error {
	model := NewSessionModel(opts)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := finalModel.(SessionModel)
	if !ok {
		return nil
	}

	completion, saved := m.Completion()
	switch {
	case completion != nil:
		// The screen may close before a background save reports back
		if !saved && m.record != nil {
			if err := m.record(completion); err != nil {
				fmt.Printf("❌ Error: failed to save workout: %v\n", err)
			} else {
				saved = true
			}
		}
		fmt.Printf("🏆 Completed \"%s\" in %s\n", completion.WorkoutTitle, parser.FormatSeconds(completion.ElapsedSeconds))
		fmt.Printf("✨ +%d XP", completion.XPEarned)
		if saved {
			fmt.Printf(" (saved)")
		}
		fmt.Println()
	case m.exited:
		snap := m.engine.Snapshot()
		fmt.Printf("⏹️  Workout abandoned after %d/%d sets. Nothing was recorded.\n", snap.SetsDone, snap.SetsTotal)
	}

	return nil
}

// RunPickerTUI lets the user choose among entries. ok is false when the
// picker was closed without a choice.
func RunPickerTUI(entries []PickerEntry) (PickerEntry, bool, error) {
	p := tea.NewProgram(NewPickerModel(entries), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return PickerEntry{}, false, err
	}

	m, ok := finalModel.(PickerModel)
	if !ok {
		return PickerEntry{}, false, nil
	}
	entry, chosen := m.Chosen()
	return entry, chosen, nil
}
