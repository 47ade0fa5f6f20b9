package session

import (
	"github.com/balkashynov/grind/internal/countdown"
	"github.com/balkashynov/grind/internal/models"
)

// Unit is one set of one exercise
type Unit struct {
	Position
	Section  models.Section
	Exercise models.Exercise
}

// Snapshot is a read-only view of the session for presentation
type Snapshot struct {
	Position
	Workout  string
	Section  models.Section
	Exercise models.Exercise
	// Next is the unit that follows the current rest, nil outside of rests
	Next *Unit

	HasTimer bool
	Timer    countdown.State
	Paused   bool

	Speaking   bool
	SpeechText string

	SetsDone  int
	SetsTotal int

	Summary *models.SessionSummary
}

// Snapshot returns the current view of the session
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Position:   e.pos,
		Workout:    e.def.Title,
		Paused:     e.Paused(),
		Speaking:   e.cue.Active(),
		SpeechText: e.cue.Text(),
		SetsDone:   e.done,
		SetsTotal:  e.def.SetCount(),
	}

	if e.started && !e.pos.Phase.Terminal() {
		s.Section = e.def.Sections[e.pos.SectionIndex]
		s.Exercise = e.exerciseAt(e.pos)
	}
	if e.next != nil {
		s.Next = &Unit{
			Position: *e.next,
			Section:  e.def.Sections[e.next.SectionIndex],
			Exercise: e.exerciseAt(*e.next),
		}
	}
	if e.timer != nil {
		s.HasTimer = true
		s.Timer = e.timer.State()
	}
	if e.summary != nil {
		sum := *e.summary
		s.Summary = &sum
	}
	return s
}
