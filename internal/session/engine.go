// Package session drives a workout as a live, timed session.
//
// Engine owns the session position and is the only thing that mutates it.
// Every phase entry bumps a token; timers are created with the token of the
// phase that started them, so a completion from a timer that belongs to an
// earlier phase (or to a session that was exited) is recognised and dropped.
// All methods must be called from the bubbletea update loop.
package session

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/balkashynov/grind/internal/countdown"
	"github.com/balkashynov/grind/internal/metrics"
	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/speech"
)

// Phase of a session
type Phase string

const (
	PhasePerforming Phase = "performing"
	PhaseResting    Phase = "resting"
	PhaseCompleted  Phase = "completed"
	PhaseAbandoned  Phase = "abandoned"
)

// Terminal reports whether no further transitions can happen
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseAbandoned
}

// Position locates the session inside the workout. While resting it points
// at the unit that was just performed.
type Position struct {
	SectionIndex  int
	ExerciseIndex int
	SetIndex      int
	Phase         Phase
}

// CompletedMsg is emitted once when the session reaches the completed phase
type CompletedMsg struct {
	Summary models.SessionSummary
}

// Options configures an Engine. Zero values select the real clock, no
// feedback pulses, the default metrics policy and a disabled logger.
type Options struct {
	Clock   countdown.Clock
	Pulser  countdown.Pulser
	Metrics *metrics.Engine
	Log     zerolog.Logger
}

// Engine is the session state machine
type Engine struct {
	def     models.WorkoutDefinition
	cue     *speech.Cue
	clock   countdown.Clock
	pulser  countdown.Pulser
	metrics *metrics.Engine
	log     zerolog.Logger

	started bool
	pos     Position
	next    *Position
	token   uint64
	timer   *countdown.Timer
	done    int
	summary *models.SessionSummary
}

// New creates an engine for def. cue may be nil for a silent session.
func New(def models.WorkoutDefinition, cue *speech.Cue, opts Options) *Engine {
	if cue == nil {
		cue = speech.NewCue(nil, opts.Log)
	}
	if opts.Clock == nil {
		opts.Clock = countdown.TeaClock{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(metrics.DefaultConfig())
	}

	e := &Engine{
		def:     def,
		cue:     cue,
		clock:   opts.Clock,
		pulser:  opts.Pulser,
		metrics: opts.Metrics,
		log:     opts.Log.With().Str("workout", def.ID).Logger(),
		pos:     Position{Phase: PhasePerforming},
	}

	for _, problem := range def.Problems() {
		e.log.Warn().Msg(problem)
	}
	for _, s := range def.Sections {
		if s.OrderPolicy == models.OrderCircuit {
			e.log.Info().Str("section", s.Name).Msg("circuit order runs as straight sets")
		}
	}
	return e
}

// Start enters the first exercise, or completes right away when the workout
// has no exercises at all
func (e *Engine) Start() tea.Cmd {
	if e.started {
		return nil
	}
	e.started = true
	first, ok := e.firstUnit()
	if !ok {
		e.log.Warn().Msg("workout has no exercises, completing immediately")
		return e.complete()
	}
	e.log.Info().Int("sets", e.def.SetCount()).Msg("session started")
	return e.perform(first)
}

// Advance is the user's done/skip action: it finishes the current set (for a
// timed set, by skipping its timer) or skips the current rest
func (e *Engine) Advance() tea.Cmd {
	if !e.started {
		return nil
	}
	switch e.pos.Phase {
	case PhasePerforming:
		if e.timer != nil {
			return e.timer.Skip()
		}
		return e.finishSet()
	case PhaseResting:
		return e.SkipRest()
	}
	return nil
}

// SkipRest ends the current rest early
func (e *Engine) SkipRest() tea.Cmd {
	if e.pos.Phase != PhaseResting || e.timer == nil {
		return nil
	}
	return e.timer.Skip()
}

// ExtendRest adds seconds to the current rest
func (e *Engine) ExtendRest(seconds int) {
	if e.pos.Phase != PhaseResting || e.timer == nil {
		return
	}
	e.timer.Extend(seconds)
	e.log.Debug().Int("seconds", seconds).Msg("rest extended")
}

// TogglePause pauses or resumes the live timer
func (e *Engine) TogglePause() tea.Cmd {
	if e.timer == nil || e.pos.Phase.Terminal() {
		return nil
	}
	return e.timer.Toggle()
}

// Paused reports whether the live timer is paused
func (e *Engine) Paused() bool {
	return e.timer != nil && !e.timer.State().Running && !e.timer.Expired()
}

// Exit abandons the session. Live timers and speech are cancelled and no
// summary is produced.
func (e *Engine) Exit() {
	if e.pos.Phase.Terminal() {
		return
	}
	e.teardown()
	e.pos.Phase = PhaseAbandoned
	e.log.Info().Int("sets_done", e.done).Msg("session abandoned")
}

// Update routes timer and speech messages. Completions addressed to a phase
// other than the current one are ignored.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case countdown.TickMsg:
		if e.timer == nil || msg.ID != e.token {
			return nil
		}
		return e.timer.Update(msg)

	case countdown.ExpiredMsg:
		if e.timer == nil || msg.ID != e.token || e.pos.Phase.Terminal() {
			e.log.Debug().Uint64("token", msg.ID).Uint64("current", e.token).Msg("stale timer completion ignored")
			return nil
		}
		switch e.pos.Phase {
		case PhasePerforming:
			return e.finishSet()
		case PhaseResting:
			return e.finishRest()
		}

	case speech.DoneMsg:
		e.cue.Update(msg)
	}
	return nil
}

// Token returns the current phase token
func (e *Engine) Token() uint64 {
	return e.token
}

// Position returns the current position
func (e *Engine) Position() Position {
	return e.pos
}

// Summary returns the reward summary once the session has completed
func (e *Engine) Summary() (models.SessionSummary, bool) {
	if e.summary == nil {
		return models.SessionSummary{}, false
	}
	return *e.summary, true
}

// Workout returns the definition being run
func (e *Engine) Workout() models.WorkoutDefinition {
	return e.def
}

func (e *Engine) perform(p Position) tea.Cmd {
	e.teardownTimer()
	p.Phase = PhasePerforming
	e.pos = p
	e.next = nil

	ex := e.exerciseAt(p)
	e.log.Debug().
		Int("section", p.SectionIndex).
		Int("exercise", p.ExerciseIndex).
		Int("set", p.SetIndex).
		Str("name", ex.Name).
		Msg("performing")

	cmds := []tea.Cmd{e.cue.Announce(e.performText(p, ex))}
	if ex.Timed() {
		e.timer = countdown.New(e.token, e.clock, e.pulser)
		cmds = append(cmds, e.timer.Start(ex.Duration()))
	}
	return tea.Batch(cmds...)
}

func (e *Engine) finishSet() tea.Cmd {
	e.done++
	ex := e.exerciseAt(e.pos)
	next, ok := e.nextUnit(e.pos)
	if !ok {
		return e.complete()
	}

	// sets of one exercise rest on its own rest; a new exercise brings its own
	rest := ex.Rest()
	if next.SetIndex == 0 {
		rest = e.exerciseAt(next).Rest()
	}
	if rest == 0 {
		return e.perform(next)
	}

	e.teardownTimer()
	e.pos.Phase = PhaseResting
	e.next = &next
	e.timer = countdown.New(e.token, e.clock, e.pulser)
	e.log.Debug().Int("seconds", rest).Msg("resting")
	return tea.Batch(
		e.cue.Announce(e.restText(rest, next)),
		e.timer.Start(rest),
	)
}

func (e *Engine) finishRest() tea.Cmd {
	if e.next == nil {
		return nil
	}
	return e.perform(*e.next)
}

func (e *Engine) complete() tea.Cmd {
	e.teardown()
	e.pos.Phase = PhaseCompleted

	summary := e.metrics.Summarize(e.def)
	e.summary = &summary
	e.log.Info().
		Int("xp", summary.XPEarned).
		Int("estimated_seconds", summary.EstimatedDurationSeconds).
		Msg("session completed")

	return func() tea.Msg {
		return CompletedMsg{Summary: summary}
	}
}

func (e *Engine) teardown() {
	e.teardownTimer()
	e.next = nil
	e.cue.Cancel()
}

// teardownTimer drops the live timer and moves to a new phase token
func (e *Engine) teardownTimer() {
	e.token++
	if e.timer != nil {
		e.timer.Pause()
		e.timer = nil
	}
}

func (e *Engine) firstUnit() (Position, bool) {
	for si, s := range e.def.Sections {
		if len(s.Exercises) > 0 {
			return Position{SectionIndex: si}, true
		}
	}
	return Position{}, false
}

// nextUnit returns the unit after p: the next set, else the next exercise,
// else the first exercise of the next non-empty section
func (e *Engine) nextUnit(p Position) (Position, bool) {
	section := e.def.Sections[p.SectionIndex]
	ex := section.Exercises[p.ExerciseIndex]
	if p.SetIndex+1 < ex.Sets() {
		return Position{SectionIndex: p.SectionIndex, ExerciseIndex: p.ExerciseIndex, SetIndex: p.SetIndex + 1}, true
	}
	if p.ExerciseIndex+1 < len(section.Exercises) {
		return Position{SectionIndex: p.SectionIndex, ExerciseIndex: p.ExerciseIndex + 1}, true
	}
	for si := p.SectionIndex + 1; si < len(e.def.Sections); si++ {
		if len(e.def.Sections[si].Exercises) > 0 {
			return Position{SectionIndex: si}, true
		}
	}
	return Position{}, false
}

func (e *Engine) exerciseAt(p Position) models.Exercise {
	return e.def.Sections[p.SectionIndex].Exercises[p.ExerciseIndex]
}

func (e *Engine) performText(p Position, ex models.Exercise) string {
	sets := ex.Sets()
	switch {
	case sets == 1:
		return fmt.Sprintf("%s. %s.", ex.Name, ex.Target())
	case p.SetIndex == 0:
		return fmt.Sprintf("%s. %d sets. Set 1, %s.", ex.Name, sets, ex.Target())
	default:
		return fmt.Sprintf("Set %d of %d. %s, %s.", p.SetIndex+1, sets, ex.Name, ex.Target())
	}
}

func (e *Engine) restText(seconds int, next Position) string {
	ex := e.exerciseAt(next)
	if next.SetIndex > 0 {
		return fmt.Sprintf("Rest %d seconds. Next, set %d of %s.", seconds, next.SetIndex+1, ex.Name)
	}
	return fmt.Sprintf("Rest %d seconds. Next up, %s.", seconds, ex.Name)
}
