package session

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/grind/internal/countdown"
	"github.com/balkashynov/grind/internal/metrics"
	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/speech"
	"github.com/balkashynov/grind/internal/testutil"
)

type harness struct {
	engine *Engine
	clock  *testutil.ManualClock
	voice  *testutil.FakeVoice
	cue    *speech.Cue
	msgs   []tea.Msg
}

func newHarness(t *testing.T, def models.WorkoutDefinition) *harness {
	t.Helper()
	h := &harness{clock: testutil.NewManualClock(), voice: &testutil.FakeVoice{}}
	h.cue = speech.NewCue(h.voice, zerolog.Nop())
	h.engine = New(def, h.cue, Options{Clock: h.clock, Log: zerolog.Nop()})
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	h.msgs = append(h.msgs, testutil.Drain(cmd, h.engine.Update)...)
}

func (h *harness) advanceClock(d time.Duration) {
	for i := 0; i < int(d/time.Second); i++ {
		h.run(feed(h.clock.Advance(time.Second)))
	}
}

func (h *harness) completions() []CompletedMsg {
	var out []CompletedMsg
	for _, m := range h.msgs {
		if c, ok := m.(CompletedMsg); ok {
			out = append(out, c)
		}
	}
	return out
}

// feed turns already produced messages back into a command
func feed(msgs []tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(msgs))
	for _, m := range msgs {
		m := m
		cmds = append(cmds, func() tea.Msg { return m })
	}
	return tea.Batch(cmds...)
}

func reps(name string, sets int, target string, rest int) models.Exercise {
	return models.Exercise{ID: name, Name: name, Mode: models.ModeReps, SetCount: sets, RepsTarget: target, RestSeconds: rest}
}

func timed(name string, sets, seconds, rest int) models.Exercise {
	return models.Exercise{ID: name, Name: name, Mode: models.ModeTime, SetCount: sets, DurationSeconds: seconds, RestSeconds: rest}
}

func workout(sections ...models.Section) models.WorkoutDefinition {
	return models.WorkoutDefinition{
		ID:         "w1",
		Title:      "Test",
		Difficulty: models.DifficultyBeginner,
		Tags:       []string{"strength"},
		Sections:   sections,
	}
}

func section(name string, exercises ...models.Exercise) models.Section {
	return models.Section{ID: name, Name: name, OrderPolicy: models.OrderStraightSets, Exercises: exercises}
}

func pos(s, e, set int, phase Phase) Position {
	return Position{SectionIndex: s, ExerciseIndex: e, SetIndex: set, Phase: phase}
}

func TestStartEntersFirstExercise(t *testing.T) {
	h := newHarness(t, workout(section("main", reps("Squats", 3, "12", 30))))
	h.run(h.engine.Start())

	assert.Equal(t, pos(0, 0, 0, PhasePerforming), h.engine.Position())
	assert.Equal(t, []string{"Squats. 3 sets. Set 1, 12 reps."}, h.voice.Spoken())

	// starting twice does nothing
	assert.Nil(t, h.engine.Start())
}

func TestStartSkipsEmptySections(t *testing.T) {
	h := newHarness(t, workout(
		section("warmup"),
		section("main", reps("Push-ups", 1, "10", 0)),
	))
	h.run(h.engine.Start())
	assert.Equal(t, pos(1, 0, 0, PhasePerforming), h.engine.Position())
}

func TestEmptyWorkoutCompletesImmediately(t *testing.T) {
	h := newHarness(t, workout(section("a"), section("b")))
	h.run(h.engine.Start())

	assert.Equal(t, PhaseCompleted, h.engine.Position().Phase)
	require.Len(t, h.completions(), 1)
	assert.Equal(t, models.SessionSummary{}, h.completions()[0].Summary)
	assert.Equal(t, metrics.New(metrics.DefaultConfig()).Summarize(workout(section("a"), section("b"))), h.completions()[0].Summary)
	assert.Empty(t, h.voice.Spoken())
}

func TestRepsSetThenRestThenNextSet(t *testing.T) {
	h := newHarness(t, workout(section("main", reps("Squats", 2, "12", 30))))
	h.run(h.engine.Start())

	h.run(h.engine.Advance())
	assert.Equal(t, pos(0, 0, 0, PhaseResting), h.engine.Position())
	snap := h.engine.Snapshot()
	require.NotNil(t, snap.Next)
	assert.Equal(t, 1, snap.Next.SetIndex)
	assert.Equal(t, 30, snap.Timer.RemainingSeconds)
	assert.True(t, snap.HasTimer)

	h.advanceClock(30 * time.Second)
	assert.Equal(t, pos(0, 0, 1, PhasePerforming), h.engine.Position())

	h.run(h.engine.Advance())
	assert.Equal(t, PhaseCompleted, h.engine.Position().Phase)
	assert.Len(t, h.completions(), 1)
}

func TestTimedSetExpiresNaturally(t *testing.T) {
	h := newHarness(t, workout(section("main", timed("Plank", 1, 45, 0), reps("Squats", 1, "10", 15))))
	h.run(h.engine.Start())
	assert.True(t, h.engine.Snapshot().HasTimer)

	h.advanceClock(44 * time.Second)
	assert.Equal(t, PhasePerforming, h.engine.Position().Phase)
	assert.Equal(t, 1, h.engine.Snapshot().Timer.RemainingSeconds)

	h.advanceClock(time.Second)
	assert.Equal(t, pos(0, 0, 0, PhaseResting), h.engine.Position())

	h.advanceClock(15 * time.Second)
	assert.Equal(t, pos(0, 1, 0, PhasePerforming), h.engine.Position())
	assert.False(t, h.engine.Snapshot().HasTimer)
}

func TestSkipMatchesNaturalExpiry(t *testing.T) {
	def := workout(section("main", timed("Plank", 2, 20, 10)))

	natural := newHarness(t, def)
	natural.run(natural.engine.Start())
	natural.advanceClock(20 * time.Second)

	skipped := newHarness(t, def)
	skipped.run(skipped.engine.Start())
	skipped.advanceClock(7 * time.Second)
	skipped.run(skipped.engine.Advance())

	assert.Equal(t, natural.engine.Position(), skipped.engine.Position())
	assert.Equal(t, natural.engine.Snapshot().Next, skipped.engine.Snapshot().Next)
	assert.Equal(t, natural.engine.Snapshot().SetsDone, skipped.engine.Snapshot().SetsDone)
}

func TestZeroRestGoesStraightToNextSet(t *testing.T) {
	h := newHarness(t, workout(section("main", reps("Burpees", 3, "10", 0))))
	h.run(h.engine.Start())
	h.run(h.engine.Advance())
	assert.Equal(t, pos(0, 0, 1, PhasePerforming), h.engine.Position())
}

func TestRestBeforeExerciseUsesItsOwnRest(t *testing.T) {
	h := newHarness(t, workout(section("main", reps("Squats", 2, "10", 30), reps("Lunges", 1, "10", 90))))
	h.run(h.engine.Start())

	h.run(h.engine.Advance())
	require.Equal(t, PhaseResting, h.engine.Position().Phase)
	assert.Equal(t, 30, h.engine.Snapshot().Timer.RemainingSeconds)

	h.run(h.engine.SkipRest())
	h.run(h.engine.Advance())
	require.Equal(t, pos(0, 0, 1, PhaseResting), h.engine.Position())
	assert.Equal(t, 90, h.engine.Snapshot().Timer.RemainingSeconds)
	assert.Equal(t, "Lunges", h.engine.Snapshot().Next.Exercise.Name)

	h.advanceClock(90 * time.Second)
	assert.Equal(t, pos(0, 1, 0, PhasePerforming), h.engine.Position())
}

func TestZeroRestBeforeNextExercise(t *testing.T) {
	h := newHarness(t, workout(section("main", reps("Squats", 1, "10", 60), reps("Lunges", 1, "10", 0))))
	h.run(h.engine.Start())
	h.run(h.engine.Advance())
	assert.Equal(t, pos(0, 1, 0, PhasePerforming), h.engine.Position())
}

func TestNoRestAfterFinalSet(t *testing.T) {
	h := newHarness(t, workout(section("main", reps("Squats", 1, "10", 60))))
	h.run(h.engine.Start())
	h.run(h.engine.Advance())
	assert.Equal(t, PhaseCompleted, h.engine.Position().Phase)
}

func TestStaleCompletionIsIgnored(t *testing.T) {
	h := newHarness(t, workout(section("main", timed("Plank", 3, 30, 10))))
	h.run(h.engine.Start())

	stale := countdown.ExpiredMsg{ID: h.engine.Token()}
	h.run(h.engine.Advance()) // into rest
	require.Equal(t, PhaseResting, h.engine.Position().Phase)

	h.run(func() tea.Msg { return stale })
	assert.Equal(t, pos(0, 0, 0, PhaseResting), h.engine.Position())

	stale = countdown.ExpiredMsg{ID: h.engine.Token()}
	h.run(h.engine.SkipRest())
	require.Equal(t, pos(0, 0, 1, PhasePerforming), h.engine.Position())
	h.run(func() tea.Msg { return stale })
	assert.Equal(t, pos(0, 0, 1, PhasePerforming), h.engine.Position())
}

func TestExitMidRestIgnoresLaterTicks(t *testing.T) {
	h := newHarness(t, workout(section("main", reps("Squats", 3, "10", 30))))
	h.run(h.engine.Start())
	h.run(h.engine.Advance())
	require.Equal(t, PhaseResting, h.engine.Position().Phase)

	h.engine.Exit()
	assert.Equal(t, PhaseAbandoned, h.engine.Position().Phase)
	assert.False(t, h.cue.Active())

	h.advanceClock(60 * time.Second)
	assert.Equal(t, PhaseAbandoned, h.engine.Position().Phase)
	assert.Empty(t, h.completions())
	_, ok := h.engine.Summary()
	assert.False(t, ok)

	assert.Nil(t, h.engine.Advance())
	assert.Nil(t, h.engine.TogglePause())
}

func TestExitCancelsSpeech(t *testing.T) {
	clock := testutil.NewManualClock()
	voice := &testutil.FakeVoice{Hold: true}
	cue := speech.NewCue(voice, zerolog.Nop())
	e := New(workout(section("main", reps("Squats", 1, "10", 0))), cue, Options{Clock: clock, Log: zerolog.Nop()})

	cmd := e.Start()
	assert.True(t, cue.Active())
	e.Exit()
	assert.False(t, cue.Active())

	// the held utterance returns once cancelled; its completion is stale
	for _, m := range testutil.Collect(cmd) {
		e.Update(m)
	}
	assert.False(t, cue.Active())
}

func TestExtendAndPauseRest(t *testing.T) {
	h := newHarness(t, workout(section("main", reps("Squats", 2, "10", 10))))
	h.run(h.engine.Start())
	h.run(h.engine.Advance())

	h.engine.ExtendRest(15)
	assert.Equal(t, 25, h.engine.Snapshot().Timer.RemainingSeconds)

	h.run(h.engine.TogglePause())
	assert.True(t, h.engine.Paused())
	h.advanceClock(60 * time.Second)
	assert.Equal(t, PhaseResting, h.engine.Position().Phase)
	assert.Equal(t, 25, h.engine.Snapshot().Timer.RemainingSeconds)

	h.run(h.engine.TogglePause())
	assert.False(t, h.engine.Paused())
	h.advanceClock(25 * time.Second)
	assert.Equal(t, pos(0, 0, 1, PhasePerforming), h.engine.Position())
}

func TestExtendRestOutsideRestIsNoop(t *testing.T) {
	h := newHarness(t, workout(section("main", timed("Plank", 1, 30, 0))))
	h.run(h.engine.Start())
	h.engine.ExtendRest(20)
	assert.Equal(t, 30, h.engine.Snapshot().Timer.RemainingSeconds)
}

func TestMalformedTimedExerciseFinishesImmediately(t *testing.T) {
	h := newHarness(t, workout(section("main", timed("Broken", 1, 0, 0), reps("Squats", 1, "10", 5))))
	h.run(h.engine.Start())
	assert.Equal(t, pos(0, 0, 0, PhaseResting), h.engine.Position())
}

func TestCompletionSummaryMatchesMetrics(t *testing.T) {
	def := workout(section("main", timed("Plank", 1, 120, 0)))
	h := newHarness(t, def)
	h.run(h.engine.Start())
	h.run(h.engine.Advance())

	require.Len(t, h.completions(), 1)
	want := metrics.New(metrics.DefaultConfig()).Summarize(def)
	assert.Equal(t, want, h.completions()[0].Summary)
	assert.Equal(t, 120, want.EstimatedDurationSeconds)
	assert.Equal(t, 20, want.XPEarned)

	got, ok := h.engine.Summary()
	assert.True(t, ok)
	assert.Equal(t, want, got)

	// nothing moves after completion
	h.advanceClock(10 * time.Second)
	assert.Nil(t, h.engine.Advance())
	assert.Len(t, h.completions(), 1)
}

func TestTraversalVisitsEverySetInOrder(t *testing.T) {
	defs := []models.WorkoutDefinition{
		workout(section("main", reps("A", 3, "10", 30))),
		workout(
			section("warmup", timed("Jacks", 1, 30, 0)),
			section("empty"),
			section("main", reps("A", 2, "8", 60), timed("B", 3, 40, 20), reps("C", 0, "AMRAP", -5)),
			section("cooldown", timed("Stretch", 2, 30, 0)),
		),
		workout(section("x", reps("A", 1, "", 10), reps("B", 1, "5", 10))),
		workout(section("x", reps("A", 2, "5", 0), reps("B", 1, "5", 45)), section("y", timed("C", 2, 20, 10))),
	}

	for _, def := range defs {
		h := newHarness(t, def)
		h.run(h.engine.Start())

		var visited []Position
		var expected []Position
		transitions := 0
		for si, s := range def.Sections {
			for ei, ex := range s.Exercises {
				for set := 0; set < ex.Sets(); set++ {
					expected = append(expected, pos(si, ei, set, PhasePerforming))
				}
			}
		}

		// one step per unit plus one per non-zero rest between units
		steps := len(expected)
		for i := 1; i < len(expected); i++ {
			prev, next := expected[i-1], expected[i]
			rest := def.Sections[prev.SectionIndex].Exercises[prev.ExerciseIndex].Rest()
			if next.SetIndex == 0 {
				rest = def.Sections[next.SectionIndex].Exercises[next.ExerciseIndex].Rest()
			}
			if rest > 0 {
				steps++
			}
		}

		for step := 0; step < 200 && !h.engine.Position().Phase.Terminal(); step++ {
			p := h.engine.Position()
			if p.Phase == PhasePerforming {
				visited = append(visited, p)
			}
			h.run(h.engine.Advance())
			transitions++
		}

		assert.Equal(t, expected, visited, def.Sections)
		assert.Equal(t, PhaseCompleted, h.engine.Position().Phase)
		assert.Len(t, h.completions(), 1)
		assert.Equal(t, def.SetCount(), h.engine.Snapshot().SetsDone)
		assert.Equal(t, steps, transitions)
	}
}

func TestAnnouncementsPerPhase(t *testing.T) {
	h := newHarness(t, workout(section("main", reps("Squats", 2, "12", 30), timed("Plank", 1, 45, 20))))
	h.run(h.engine.Start())
	h.run(h.engine.Advance())
	h.run(h.engine.Advance())
	h.run(h.engine.Advance())
	h.run(h.engine.Advance())

	assert.Equal(t, []string{
		"Squats. 2 sets. Set 1, 12 reps.",
		"Rest 30 seconds. Next, set 2 of Squats.",
		"Set 2 of 2. Squats, 12 reps.",
		"Rest 20 seconds. Next up, Plank.",
		"Plank. 45 seconds.",
	}, h.voice.Spoken())
}

func TestSilentSessionStillRuns(t *testing.T) {
	e := New(workout(section("main", reps("Squats", 1, "10", 0))), nil, Options{Clock: testutil.NewManualClock()})
	testutil.Drain(e.Start(), e.Update)
	assert.False(t, e.Snapshot().Speaking)
	testutil.Drain(e.Advance(), e.Update)
	assert.Equal(t, PhaseCompleted, e.Position().Phase)
}
