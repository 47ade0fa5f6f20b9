// Package countdown implements a per-phase countdown that ticks on the
// bubbletea event loop.
//
// A Timer never touches wall-clock time directly: every second is a message
// scheduled through a Clock, so tests can drive it with a manual clock. Each
// Timer carries the ID of the phase that created it and a tag that changes on
// every start, pause and resume; ticks that do not match both are dropped,
// which keeps a paused, restarted or replaced timer from being advanced by a
// tick that was already in flight.
package countdown

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// PulseSeconds is how many final seconds get a feedback pulse
const PulseSeconds = 5

// Clock schedules a message on the host loop after d
type Clock interface {
	Tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
}

// TeaClock is the real clock backed by tea.Tick
type TeaClock struct{}

// Tick implements Clock
func (TeaClock) Tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return tea.Tick(d, fn)
}

// Pulser receives the cosmetic feedback pulses of the final seconds.
// final is true for the pulse at zero.
type Pulser interface {
	Pulse(remaining int, final bool)
}

// TickMsg advances a timer by one second
type TickMsg struct {
	ID  uint64
	Tag int
}

// ExpiredMsg is emitted exactly once when a timer reaches zero or is skipped
type ExpiredMsg struct {
	ID      uint64
	Skipped bool
}

// State is a read-only view of a timer
type State struct {
	TotalSeconds     int
	RemainingSeconds int
	Running          bool
}

// Progress returns the elapsed fraction in [0,1]
func (s State) Progress() float64 {
	if s.TotalSeconds <= 0 {
		return 1
	}
	p := 1 - float64(s.RemainingSeconds)/float64(s.TotalSeconds)
	if p < 0 {
		return 0
	}
	return p
}

// Timer counts down whole seconds
type Timer struct {
	id       uint64
	tag      int
	total    int
	remain   int
	running  bool
	expired  bool
	clock    Clock
	pulser   Pulser
	interval time.Duration
}

// New creates a stopped timer owned by phase id. pulser may be nil.
func New(id uint64, clock Clock, pulser Pulser) *Timer {
	if clock == nil {
		clock = TeaClock{}
	}
	return &Timer{id: id, clock: clock, pulser: pulser, interval: time.Second}
}

// ID returns the phase ID the timer belongs to
func (t *Timer) ID() uint64 {
	return t.id
}

// State returns the current timer state
func (t *Timer) State() State {
	return State{TotalSeconds: t.total, RemainingSeconds: t.remain, Running: t.running}
}

// Expired reports whether the completion has already been emitted
func (t *Timer) Expired() bool {
	return t.expired
}

// Start (re)starts the countdown from totalSeconds. Restarting resets all
// state. A non-positive total expires immediately.
func (t *Timer) Start(totalSeconds int) tea.Cmd {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	t.tag++
	t.total = totalSeconds
	t.remain = totalSeconds
	t.expired = false
	if totalSeconds == 0 {
		t.running = false
		return t.expire(false)
	}
	t.running = true
	return t.tick()
}

// Pause stops ticking without touching the remaining time
func (t *Timer) Pause() {
	if !t.running {
		return
	}
	t.running = false
	t.tag++
}

// Resume continues a paused countdown
func (t *Timer) Resume() tea.Cmd {
	if t.running || t.expired || t.remain <= 0 {
		return nil
	}
	t.running = true
	t.tag++
	return t.tick()
}

// Toggle pauses a running timer or resumes a paused one
func (t *Timer) Toggle() tea.Cmd {
	if t.running {
		t.Pause()
		return nil
	}
	return t.Resume()
}

// Extend adds seconds to both remaining and total time, leaving the running state alone
func (t *Timer) Extend(seconds int) {
	if seconds <= 0 || t.expired {
		return
	}
	t.remain += seconds
	t.total += seconds
}

// Skip forces the remaining time to zero and emits the completion
func (t *Timer) Skip() tea.Cmd {
	if t.expired {
		return nil
	}
	t.running = false
	t.remain = 0
	t.tag++
	return t.expire(true)
}

// Update handles tick messages addressed to this timer
func (t *Timer) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != t.id || tick.Tag != t.tag || !t.running {
		return nil
	}

	t.remain--
	if t.remain <= 0 {
		t.remain = 0
		t.running = false
		if t.pulser != nil {
			t.pulser.Pulse(0, true)
		}
		return t.expire(false)
	}
	if t.remain <= PulseSeconds && t.pulser != nil {
		t.pulser.Pulse(t.remain, false)
	}
	return t.tick()
}

func (t *Timer) tick() tea.Cmd {
	id, tag := t.id, t.tag
	return t.clock.Tick(t.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, Tag: tag}
	})
}

func (t *Timer) expire(skipped bool) tea.Cmd {
	t.expired = true
	id := t.id
	return func() tea.Msg {
		return ExpiredMsg{ID: id, Skipped: skipped}
	}
}
