package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const flashInterval = 150 * time.Millisecond

// flashTickMsg advances the flash animation started with generation gen
type flashTickMsg struct{ gen int }

// Flash receives the countdown pulses of the final seconds and turns them
// into a short highlight of the big clock plus a terminal bell. The pulse at
// zero flashes twice.
type Flash struct {
	mu      sync.Mutex
	frames  int
	gen     int
	pending bool
	bell    io.Writer
}

// NewFlash creates a flash; bell may be nil to stay silent
func NewFlash(bell io.Writer) *Flash {
	return &Flash{bell: bell}
}

// Pulse implements countdown.Pulser
func (f *Flash) Pulse(remaining int, final bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rings := 1
	f.frames = 1
	if final {
		rings = 2
		f.frames = 3
	}
	f.pending = true
	if f.bell != nil {
		for i := 0; i < rings; i++ {
			f.bell.Write([]byte("\a"))
		}
	}
}

// Lit reports whether the clock should be drawn highlighted
func (f *Flash) Lit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames%2 == 1
}

// Cmd starts the animation for a pulse that has not been picked up yet
func (f *Flash) Cmd() tea.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.pending {
		return nil
	}
	f.pending = false
	f.gen++
	return flashTick(f.gen)
}

// step advances the animation, returning the next tick while frames remain.
// Ticks of an animation that a newer pulse replaced are ignored.
func (f *Flash) step(msg flashTickMsg) tea.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.gen != f.gen {
		return nil
	}
	if f.frames > 0 {
		f.frames--
	}
	if f.frames == 0 {
		return nil
	}
	return flashTick(f.gen)
}

func flashTick(gen int) tea.Cmd {
	return tea.Tick(flashInterval, func(time.Time) tea.Msg {
		return flashTickMsg{gen: gen}
	})
}
