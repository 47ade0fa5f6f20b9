// Package speech announces exercises through a text-to-speech engine.
package speech

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Voice is a text-to-speech engine. Speak blocks until the utterance has
// finished or ctx is cancelled.
type Voice interface {
	Available() bool
	Speak(ctx context.Context, text string) error
}

// DoneMsg reports the end of an utterance
type DoneMsg struct {
	ID  int
	Err error
}

// Cue speaks one announcement at a time. Starting a new announcement cancels
// the one in progress. If the voice is missing or unavailable Announce does
// nothing and the cue never becomes active.
type Cue struct {
	voice     Voice
	log       zerolog.Logger
	id        int
	active    bool
	text      string
	cancel    context.CancelFunc
	observers []func(active bool)
}

// NewCue creates a cue; voice may be nil
func NewCue(voice Voice, log zerolog.Logger) *Cue {
	return &Cue{voice: voice, log: log}
}

// OnActiveChange registers fn to be called synchronously on every
// active/inactive transition
func (c *Cue) OnActiveChange(fn func(active bool)) {
	c.observers = append(c.observers, fn)
}

// Active reports whether an utterance is in progress
func (c *Cue) Active() bool {
	return c.active
}

// Text returns the text of the current utterance, empty when idle
func (c *Cue) Text() string {
	if !c.active {
		return ""
	}
	return c.text
}

// Announce cancels anything being spoken and starts speaking text
func (c *Cue) Announce(text string) tea.Cmd {
	if c.voice == nil || !c.voice.Available() || text == "" {
		return nil
	}
	c.stop()

	ctx, cancel := context.WithCancel(context.Background())
	c.id++
	c.cancel = cancel
	c.text = text
	c.setActive(true)

	id, voice := c.id, c.voice
	return func() tea.Msg {
		err := voice.Speak(ctx, text)
		return DoneMsg{ID: id, Err: err}
	}
}

// Cancel stops the current utterance, if any
func (c *Cue) Cancel() {
	c.stop()
	c.setActive(false)
}

// Update handles the completion of an utterance. Completions of utterances
// that were cancelled or replaced are ignored.
func (c *Cue) Update(msg tea.Msg) {
	done, ok := msg.(DoneMsg)
	if !ok || done.ID != c.id || !c.active {
		return
	}
	if done.Err != nil && !errors.Is(done.Err, context.Canceled) {
		c.log.Warn().Err(done.Err).Str("text", c.text).Msg("speech failed")
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.setActive(false)
}

func (c *Cue) stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Cue) setActive(active bool) {
	if c.active == active {
		return
	}
	c.active = active
	for _, fn := range c.observers {
		fn(active)
	}
}
