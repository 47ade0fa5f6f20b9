// Package testutil holds deterministic stand-ins for the clock, voice engine
// and music player, plus helpers to run bubbletea commands synchronously.
package testutil

import (
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ManualClock schedules ticks that only fire when Advance is called
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []pendingTick
}

type pendingTick struct {
	at  time.Time
	seq int
	fn  func(time.Time) tea.Msg
}

// NewManualClock creates a clock starting at a fixed instant
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2025, 1, 6, 7, 0, 0, 0, time.UTC)}
}

// Tick registers fn to fire d after the current fake time. The returned
// command yields nothing; the message is produced by Advance.
func (c *ManualClock) Tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.pending = append(c.pending, pendingTick{at: c.now.Add(d), seq: c.seq, fn: fn})
	return nil
}

// Advance moves fake time forward and returns the messages of every tick that became due
func (c *ManualClock) Advance(d time.Duration) []tea.Msg {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due, rest []pendingTick
	for _, p := range c.pending {
		if !p.at.After(c.now) {
			due = append(due, p)
		} else {
			rest = append(rest, p)
		}
	}
	c.pending = rest
	now := c.now
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	msgs := make([]tea.Msg, 0, len(due))
	for _, p := range due {
		msgs = append(msgs, p.fn(now))
	}
	return msgs
}

// Pending returns how many ticks are waiting
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Now returns the fake time
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
