package testutil

import (
	"context"
	"sync"
)

// FakeVoice records announcements. With Hold set, Speak blocks until the
// context is cancelled, like an utterance that never finishes on its own.
type FakeVoice struct {
	mu          sync.Mutex
	Unavailable bool
	Hold        bool
	Err         error
	spoken      []string
}

// Available implements speech.Voice
func (v *FakeVoice) Available() bool {
	return !v.Unavailable
}

// Speak implements speech.Voice
func (v *FakeVoice) Speak(ctx context.Context, text string) error {
	v.mu.Lock()
	v.spoken = append(v.spoken, text)
	hold, err := v.Hold, v.Err
	v.mu.Unlock()
	if hold {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

// Spoken returns every text passed to Speak
func (v *FakeVoice) Spoken() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.spoken...)
}

// FakePlayer records what a music player was asked to do. Play blocks until
// the context is cancelled or Finish is called.
type FakePlayer struct {
	mu       sync.Mutex
	tracks   []string
	volumes  []int
	paused   bool
	finished chan struct{}
}

// NewFakePlayer creates a player fake
func NewFakePlayer() *FakePlayer {
	return &FakePlayer{finished: make(chan struct{}, 1)}
}

// Play implements audio.Player
func (p *FakePlayer) Play(ctx context.Context, track string, volume int) error {
	p.mu.Lock()
	p.tracks = append(p.tracks, track)
	p.volumes = append(p.volumes, volume)
	p.mu.Unlock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.finished:
		return nil
	}
}

// SetVolume implements audio.Player
func (p *FakePlayer) SetVolume(volume int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumes = append(p.volumes, volume)
	return nil
}

// SetPaused implements audio.Player
func (p *FakePlayer) SetPaused(paused bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = paused
	return nil
}

// Finish ends the track currently blocked in Play
func (p *FakePlayer) Finish() {
	p.finished <- struct{}{}
}

// Tracks returns every track passed to Play
func (p *FakePlayer) Tracks() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.tracks...)
}

// Volume returns the last volume the player was set to, -1 if never set
func (p *FakePlayer) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.volumes) == 0 {
		return -1
	}
	return p.volumes[len(p.volumes)-1]
}

// Paused reports the last pause state
func (p *FakePlayer) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}
