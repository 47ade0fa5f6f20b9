// Package audio plays the workout's background playlist and ducks it while a
// voice cue is speaking.
package audio

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// DuckCeiling is the loudest the music may be while speech is active
const DuckCeiling = 20

// Player plays one track at a time. Play blocks until the track ends or ctx
// is cancelled; SetVolume and SetPaused act on the track being played.
type Player interface {
	Play(ctx context.Context, track string, volume int) error
	SetVolume(volume int) error
	SetPaused(paused bool) error
}

// TrackEndedMsg reports that a track stopped playing
type TrackEndedMsg struct {
	Gen int
	Err error
}

// Channel is a looping playlist with user volume, mute and ducking
type Channel struct {
	player   Player
	playlist []string
	log      zerolog.Logger

	index   int
	volume  int
	muted   bool
	ducked  bool
	playing bool
	loaded  bool // a track is loaded in the player, possibly paused

	gen    int
	cancel context.CancelFunc
}

// NewChannel creates a channel over playlist at the given user volume
func NewChannel(player Player, playlist []string, volume int, log zerolog.Logger) *Channel {
	return &Channel{
		player:   player,
		playlist: append([]string(nil), playlist...),
		volume:   clampVolume(volume),
		log:      log,
	}
}

// Inert reports whether there is nothing to play
func (c *Channel) Inert() bool {
	return len(c.playlist) == 0 || c.player == nil
}

// Playing reports whether music is currently audible (not paused)
func (c *Channel) Playing() bool { return c.playing }

// Volume returns the user-set volume
func (c *Channel) Volume() int { return c.volume }

// Muted reports whether the channel is muted
func (c *Channel) Muted() bool { return c.muted }

// Ducked reports whether speech is currently lowering the volume
func (c *Channel) Ducked() bool { return c.ducked }

// Track returns the current track reference
func (c *Channel) Track() string {
	if c.Inert() {
		return ""
	}
	return c.playlist[c.index]
}

// Index returns the position of the current track in the playlist
func (c *Channel) Index() int { return c.index }

// Len returns the playlist length
func (c *Channel) Len() int { return len(c.playlist) }

// EffectiveVolume is what the player actually outputs
func (c *Channel) EffectiveVolume() int {
	if c.muted {
		return 0
	}
	if c.ducked && c.volume > DuckCeiling {
		return DuckCeiling
	}
	return c.volume
}

// Play starts the current track, or resumes it when paused
func (c *Channel) Play() tea.Cmd {
	if c.Inert() || c.playing {
		return nil
	}
	if c.loaded {
		c.playing = true
		if err := c.player.SetPaused(false); err != nil {
			c.log.Warn().Err(err).Msg("resume music failed")
		}
		c.applyVolume()
		return nil
	}
	return c.start()
}

// Pause pauses the current track
func (c *Channel) Pause() {
	if c.Inert() || !c.playing {
		return
	}
	c.playing = false
	if err := c.player.SetPaused(true); err != nil {
		c.log.Warn().Err(err).Msg("pause music failed")
	}
}

// Toggle plays or pauses
func (c *Channel) Toggle() tea.Cmd {
	if c.playing {
		c.Pause()
		return nil
	}
	return c.Play()
}

// Next skips to the following track, wrapping after the last one
func (c *Channel) Next() tea.Cmd {
	if c.Inert() {
		return nil
	}
	c.index = (c.index + 1) % len(c.playlist)
	return c.restart()
}

// Previous goes back one track, wrapping before the first one
func (c *Channel) Previous() tea.Cmd {
	if c.Inert() {
		return nil
	}
	c.index = (c.index - 1 + len(c.playlist)) % len(c.playlist)
	return c.restart()
}

// SetVolume sets the user volume, clamped to 0-100
func (c *Channel) SetVolume(volume int) {
	c.volume = clampVolume(volume)
	c.applyVolume()
}

// Mute silences the channel without forgetting the user volume
func (c *Channel) Mute() {
	c.muted = true
	c.applyVolume()
}

// Unmute restores the user volume
func (c *Channel) Unmute() {
	c.muted = false
	c.applyVolume()
}

// SetDucked is wired to the speech cue's active signal
func (c *Channel) SetDucked(ducked bool) {
	if c.ducked == ducked {
		return
	}
	c.ducked = ducked
	c.applyVolume()
}

// Stop ends playback for good
func (c *Channel) Stop() {
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.playing = false
	c.loaded = false
}

// Update advances to the next track when the current one ends
func (c *Channel) Update(msg tea.Msg) tea.Cmd {
	ended, ok := msg.(TrackEndedMsg)
	if !ok || ended.Gen != c.gen || c.Inert() {
		return nil
	}
	c.loaded = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if ended.Err != nil && !errors.Is(ended.Err, context.Canceled) {
		// a broken player would otherwise spin through the playlist
		c.log.Warn().Err(ended.Err).Str("track", c.Track()).Msg("music playback failed")
		c.playing = false
		return nil
	}
	c.index = (c.index + 1) % len(c.playlist)
	if !c.playing {
		return nil
	}
	return c.start()
}

func (c *Channel) restart() tea.Cmd {
	wasPlaying := c.playing
	c.Stop()
	if !wasPlaying {
		return nil
	}
	return c.start()
}

func (c *Channel) start() tea.Cmd {
	c.gen++
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.playing = true
	c.loaded = true

	gen, track, volume, player := c.gen, c.playlist[c.index], c.EffectiveVolume(), c.player
	c.log.Debug().Str("track", track).Int("volume", volume).Msg("playing track")
	return func() tea.Msg {
		return TrackEndedMsg{Gen: gen, Err: player.Play(ctx, track, volume)}
	}
}

func (c *Channel) applyVolume() {
	if c.Inert() || !c.loaded {
		return
	}
	if err := c.player.SetVolume(c.EffectiveVolume()); err != nil {
		c.log.Warn().Err(err).Msg("set music volume failed")
	}
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
