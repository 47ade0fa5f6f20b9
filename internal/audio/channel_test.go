package audio

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/grind/internal/speech"
	"github.com/balkashynov/grind/internal/testutil"
)

var playlist = []string{"a.mp3", "b.mp3", "c.mp3"}

func TestChannel_EmptyPlaylistIsInert(t *testing.T) {
	player := testutil.NewFakePlayer()
	c := NewChannel(player, nil, 50, zerolog.Nop())

	assert.True(t, c.Inert())
	assert.Nil(t, c.Play())
	assert.Nil(t, c.Next())
	assert.Nil(t, c.Previous())
	c.SetVolume(10)
	c.SetDucked(true)
	assert.Equal(t, -1, player.Volume(), "inert channel must not touch the player")
	assert.Empty(t, c.Track())
}

func TestChannel_PlayStartsCurrentTrack(t *testing.T) {
	player := testutil.NewFakePlayer()
	c := NewChannel(player, playlist, 70, zerolog.Nop())

	cmd := c.Play()
	require.NotNil(t, cmd)
	assert.True(t, c.Playing())
	assert.Equal(t, "a.mp3", c.Track())

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	player.Finish()
	msg := <-done

	next := c.Update(msg)
	require.NotNil(t, next)
	assert.Equal(t, "b.mp3", c.Track())
	assert.Equal(t, []string{"a.mp3"}, player.Tracks())
}

func TestChannel_WrapsAroundPlaylist(t *testing.T) {
	c := NewChannel(testutil.NewFakePlayer(), playlist, 70, zerolog.Nop())
	c.Play()

	for i := 0; i < 3; i++ {
		c.Update(TrackEndedMsg{Gen: c.gen})
	}
	assert.Equal(t, "a.mp3", c.Track())
	assert.True(t, c.Playing())

	c.Previous()
	assert.Equal(t, "c.mp3", c.Track())
	c.Next()
	assert.Equal(t, "a.mp3", c.Track())
}

func TestChannel_StaleTrackEndIgnored(t *testing.T) {
	c := NewChannel(testutil.NewFakePlayer(), playlist, 70, zerolog.Nop())
	c.Play()
	stale := c.gen
	c.Next()

	assert.Nil(t, c.Update(TrackEndedMsg{Gen: stale, Err: context.Canceled}))
	assert.Equal(t, "b.mp3", c.Track())
}

func TestChannel_PlayerFailureStopsPlayback(t *testing.T) {
	c := NewChannel(testutil.NewFakePlayer(), playlist, 70, zerolog.Nop())
	c.Play()

	assert.Nil(t, c.Update(TrackEndedMsg{Gen: c.gen, Err: errors.New("no such file")}))
	assert.False(t, c.Playing())
}

func TestChannel_PauseAndResume(t *testing.T) {
	player := testutil.NewFakePlayer()
	c := NewChannel(player, playlist, 70, zerolog.Nop())
	c.Play()

	c.Pause()
	assert.False(t, c.Playing())
	assert.True(t, player.Paused())

	assert.Nil(t, c.Play(), "resuming must not start a second player")
	assert.True(t, c.Playing())
	assert.False(t, player.Paused())
}

func TestChannel_VolumeMuteAndDucking(t *testing.T) {
	player := testutil.NewFakePlayer()
	c := NewChannel(player, playlist, 80, zerolog.Nop())
	c.Play()

	c.SetDucked(true)
	assert.Equal(t, DuckCeiling, c.EffectiveVolume())
	assert.Equal(t, DuckCeiling, player.Volume())

	c.SetVolume(10)
	assert.Equal(t, 10, player.Volume(), "quiet music is not raised by ducking")

	c.SetVolume(150)
	assert.Equal(t, DuckCeiling, player.Volume())
	assert.Equal(t, 100, c.Volume())

	c.SetDucked(false)
	assert.Equal(t, 100, player.Volume())

	c.Mute()
	assert.Equal(t, 0, player.Volume())
	c.Unmute()
	assert.Equal(t, 100, player.Volume())

	c.SetVolume(-4)
	assert.Equal(t, 0, c.Volume())
}

func TestChannel_DucksOnEverySpeechTransition(t *testing.T) {
	player := testutil.NewFakePlayer()
	c := NewChannel(player, playlist, 65, zerolog.Nop())
	c.Play()

	voice := &testutil.FakeVoice{}
	cue := speech.NewCue(voice, zerolog.Nop())
	cue.OnActiveChange(c.SetDucked)

	for _, text := range []string{"Squats", "Rest", "Lunges"} {
		cmd := cue.Announce(text)
		assert.LessOrEqual(t, player.Volume(), DuckCeiling, "ducked while %q is spoken", text)

		for _, msg := range testutil.Collect(cmd) {
			cue.Update(msg)
		}
		assert.Equal(t, 65, player.Volume(), "restored after %q", text)
	}

	cue.Announce("Plank")
	cue.Cancel()
	assert.Equal(t, 65, player.Volume())
}

func TestDetect_None(t *testing.T) {
	assert.Nil(t, Detect("none"))
	assert.Equal(t, NullPlayer{}, Detect("null"))
}
