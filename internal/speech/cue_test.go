package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/grind/internal/testutil"
)

type mockVoice struct {
	mock.Mock
}

func (m *mockVoice) Available() bool {
	return m.Called().Bool(0)
}

func (m *mockVoice) Speak(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

func TestCue_AnnounceSpeaksAndFinishes(t *testing.T) {
	voice := &mockVoice{}
	voice.On("Available").Return(true)
	voice.On("Speak", mock.Anything, "Squats. 12 reps").Return(nil).Once()

	cue := NewCue(voice, zerolog.Nop())
	var transitions []bool
	cue.OnActiveChange(func(active bool) { transitions = append(transitions, active) })

	cmd := cue.Announce("Squats. 12 reps")
	require.NotNil(t, cmd)
	assert.True(t, cue.Active())
	assert.Equal(t, "Squats. 12 reps", cue.Text())

	msgs := testutil.Collect(cmd)
	require.Len(t, msgs, 1)
	cue.Update(msgs[0])

	assert.False(t, cue.Active())
	assert.Empty(t, cue.Text())
	assert.Equal(t, []bool{true, false}, transitions)
	voice.AssertExpectations(t)
}

func TestCue_NewAnnouncementReplacesCurrent(t *testing.T) {
	voice := &testutil.FakeVoice{Hold: true}
	cue := NewCue(voice, zerolog.Nop())
	var transitions []bool
	cue.OnActiveChange(func(active bool) { transitions = append(transitions, active) })

	first := cue.Announce("first")
	second := cue.Announce("second")

	// the first utterance was cancelled, so its Speak returns right away
	firstMsgs := testutil.Collect(first)
	require.Len(t, firstMsgs, 1)
	assert.ErrorIs(t, firstMsgs[0].(DoneMsg).Err, context.Canceled)

	cue.Update(firstMsgs[0])
	assert.True(t, cue.Active(), "a stale completion must not end the new utterance")
	assert.Equal(t, "second", cue.Text())
	assert.Equal(t, []bool{true}, transitions)

	cue.Cancel()
	secondMsgs := testutil.Collect(second)
	require.Len(t, secondMsgs, 1)
	cue.Update(secondMsgs[0])
	assert.False(t, cue.Active())
	assert.Equal(t, []bool{true, false}, transitions)
	assert.Equal(t, []string{"first", "second"}, voice.Spoken())
}

func TestCue_UnavailableVoiceIsNoop(t *testing.T) {
	for name, voice := range map[string]Voice{
		"nil":         nil,
		"no voice":    NoVoice{},
		"unavailable": &testutil.FakeVoice{Unavailable: true},
	} {
		t.Run(name, func(t *testing.T) {
			cue := NewCue(voice, zerolog.Nop())
			called := false
			cue.OnActiveChange(func(bool) { called = true })

			assert.Nil(t, cue.Announce("hello"))
			assert.False(t, cue.Active())
			cue.Cancel()
			assert.False(t, called)
		})
	}
}

func TestCue_ErrorEndsUtterance(t *testing.T) {
	voice := &testutil.FakeVoice{Err: errors.New("audio device busy")}
	cue := NewCue(voice, zerolog.Nop())

	msgs := testutil.Collect(cue.Announce("Rest"))
	require.Len(t, msgs, 1)
	cue.Update(msgs[0])

	assert.False(t, cue.Active())
}

func TestDetect_None(t *testing.T) {
	assert.False(t, Detect("none").Available())
	assert.False(t, Detect("definitely-not-a-tts-binary").Available())
}
