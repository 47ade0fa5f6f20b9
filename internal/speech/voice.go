package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// CommandVoice speaks through a system binary such as say or espeak
type CommandVoice struct {
	path string
	args []string
}

// Available implements Voice
func (v *CommandVoice) Available() bool {
	return v != nil && v.path != ""
}

// Speak implements Voice
func (v *CommandVoice) Speak(ctx context.Context, text string) error {
	args := append(append([]string{}, v.args...), text)
	cmd := exec.CommandContext(ctx, v.path, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", v.path, err)
	}
	return nil
}

// NoVoice is used when speech is disabled
type NoVoice struct{}

// Available implements Voice
func (NoVoice) Available() bool { return false }

// Speak implements Voice
func (NoVoice) Speak(context.Context, string) error { return nil }

var engines = map[string][]string{
	"say":       {"-r", "190"},
	"espeak-ng": {"-s", "165"},
	"espeak":    {"-s", "165"},
	"spd-say":   {"--wait"},
}

// Detect returns a voice for the configured engine. "auto" picks the first
// engine found on PATH; "none" or a missing binary yields NoVoice.
func Detect(engine string) Voice {
	switch engine {
	case "none", "off":
		return NoVoice{}
	case "", "auto":
		candidates := []string{"espeak-ng", "espeak", "spd-say"}
		if runtime.GOOS == "darwin" {
			candidates = []string{"say"}
		}
		for _, name := range candidates {
			if v := lookup(name); v != nil {
				return v
			}
		}
		return NoVoice{}
	default:
		if v := lookup(engine); v != nil {
			return v
		}
		return NoVoice{}
	}
}

func lookup(name string) *CommandVoice {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil
	}
	return &CommandVoice{path: path, args: engines[name]}
}
