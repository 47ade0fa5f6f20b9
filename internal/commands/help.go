package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for grind",
	Long:  `Display detailed help for all grind commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
 ██████╗ ██████╗ ██╗███╗   ██╗██████╗
██╔════╝ ██╔══██╗██║████╗  ██║██╔══██╗
██║  ███╗██████╔╝██║██╔██╗ ██║██║  ██║
██║   ██║██╔══██╗██║██║╚██╗██║██║  ██║
╚██████╔╝██║  ██║██║██║ ╚████║██████╔╝
 ╚═════╝ ╚═╝  ╚═╝╚═╝╚═╝  ╚═══╝╚═════╝

grind - terminal workout runner

COMMANDS:

  start [file]            Run a workout (pick one interactively without a file)
    --no-voice            Do not speak announcements
    --no-music            Do not play the workout playlist
    --volume              Music volume 0-100

    Session keys:
      space/enter   Done with the set / skip the rest
      s             Skip rest
      +             Extend rest
      p             Pause/resume the timer
      m             Mute/unmute music
      n/b           Next/previous track
      [ / ]         Music volume down/up
      r             Retry saving a completed workout
      ?             All keys
      q/esc         Abandon the workout (nothing is recorded)

  preview <file>          Estimated duration, XP and attributes of a workout
    --json                JSON output

  history                 List completed workouts
    -n, --limit           Number of entries (0 for all)

  stats                   Weekly XP per attribute
    --week-offset         -1 for last week, -2 for the week before, ...

  version                 Print version information
  help                    Show this help

GLOBAL FLAGS:
  --config                Config file (default ~/.grind/config.yaml)
  --debug                 Write debug logs to the log file

WORKOUT FILES:

  title: Leg Day
  difficulty: intermediate        # beginner | intermediate | advanced
  tags: [strength, hypertrophy]
  playlist: [music/warmup.mp3]
  sections:
    - name: Main
      exercises:
        - name: Squats
          sets: 3
          reps: "12"
          rest: 60s
        - name: Wall sit
          duration: 45s           # timed exercise
          rest: 30

`)
}
