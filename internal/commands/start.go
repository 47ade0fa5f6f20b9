package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/audio"
	"github.com/balkashynov/grind/internal/db"
	"github.com/balkashynov/grind/internal/logging"
	"github.com/balkashynov/grind/internal/metrics"
	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
	"github.com/balkashynov/grind/internal/session"
	"github.com/balkashynov/grind/internal/speech"
	"github.com/balkashynov/grind/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [workout-file]",
	Short: "Start a workout session",
	Long: `Start a workout session. Without a file, pick one from the workouts directory.

Examples:
  grind start                       # Pick a workout interactively
  grind start legs.yaml             # Run a workout file
  grind start legs.yaml --no-music  # Run without background music`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		noVoice, _ := cmd.Flags().GetBool("no-voice")
		noMusic, _ := cmd.Flags().GetBool("no-music")
		volume, _ := cmd.Flags().GetInt("volume")

		engine := metrics.New(cfg.MetricsConfig())

		var path string
		var parsed *parser.ParsedWorkout
		if len(args) == 1 {
			path = args[0]
			p, err := parser.LoadWorkout(path)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			parsed = p
		} else {
			entries, err := discoverWorkouts(cfg.Session.WorkoutsDir, engine)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			entry, ok, err := tui.RunPickerTUI(entries)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			if !ok {
				return
			}
			path = entry.Path
			parsed = &parser.ParsedWorkout{Workout: entry.Workout, Warnings: entry.Warnings}
		}

		log := logging.WithComponent("session")
		for _, w := range parsed.Warnings {
			log.Warn().Str("file", path).Msg(w)
		}

		if !cmd.Flags().Changed("volume") {
			volume = cfg.Audio.Volume
		}
		if err := runSession(parsed.Workout, path, engine, sessionFlags{
			noVoice: noVoice,
			noMusic: noMusic,
			volume:  volume,
		}); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	},
}

type sessionFlags struct {
	noVoice bool
	noMusic bool
	volume  int
}

func runSession(def models.WorkoutDefinition, path string, me *metrics.Engine, flags sessionFlags) error {
	voiceEngine := cfg.Speech.Engine
	if flags.noVoice {
		voiceEngine = "none"
	}
	cue := speech.NewCue(speech.Detect(voiceEngine), logging.WithComponent("speech"))

	var music *audio.Channel
	if !flags.noMusic {
		player := audio.Detect(cfg.Audio.Player)
		music = audio.NewChannel(player, resolveTracks(def.AudioPlaylist, filepath.Dir(path)), flags.volume, logging.WithComponent("audio"))
	}

	// A broken database must not cost the workout; saving is retried from the summary
	recorder := func(c *models.Completion) error {
		if db.DB == nil {
			if err := initDB(); err != nil {
				return err
			}
		}
		return db.RecordCompletion(c)
	}
	if err := initDB(); err != nil {
		log := logging.WithComponent("db")
		log.Error().Err(err).Msg("database unavailable, completion will not be saved until retried")
	}

	flash := tui.NewFlash(os.Stderr)
	engine := session.New(def, cue, session.Options{
		Pulser:  flash,
		Metrics: me,
		Log:     logging.WithComponent("session"),
	})

	return tui.RunSessionTUI(tui.SessionOptions{
		Engine:        engine,
		Cue:           cue,
		Music:         music,
		Flash:         flash,
		Recorder:      recorder,
		ExtendSeconds: cfg.Session.ExtendSeconds,
		Log:           logging.WithComponent("tui"),
	})
}

// resolveTracks makes relative playlist entries relative to the workout file
func resolveTracks(tracks []string, dir string) []string {
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if strings.Contains(t, "://") || filepath.IsAbs(t) {
			out = append(out, t)
			continue
		}
		out = append(out, filepath.Join(dir, t))
	}
	return out
}

// discoverWorkouts parses every workout file in dir, keeping broken files as
// entries with their error
func discoverWorkouts(dir string, me *metrics.Engine) ([]tui.PickerEntry, error) {
	if dir == "" {
		return nil, fmt.Errorf("no workouts directory configured")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("workouts directory %s: %w", dir, err)
	}

	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	entries := make([]tui.PickerEntry, 0, len(paths))
	for _, p := range paths {
		parsed, err := parser.LoadWorkout(p)
		if err != nil {
			entries = append(entries, tui.PickerEntry{Path: p, Err: err})
			continue
		}
		entries = append(entries, tui.PickerEntry{
			Path:     p,
			Workout:  parsed.Workout,
			Summary:  me.Summarize(parsed.Workout),
			Warnings: parsed.Warnings,
		})
	}
	return entries, nil
}

func init() {
	startCmd.Flags().Bool("no-voice", false, "Do not speak announcements")
	startCmd.Flags().Bool("no-music", false, "Do not play the workout playlist")
	startCmd.Flags().Int("volume", 60, "Music volume 0-100 (default from config)")
}
