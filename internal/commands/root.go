package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/config"
	"github.com/balkashynov/grind/internal/db"
	"github.com/balkashynov/grind/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "grind",
	Short: "A terminal workout runner",
	Long: `grind runs workouts in the terminal: timed sets and rests, spoken cues,
background music and XP rewards for every completed session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		if err := logging.Configure(logging.Config{
			Level: cfg.Log.Level,
			Debug: debug,
			File:  cfg.Log.File,
		}); err != nil {
			return err
		}
		log := logging.WithComponent("cli")
		log.Debug().Str("command", cmd.Name()).Str("version", version).Msg("starting")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		db.Close()
		logging.Close()
	},
}

// initDB opens the database configured for this run
func initDB() error {
	if err := db.Initialize(cfg.Database.Path); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return nil
}

// withDB wraps a command function to initialize the database first
func withDB(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := initDB(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fn(cmd, args)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.grind/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logs")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
