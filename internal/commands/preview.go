package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/metrics"
	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
)

var previewCmd = &cobra.Command{
	Use:   "preview <workout-file>",
	Short: "Show the estimated duration and rewards of a workout",
	Long: `Show the exercise breakdown, estimated duration, XP and attribute
distribution of a workout file without running it. The numbers are the same
ones a completed session records.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		parsed, err := parser.LoadWorkout(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		p := buildPreview(parsed, metrics.New(cfg.MetricsConfig()))
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(p); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}
		printPreview(os.Stdout, p)
	},
}

type previewExercise struct {
	Section     string `json:"section"`
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Target      string `json:"target"`
	SetSeconds  int    `json:"set_seconds"`
	RestSeconds int    `json:"rest_seconds"`
	Seconds     int    `json:"seconds"`
}

type workoutPreview struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Difficulty models.Difficulty     `json:"difficulty"`
	Tags       []string              `json:"tags"`
	Exercises  []previewExercise     `json:"exercises"`
	Summary    models.SessionSummary `json:"summary"`
	Warnings   []string              `json:"warnings,omitempty"`
}

func buildPreview(parsed *parser.ParsedWorkout, engine *metrics.Engine) workoutPreview {
	w := parsed.Workout
	p := workoutPreview{
		ID:         w.ID,
		Title:      w.Title,
		Difficulty: w.Difficulty,
		Tags:       w.Tags,
		Summary:    engine.Summarize(w),
		Warnings:   parsed.Warnings,
	}
	for _, s := range w.Sections {
		for _, ex := range s.Exercises {
			p.Exercises = append(p.Exercises, previewExercise{
				Section:     s.Name,
				Name:        ex.Name,
				Sets:        ex.Sets(),
				Target:      ex.Target(),
				SetSeconds:  engine.SetSeconds(ex),
				RestSeconds: ex.Rest(),
				Seconds:     engine.ExerciseSeconds(ex),
			})
		}
	}
	return p
}

func printPreview(out io.Writer, p workoutPreview) {
	fmt.Fprintf(out, "%s (%s)\n", p.Title, p.Difficulty)
	if len(p.Tags) > 0 {
		fmt.Fprintf(out, "Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%-14s %-24s %4s %-12s %6s %6s %8s\n", "SECTION", "EXERCISE", "SETS", "TARGET", "SET", "REST", "TOTAL")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for _, ex := range p.Exercises {
		fmt.Fprintf(out, "%-14s %-24s %4d %-12s %6s %6s %8s\n",
			clip(ex.Section, 14),
			clip(ex.Name, 24),
			ex.Sets,
			clip(ex.Target, 12),
			parser.FormatSeconds(ex.SetSeconds),
			parser.FormatSeconds(ex.RestSeconds),
			parser.FormatSeconds(ex.Seconds))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Estimated duration: %s\n", parser.FormatSeconds(p.Summary.EstimatedDurationSeconds))
	fmt.Fprintf(out, "XP: %d\n", p.Summary.XPEarned)
	for _, attr := range models.Attributes {
		if xp, ok := p.Summary.AttributeDistribution[attr]; ok {
			fmt.Fprintf(out, "  %-12s %d\n", attr, xp)
		}
	}

	if len(p.Warnings) > 0 {
		fmt.Fprintln(out)
		for _, w := range p.Warnings {
			fmt.Fprintf(out, "⚠️  %s\n", w)
		}
	}
}

// clip truncates s to width
func clip(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func init() {
	previewCmd.Flags().Bool("json", false, "Output as JSON")
}
