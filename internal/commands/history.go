package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/db"
	"github.com/balkashynov/grind/internal/parser"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"ls"},
	Short:   "List completed workouts",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		completions, err := db.GetCompletions(limit)
		if err != nil {
			fmt.Printf("Error fetching history: %v\n", err)
			return
		}

		if len(completions) == 0 {
			fmt.Println("No workouts completed yet. Use 'grind start' to run your first one.")
			return
		}

		fmt.Printf("%-17s %-32s %-13s %8s %5s  %s\n", "FINISHED", "WORKOUT", "DIFFICULTY", "TOOK", "XP", "ATTRIBUTES")
		fmt.Println(strings.Repeat("-", 96))

		for _, c := range completions {
			var attrs []string
			for _, attr := range attributeOrder(c.Distribution()) {
				attrs = append(attrs, fmt.Sprintf("%s+%d", attr, c.Distribution()[attr]))
			}

			fmt.Printf("%-17s %-32s %-13s %8s %5d  %s\n",
				c.FinishedAt.Local().Format("2006-01-02 15:04"),
				clip(c.WorkoutTitle, 32),
				c.Difficulty,
				parser.FormatSeconds(c.ElapsedSeconds),
				c.XPEarned,
				strings.Join(attrs, " "))
		}
	}),
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of completions to show (0 for all)")
}
