package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/db"
	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show weekly XP per attribute",
	Long: `Show a weekly sheet of XP earned per attribute and day.

Example output:
  Attribute       Mon  Tue  Wed  Thu  Fri  Sat  Sun  Total
  strength         30    -   45    -    -    -    -     75
  cardio            -   20    -    -    -    -    -     20
  Total            30   20   45    0    0    0    0     95`,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		offset, _ := cmd.Flags().GetInt("week-offset")
		if err := printWeeklyStats(time.Now(), offset); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

// printWeeklyStats displays the sheet for the week offset weeks away from now
func printWeeklyStats(now time.Time, offset int) error {
	weekStart := getWeekStart(now).AddDate(0, 0, 7*offset)
	weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Second) // End of Sunday

	completions, err := db.GetCompletionsInRange(weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}

	if len(completions) == 0 {
		fmt.Printf("No workouts in the week of %s.\n", weekStart.Format("Jan 2, 2006"))
		return nil
	}

	sheet := weeklySheet(completions)

	dayNames := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	nameWidth := 14
	dayColumnWidth := 5
	totalColumnWidth := 7

	fmt.Printf("%-*s", nameWidth, "Attribute")
	for _, name := range dayNames {
		fmt.Printf("  %*s", dayColumnWidth-2, name)
	}
	fmt.Printf("  %*s\n", totalColumnWidth-2, "Total")
	printSheetSeparator(nameWidth, dayColumnWidth, totalColumnWidth)

	var dayTotals [7]int
	grandTotal := 0
	for _, attr := range models.Attributes {
		row := sheet[attr]
		rowTotal := 0
		for _, xp := range row {
			rowTotal += xp
		}
		if rowTotal == 0 {
			continue
		}

		fmt.Printf("%-*s", nameWidth, attr)
		for day, xp := range row {
			if xp > 0 {
				fmt.Printf("  %*d", dayColumnWidth-2, xp)
			} else {
				fmt.Printf("  %*s", dayColumnWidth-2, "-")
			}
			dayTotals[day] += xp
		}
		fmt.Printf("  %*d\n", totalColumnWidth-2, rowTotal)
		grandTotal += rowTotal
	}

	printSheetSeparator(nameWidth, dayColumnWidth, totalColumnWidth)
	fmt.Printf("%-*s", nameWidth, "Total")
	for _, total := range dayTotals {
		fmt.Printf("  %*d", dayColumnWidth-2, total)
	}
	fmt.Printf("  %*d\n", totalColumnWidth-2, grandTotal)

	totals := db.Sum(completions)
	fmt.Printf("\n%d workout(s), %s trained, %d XP earned\n", totals.Sessions, parser.FormatSeconds(totals.Seconds), totals.XP)
	fmt.Printf("Week of %s to %s\n",
		weekStart.Format("Jan 2"),
		weekStart.AddDate(0, 0, 6).Format("Jan 2, 2006"))
	return nil
}

// weeklySheet groups attribute XP by weekday, Monday first
func weeklySheet(completions []models.Completion) map[models.Attribute][7]int {
	sheet := make(map[models.Attribute][7]int)
	for _, c := range completions {
		day := (int(c.FinishedAt.Local().Weekday()) + 6) % 7 // Monday=0
		for attr, xp := range c.Distribution() {
			row := sheet[attr]
			row[day] += xp
			sheet[attr] = row
		}
	}
	return sheet
}

func printSheetSeparator(nameWidth, dayColumnWidth, totalColumnWidth int) {
	fmt.Print(strings.Repeat("-", nameWidth))
	for i := 0; i < 7; i++ {
		fmt.Print("  " + strings.Repeat("-", dayColumnWidth-2))
	}
	fmt.Print("  " + strings.Repeat("-", totalColumnWidth-2))
	fmt.Println()
}

// getWeekStart returns the start of the calendar week (Monday) for the given time
func getWeekStart(t time.Time) time.Time {
	weekday := t.Weekday()
	daysFromMonday := int(weekday - time.Monday)
	if weekday == time.Sunday {
		daysFromMonday = 6 // Sunday is 6 days from Monday
	}

	weekStart := t.AddDate(0, 0, -daysFromMonday)
	// Set to start of day
	return time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
}

// attributeOrder returns the attributes present in dist in display order
func attributeOrder(dist map[models.Attribute]int) []models.Attribute {
	var out []models.Attribute
	for _, attr := range models.Attributes {
		if _, ok := dist[attr]; ok {
			out = append(out, attr)
		}
	}
	return out
}

func init() {
	statsCmd.Flags().Int("week-offset", 0, "Weeks relative to the current one (-1 for last week)")
}
