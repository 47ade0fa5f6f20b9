package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/grind/internal/models"
)

// RecordCompletion stores a finished session. A record whose SessionID is
// already stored is left untouched, so retrying a save is safe.
func RecordCompletion(c *models.Completion) error {
	if DB == nil {
		return ErrNotInitialized
	}
	if c.SessionID == "" {
		c.SessionID = uuid.NewString()
	}

	err := DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(c).Error
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}
	return nil
}

// GetCompletions returns the most recent completions first. limit <= 0 means all.
func GetCompletions(limit int) ([]models.Completion, error) {
	if DB == nil {
		return nil, ErrNotInitialized
	}

	var completions []models.Completion
	query := DB.Order("finished_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

// GetCompletionsInRange returns completions finished within [start, end], oldest first
func GetCompletionsInRange(start, end time.Time) ([]models.Completion, error) {
	if DB == nil {
		return nil, ErrNotInitialized
	}

	var completions []models.Completion
	err := DB.Where("finished_at >= ? AND finished_at <= ?", start, end).
		Order("finished_at ASC").
		Find(&completions).Error
	if err != nil {
		return nil, err
	}
	return completions, nil
}

// GetCompletionBySession looks up a completion by its session ID
func GetCompletionBySession(sessionID string) (*models.Completion, error) {
	if DB == nil {
		return nil, ErrNotInitialized
	}

	var c models.Completion
	if err := DB.Where("session_id = ?", sessionID).First(&c).Error; err != nil {
		return nil, fmt.Errorf("completion %s not found", sessionID)
	}
	return &c, nil
}

// Totals sums XP per attribute over the given completions
type Totals struct {
	Sessions int
	Seconds  int
	XP       int
	ByAttr   map[models.Attribute]int
}

// Sum aggregates completions into Totals
func Sum(completions []models.Completion) Totals {
	t := Totals{ByAttr: make(map[models.Attribute]int)}
	for _, c := range completions {
		t.Sessions++
		t.Seconds += c.ElapsedSeconds
		t.XP += c.XPEarned
		for attr, xp := range c.Distribution() {
			t.ByAttr[attr] += xp
		}
	}
	return t
}
