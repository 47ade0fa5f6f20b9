package models

import (
	"time"

	"gorm.io/gorm"
)

// Completion is the persisted record of a finished workout session
type Completion struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SessionID    string    `gorm:"uniqueIndex;not null" json:"session_id"`
	WorkoutID    string    `gorm:"index;not null" json:"workout_id"`
	WorkoutTitle string    `json:"workout_title"`
	Difficulty   string    `json:"difficulty"`
	StartedAt    time.Time `gorm:"not null" json:"started_at"`
	FinishedAt   time.Time `gorm:"not null" json:"finished_at"`

	ElapsedSeconds           int `json:"elapsed_seconds"` // wall clock
	EstimatedDurationSeconds int `json:"estimated_duration_seconds"`
	XPEarned                 int `json:"xp_earned"`

	Strength    int `json:"strength"`
	Cardio      int `json:"cardio"`
	Flexibility int `json:"flexibility"`
	Agility     int `json:"agility"`
	Mind        int `json:"mind"`
}

// NewCompletion builds the record for a finished session
func NewCompletion(sessionID string, w WorkoutDefinition, s SessionSummary, started, finished time.Time) Completion {
	c := Completion{
		SessionID:                sessionID,
		WorkoutID:                w.ID,
		WorkoutTitle:             w.Title,
		Difficulty:               string(w.Difficulty),
		StartedAt:                started,
		FinishedAt:               finished,
		ElapsedSeconds:           int(finished.Sub(started).Seconds()),
		EstimatedDurationSeconds: s.EstimatedDurationSeconds,
		XPEarned:                 s.XPEarned,
	}
	for attr, xp := range s.AttributeDistribution {
		switch attr {
		case AttrStrength:
			c.Strength = xp
		case AttrCardio:
			c.Cardio = xp
		case AttrFlexibility:
			c.Flexibility = xp
		case AttrAgility:
			c.Agility = xp
		case AttrMind:
			c.Mind = xp
		}
	}
	return c
}

// Distribution returns the non-zero attribute rewards of the record
func (c Completion) Distribution() map[Attribute]int {
	all := map[Attribute]int{
		AttrStrength:    c.Strength,
		AttrCardio:      c.Cardio,
		AttrFlexibility: c.Flexibility,
		AttrAgility:     c.Agility,
		AttrMind:        c.Mind,
	}
	out := make(map[Attribute]int)
	for attr, xp := range all {
		if xp != 0 {
			out[attr] = xp
		}
	}
	return out
}
