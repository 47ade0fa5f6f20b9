package metrics

import (
	"strings"

	"github.com/balkashynov/grind/internal/models"
)

// TagWeights maps a lower-case tag to its partial attribute weight vector
type TagWeights map[string]map[models.Attribute]float64

// DefaultTagWeights returns the built-in tag table
func DefaultTagWeights() TagWeights {
	return TagWeights{
		"strength":     {models.AttrStrength: 2},
		"hypertrophy":  {models.AttrStrength: 2},
		"powerlifting": {models.AttrStrength: 3},
		"calisthenics": {models.AttrStrength: 1, models.AttrAgility: 1},
		"cardio":       {models.AttrCardio: 2},
		"hiit":         {models.AttrCardio: 2, models.AttrAgility: 1},
		"running":      {models.AttrCardio: 2},
		"endurance":    {models.AttrCardio: 1, models.AttrStrength: 1},
		"plyometrics":  {models.AttrAgility: 2, models.AttrCardio: 1},
		"agility":      {models.AttrAgility: 2},
		"mobility":     {models.AttrFlexibility: 2},
		"stretching":   {models.AttrFlexibility: 2},
		"yoga":         {models.AttrFlexibility: 2, models.AttrMind: 1},
		"pilates":      {models.AttrFlexibility: 1, models.AttrStrength: 1, models.AttrMind: 1},
		"balance":      {models.AttrAgility: 1, models.AttrMind: 1},
		"core":         {models.AttrStrength: 1},
		"meditation":   {models.AttrMind: 2},
		"breathwork":   {models.AttrMind: 2},
	}
}

// Merge returns a copy of t with every tag in overrides replacing the built-in entry
func (t TagWeights) Merge(overrides TagWeights) TagWeights {
	out := make(TagWeights, len(t)+len(overrides))
	for tag, weights := range t {
		out[tag] = weights
	}
	for tag, weights := range overrides {
		out[normalizeTag(tag)] = weights
	}
	return out
}

// Lookup returns the weight vector for a tag, ignoring case and surrounding space
func (t TagWeights) Lookup(tag string) (map[models.Attribute]float64, bool) {
	w, ok := t[normalizeTag(tag)]
	return w, ok
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
