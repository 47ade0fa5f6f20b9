package models

// Attribute is one of the five character attributes XP is distributed across
type Attribute string

const (
	AttrStrength    Attribute = "strength"
	AttrCardio      Attribute = "cardio"
	AttrFlexibility Attribute = "flexibility"
	AttrAgility     Attribute = "agility"
	AttrMind        Attribute = "mind"
)

// Attributes lists all attributes in display order
var Attributes = []Attribute{AttrStrength, AttrCardio, AttrFlexibility, AttrAgility, AttrMind}

// ParseAttribute maps a name to an Attribute
func ParseAttribute(name string) (Attribute, bool) {
	for _, a := range Attributes {
		if string(a) == name {
			return a, true
		}
	}
	return "", false
}

// SessionSummary is the reward record computed once when a session completes
type SessionSummary struct {
	EstimatedDurationSeconds int               `json:"estimated_duration_seconds"`
	XPEarned                 int               `json:"xp_earned"`
	AttributeDistribution    map[Attribute]int `json:"attribute_distribution"`
}
