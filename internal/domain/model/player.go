// Package model contains domain models passed between layers.
package model

// Position is a player's on-field role.
type Position string

// Known positions.
const (
	PositionGK  Position = "GK"
	PositionCB  Position = "CB"
	PositionLB  Position = "LB"
	PositionRB  Position = "RB"
	PositionCDM Position = "CDM"
	PositionCM  Position = "CM"
	PositionCAM Position = "CAM"
	PositionLM  Position = "LM"
	PositionRM  Position = "RM"
	PositionLW  Position = "LW"
	PositionRW  Position = "RW"
	PositionST  Position = "ST"
	PositionCF  Position = "CF"
)

// Positions lists every known position.
var Positions = []Position{
	PositionGK, PositionCB, PositionLB, PositionRB, PositionCDM, PositionCM, PositionCAM,
	PositionLM, PositionRM, PositionLW, PositionRW, PositionST, PositionCF,
}

// IsAttacking reports whether p is one of ST, CF, LW, RW or CAM.
func (p Position) IsAttacking() bool {
	switch p {
	case PositionST, PositionCF, PositionLW, PositionRW, PositionCAM:
		return true
	default:
		return false
	}
}

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// Attributes holds the ten skill dimensions of a player. Generated players
// use a 1-20 scale; hand-built fixtures often use 1-100. The simulator only
// treats them as weights.
type Attributes struct {
	// Physical
	Speed    float64 `json:"speed"`
	Strength float64 `json:"strength"`
	Agility  float64 `json:"agility"`

	// Technical
	Passing   float64 `json:"passing"`
	Finishing float64 `json:"finishing"`
	Technique float64 `json:"technique"`
	Defending float64 `json:"defending"`
	Stamina   float64 `json:"stamina"`

	// Mental
	Awareness float64 `json:"awareness"`
	Composure float64 `json:"composure"`
}

// Player is an immutable squad member.
type Player struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Position   Position   `json:"position"`
	Attributes Attributes `json:"attributes"`
}
