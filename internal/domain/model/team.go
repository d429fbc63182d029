package model

// Formation is a team shape such as 4-4-2.
type Formation string

// Known formations.
const (
	Formation442  Formation = "4-4-2"
	Formation433  Formation = "4-3-3"
	Formation352  Formation = "3-5-2"
	Formation4231 Formation = "4-2-3-1"
	Formation532  Formation = "5-3-2"
	Formation451  Formation = "4-5-1"
	Formation343  Formation = "3-4-3"
)

// Tactics describes a team's playing style. The simulator carries it through
// unchanged.
type Tactics struct {
	AttackingMentality string `json:"attacking_mentality" validate:"omitempty,oneof=defensive balanced attacking"`
	PassingStyle       string `json:"passing_style" validate:"omitempty,oneof=short mixed long"`
	Tempo              string `json:"tempo" validate:"omitempty,oneof=slow medium fast"`
	Width              string `json:"width" validate:"omitempty,oneof=narrow balanced wide"`
}

// Team is a full squad supplied by the caller before a match.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Formation   Formation `json:"formation"`
	Starters    []Player  `json:"starters"`
	Substitutes []Player  `json:"substitutes"`
	Tactics     *Tactics  `json:"tactics,omitempty"`
}

// Clone returns a shallow copy with its own roster slices.
func (t Team) Clone() Team {
	c := t
	c.Starters = append([]Player(nil), t.Starters...)
	c.Substitutes = append([]Player(nil), t.Substitutes...)
	if t.Tactics != nil {
		tactics := *t.Tactics
		c.Tactics = &tactics
	}
	return c
}

// Goalkeeper returns the first starter playing GK.
func (t Team) Goalkeeper() (Player, bool) {
	for _, p := range t.Starters {
		if p.Position == PositionGK {
			return p, true
		}
	}
	return Player{}, false
}
