package api

import (
	"fmt"
	"time"

	"github.com/okian/matchday/internal/domain/model"
)

// playerRequest mirrors the OpenAPI Player schema.
type playerRequest struct {
	ID         string           `json:"id" validate:"required,max=64"`
	Name       string           `json:"name" validate:"required,max=128"`
	Position   string           `json:"position" validate:"required,oneof=GK CB LB RB CDM CM CAM LM RM LW RW ST CF"`
	Attributes model.Attributes `json:"attributes"`
}

// teamRequest mirrors the OpenAPI Team schema. Starters may be omitted to
// have a squad generated.
type teamRequest struct {
	ID          string          `json:"id" validate:"omitempty,max=64"`
	Name        string          `json:"name" validate:"required,max=64"`
	Formation   string          `json:"formation" validate:"omitempty,oneof=4-4-2 4-3-3 3-5-2 4-2-3-1 5-3-2 4-5-1 3-4-3"`
	Starters    []playerRequest `json:"starters" validate:"omitempty,len=11,dive"`
	Substitutes []playerRequest `json:"substitutes" validate:"omitempty,max=12,dive"`
	Tactics     *model.Tactics  `json:"tactics"`
}

func (t teamRequest) toModel() model.Team { //nolint:gocritic // hugeParam: decoded once per request
	team := model.Team{
		ID:        t.ID,
		Name:      t.Name,
		Formation: model.Formation(t.Formation),
		Tactics:   t.Tactics,
	}
	for _, p := range t.Starters {
		team.Starters = append(team.Starters, p.toModel())
	}
	for _, p := range t.Substitutes {
		team.Substitutes = append(team.Substitutes, p.toModel())
	}
	return team
}

func (p playerRequest) toModel() model.Player {
	return model.Player{
		ID:         p.ID,
		Name:       p.Name,
		Position:   model.Position(p.Position),
		Attributes: p.Attributes,
	}
}

// matchRequest mirrors the OpenAPI MatchRequest schema for POST /matches.
type matchRequest struct {
	RequestID       string      `json:"request_id" validate:"omitempty,max=128"`
	HomeTeam        teamRequest `json:"home_team" validate:"required"`
	AwayTeam        teamRequest `json:"away_team" validate:"required"`
	EventsPerMinute int         `json:"events_per_minute" validate:"omitempty,min=1,max=20"`
}

func (m *matchRequest) toModel() model.MatchRequest {
	return model.MatchRequest{
		RequestID:       m.RequestID,
		HomeTeam:        m.HomeTeam.toModel(),
		AwayTeam:        m.AwayTeam.toModel(),
		EventsPerMinute: m.EventsPerMinute,
		Source:          "api",
	}
}

// momentRequest mirrors the OpenAPI MomentRequest schema.
type momentRequest struct {
	ID          string        `json:"id" validate:"omitempty,max=64"`
	Name        string        `json:"name" validate:"required,max=128"`
	Date        string        `json:"date" validate:"required,datetime=2006-01-02"`
	Description string        `json:"description" validate:"omitempty,max=512"`
	Tags        []string      `json:"tags" validate:"omitempty,max=16,dive,required,max=32"`
	Fixture     *matchRequest `json:"fixture"`
}

func (m *momentRequest) toModel() (model.MomentSpec, error) {
	date, err := time.Parse(time.DateOnly, m.Date)
	if err != nil {
		return model.MomentSpec{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	spec := model.MomentSpec{
		ID:          m.ID,
		Name:        m.Name,
		Date:        date,
		Description: m.Description,
		Tags:        m.Tags,
	}
	if m.Fixture != nil {
		req := m.Fixture.toModel()
		req.Source = "timeline"
		spec.Fixture = &req
	}
	return spec, nil
}

// advanceRequest is the body of POST /timeline/advance.
type advanceRequest struct {
	Days int `json:"days" validate:"required,min=1,max=3650"`
}
