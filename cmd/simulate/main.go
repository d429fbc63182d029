// Command simulate plays one match between two generated squads and prints
// the result without starting the service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/okian/matchday/internal/domain/match"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/names"
	"github.com/okian/matchday/internal/domain/players"
	"github.com/okian/matchday/pkg/logger"
)

type options struct {
	home, away                   string
	homeFormation, awayFormation string
	seed                         uint64
	eventsPerMinute              int
	country, gender              string
	showEvents                   bool
	asJSON                       bool
}

func main() {
	var o options
	flag.StringVar(&o.home, "home", "Home FC", "Home team name")
	flag.StringVar(&o.away, "away", "Away United", "Away team name")
	flag.StringVar(&o.homeFormation, "home-formation", string(model.Formation442), "Home formation")
	flag.StringVar(&o.awayFormation, "away-formation", string(model.Formation433), "Away formation")
	flag.Uint64Var(&o.seed, "seed", 0, "Seed for squads and play (0 picks one)")
	flag.IntVar(&o.eventsPerMinute, "epm", match.DefaultEventsPerMinute, "Maximum sub-ticks per minute")
	flag.StringVar(&o.country, "country", string(names.AllCountries), "Name corpus country")
	flag.StringVar(&o.gender, "gender", string(names.Male), "Name corpus gender")
	flag.BoolVar(&o.showEvents, "events", false, "Print the full event log")
	flag.BoolVar(&o.asJSON, "json", false, "Print the result as JSON")
	flag.Parse()

	if err := logger.InitWithOptions(logger.Options{Format: logger.FormatConsole, Writer: os.Stderr}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, os.Stdout, o); err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, o options) error {
	if o.seed == 0 {
		o.seed = rand.Uint64()
	}
	home, away, err := squads(o)
	if err != nil {
		return err
	}

	sim := match.NewSimulator(match.Config{
		MatchDuration:   match.DefaultMatchDuration,
		EventsPerMinute: o.eventsPerMinute,
		HomeTeam:        home,
		AwayTeam:        away,
	},
		match.WithRandomSource(match.NewSeededSource(o.seed)),
		match.WithLogger(logger.Named("simulate")),
	)
	result, err := sim.SimulateContext(ctx)
	if err != nil {
		return err
	}

	if o.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printSummary(w, o.seed, result, o.showEvents)
	return nil
}

// squads generates both teams from one seeded name corpus.
func squads(o options) (model.Team, model.Team, error) {
	gen, err := names.New(names.Gender(o.gender), names.Country(o.country), names.WithSeed(o.seed))
	if err != nil {
		return model.Team{}, model.Team{}, err
	}
	pg := players.New(gen, players.WithSeed(o.seed))

	home, err := pg.GenerateTeam(o.home, model.Formation(o.homeFormation))
	if err != nil {
		return model.Team{}, model.Team{}, fmt.Errorf("home: %w", err)
	}
	away, err := pg.GenerateTeam(o.away, model.Formation(o.awayFormation))
	if err != nil {
		return model.Team{}, model.Team{}, fmt.Errorf("away: %w", err)
	}
	return home, away, nil
}

func printSummary(w io.Writer, seed uint64, r match.MatchResult, showEvents bool) { //nolint:gocritic // hugeParam: printed once
	fs := r.FinalState
	st := r.Statistics
	fmt.Fprintf(w, "%s %d - %d %s\n", fs.HomeTeam.Name, fs.HomeScore, fs.AwayScore, fs.AwayTeam.Name)
	fmt.Fprintf(w, "seed %d, %d events\n\n", seed, len(r.Events))

	row := func(label string, p match.Pair, suffix string) {
		fmt.Fprintf(w, "%-16s %5d%s %5d%s\n", label, p.Home, suffix, p.Away, suffix)
	}
	row("Possession", st.Possession, "%")
	row("Shots", st.Shots, "")
	row("On target", st.ShotsOnTarget, "")
	row("Corners", st.Corners, "")
	row("Fouls", st.Fouls, "")
	row("Yellow cards", st.Cards.Yellow, "")
	row("Red cards", st.Cards.Red, "")

	scorers := goals(r.Events, fs)
	if len(scorers) > 0 {
		fmt.Fprintf(w, "\nGoals\n")
		for _, g := range scorers {
			fmt.Fprintf(w, "  %s\n", g)
		}
	}

	if showEvents {
		fmt.Fprintf(w, "\nEvents\n")
		for _, e := range r.Events {
			for c := &e; c != nil; c = c.Chained {
				fmt.Fprintf(w, "  %3d' %-10s %s\n", c.Minute, c.Type, c.Description)
			}
		}
	}
}

// goals lists goal lines in match order, chained goals included.
func goals(events []match.MatchEvent, fs match.MatchState) []string { //nolint:gocritic // hugeParam: read once
	playerNames := map[string]string{}
	for _, p := range append(append([]model.Player{}, fs.HomeTeam.Starters...), fs.AwayTeam.Starters...) {
		playerNames[p.ID] = p.Name
	}
	var out []string
	for i := range events {
		for c := &events[i]; c != nil; c = c.Chained {
			if c.Type != match.EventGoal {
				continue
			}
			team := fs.HomeTeam.Name
			if c.Team == match.Away {
				team = fs.AwayTeam.Name
			}
			who := playerNames[c.PlayerID]
			if who == "" {
				who = "unknown"
			}
			out = append(out, strings.TrimSpace(fmt.Sprintf("%d' %s (%s)", c.Minute, who, team)))
		}
	}
	return out
}
