package loadtest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/matchday/internal/domain/names"
	"github.com/okian/matchday/pkg/logger"
)

// generateClubs returns n distinct club names built from corpus surnames.
func generateClubs(n int, rng *rand.Rand, gen *names.Generator) []string {
	seen := make(map[string]struct{}, n)
	clubs := make([]string, 0, n)
	for _, person := range gen.GenerateUniqueNames(n * 2) {
		if len(clubs) == n {
			break
		}
		fields := strings.Fields(person)
		if len(fields) == 0 {
			continue
		}
		club := fields[len(fields)-1] + " " + clubSuffixes[rng.IntN(len(clubSuffixes))]
		if _, dup := seen[strings.ToLower(club)]; dup {
			continue
		}
		seen[strings.ToLower(club)] = struct{}{}
		clubs = append(clubs, club)
	}
	// A small corpus cannot fill the pool on its own.
	for i := 1; len(clubs) < n; i++ {
		club := fmt.Sprintf("Club %02d", i)
		if _, dup := seen[strings.ToLower(club)]; dup {
			continue
		}
		seen[strings.ToLower(club)] = struct{}{}
		clubs = append(clubs, club)
	}
	return clubs
}

// generateFixtures pairs random clubs. A Duplicates fraction of the output
// repeats an earlier fixture verbatim, request id included, so the service's
// idempotency is exercised too.
func generateFixtures(ctx context.Context, config *Config, stats *Stats) ([]Fixture, error) {
	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // load shape, not security

	gen, err := names.New(names.Male, names.AllCountries, names.WithSeed(seed))
	if err != nil {
		return nil, fmt.Errorf("name generator: %w", err)
	}
	clubs := generateClubs(config.NumTeams, rng, gen)
	formation := make(map[string]string, len(clubs))
	for _, c := range clubs {
		formation[c] = formations[rng.IntN(len(formations))]
	}

	logger.Get().Info(ctx, "generating fixtures",
		logger.Int("fixtures", config.NumMatches),
		logger.Int("clubs", len(clubs)),
		logger.Any("seed", seed))

	fixtures := make([]Fixture, 0, config.NumMatches)
	for len(fixtures) < config.NumMatches {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during fixture generation: %w", err)
		}
		if len(fixtures) > 0 && rng.Float64() < config.Duplicates {
			fixtures = append(fixtures, fixtures[rng.IntN(len(fixtures))])
			continue
		}
		home := rng.IntN(len(clubs))
		away := rng.IntN(len(clubs) - 1)
		if away >= home {
			away++
		}
		fixtures = append(fixtures, Fixture{
			RequestID: "loadtest-" + uuid.NewString(),
			HomeTeam:  Team{Name: clubs[home], Formation: formation[clubs[home]]},
			AwayTeam:  Team{Name: clubs[away], Formation: formation[clubs[away]]},
		})
	}

	stats.FixturesGenerated = len(fixtures)
	return fixtures, nil
}
