package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/matchday/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
	tableDisplayRows    = 10
)

// Run submits a batch of fixtures to a running service and verifies the
// league table it produces.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	config.Normalize()
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting matchday load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("fixtures", config.NumMatches),
		logger.Int("teams", config.NumTeams),
		logger.Int("workers", config.Workers),
		logger.Duration("settle", config.Settle))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	baseline, err := fetchStandings(ctx, client)
	if err != nil {
		return stats, err
	}
	stats.BaselineMatches = baseline.Matches

	fixtures, err := generateFixtures(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("fixture generation failed: %w", err)
	}

	if config.OutputFile != "" {
		if err := saveFixtures(config.OutputFile, fixtures); err != nil {
			log.Warn(ctx, "failed to save fixtures", logger.Error(err))
		}
	}

	if err := submitFixtures(ctx, config, fixtures, stats); err != nil {
		return stats, fmt.Errorf("fixture submission failed: %w", err)
	}

	log.Info(ctx, "waiting for matches to be played")
	final, err := waitForStandings(ctx, client, baseline.Matches+stats.Accepted, config.Settle)
	stats.FinalMatches = final.Matches
	if err != nil {
		return stats, err
	}

	if err := verifyStandings(final); err != nil {
		return stats, err
	}
	displayTopClubs(ctx, final, tableDisplayRows)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	log.Info(ctx, "load test completed successfully")
	return stats, nil
}

func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}
	// The health route serves Prometheus metrics; any 200 means up.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// saveFixtures writes the generated fixtures as a JSON array.
func saveFixtures(filename string, fixtures []Fixture) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(fixtures, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal fixtures: %w", err)
	}
	return os.WriteFile(filename, data, filePermission)
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var acceptRate, perSecond float64
	if stats.Submitted > 0 {
		acceptRate = float64(stats.Accepted) / float64(stats.Submitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.FixturesGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("matchesPlayed", stats.FinalMatches-stats.BaselineMatches),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("submissionsPerSecond", perSecond))
}
