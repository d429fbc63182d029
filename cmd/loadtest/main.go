package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/matchday/internal/loadtest"
)

// Default configuration constants.
const (
	defaultNumMatches  = 500
	defaultDuplicates  = 0.05
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTestTimeout = 15 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numMatches = flag.Int("matches", defaultNumMatches, "Number of fixtures to submit")
		numTeams   = flag.Int("teams", loadtest.DefaultNumTeams, "Size of the club pool")
		duplicates = flag.Float64("duplicates", defaultDuplicates, "Fraction of fixtures resubmitted verbatim")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout    = flag.Duration("timeout", loadtest.DefaultTimeout, "HTTP request timeout")
		settle     = flag.Duration("settle", loadtest.DefaultSettle, "How long to wait for the table to catch up")
		seed       = flag.Uint64("seed", 0, "Fixture generator seed (0 picks one)")
		outputFile = flag.String("output", "", "Write generated fixtures to this JSON file")
		logFile    = flag.String("log", "", "Log file (default: loadtest_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Log every rejected fixture")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	closer, err := loadtest.SetupLogging(*logFile)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &loadtest.Config{
		BaseURL:    *baseURL,
		NumMatches: *numMatches,
		NumTeams:   *numTeams,
		Duplicates: *duplicates,
		Workers:    *workers,
		Timeout:    *timeout,
		Settle:     *settle,
		Seed:       *seed,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := loadtest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Load test failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: cancel and close handled above
	}
}
