package loadtest

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/matchday/pkg/logger"
)

// SetupLogging sends console-formatted logs to stdout and logFile. An empty
// logFile gets a timestamped name.
func SetupLogging(logFile string) (io.Closer, error) {
	if logFile == "" {
		logFile = "loadtest_" + time.Now().Format("20060102_150405") + ".log"
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	opts := logger.Options{Format: logger.FormatConsole, Writer: io.MultiWriter(os.Stdout, file)}
	if err := logger.InitWithOptions(opts); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return file, nil
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Matchday Load Test
==================

Submits random fixtures to a running matchday service and checks that the
league table it builds balances.

Usage:
  go run ./cmd/loadtest [options]

Options:
  -url string        Base URL of the service (default "http://localhost:9080")
  -matches int       Number of fixtures to submit (default 500)
  -teams int         Size of the club pool (default 20)
  -duplicates float  Fraction of fixtures resubmitted verbatim (default 0.05)
  -workers int       Number of concurrent submitters (default CPU cores * 2)
  -timeout duration  HTTP request timeout (default 30s)
  -settle duration   How long to wait for the table to catch up (default 2m)
  -seed uint         Fixture generator seed (default random)
  -output string     Write generated fixtures to this JSON file
  -log string        Log file (default loadtest_TIMESTAMP.log)
  -verbose           Log every rejected fixture
  -help              Show this help message
`)
}
