package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/matchday/pkg/logger"
)

// HTTPClient wraps http.Client with the service base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Get performs a GET request against path.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// getJSON fetches path and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(body))
	}
	return json.Unmarshal(body, v)
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}

type submitOutcome int

const (
	outcomeAccepted submitOutcome = iota
	outcomeDuplicate
	outcomeRejected
	outcomeFailed
)

// submitFixtures posts fixtures through a pool of config.Workers goroutines.
func submitFixtures(ctx context.Context, config *Config, fixtures []Fixture, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting fixtures", logger.Int("fixtures", len(fixtures)), logger.Int("workers", config.Workers))

	client := newHTTPClient(config.BaseURL, config.Timeout)
	var counts [outcomeFailed + 1]atomic.Int64

	work := make(chan Fixture, config.Workers*workerChannelFactor)
	var wg sync.WaitGroup
	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range work {
				outcome := submitSingleFixture(ctx, client, f)
				counts[outcome].Add(1)
				if config.Verbose && outcome >= outcomeRejected {
					log.Warn(ctx, "fixture not accepted", logger.String("requestID", f.RequestID), logger.Int("outcome", int(outcome)))
				}
			}
		}()
	}

feed:
	for _, f := range fixtures {
		select {
		case <-ctx.Done():
			break feed
		case work <- f:
		}
	}
	close(work)
	wg.Wait()

	stats.Accepted = int(counts[outcomeAccepted].Load())
	stats.Duplicate = int(counts[outcomeDuplicate].Load())
	stats.Rejected = int(counts[outcomeRejected].Load())
	stats.Failed = int(counts[outcomeFailed].Load())
	stats.Submitted = stats.Accepted + stats.Duplicate + stats.Rejected + stats.Failed

	log.Info(ctx, "fixture submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))
	return ctx.Err()
}

func submitSingleFixture(ctx context.Context, client *HTTPClient, f Fixture) submitOutcome {
	resp, err := client.Post(ctx, "/matches", f)
	if err != nil {
		return outcomeFailed
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return outcomeFailed
	}

	switch resp.StatusCode {
	case http.StatusAccepted:
		return outcomeAccepted
	case http.StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return outcomeDuplicate
		}
		return outcomeAccepted
	case http.StatusTooManyRequests, http.StatusBadRequest, http.StatusServiceUnavailable:
		return outcomeRejected
	default:
		return outcomeFailed
	}
}
