package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/okian/adlens/pkg/logger"
)

// HTTPClient wraps http.Client for JSON calls.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(cfg *Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// submitBatches posts every batch to the batch endpoint using cfg.Workers submitters.
// Results are indexed like batches.
func submitBatches(ctx context.Context, cfg *Config, batches []Batch, stats *Stats) []batchResult {
	log := logger.Get()
	log.Info(ctx, "submitting batches", logger.Int("batches", len(batches)), logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg)
	url := cfg.BaseURL + "/v1/analyze/batch"
	results := make([]batchResult, len(batches))

	var submitted, failed atomic.Int64
	work := make(chan Batch, cfg.Workers*WorkerChannelFactor)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range work {
				res := submitBatch(ctx, client, url, b)
				results[b.Index] = res
				n := submitted.Add(1)
				if res.err != nil {
					failed.Add(1)
					log.Warn(ctx, "batch failed", logger.Int("batch", b.Index), logger.Error(res.err))
				}
				if cfg.Verbose {
					log.Info(ctx, "progress", logger.Int("submitted", int(n)), logger.Int("total", len(batches)))
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, b := range batches {
			select {
			case <-ctx.Done():
				return
			case work <- b:
			}
		}
	}()
	wg.Wait()

	stats.BatchesSubmitted = int(submitted.Load())
	stats.BatchesFailed = int(failed.Load())
	log.Info(ctx, "batch submission completed",
		logger.Int("submitted", stats.BatchesSubmitted),
		logger.Int("failed", stats.BatchesFailed))
	return results
}

func submitBatch(ctx context.Context, client *HTTPClient, url string, b Batch) batchResult {
	res := batchResult{batch: b}
	resp, err := client.Post(ctx, url, b)
	if err != nil {
		res.err = err
		return res
	}
	defer resp.Body.Close()

	res.status = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.err = fmt.Errorf("failed to read response: %w", err)
		return res
	}
	if resp.StatusCode != StatusOK {
		res.err = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
		return res
	}
	if err := json.Unmarshal(body, &res.report); err != nil {
		res.err = fmt.Errorf("failed to decode response: %w", err)
	}
	return res
}
