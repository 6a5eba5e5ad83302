package loadgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/adlens/pkg/logger"
)

// Run executes a complete load run against a live service.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.NumCampaigns <= 0 || cfg.Workers <= 0 {
		return nil, errors.New("campaigns and workers must be positive")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	stats := &Stats{StartTime: time.Now()}
	logger.Get().Info(ctx, "starting adlens load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("campaigns", cfg.NumCampaigns),
		logger.Int("batchSize", cfg.BatchSize),
		logger.Int("workers", cfg.Workers),
		logger.Int("failureEvery", cfg.FailureEvery))

	if err := checkServiceHealth(ctx, cfg); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	batches, err := generateCampaigns(ctx, cfg, stats)
	if err != nil {
		return stats, fmt.Errorf("campaign generation failed: %w", err)
	}

	results := submitBatches(ctx, cfg, batches, stats)

	verifyErr := verifyResults(ctx, results, stats)

	if cfg.OutputFile != "" {
		if err := saveCampaigns(ctx, cfg.OutputFile, batches); err != nil {
			logger.Get().Warn(ctx, "failed to save campaigns", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return stats, verifyErr
	}
	logger.Get().Info(ctx, "load run completed successfully")
	return stats, nil
}

func checkServiceHealth(ctx context.Context, cfg *Config) error {
	resp, err := newHTTPClient(cfg).Get(ctx, cfg.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveCampaigns writes every generated batch to filename as one JSON array.
func saveCampaigns(ctx context.Context, filename string, batches []Batch) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(batches); err != nil {
		return fmt.Errorf("failed to write campaigns: %w", err)
	}
	logger.Get().Info(ctx, "campaigns saved to file", logger.String("filename", filename))
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var campaignsPerSecond float64
	if stats.Duration > 0 {
		campaignsPerSecond = float64(stats.CampaignsGenerated) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("campaignsGenerated", stats.CampaignsGenerated),
		logger.Int("batchesSubmitted", stats.BatchesSubmitted),
		logger.Int("batchesFailed", stats.BatchesFailed),
		logger.Int("reportsReceived", stats.ReportsReceived),
		logger.Int("entityErrors", stats.EntityErrors),
		logger.Int("expectedErrors", stats.ExpectedErrors),
		logger.Duration("duration", stats.Duration),
		logger.Float64("campaignsPerSecond", campaignsPerSecond))
}
