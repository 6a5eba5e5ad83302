package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/adlens/internal/loadgen"
)

const (
	defaultCampaigns    = 1000
	defaultBatchSize    = 50
	defaultFailureEvery = 10
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		campaigns    = flag.Int("campaigns", defaultCampaigns, "Number of campaigns to generate")
		batchSize    = flag.Int("batch", defaultBatchSize, "Campaigns per request")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		failureEvery = flag.Int("fail-every", defaultFailureEvery, "Every n-th campaign carries an upstream error; 0 disables")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile   = flag.String("output", "", "Write generated campaigns to this file")
		logFile      = flag.String("log", "", "Mirror log output to this file")
		logFormat    = flag.String("log-format", "text", "Log format: text or json")
		verbose      = flag.Bool("verbose", false, "Log per-batch progress")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}

	if err := loadgen.SetupLogging(*logFormat, *logFile); err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &loadgen.Config{
		BaseURL:      *baseURL,
		NumCampaigns: *campaigns,
		BatchSize:    *batchSize,
		Workers:      *workers,
		Timeout:      *timeout,
		FailureEvery: *failureEvery,
		OutputFile:   *outputFile,
		Verbose:      *verbose,
	}
	if _, err := loadgen.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("load run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
