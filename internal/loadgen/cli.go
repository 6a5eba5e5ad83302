package loadgen

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/adlens/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging initializes the logger, mirroring output to logFile when set.
func SetupLogging(format, logFile string) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, f)
	}
	if err := logger.Init(logger.WithFormat(format), logger.WithOutput(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the load generator.
func ShowHelp() {
	os.Stdout.WriteString(`adlens load generator
=====================

Generates synthetic Facebook, Instagram, TikTok and Shopee campaigns, posts
them to /v1/analyze/batch and checks every answer.

Usage:
  go run ./cmd/loadgen [options]

Options:
  -url string        Base URL of the service (default "http://localhost:9080")
  -campaigns int     Number of campaigns to generate (default 1000)
  -batch int         Campaigns per request (default 50)
  -workers int       Number of concurrent submitters (default CPU cores * 2)
  -fail-every int    Every n-th campaign carries an upstream error, 0 disables (default 10)
  -timeout duration  HTTP request timeout (default 30s)
  -output string     Write generated campaigns to this file
  -log string        Mirror log output to this file
  -log-format string text or json (default "text")
  -verbose           Log per-batch progress
  -help              Show this help message
`)
}
