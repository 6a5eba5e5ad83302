// Package loadgen drives a running service with synthetic campaigns and checks
// every answer against the batch contract.
package loadgen

import (
	"time"

	"github.com/okian/adlens/internal/domain/model"
	"github.com/okian/adlens/internal/domain/types"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumCampaigns int           // Number of campaigns to generate
	BatchSize    int           // Campaigns per batch request
	Workers      int           // Number of concurrent submitters
	Timeout      time.Duration // HTTP request timeout
	FailureEvery int           // Every n-th campaign carries an upstream error; 0 disables
	OutputFile   string        // Output file for generated campaigns
	Verbose      bool          // Enable verbose logging
}

// Batch is one request body together with the indices expected to fail.
type Batch struct {
	Index     int                     `json:"-"`
	Campaigns []model.CampaignRequest `json:"campaigns"`
	failing   map[int]bool
}

// batchResult pairs a batch with what the service answered.
type batchResult struct {
	batch  Batch
	status int
	report types.BatchReport
	err    error
}

// Stats holds run statistics.
type Stats struct {
	CampaignsGenerated int
	BatchesSubmitted   int
	BatchesFailed      int
	ReportsReceived    int
	EntityErrors       int
	ExpectedErrors     int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
