// Package types contains the report shapes returned to API clients.
package types

import (
	"github.com/okian/adlens/internal/domain/allocation"
	"github.com/okian/adlens/internal/domain/bidding"
	"github.com/okian/adlens/internal/domain/derived"
	"github.com/okian/adlens/internal/domain/insights"
	"github.com/okian/adlens/internal/domain/model"
	"github.com/okian/adlens/internal/domain/recommend"
	"github.com/okian/adlens/internal/domain/schedule"
)

// Error kinds reported per entity in batch responses.
const (
	KindUnsupportedPlatform = "unsupported_platform"
	KindUpstreamError       = "upstream_error"
	KindDecodeError         = "decode_error"
	KindInvalidRequest      = "invalid_request"
	KindCanceled            = "canceled"
	KindInternal            = "internal"
)

// Report is the full analysis of one campaign.
type Report struct {
	Platform          model.Platform             `json:"platform"`
	CampaignID        string                     `json:"campaign_id"`
	Performance       model.PerformanceRecord    `json:"performance"`
	DerivedMetrics    derived.Metrics            `json:"derived_metrics"`
	BudgetAllocation  []allocation.Entry         `json:"budget_allocation"`
	Schedule          schedule.Schedule          `json:"schedule"`
	BiddingStrategy   *bidding.Decision          `json:"bidding_strategy,omitempty"`
	PromotionStrategy *bidding.Promotion         `json:"promotion_strategy,omitempty"`
	Recommendations   []recommend.Recommendation `json:"recommendations"`
}

// EntityError describes why one campaign of a batch was not analyzed.
type EntityError struct {
	Index      int    `json:"index"`
	Platform   string `json:"platform"`
	CampaignID string `json:"campaign_id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
}

// BatchReport holds the campaigns that succeeded and those that failed.
// Reports keep input order with failed campaigns left out.
type BatchReport struct {
	Reports []Report      `json:"reports"`
	Errors  []EntityError `json:"errors"`
}

// CrossPlatformBudget shares one budget across campaigns on different platforms.
type CrossPlatformBudget struct {
	TotalBudget      float64            `json:"total_budget"`
	EqualSplit       bool               `json:"equal_split"`
	BudgetAllocation []allocation.Entry `json:"budget_allocation"`
	Errors           []EntityError      `json:"errors"`
}

// CrossPlatformInsights compares campaigns on different platforms.
type CrossPlatformInsights struct {
	insights.Result
	Errors []EntityError `json:"errors"`
}
