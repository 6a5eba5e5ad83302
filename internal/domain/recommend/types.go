package recommend

import "github.com/google/uuid"

// Type classifies a recommendation.
type Type string

// Recommendation types.
const (
	TypeCreative            Type = "creative"
	TypeLandingPage         Type = "landing_page"
	TypeBudget              Type = "budget"
	TypePauseLowPerformer   Type = "pause_low_performer"
	TypeEfficiency          Type = "efficiency"
	TypeSchedule            Type = "schedule"
	TypeBidding             Type = "bidding"
	TypePromotion           Type = "promotion"
	TypePlacement           Type = "placement"
	TypeAudience            Type = "audience"
	TypeProductListing      Type = "product_listing"
	TypeProductOptimization Type = "product_optimization"
	TypeVisibility          Type = "visibility"
	TypePricing             Type = "pricing"
	TypePlatformSpecific    Type = "platform_specific"
	TypeCrossPlatform       Type = "cross_platform"
)

// Priority ranks how urgently a recommendation should be acted on.
type Priority string

// Priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Recommendation is one piece of advice. IDs are fresh per call.
type Recommendation struct {
	ID             uuid.UUID `json:"id"`
	Type           Type      `json:"type"`
	Priority       Priority  `json:"priority"`
	Description    string    `json:"description"`
	ExpectedImpact string    `json:"expected_impact"`
}

type draft struct {
	typ         Type
	priority    Priority
	description string
	impact      string
}
