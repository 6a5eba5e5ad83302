// Package bidding picks a bidding strategy from derived metrics, and a
// promotion strategy for marketplaces, which have no auction to bid in.
package bidding

import (
	"github.com/okian/adlens/internal/domain/derived"
	"github.com/okian/adlens/internal/domain/model"
)

// Tier is the optimization level reached by a campaign.
type Tier string

// Tiers in priority order.
const (
	TierConversion Tier = "conversion"
	TierClick      Tier = "click"
	TierReach      Tier = "reach"
)

type identifiers struct {
	strategy string
	goal     string
}

var vocabulary = map[model.Family]map[Tier]identifiers{
	model.FamilyAuction: {
		TierConversion: {"LOWEST_COST_WITH_BID_CAP", "CONVERSIONS"},
		TierClick:      {"LOWEST_COST_WITHOUT_CAP", "LINK_CLICKS"},
		TierReach:      {"LOWEST_COST_WITHOUT_CAP", "REACH"},
	},
	model.FamilyShortVideo: {
		TierConversion: {"BID_TYPE_CUSTOM", "CONVERSION"},
		TierClick:      {"BID_TYPE_NO_BID", "CLICK"},
		TierReach:      {"BID_TYPE_NO_BID", "REACH"},
	},
}

// Decision is the selected bidding strategy.
type Decision struct {
	Family           model.Family `json:"family"`
	Tier             Tier         `json:"tier"`
	Strategy         string       `json:"bid_strategy"`
	OptimizationGoal string       `json:"optimization_goal"`
	// BidCap is set only for the conversion tier.
	BidCap *float64 `json:"bid_amount,omitempty"`
}

// Selector applies the three-tier decision table.
type Selector struct {
	cfg Config
}

// NewSelector creates a selector with the given thresholds.
func NewSelector(cfg Config) *Selector {
	return &Selector{cfg: cfg}
}

// Supports reports whether the family bids in an auction.
func (s *Selector) Supports(f model.Family) bool {
	_, ok := vocabulary[f]
	return ok
}

// Select evaluates, first match wins: CVR above the conversion threshold,
// then CTR above the click threshold, then reach. ok is false for families
// without bidding.
func (s *Selector) Select(f model.Family, m derived.Metrics) (Decision, bool) {
	names, ok := vocabulary[f]
	if !ok {
		return Decision{}, false
	}
	d := Decision{Family: f}
	switch {
	case m.CVR > s.cfg.ConversionCVR:
		d.Tier = TierConversion
		bid := m.CPA * s.cfg.BidMarkup
		d.BidCap = &bid
	case m.CTR > s.cfg.ClickCTR:
		d.Tier = TierClick
	default:
		d.Tier = TierReach
	}
	d.Strategy = names[d.Tier].strategy
	d.OptimizationGoal = names[d.Tier].goal
	return d, true
}
