// Package recommend turns derived metrics, schedule and bidding output into
// prioritized, human-readable advice.
//
// Rules run in a fixed order and never suppress each other; output order is
// evaluation order.
package recommend

import (
	"github.com/google/uuid"
	"github.com/okian/adlens/internal/domain/bidding"
	"github.com/okian/adlens/internal/domain/derived"
	"github.com/okian/adlens/internal/domain/model"
	"github.com/okian/adlens/internal/domain/schedule"
)

// UnitMetrics are the derived metrics of one ad set, ad group or product.
type UnitMetrics struct {
	ID      string
	Name    string
	Metrics derived.Metrics
	ViewCVR float64
}

// Input is everything the rules may inspect for one campaign.
type Input struct {
	Platform    model.Platform
	Metrics     derived.Metrics
	Conversions uint64
	// ViewCVR is orders per view, used for marketplaces.
	ViewCVR             float64
	Units               []UnitMetrics
	Schedule            *schedule.Schedule
	Bidding             *bidding.Decision
	Promotion           *bidding.Promotion
	VideoCompletionRate *float64
	Audience            []model.Segment
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithIDSource replaces the UUID source, e.g. for deterministic tests.
func WithIDSource(next func() uuid.UUID) Option {
	return func(g *Generator) {
		if next != nil {
			g.newID = next
		}
	}
}

// Generator evaluates the rule table.
type Generator struct {
	cfg   Config
	newID func() uuid.UUID
}

// NewGenerator creates a generator with the given thresholds.
func NewGenerator(cfg Config, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, newID: uuid.New}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type rule func(cfg Config, in Input) []draft

var rules = []rule{
	videoCompletionRule,
	lowCTRRule,
	lowCVRRule,
	lowROASRule,
	spreadRule,
	highCPARule,
	audienceRule,
	scheduleRule,
	biddingRule,
	promotionRule,
	playbookRule,
}

// Generate runs every rule against in.
func (g *Generator) Generate(in Input) []Recommendation {
	out := make([]Recommendation, 0, len(rules))
	for _, r := range rules {
		out = append(out, g.issue(r(g.cfg, in))...)
	}
	return out
}

// CrossPlatform returns advice for a portfolio spread over the given platforms.
func (g *Generator) CrossPlatform(platforms []model.Platform) []Recommendation {
	drafts := []draft{{
		typ:         TypeBudget,
		priority:    PriorityHigh,
		description: "Shift budget between platforms in line with their measured performance.",
		impact:      "Funding the strongest platforms raises the return of the whole portfolio.",
	}}
	for _, p := range platforms {
		if d, ok := platformAdvice[p]; ok {
			drafts = append(drafts, d)
		}
	}
	drafts = append(drafts, draft{
		typ:         TypeCrossPlatform,
		priority:    PriorityHigh,
		description: "Keep one brand message across platforms and adapt only the format to each platform's audience.",
		impact:      "Consistent branding with native formats lifts results on every platform.",
	})
	return g.issue(drafts)
}

func (g *Generator) issue(drafts []draft) []Recommendation {
	out := make([]Recommendation, len(drafts))
	for i, d := range drafts {
		out[i] = Recommendation{
			ID:             g.newID(),
			Type:           d.typ,
			Priority:       d.priority,
			Description:    d.description,
			ExpectedImpact: d.impact,
		}
	}
	return out
}
