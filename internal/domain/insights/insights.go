// Package insights compares campaigns across platforms.
package insights

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/adlens/internal/domain/derived"
	"github.com/okian/adlens/internal/domain/model"
	"github.com/okian/adlens/internal/domain/recommend"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNoPlatforms is returned when there is nothing to compare.
var ErrNoPlatforms = errors.New("no platforms to compare")

// underperformRatio marks a platform whose conversion rate is below this share
// of the average.
const underperformRatio = 0.8

// Insight types.
const (
	TypeOverall                 = "overall"
	TypePlatformComparison      = "platform_comparison"
	TypeBudgetAllocation        = "budget_allocation"
	TypeOptimizationOpportunity = "optimization_opportunity"
)

// PlatformMetrics is one analyzed campaign in the comparison.
type PlatformMetrics struct {
	Platform    model.Platform          `json:"platform"`
	CampaignID  string                  `json:"campaign_id,omitempty"`
	Performance model.PerformanceRecord `json:"performance"`
	Metrics     derived.Metrics         `json:"derived_metrics"`
}

// Insight is an observation, as opposed to an action.
type Insight struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
}

// Overall aggregates every campaign.
type Overall struct {
	Performance model.PerformanceRecord `json:"performance"`
	Metrics     derived.Metrics         `json:"derived_metrics"`
}

// Result is the cross-platform report.
type Result struct {
	Insights        []Insight                  `json:"insights"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	PlatformMetrics []PlatformMetrics          `json:"platform_metrics"`
	Overall         Overall                    `json:"overall_metrics"`
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithIDSource replaces the UUID source.
func WithIDSource(next func() uuid.UUID) Option {
	return func(g *Generator) {
		if next != nil {
			g.newID = next
		}
	}
}

// Generator builds cross-platform reports.
type Generator struct {
	recs  *recommend.Generator
	newID func() uuid.UUID
}

// New creates a Generator that draws recommendations from recs.
func New(recs *recommend.Generator, opts ...Option) *Generator {
	g := &Generator{recs: recs, newID: uuid.New}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate compares the campaigns. Their order is kept in PlatformMetrics.
func (g *Generator) Generate(entries []PlatformMetrics) (Result, error) {
	if len(entries) == 0 {
		return Result{}, ErrNoPlatforms
	}

	var total model.PerformanceRecord
	for _, e := range entries {
		total = total.Add(e.Performance)
	}
	overall := Overall{Performance: total, Metrics: derived.Compute(total)}

	res := Result{PlatformMetrics: entries, Overall: overall}
	res.Insights = append(res.Insights, g.insight(TypeOverall, fmt.Sprintf(
		"Across all platforms campaigns produced %d conversions from %d impressions, with an overall ROAS of %s.",
		total.Conversions, total.Impressions, overall.Metrics.ROAS)))
	res.Insights = append(res.Insights, g.comparisons(entries)...)
	if in, ok := g.allocation(entries, total.Spend); ok {
		res.Insights = append(res.Insights, in)
	}
	res.Insights = append(res.Insights, g.opportunities(entries)...)

	res.Recommendations = g.recs.CrossPlatform(platformsOf(entries))
	return res, nil
}

func (g *Generator) comparisons(entries []PlatformMetrics) []Insight {
	bestCTR, bestCVR, bestROAS := entries[0], entries[0], entries[0]
	for _, e := range entries[1:] {
		if e.Metrics.CTR > bestCTR.Metrics.CTR {
			bestCTR = e
		}
		if conversionRate(e) > conversionRate(bestCVR) {
			bestCVR = e
		}
		if bestROAS.Metrics.ROAS.Less(e.Metrics.ROAS) {
			bestROAS = e
		}
	}
	return []Insight{
		g.insight(TypePlatformComparison, fmt.Sprintf("%s has the highest click-through rate at %.2f%%.",
			displayName(bestCTR.Platform), bestCTR.Metrics.CTR)),
		g.insight(TypePlatformComparison, fmt.Sprintf("%s has the highest conversion rate at %.2f%%.",
			displayName(bestCVR.Platform), conversionRate(bestCVR))),
		g.insight(TypePlatformComparison, fmt.Sprintf("%s has the highest return on ad spend at %s.",
			displayName(bestROAS.Platform), bestROAS.Metrics.ROAS)),
	}
}

func (g *Generator) allocation(entries []PlatformMetrics, totalSpend float64) (Insight, bool) {
	if totalSpend <= 0 {
		return Insight{}, false
	}
	type share struct {
		platform model.Platform
		pct      float64
	}
	var shares []share
	for _, e := range entries {
		if e.Performance.Spend > 0 {
			shares = append(shares, share{e.Platform, e.Performance.Spend / totalSpend * 100})
		}
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].pct > shares[j].pct })
	parts := make([]string, len(shares))
	for i, s := range shares {
		parts[i] = fmt.Sprintf("%s: %.1f%%", displayName(s.platform), s.pct)
	}
	return g.insight(TypeBudgetAllocation, "Current budget allocation: "+strings.Join(parts, ", ")+"."), true
}

func (g *Generator) opportunities(entries []PlatformMetrics) []Insight {
	var sum float64
	for _, e := range entries {
		sum += conversionRate(e)
	}
	avg := sum / float64(len(entries))
	if avg <= 0 {
		return nil
	}
	var out []Insight
	for _, e := range entries {
		if rate := conversionRate(e); rate < avg*underperformRatio {
			out = append(out, g.insight(TypeOptimizationOpportunity, fmt.Sprintf(
				"%s converts %.1f%% below the cross-platform average. Optimize it or move budget to stronger platforms.",
				displayName(e.Platform), (avg-rate)/avg*100)))
		}
	}
	return out
}

// conversionRate puts marketplaces, which have no clicks, on the view-based rate.
func conversionRate(e PlatformMetrics) float64 {
	return derived.ConversionRate(e.Platform, e.Performance)
}

func (g *Generator) insight(typ, description string) Insight {
	return Insight{ID: g.newID(), Type: typ, Description: description}
}

func platformsOf(entries []PlatformMetrics) []model.Platform {
	seen := make(map[model.Platform]bool, len(entries))
	var out []model.Platform
	for _, e := range entries {
		if !seen[e.Platform] {
			seen[e.Platform] = true
			out = append(out, e.Platform)
		}
	}
	return out
}

// displayName title-cases a platform tag. Casers are stateful, so one is
// made per call.
func displayName(p model.Platform) string {
	return cases.Title(language.English).String(string(p))
}
