package service

import (
	"context"
	"time"

	"github.com/okian/adlens/internal/domain/allocation"
	"github.com/okian/adlens/internal/domain/bidding"
	"github.com/okian/adlens/internal/domain/derived"
	"github.com/okian/adlens/internal/domain/insights"
	"github.com/okian/adlens/internal/domain/model"
	"github.com/okian/adlens/internal/domain/normalize"
	"github.com/okian/adlens/internal/domain/recommend"
	"github.com/okian/adlens/internal/domain/schedule"
	"github.com/okian/adlens/internal/domain/types"
	"github.com/okian/adlens/pkg/metrics"
)

// EngineConfig gathers every threshold the analysis pipeline reads.
type EngineConfig struct {
	Bidding   bidding.Config
	Recommend recommend.Config
	Schedule  schedule.Config

	ROASCap                   float64
	CrossPlatformROASWeight   float64
	CrossPlatformCVRWeight    float64
	MarketplaceDefaultBudget  float64
	MarketplacePromotionShare float64
	AnalysisWindowDays        int
}

// DefaultEngineConfig returns the standard thresholds.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Bidding:                   bidding.DefaultConfig(),
		Recommend:                 recommend.DefaultConfig(),
		Schedule:                  schedule.DefaultConfig(),
		ROASCap:                   allocation.DefaultROASCap,
		CrossPlatformROASWeight:   0.7,
		CrossPlatformCVRWeight:    0.3,
		MarketplaceDefaultBudget:  100,
		MarketplacePromotionShare: 0.2,
		AnalysisWindowDays:        30,
	}
}

// Engine runs the per-campaign pipeline: normalize, derive, allocate,
// schedule, pick a bidding or promotion strategy and recommend.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg      EngineConfig
	selector *bidding.Selector
	recs     *recommend.Generator
	insights *insights.Generator
}

// NewEngine builds an engine. Options are forwarded to the recommendation
// generator shared by single-campaign and cross-platform output.
func NewEngine(cfg EngineConfig, opts ...recommend.Option) *Engine {
	recs := recommend.NewGenerator(cfg.Recommend, opts...)
	return &Engine{
		cfg:      cfg,
		selector: bidding.NewSelector(cfg.Bidding),
		recs:     recs,
		insights: insights.New(recs),
	}
}

// Analyze produces the full report of one campaign.
func (e *Engine) Analyze(ctx context.Context, req model.CampaignRequest) (types.Report, error) {
	start := time.Now()
	label := platformLabel(req.Platform)

	report, err := e.analyze(ctx, req)
	if err != nil {
		kind := ErrorKind(err)
		metrics.RecordCampaignAnalyzed(label, kind)
		switch kind {
		case types.KindUnsupportedPlatform, types.KindUpstreamError, types.KindDecodeError:
			metrics.RecordNormalizationError(label, kind)
		}
		return types.Report{}, err
	}

	metrics.RecordCampaignAnalyzed(label, "ok")
	metrics.RecordAnalysisLatency(label, float64(time.Since(start).Microseconds())/1000)
	for _, r := range report.Recommendations {
		metrics.RecordRecommendation(string(r.Type), string(r.Priority))
	}
	return report, nil
}

func (e *Engine) analyze(ctx context.Context, req model.CampaignRequest) (types.Report, error) {
	if err := ctx.Err(); err != nil {
		return types.Report{}, err
	}
	from, to, err := req.Window(e.cfg.AnalysisWindowDays)
	if err != nil {
		return types.Report{}, err
	}
	snap, err := normalize.Decode(req.Platform, req.Analytics)
	if err != nil {
		return types.Report{}, err
	}
	snap = snap.Window(from, to)

	family := snap.Platform.Family()
	m := derived.Compute(snap.Totals)
	viewCVR := derived.ViewConversionRate(snap.Totals)

	entries, err := e.allocateUnits(snap, req.TotalBudget)
	if err != nil {
		return types.Report{}, err
	}

	sched := schedule.Recommend(snap.Daily, e.cfg.Schedule)
	if family == model.FamilyMarketplace {
		sched.Promotions = schedule.MarketplacePromotions()
	}

	report := types.Report{
		Platform:         snap.Platform,
		CampaignID:       req.CampaignID,
		Performance:      snap.Totals,
		DerivedMetrics:   m,
		BudgetAllocation: entries,
		Schedule:         sched,
	}
	if d, ok := e.selector.Select(family, m); ok {
		report.BiddingStrategy = &d
	} else if family == model.FamilyMarketplace {
		promo := e.selector.SelectPromotion(viewCVR)
		report.PromotionStrategy = &promo
	}

	report.Recommendations = e.recs.Generate(recommend.Input{
		Platform:            snap.Platform,
		Metrics:             m,
		Conversions:         snap.Totals.Conversions,
		ViewCVR:             viewCVR,
		Units:               unitMetrics(snap.Units),
		Schedule:            &report.Schedule,
		Bidding:             report.BiddingStrategy,
		Promotion:           report.PromotionStrategy,
		VideoCompletionRate: snap.VideoCompletionRate,
		Audience:            snap.Audience,
	})
	return report, nil
}

// allocateUnits shares the campaign budget across its ad sets, ad groups or
// products. Marketplaces score by view conversion and get a promotion type
// per product.
func (e *Engine) allocateUnits(snap model.Snapshot, total *float64) ([]allocation.Entry, error) {
	if len(snap.Units) == 0 {
		return []allocation.Entry{}, nil
	}

	entities := make([]allocation.Entity, len(snap.Units))
	for i, u := range snap.Units {
		entities[i] = allocation.Entity{ID: u.ID, Name: u.Name, Platform: snap.Platform, Record: u.Record}
	}

	opts := []allocation.Option{allocation.WithROASCap(e.cfg.ROASCap)}
	if total != nil {
		opts = append(opts, allocation.WithTotalBudget(*total))
	}
	variant := "roas"
	if snap.Platform.Family() == model.FamilyMarketplace {
		variant = "view_conversion"
		opts = append(opts,
			allocation.WithScorer(allocation.ViewConversionScore),
			allocation.WithFallbackBudget(e.cfg.MarketplaceDefaultBudget),
			allocation.WithPromotionThreshold(e.cfg.MarketplacePromotionShare),
		)
	}

	res, err := allocation.Allocate(entities, opts...)
	if err != nil {
		return nil, err
	}
	metrics.RecordAllocation(variant)
	return res.Entries, nil
}

// AllocateAcrossPlatforms shares one budget across analyzed campaigns using
// the weighted ROAS and CVR score.
func (e *Engine) AllocateAcrossPlatforms(reports []types.Report, total *float64) (allocation.Result, error) {
	entities := make([]allocation.Entity, len(reports))
	for i, r := range reports {
		id := r.CampaignID
		if id == "" {
			id = string(r.Platform)
		}
		entities[i] = allocation.Entity{ID: id, Name: string(r.Platform), Platform: r.Platform, Record: r.Performance}
	}

	opts := []allocation.Option{
		allocation.WithScorer(allocation.WeightedScore(e.cfg.CrossPlatformROASWeight, e.cfg.CrossPlatformCVRWeight)),
		allocation.WithROASCap(e.cfg.ROASCap),
	}
	if total != nil {
		opts = append(opts, allocation.WithTotalBudget(*total))
	}
	res, err := allocation.Allocate(entities, opts...)
	if err != nil {
		return allocation.Result{}, err
	}
	metrics.RecordAllocation("cross_platform")
	return res, nil
}

// CompareAcrossPlatforms builds cross-platform insights from analyzed campaigns.
func (e *Engine) CompareAcrossPlatforms(reports []types.Report) (insights.Result, error) {
	entries := make([]insights.PlatformMetrics, len(reports))
	for i, r := range reports {
		entries[i] = insights.PlatformMetrics{
			Platform:    r.Platform,
			CampaignID:  r.CampaignID,
			Performance: r.Performance,
			Metrics:     r.DerivedMetrics,
		}
	}
	res, err := e.insights.Generate(entries)
	if err != nil {
		return insights.Result{}, err
	}
	for _, r := range res.Recommendations {
		metrics.RecordRecommendation(string(r.Type), string(r.Priority))
	}
	return res, nil
}

func unitMetrics(units []model.Unit) []recommend.UnitMetrics {
	out := make([]recommend.UnitMetrics, len(units))
	for i, u := range units {
		out[i] = recommend.UnitMetrics{
			ID:      u.ID,
			Name:    u.Name,
			Metrics: derived.Compute(u.Record),
			ViewCVR: derived.ViewConversionRate(u.Record),
		}
	}
	return out
}

// platformLabel keeps metric cardinality bounded for unknown tags.
func platformLabel(tag string) string {
	if p, ok := model.ParsePlatform(tag); ok {
		return string(p)
	}
	return "unknown"
}
