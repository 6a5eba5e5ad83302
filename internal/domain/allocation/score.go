package allocation

import (
	"github.com/okian/adlens/internal/domain/derived"
	"github.com/okian/adlens/internal/domain/model"
)

// ScoreInput is what a Scorer sees for one entity.
type ScoreInput struct {
	// Platform is empty for entities that are not tied to one platform.
	Platform model.Platform
	Record   model.PerformanceRecord
	Metrics  derived.Metrics
	// ROAS is Metrics.ROAS with Unbounded replaced by the configured cap.
	ROAS float64
}

// Scorer rates an entity; budget is shared in proportion to the scores.
type Scorer func(in ScoreInput) float64

// ROASScore is the single-axis default.
func ROASScore(in ScoreInput) float64 {
	return in.ROAS
}

// WeightedScore blends ROAS and conversion rate. The rate is a percentage
// while ROAS is a ratio; the formula combines them as-is. Marketplaces use
// their view conversion rate.
func WeightedScore(roasWeight, cvrWeight float64) Scorer {
	return func(in ScoreInput) float64 {
		return roasWeight*in.ROAS + cvrWeight*derived.ConversionRate(in.Platform, in.Record)
	}
}

// ViewConversionScore rates marketplace listings by orders per view.
func ViewConversionScore(in ScoreInput) float64 {
	return derived.ViewConversionRate(in.Record)
}
