// Package derived computes ratio metrics from a performance record.
//
// Every ratio is 0 when its denominator is 0, except ROAS, which becomes
// Unbounded when revenue is earned at zero spend or when the quotient
// overflows.
package derived

import (
	"math"

	"github.com/okian/adlens/internal/domain/model"
)

// Metrics holds the ratios derived from one PerformanceRecord.
type Metrics struct {
	CTR  float64 `json:"ctr"`
	CVR  float64 `json:"cvr"`
	CPC  float64 `json:"cpc"`
	CPA  float64 `json:"cpa"`
	ROAS ROAS    `json:"roas"`
}

// Compute derives CTR and CVR as percentages, CPC and CPA in spend units
// and ROAS as a plain ratio.
func Compute(r model.PerformanceRecord) Metrics {
	m := Metrics{
		CTR: percent(float64(r.Clicks), float64(r.Impressions)),
		CVR: percent(float64(r.Conversions), float64(r.Clicks)),
		CPC: ratio(r.Spend, float64(r.Clicks)),
		CPA: ratio(r.Spend, float64(r.Conversions)),
	}
	switch {
	case r.Spend > 0:
		v := r.Revenue / r.Spend
		if math.IsInf(v, 0) || math.IsNaN(v) {
			m.ROAS = Unbounded
		} else {
			m.ROAS = Finite(v)
		}
	case r.Revenue > 0:
		m.ROAS = Unbounded
	default:
		m.ROAS = Finite(0)
	}
	return m
}

// ViewConversionRate is conversions per impression as a percentage. It is the
// conversion measure for marketplaces, which report views and orders but no clicks.
func ViewConversionRate(r model.PerformanceRecord) float64 {
	return percent(float64(r.Conversions), float64(r.Impressions))
}

// ConversionRate is the conversion measure used when comparing platforms:
// view conversion for marketplaces and click conversion for everyone else.
func ConversionRate(p model.Platform, r model.PerformanceRecord) float64 {
	if p.Family() == model.FamilyMarketplace {
		return ViewConversionRate(r)
	}
	return percent(float64(r.Conversions), float64(r.Clicks))
}

func ratio(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

func percent(n, d float64) float64 {
	return ratio(n, d) * 100
}
