// Package schedule buckets campaign time series by day of week and hour of day
// and ranks the buckets by conversion rate.
package schedule

import (
	"sort"
	"strconv"
	"time"

	"github.com/okian/adlens/internal/domain/derived"
	"github.com/okian/adlens/internal/domain/model"
)

// Granularity selects how points are bucketed.
type Granularity int

// Supported granularities.
const (
	DayOfWeek Granularity = iota
	HourOfDay
)

func (g Granularity) String() string {
	if g == HourOfDay {
		return "hour_of_day"
	}
	return "day_of_week"
}

const hoursPerDay = 24

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Bucket aggregates every point that fell into one day or hour.
type Bucket struct {
	Impressions uint64  `json:"impressions"`
	Clicks      uint64  `json:"clicks"`
	Conversions uint64  `json:"conversions"`
	Spend       float64 `json:"spend"`
	Count       int     `json:"count"`

	AvgImpressions float64 `json:"avg_impressions"`
	AvgClicks      float64 `json:"avg_clicks"`
	AvgConversions float64 `json:"avg_conversions"`
	AvgSpend       float64 `json:"avg_spend"`
	AvgCTR         float64 `json:"avg_ctr"`
	AvgCVR         float64 `json:"avg_cvr"`
	AvgCPC         float64 `json:"avg_cpc"`
	AvgCPA         float64 `json:"avg_cpa"`
}

func (b *Bucket) add(r model.PerformanceRecord) {
	b.Impressions += r.Impressions
	b.Clicks += r.Clicks
	b.Conversions += r.Conversions
	b.Spend += r.Spend
	b.Count++
}

func (b *Bucket) finish() {
	if b.Count == 0 {
		return
	}
	n := float64(b.Count)
	b.AvgImpressions = float64(b.Impressions) / n
	b.AvgClicks = float64(b.Clicks) / n
	b.AvgConversions = float64(b.Conversions) / n
	b.AvgSpend = b.Spend / n
	m := derived.Compute(model.PerformanceRecord{
		Impressions: b.Impressions,
		Clicks:      b.Clicks,
		Conversions: b.Conversions,
		Spend:       b.Spend,
	})
	b.AvgCTR, b.AvgCVR, b.AvgCPC, b.AvgCPA = m.CTR, m.CVR, m.CPC, m.CPA
}

// Profile is a full bucket map plus the ranking of its populated buckets.
type Profile struct {
	Granularity Granularity
	// Keys lists every bucket in insertion order: Monday..Sunday or "0".."23".
	Keys    []string
	Buckets map[string]Bucket
	// Ranked holds keys of buckets with data, best average CVR first.
	Ranked []string
}

// Build buckets the points at granularity g. Hour buckets read each point's
// hourly breakdown; points without one contribute nothing to them.
func Build(points []model.DailyPoint, g Granularity) Profile {
	p := Profile{Granularity: g}
	acc := make(map[string]*Bucket)
	if g == HourOfDay {
		for h := 0; h < hoursPerDay; h++ {
			key := strconv.Itoa(h)
			p.Keys = append(p.Keys, key)
			acc[key] = &Bucket{}
		}
	} else {
		for _, d := range weekdays {
			p.Keys = append(p.Keys, d.String())
			acc[d.String()] = &Bucket{}
		}
	}

	for _, pt := range points {
		if g == DayOfWeek {
			acc[pt.Date.Weekday().String()].add(pt.Record)
			continue
		}
		for h, rec := range pt.Hourly {
			if b, ok := acc[strconv.Itoa(h)]; ok {
				b.add(rec)
			}
		}
	}

	p.Buckets = make(map[string]Bucket, len(acc))
	for _, key := range p.Keys {
		b := acc[key]
		b.finish()
		p.Buckets[key] = *b
		if b.Count > 0 {
			p.Ranked = append(p.Ranked, key)
		}
	}
	sort.SliceStable(p.Ranked, func(i, j int) bool {
		return p.Buckets[p.Ranked[i]].AvgCVR > p.Buckets[p.Ranked[j]].AvgCVR
	})
	return p
}

// Top returns up to n keys from the ranking.
func (p Profile) Top(n int) []string {
	if n > len(p.Ranked) {
		n = len(p.Ranked)
	}
	if n <= 0 {
		return []string{}
	}
	out := make([]string, n)
	copy(out, p.Ranked[:n])
	return out
}

// TopHours returns up to n ranked hours, re-sorted ascending.
func (p Profile) TopHours(n int) []int {
	keys := p.Top(n)
	hours := make([]int, 0, len(keys))
	for _, k := range keys {
		if h, err := strconv.Atoi(k); err == nil {
			hours = append(hours, h)
		}
	}
	sort.Ints(hours)
	return hours
}
