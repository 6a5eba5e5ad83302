package model

import "time"

// PerformanceRecord is the canonical metric record built by a normalizer.
// All fields are non-negative. Records are passed by value and never mutated.
type PerformanceRecord struct {
	Impressions uint64  `json:"impressions"`
	Clicks      uint64  `json:"clicks"`
	Conversions uint64  `json:"conversions"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
}

// Add returns the field-wise sum of r and o.
func (r PerformanceRecord) Add(o PerformanceRecord) PerformanceRecord {
	return PerformanceRecord{
		Impressions: r.Impressions + o.Impressions,
		Clicks:      r.Clicks + o.Clicks,
		Conversions: r.Conversions + o.Conversions,
		Spend:       r.Spend + o.Spend,
		Revenue:     r.Revenue + o.Revenue,
	}
}

// DailyPoint is one day of a campaign time series, with an optional
// hour-of-day breakdown keyed 0..23.
type DailyPoint struct {
	Date   time.Time
	Record PerformanceRecord
	Hourly map[int]PerformanceRecord
}

// Unit is an allocatable sub-entity of a campaign: ad set, ad group or product.
type Unit struct {
	ID     string            `json:"id"`
	Name   string            `json:"name,omitempty"`
	Record PerformanceRecord `json:"performance"`
}

// Snapshot is everything the engine knows about one campaign after normalization.
type Snapshot struct {
	Platform Platform
	Totals   PerformanceRecord
	Daily    []DailyPoint
	Units    []Unit

	// VideoCompletionRate is a percentage, present only when the platform reports it.
	VideoCompletionRate *float64

	// Audience lists the age and gender segments the connector reported,
	// ordered by name.
	Audience []Segment
}

// Segment is one audience slice with its click-through rate in percent.
type Segment struct {
	Name string
	CTR  float64
}

// Window returns a copy of s whose daily points fall within [start, end].
// A zero bound leaves that side open.
func (s Snapshot) Window(start, end time.Time) Snapshot {
	if start.IsZero() && end.IsZero() {
		return s
	}
	out := s
	out.Daily = make([]DailyPoint, 0, len(s.Daily))
	for _, p := range s.Daily {
		if !start.IsZero() && p.Date.Before(start) {
			continue
		}
		if !end.IsZero() && p.Date.After(end) {
			continue
		}
		out.Daily = append(out.Daily, p)
	}
	return out
}
