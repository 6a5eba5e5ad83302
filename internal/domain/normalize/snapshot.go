package normalize

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/adlens/internal/domain/model"
)

const hoursPerDay = 24

type envelope struct {
	Daily    []json.RawMessage `json:"daily_metrics"`
	Units    []json.RawMessage `json:"units"`
	Audience struct {
		AgeGender map[string]segmentRow `json:"age_gender"`
	} `json:"audience_insights"`
}

type segmentRow struct {
	CTR decimal.Decimal `json:"ctr"`
}

type dailyHeader struct {
	Date   string                     `json:"date"`
	Hourly map[string]json.RawMessage `json:"hourly_metrics"`
}

type unitHeader struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Decode normalizes a full campaign payload: the top-level totals, every
// daily_metrics row with its optional hourly_metrics, and every units row.
// Any failure aborts the whole campaign.
func Decode(tag string, raw json.RawMessage) (model.Snapshot, error) {
	n, err := Lookup(tag)
	if err != nil {
		return model.Snapshot{}, err
	}
	p := n.Platform()

	totals, err := n.Normalize(raw)
	if err != nil {
		return model.Snapshot{}, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %s: %v", ErrDecode, p, err)
	}

	snap := model.Snapshot{Platform: p, Totals: totals}
	if p.Family() == model.FamilyShortVideo {
		snap.VideoCompletionRate = completionRate(raw)
	}

	for i, row := range env.Daily {
		point, err := decodeDaily(n, row)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("daily_metrics[%d]: %w", i, err)
		}
		snap.Daily = append(snap.Daily, point)
	}

	audience, err := decodeAudience(p, env.Audience.AgeGender)
	if err != nil {
		return model.Snapshot{}, err
	}
	snap.Audience = audience

	for i, row := range env.Units {
		var h unitHeader
		if err := json.Unmarshal(row, &h); err != nil {
			return model.Snapshot{}, fmt.Errorf("units[%d]: %w: %v", i, ErrDecode, err)
		}
		rec, err := n.Normalize(row)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("units[%d]: %w", i, err)
		}
		if h.ID == "" {
			h.ID = "unit-" + strconv.Itoa(i+1)
		}
		snap.Units = append(snap.Units, model.Unit{ID: h.ID, Name: h.Name, Record: rec})
	}
	return snap, nil
}

func decodeAudience(p model.Platform, rows map[string]segmentRow) ([]model.Segment, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	slices.Sort(names)

	f := fields{platform: p}
	out := make([]model.Segment, len(names))
	for i, name := range names {
		out[i] = model.Segment{Name: name, CTR: f.amount("audience_insights.age_gender."+name+".ctr", rows[name].CTR)}
	}
	return out, f.err
}

func decodeDaily(n Normalizer, row json.RawMessage) (model.DailyPoint, error) {
	var h dailyHeader
	if err := json.Unmarshal(row, &h); err != nil {
		return model.DailyPoint{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	date, err := time.Parse(model.DateLayout, h.Date)
	if err != nil {
		return model.DailyPoint{}, fmt.Errorf("%w: date %q", ErrDecode, h.Date)
	}
	rec, err := n.Normalize(row)
	if err != nil {
		return model.DailyPoint{}, err
	}
	point := model.DailyPoint{Date: date, Record: rec}
	if len(h.Hourly) == 0 {
		return point, nil
	}
	point.Hourly = make(map[int]model.PerformanceRecord, len(h.Hourly))
	for key, hourRow := range h.Hourly {
		hour, err := strconv.Atoi(key)
		if err != nil || hour < 0 || hour >= hoursPerDay {
			return model.DailyPoint{}, fmt.Errorf("%w: hour %q", ErrDecode, key)
		}
		hourRec, err := n.Normalize(hourRow)
		if err != nil {
			return model.DailyPoint{}, fmt.Errorf("hour %s: %w", key, err)
		}
		point.Hourly[hour] = hourRec
	}
	return point, nil
}
