package normalize

import (
	"encoding/json"
	"math"

	"github.com/okian/adlens/internal/domain/model"
	"github.com/shopspring/decimal"
)

// minorUnitExp shifts minor currency units (cents) to major units.
const minorUnitExp = -2

type shortVideoRow struct {
	Impressions        decimal.Decimal  `json:"impressions"`
	Clicks             decimal.Decimal  `json:"clicks"`
	Conversion         *decimal.Decimal `json:"conversion"`
	Conversions        *decimal.Decimal `json:"conversions"`
	Cost               *decimal.Decimal `json:"cost"`
	Spend              *decimal.Decimal `json:"spend"`
	TotalPurchaseValue decimal.Decimal  `json:"total_purchase_value"`
}

// shortVideo reads TikTok's flat report rows. Money is in cents.
type shortVideo struct{}

func (shortVideo) Platform() model.Platform { return model.PlatformTikTok }

func (s shortVideo) Normalize(raw json.RawMessage) (model.PerformanceRecord, error) {
	var row shortVideoRow
	if err := decodeRow(s.Platform(), raw, &row); err != nil {
		return model.PerformanceRecord{}, err
	}
	f := fields{platform: s.Platform()}
	rec := model.PerformanceRecord{
		Impressions: f.count("impressions", row.Impressions),
		Clicks:      f.count("clicks", row.Clicks),
		Conversions: f.count("conversion", first(row.Conversion, row.Conversions)),
		Spend:       f.amount("cost", first(row.Cost, row.Spend).Shift(minorUnitExp)),
		Revenue:     f.amount("total_purchase_value", row.TotalPurchaseValue.Shift(minorUnitExp)),
	}
	return rec, f.err
}

// completionRate extracts the optional video completion percentage.
func completionRate(raw json.RawMessage) *float64 {
	var row struct {
		VideoCompletionRate *decimal.Decimal `json:"video_completion_rate"`
	}
	if err := json.Unmarshal(raw, &row); err != nil || row.VideoCompletionRate == nil {
		return nil
	}
	v := row.VideoCompletionRate.InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
