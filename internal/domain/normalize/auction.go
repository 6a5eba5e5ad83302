package normalize

import (
	"encoding/json"

	"github.com/okian/adlens/internal/domain/model"
	"github.com/shopspring/decimal"
)

// purchaseActions are the action types counted as purchases.
var purchaseActions = map[string]struct{}{
	"purchase":                            {},
	"offsite_conversion.fb_pixel_purchase": {},
	"omni_purchase":                       {},
	"onsite_conversion.purchase":          {},
}

type actionValue struct {
	ActionType string          `json:"action_type"`
	Value      decimal.Decimal `json:"value"`
}

type auctionRow struct {
	Impressions      decimal.Decimal `json:"impressions"`
	Clicks           decimal.Decimal `json:"clicks"`
	Spend            decimal.Decimal `json:"spend"`
	Actions          []actionValue   `json:"actions"`
	ConversionValues []actionValue   `json:"conversion_values"`
}

// auction reads the insights shape shared by Facebook and Instagram.
type auction struct {
	platform model.Platform
}

func (a auction) Platform() model.Platform { return a.platform }

func (a auction) Normalize(raw json.RawMessage) (model.PerformanceRecord, error) {
	var row auctionRow
	if err := decodeRow(a.platform, raw, &row); err != nil {
		return model.PerformanceRecord{}, err
	}
	f := fields{platform: a.platform}
	rec := model.PerformanceRecord{
		Impressions: f.count("impressions", row.Impressions),
		Clicks:      f.count("clicks", row.Clicks),
		Conversions: f.count("actions", sumPurchases(row.Actions)),
		Spend:       f.amount("spend", row.Spend),
		Revenue:     f.amount("conversion_values", sumPurchases(row.ConversionValues)),
	}
	return rec, f.err
}

func sumPurchases(values []actionValue) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		if _, ok := purchaseActions[v.ActionType]; ok {
			total = total.Add(v.Value)
		}
	}
	return total
}
