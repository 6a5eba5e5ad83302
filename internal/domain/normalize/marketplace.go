package normalize

import (
	"encoding/json"

	"github.com/okian/adlens/internal/domain/model"
	"github.com/shopspring/decimal"
)

type marketplaceRow struct {
	ShopViews       decimal.Decimal `json:"shop_views"`
	OrderCount      decimal.Decimal `json:"order_count"`
	TotalOrderValue decimal.Decimal `json:"total_order_value"`
}

// marketplace reads Shopee shop statistics. Shops have no ad spend or clicks:
// views stand in for impressions and orders for conversions.
type marketplace struct{}

func (marketplace) Platform() model.Platform { return model.PlatformShopee }

func (m marketplace) Normalize(raw json.RawMessage) (model.PerformanceRecord, error) {
	var row marketplaceRow
	if err := decodeRow(m.Platform(), raw, &row); err != nil {
		return model.PerformanceRecord{}, err
	}
	f := fields{platform: m.Platform()}
	rec := model.PerformanceRecord{
		Impressions: f.count("shop_views", row.ShopViews),
		Conversions: f.count("order_count", row.OrderCount),
		Revenue:     f.amount("total_order_value", row.TotalOrderValue),
	}
	return rec, f.err
}
