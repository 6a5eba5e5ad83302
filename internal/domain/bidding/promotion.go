package bidding

// Promotion is the marketplace substitute for a bidding strategy.
type Promotion struct {
	Type            string `json:"promotion_type"`
	Frequency       string `json:"frequency"`
	DiscountPercent int    `json:"discount_percentage"`
}

// SelectPromotion tiers a shop by view conversion rate (percent): strong
// shops need light discounts, weak ones heavy and frequent flash sales.
func (s *Selector) SelectPromotion(viewCVR float64) Promotion {
	switch {
	case viewCVR > s.cfg.PromotionHighCVR:
		return Promotion{Type: "daily_discover", Frequency: "daily", DiscountPercent: 5}
	case viewCVR > s.cfg.PromotionModerateCVR:
		return Promotion{Type: "flash_sale", Frequency: "twice_daily", DiscountPercent: 10}
	default:
		return Promotion{Type: "flash_sale", Frequency: "three_times_daily", DiscountPercent: 15}
	}
}
