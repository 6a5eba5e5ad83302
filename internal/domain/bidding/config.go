package bidding

// Config holds the decision thresholds.
type Config struct {
	// ConversionCVR is the CVR (percent) above which bidding optimizes for conversions.
	ConversionCVR float64
	// ClickCTR is the CTR (percent) above which bidding optimizes for clicks.
	ClickCTR float64
	// BidMarkup multiplies CPA into the conversion bid.
	BidMarkup float64

	// PromotionHighCVR and PromotionModerateCVR tier marketplace view conversion.
	PromotionHighCVR     float64
	PromotionModerateCVR float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		ConversionCVR:        2.0,
		ClickCTR:             1.0,
		BidMarkup:            1.2,
		PromotionHighCVR:     5.0,
		PromotionModerateCVR: 2.0,
	}
}
