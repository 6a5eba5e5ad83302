package allocation

// Option applies a configuration option to an allocation run.
type Option func(*settings)

type settings struct {
	totalBudget        *float64
	fallbackBudget     float64
	scorer             Scorer
	roasCap            float64
	promotionThreshold float64
}

// WithTotalBudget fixes the budget to distribute. Without it the budget is
// the sum of current spend.
func WithTotalBudget(budget float64) Option {
	return func(s *settings) {
		s.totalBudget = &budget
	}
}

// WithFallbackBudget is used when no total is given and current spend sums to zero.
func WithFallbackBudget(budget float64) Option {
	return func(s *settings) {
		if budget > 0 {
			s.fallbackBudget = budget
		}
	}
}

// WithScorer sets the scoring function.
func WithScorer(scorer Scorer) Option {
	return func(s *settings) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithROASCap sets the finite stand-in for unbounded ROAS.
func WithROASCap(limit float64) Option {
	return func(s *settings) {
		if limit > 0 {
			s.roasCap = limit
		}
	}
}

// WithPromotionThreshold tags each entry with a marketplace promotion type:
// daily_discover above the share threshold, flash_sale otherwise.
func WithPromotionThreshold(share float64) Option {
	return func(s *settings) {
		if share > 0 {
			s.promotionThreshold = share
		}
	}
}
