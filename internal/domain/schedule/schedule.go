package schedule

import (
	"sort"

	"github.com/okian/adlens/internal/domain/model"
)

// Config sizes the recommendation and supplies fallbacks for campaigns
// without enough time series data.
type Config struct {
	TopDays  int
	TopHours int
	// DefaultDays is used when no day bucket has data.
	DefaultDays []string
	// DefaultHours is used when no hour bucket has data.
	DefaultHours []int
}

// DefaultConfig returns the standard top-3 days and top-6 hours.
func DefaultConfig() Config {
	return Config{
		TopDays:      3,
		TopHours:     6,
		DefaultDays:  []string{"Monday", "Wednesday", "Friday"},
		DefaultHours: []int{9, 12, 15, 18, 21, 22},
	}
}

// PromotionWindow is a recurring slot for a marketplace promotion type.
type PromotionWindow struct {
	Type  string   `json:"type"`
	Days  []string `json:"days"`
	Hours []int    `json:"hours"`
}

// Schedule is the day and hour recommendation for one campaign.
type Schedule struct {
	TopDays           []string          `json:"top_days"`
	TopHours          []int             `json:"top_hours"`
	DayOfWeek         map[string]Bucket `json:"day_of_week_performance"`
	HourOfDay         map[string]Bucket `json:"hour_of_day_performance"`
	DaysFromDefaults  bool              `json:"days_from_defaults,omitempty"`
	HoursFromDefaults bool              `json:"hours_from_defaults,omitempty"`
	Promotions        []PromotionWindow `json:"promotion_schedule,omitempty"`
}

// Recommend profiles points by day and by hour and picks the best slots.
func Recommend(points []model.DailyPoint, cfg Config) Schedule {
	days := Build(points, DayOfWeek)
	hours := Build(points, HourOfDay)

	s := Schedule{
		TopDays:   days.Top(cfg.TopDays),
		TopHours:  hours.TopHours(cfg.TopHours),
		DayOfWeek: days.Buckets,
		HourOfDay: hours.Buckets,
	}
	if len(s.TopDays) == 0 && len(cfg.DefaultDays) > 0 {
		s.TopDays = append([]string(nil), cfg.DefaultDays...)
		s.DaysFromDefaults = true
	}
	if len(s.TopHours) == 0 && len(cfg.DefaultHours) > 0 {
		s.TopHours = append([]int(nil), cfg.DefaultHours...)
		sort.Ints(s.TopHours)
		s.HoursFromDefaults = true
	}
	return s
}

// MarketplacePromotions is the standing promotion calendar for shops.
func MarketplacePromotions() []PromotionWindow {
	return []PromotionWindow{
		{Type: "flash_sale", Days: []string{"Monday", "Friday"}, Hours: []int{12, 18, 21}},
		{
			Type:  "daily_discover",
			Days:  []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
			Hours: []int{9, 15, 21},
		},
	}
}
