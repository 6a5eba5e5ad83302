// Package config defines service configuration and how it is loaded.
package config

import (
	"runtime"

	"github.com/okian/adlens/internal/domain/allocation"
	"github.com/okian/adlens/internal/domain/bidding"
	"github.com/okian/adlens/internal/domain/recommend"
	"github.com/okian/adlens/internal/domain/schedule"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// QueueSize bounds the in-memory analysis queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`
	// MaxBatchSize caps campaigns per multi-campaign request.
	MaxBatchSize int `koanf:"max_batch_size"`

	BidConversionCVR     float64 `koanf:"bid_conversion_cvr"`
	BidClickCTR          float64 `koanf:"bid_click_ctr"`
	BidMarkup            float64 `koanf:"bid_markup"`
	PromotionHighCVR     float64 `koanf:"promotion_high_cvr"`
	PromotionModerateCVR float64 `koanf:"promotion_moderate_cvr"`

	RecCTRFloor             float64 `koanf:"rec_ctr_floor"`
	RecCVRFloor             float64 `koanf:"rec_cvr_floor"`
	RecROASFloor            float64 `koanf:"rec_roas_floor"`
	RecSpreadRatio          float64 `koanf:"rec_spread_ratio"`
	RecCPACeiling           float64 `koanf:"rec_cpa_ceiling"`
	RecVideoCompletionFloor float64 `koanf:"rec_video_completion_floor"`

	// ROASCap replaces unbounded ROAS when scoring allocations.
	ROASCap                 float64 `koanf:"roas_cap"`
	CrossPlatformROASWeight float64 `koanf:"cross_platform_roas_weight"`
	CrossPlatformCVRWeight  float64 `koanf:"cross_platform_cvr_weight"`
	// MarketplaceDefaultBudget is allocated when a marketplace campaign has no spend and no budget.
	MarketplaceDefaultBudget float64 `koanf:"marketplace_default_budget"`
	// MarketplacePromotionShare is the budget share above which a product gets daily_discover.
	MarketplacePromotionShare float64 `koanf:"marketplace_promotion_share"`

	ScheduleTopDays      int      `koanf:"schedule_top_days"`
	ScheduleTopHours     int      `koanf:"schedule_top_hours"`
	ScheduleDefaultDays  []string `koanf:"schedule_default_days"`
	ScheduleDefaultHours []int    `koanf:"schedule_default_hours"`

	// AnalysisWindowDays completes a date range when only one bound is given.
	AnalysisWindowDays int `koanf:"analysis_window_days"`
}

// New returns a Config holding the defaults.
func New() *Config {
	b := bidding.DefaultConfig()
	r := recommend.DefaultConfig()
	s := schedule.DefaultConfig()
	return &Config{
		LogLevel:                  "info",
		LogFormat:                 "text",
		Addr:                      ":9080",
		CORSAllowedOrigins:        []string{"*"},
		QueueSize:                 1024,
		WorkerCount:               runtime.NumCPU(),
		MaxBatchSize:              100,
		BidConversionCVR:          b.ConversionCVR,
		BidClickCTR:               b.ClickCTR,
		BidMarkup:                 b.BidMarkup,
		PromotionHighCVR:          b.PromotionHighCVR,
		PromotionModerateCVR:      b.PromotionModerateCVR,
		RecCTRFloor:               r.CTRFloor,
		RecCVRFloor:               r.CVRFloor,
		RecROASFloor:              r.ROASFloor,
		RecSpreadRatio:            r.SpreadRatio,
		RecCPACeiling:             r.CPACeiling,
		RecVideoCompletionFloor:   r.VideoCompletionFloor,
		ROASCap:                   allocation.DefaultROASCap,
		CrossPlatformROASWeight:   0.7,
		CrossPlatformCVRWeight:    0.3,
		MarketplaceDefaultBudget:  100,
		MarketplacePromotionShare: 0.2,
		ScheduleTopDays:           s.TopDays,
		ScheduleTopHours:          s.TopHours,
		ScheduleDefaultDays:       s.DefaultDays,
		ScheduleDefaultHours:      s.DefaultHours,
		AnalysisWindowDays:        30,
	}
}

// Bidding returns the bidding thresholds.
func (c *Config) Bidding() bidding.Config {
	return bidding.Config{
		ConversionCVR:        c.BidConversionCVR,
		ClickCTR:             c.BidClickCTR,
		BidMarkup:            c.BidMarkup,
		PromotionHighCVR:     c.PromotionHighCVR,
		PromotionModerateCVR: c.PromotionModerateCVR,
	}
}

// Recommend returns the recommendation thresholds.
func (c *Config) Recommend() recommend.Config {
	return recommend.Config{
		CTRFloor:             c.RecCTRFloor,
		CVRFloor:             c.RecCVRFloor,
		ROASFloor:            c.RecROASFloor,
		SpreadRatio:          c.RecSpreadRatio,
		CPACeiling:           c.RecCPACeiling,
		VideoCompletionFloor: c.RecVideoCompletionFloor,
	}
}

// Schedule returns the schedule sizing and fallbacks.
func (c *Config) Schedule() schedule.Config {
	return schedule.Config{
		TopDays:      c.ScheduleTopDays,
		TopHours:     c.ScheduleTopHours,
		DefaultDays:  c.ScheduleDefaultDays,
		DefaultHours: c.ScheduleDefaultHours,
	}
}
