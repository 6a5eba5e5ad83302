package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/adlens/pkg/logger"
)

const (
	envPrefix  = "ADLENS_"
	envFileKey = "ADLENS_CONFIG"
)

// listKeys are comma separated when set from the environment.
var listKeys = map[string]bool{
	"cors_allowed_origins":   true,
	"schedule_default_days":  true,
	"schedule_default_hours": true,
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ADLENS_CONFIG is set
//  3. env (prefix ADLENS_)
func Load(ctx context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envFileKey); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// ADLENS_QUEUE_SIZE -> queue_size. Underscores are kept to match the koanf tags.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	resetLists(&cfg, k)
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resetLists drops list defaults that are about to be replaced so the decoder
// does not merge them element by element.
func resetLists(cfg *Config, k *koanf.Koanf) {
	if k.Exists("cors_allowed_origins") {
		cfg.CORSAllowedOrigins = nil
	}
	if k.Exists("schedule_default_days") {
		cfg.ScheduleDefaultDays = nil
	}
	if k.Exists("schedule_default_hours") {
		cfg.ScheduleDefaultHours = nil
	}
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.LogFormat != logger.FormatText && c.LogFormat != logger.FormatJSON:
		return invalid("log_format must be text or json, got %q", c.LogFormat)
	case c.QueueSize < 1:
		return invalid("queue_size must be positive")
	case c.MaxBatchSize < 1:
		return invalid("max_batch_size must be positive")
	case c.BidMarkup <= 0:
		return invalid("bid_markup must be positive")
	case c.ROASCap <= 0:
		return invalid("roas_cap must be positive")
	case c.CrossPlatformROASWeight < 0 || c.CrossPlatformCVRWeight < 0:
		return invalid("cross platform weights must not be negative")
	case c.MarketplaceDefaultBudget < 0:
		return invalid("marketplace_default_budget must not be negative")
	case c.MarketplacePromotionShare < 0 || c.MarketplacePromotionShare > 1:
		return invalid("marketplace_promotion_share must be within [0, 1]")
	case c.ScheduleTopDays < 1 || c.ScheduleTopHours < 1:
		return invalid("schedule_top_days and schedule_top_hours must be positive")
	case c.AnalysisWindowDays < 1:
		return invalid("analysis_window_days must be positive")
	}
	for _, h := range c.ScheduleDefaultHours {
		if h < 0 || h > 23 {
			return invalid("schedule_default_hours out of range: %d", h)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
