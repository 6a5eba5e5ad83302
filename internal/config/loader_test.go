package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/adlens/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"*"})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ADLENS_ADDR", ":8080")
			_ = os.Setenv("ADLENS_QUEUE_SIZE", "64")
			_ = os.Setenv("ADLENS_WORKER_COUNT", "16")
			_ = os.Setenv("ADLENS_BID_MARKUP", "1.35")
			_ = os.Setenv("ADLENS_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
			_ = os.Setenv("ADLENS_SCHEDULE_DEFAULT_HOURS", "8,20")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.BidMarkup, convey.ShouldEqual, 1.35)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
				convey.So(cfg.ScheduleDefaultHours, convey.ShouldResemble, []int{8, 20})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
# thresholds
addr: ":9090"
log_format: json
max_batch_size: 10
rec_cpa_ceiling: 35.5
schedule_default_days: [Tuesday, Saturday]
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("ADLENS_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 10)
				convey.So(cfg.RecCPACeiling, convey.ShouldEqual, 35.5)
				convey.So(cfg.ScheduleDefaultDays, convey.ShouldResemble, []string{"Tuesday", "Saturday"})
				convey.So(cfg.RecCTRFloor, convey.ShouldEqual, 1.0)
			})

			convey.Convey("And environment variables override file values", func() {
				_ = os.Setenv("ADLENS_ADDR", ":8181")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8181")
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("ADLENS_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("ADLENS_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("ADLENS_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("ADLENS_QUEUE_SIZE", "invalid")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a threshold is out of range", func() {
			_ = os.Setenv("ADLENS_ROAS_CAP", "0")

			_, err := config.Load(ctx)

			convey.Convey("Then validation names it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "roas_cap")
			})
		})

		convey.Convey("When a default hour is out of range", func() {
			_ = os.Setenv("ADLENS_SCHEDULE_DEFAULT_HOURS", "9,24")

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, key := range []string{
		"ADLENS_CONFIG",
		"ADLENS_ADDR",
		"ADLENS_QUEUE_SIZE",
		"ADLENS_WORKER_COUNT",
		"ADLENS_BID_MARKUP",
		"ADLENS_CORS_ALLOWED_ORIGINS",
		"ADLENS_SCHEDULE_DEFAULT_HOURS",
		"ADLENS_ROAS_CAP",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "adlens-config-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
