package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/adlens/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 100)
			convey.So(cfg.ROASCap, convey.ShouldEqual, 100)
			convey.So(cfg.AnalysisWindowDays, convey.ShouldEqual, 30)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the domain configs mirror the flat keys", func() {
			cfg.BidMarkup = 1.5
			cfg.RecCPACeiling = 40
			cfg.ScheduleTopHours = 4

			convey.So(cfg.Bidding().BidMarkup, convey.ShouldEqual, 1.5)
			convey.So(cfg.Bidding().ConversionCVR, convey.ShouldEqual, 2.0)
			convey.So(cfg.Recommend().CPACeiling, convey.ShouldEqual, 40)
			convey.So(cfg.Recommend().VideoCompletionFloor, convey.ShouldEqual, 50)
			convey.So(cfg.Schedule().TopHours, convey.ShouldEqual, 4)
			convey.So(cfg.Schedule().DefaultDays, convey.ShouldResemble, []string{"Monday", "Wednesday", "Friday"})
		})
	})
}
