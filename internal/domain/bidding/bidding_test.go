package bidding

import (
	"testing"

	"github.com/okian/adlens/internal/domain/derived"
	"github.com/okian/adlens/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSelect(t *testing.T) {
	Convey("Given the default thresholds", t, func() {
		s := NewSelector(DefaultConfig())

		Convey("CVR above 2 picks the conversion tier with a marked-up bid", func() {
			d, ok := s.Select(model.FamilyAuction, derived.Metrics{CVR: 2.5, CTR: 0.2, CPA: 10})
			So(ok, ShouldBeTrue)
			So(d.Tier, ShouldEqual, TierConversion)
			So(d.Strategy, ShouldEqual, "LOWEST_COST_WITH_BID_CAP")
			So(d.OptimizationGoal, ShouldEqual, "CONVERSIONS")
			So(d.BidCap, ShouldNotBeNil)
			So(*d.BidCap, ShouldAlmostEqual, 12.0, 1e-9)
		})

		Convey("CVR at or below 2 with CTR above 1 picks the click tier", func() {
			d, _ := s.Select(model.FamilyAuction, derived.Metrics{CVR: 1.0, CTR: 1.5, CPA: 10})
			So(d.Tier, ShouldEqual, TierClick)
			So(d.OptimizationGoal, ShouldEqual, "LINK_CLICKS")
			So(d.BidCap, ShouldBeNil)
		})

		Convey("Everything else falls to reach", func() {
			d, _ := s.Select(model.FamilyAuction, derived.Metrics{CVR: 0.5, CTR: 0.5})
			So(d.Tier, ShouldEqual, TierReach)
			So(d.Strategy, ShouldEqual, "LOWEST_COST_WITHOUT_CAP")
			So(d.OptimizationGoal, ShouldEqual, "REACH")
		})

		Convey("Thresholds are strict", func() {
			d, _ := s.Select(model.FamilyAuction, derived.Metrics{CVR: 2.0, CTR: 1.0})
			So(d.Tier, ShouldEqual, TierReach)
		})

		Convey("Short video uses its own identifiers with the same tiers", func() {
			d, ok := s.Select(model.FamilyShortVideo, derived.Metrics{CVR: 3, CPA: 5})
			So(ok, ShouldBeTrue)
			So(d.Strategy, ShouldEqual, "BID_TYPE_CUSTOM")
			So(d.OptimizationGoal, ShouldEqual, "CONVERSION")
			So(*d.BidCap, ShouldAlmostEqual, 6.0, 1e-9)

			d, _ = s.Select(model.FamilyShortVideo, derived.Metrics{CTR: 2})
			So(d.Strategy, ShouldEqual, "BID_TYPE_NO_BID")
			So(d.OptimizationGoal, ShouldEqual, "CLICK")
		})

		Convey("Marketplaces do not bid", func() {
			_, ok := s.Select(model.FamilyMarketplace, derived.Metrics{CVR: 10})
			So(ok, ShouldBeFalse)
			So(s.Supports(model.FamilyMarketplace), ShouldBeFalse)
		})
	})

	Convey("Overridden thresholds change the outcome", t, func() {
		cfg := DefaultConfig()
		cfg.ConversionCVR = 5
		cfg.BidMarkup = 1.5
		s := NewSelector(cfg)

		d, _ := s.Select(model.FamilyAuction, derived.Metrics{CVR: 2.5, CTR: 1.5, CPA: 10})
		So(d.Tier, ShouldEqual, TierClick)

		d, _ = s.Select(model.FamilyAuction, derived.Metrics{CVR: 6, CPA: 10})
		So(*d.BidCap, ShouldAlmostEqual, 15.0, 1e-9)
	})
}

func TestSelectPromotion(t *testing.T) {
	Convey("Marketplace promotions tier by view conversion", t, func() {
		s := NewSelector(DefaultConfig())
		So(s.SelectPromotion(6), ShouldResemble, Promotion{Type: "daily_discover", Frequency: "daily", DiscountPercent: 5})
		So(s.SelectPromotion(3), ShouldResemble, Promotion{Type: "flash_sale", Frequency: "twice_daily", DiscountPercent: 10})
		So(s.SelectPromotion(2), ShouldResemble, Promotion{Type: "flash_sale", Frequency: "three_times_daily", DiscountPercent: 15})
	})
}
