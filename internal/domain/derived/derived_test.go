package derived

import (
	"encoding/json"
	"testing"

	"github.com/okian/adlens/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompute(t *testing.T) {
	Convey("Given a record with every denominator populated", t, func() {
		r := model.PerformanceRecord{Impressions: 1000, Clicks: 50, Conversions: 5, Spend: 100, Revenue: 500}
		m := Compute(r)

		Convey("Then each ratio matches the hand-computed value", func() {
			So(m.CTR, ShouldAlmostEqual, 5.0, 1e-9)
			So(m.CVR, ShouldAlmostEqual, 10.0, 1e-9)
			So(m.CPC, ShouldAlmostEqual, 2.0, 1e-9)
			So(m.CPA, ShouldAlmostEqual, 20.0, 1e-9)
			v, ok := m.ROAS.Float()
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 5.0, 1e-9)
		})
	})

	Convey("Given an empty record", t, func() {
		m := Compute(model.PerformanceRecord{})

		Convey("Then every ratio is zero and ROAS is finite", func() {
			So(m.CTR, ShouldEqual, 0)
			So(m.CVR, ShouldEqual, 0)
			So(m.CPC, ShouldEqual, 0)
			So(m.CPA, ShouldEqual, 0)
			So(m.ROAS.IsUnbounded(), ShouldBeFalse)
			So(m.ROAS.Capped(100), ShouldEqual, 0)
		})
	})

	Convey("Given clicks without impressions", t, func() {
		m := Compute(model.PerformanceRecord{Clicks: 3, Conversions: 1, Spend: 6})

		Convey("Then CTR is zero while the click ratios still compute", func() {
			So(m.CTR, ShouldEqual, 0)
			So(m.CVR, ShouldAlmostEqual, 33.3333333, 1e-6)
			So(m.CPC, ShouldAlmostEqual, 2.0, 1e-9)
			So(m.CPA, ShouldAlmostEqual, 6.0, 1e-9)
		})
	})

	Convey("Given revenue at zero spend", t, func() {
		r := model.PerformanceRecord{Impressions: 10000, Conversions: 200, Revenue: 50000}
		m := Compute(r)

		Convey("Then ROAS is unbounded and distinct from every finite value", func() {
			So(m.ROAS.IsUnbounded(), ShouldBeTrue)
			_, ok := m.ROAS.Float()
			So(ok, ShouldBeFalse)
			So(Finite(1e308).Less(m.ROAS), ShouldBeTrue)
			So(m.ROAS.Less(Finite(1e308)), ShouldBeFalse)
			So(m.ROAS.Capped(100), ShouldEqual, 100)
			So(m.ROAS.Below(2), ShouldBeFalse)
		})

		Convey("And marketplace view conversion uses impressions", func() {
			So(ViewConversionRate(r), ShouldAlmostEqual, 2.0, 1e-9)
		})
	})
}

func TestComputeOverflow(t *testing.T) {
	Convey("Given revenue so large against spend that the quotient overflows", t, func() {
		m := Compute(model.PerformanceRecord{Spend: 1e-300, Revenue: 1e10})

		Convey("Then ROAS is unbounded and the metrics still encode", func() {
			So(m.ROAS.IsUnbounded(), ShouldBeTrue)
			b, err := json.Marshal(m)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"roas":"unbounded"`)
		})
	})
}

func TestConversionRate(t *testing.T) {
	Convey("Conversion rate follows the platform family", t, func() {
		r := model.PerformanceRecord{Impressions: 1000, Clicks: 100, Conversions: 20}
		So(ConversionRate(model.PlatformFacebook, r), ShouldAlmostEqual, 20.0, 1e-9)
		So(ConversionRate(model.PlatformTikTok, r), ShouldAlmostEqual, 20.0, 1e-9)
		So(ConversionRate(model.PlatformShopee, r), ShouldAlmostEqual, 2.0, 1e-9)
		So(ConversionRate(model.PlatformShopee, model.PerformanceRecord{Conversions: 5}), ShouldEqual, 0)
	})
}

func TestROASEncoding(t *testing.T) {
	Convey("ROAS encodes as a number or the unbounded marker", t, func() {
		b, err := json.Marshal(Finite(2.5))
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, "2.5")

		b, err = json.Marshal(Unbounded)
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, `"unbounded"`)

		var r ROAS
		So(json.Unmarshal([]byte(`"unbounded"`), &r), ShouldBeNil)
		So(r.IsUnbounded(), ShouldBeTrue)
		So(json.Unmarshal([]byte(`"oops"`), &r), ShouldNotBeNil)

		So(Finite(3.14159).String(), ShouldEqual, "3.14")
		So(Unbounded.String(), ShouldEqual, "unbounded")
	})
}
