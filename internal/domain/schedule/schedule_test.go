package schedule

import (
	"testing"
	"time"

	"github.com/okian/adlens/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// monday is 2024-05-06.
var monday = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

func point(offset int, clicks, conversions uint64) model.DailyPoint {
	return model.DailyPoint{
		Date:   monday.AddDate(0, 0, offset),
		Record: model.PerformanceRecord{Impressions: clicks * 10, Clicks: clicks, Conversions: conversions, Spend: float64(clicks)},
	}
}

func TestBuildDayOfWeek(t *testing.T) {
	Convey("Given two weeks of daily points", t, func() {
		points := []model.DailyPoint{
			point(0, 100, 2),  // Monday 2%
			point(7, 100, 4),  // Monday 4%
			point(1, 100, 10), // Tuesday 10%
			point(2, 100, 5),  // Wednesday 5%
			point(4, 100, 1),  // Friday 1%
		}

		p := Build(points, DayOfWeek)

		Convey("Then every weekday is present in insertion order", func() {
			So(p.Keys, ShouldResemble, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"})
			So(p.Buckets, ShouldHaveLength, 7)
		})

		Convey("And buckets accumulate and average", func() {
			mon := p.Buckets["Monday"]
			So(mon.Count, ShouldEqual, 2)
			So(mon.Clicks, ShouldEqual, 200)
			So(mon.AvgClicks, ShouldAlmostEqual, 100.0, 1e-9)
			So(mon.AvgCVR, ShouldAlmostEqual, 3.0, 1e-9)
			So(mon.AvgCTR, ShouldAlmostEqual, 10.0, 1e-9)
			So(mon.AvgCPA, ShouldAlmostEqual, 200.0/6.0, 1e-9)
		})

		Convey("And empty buckets stay in the map but out of the ranking", func() {
			So(p.Buckets["Sunday"].Count, ShouldEqual, 0)
			So(p.Buckets["Sunday"].AvgCVR, ShouldEqual, 0)
			So(p.Ranked, ShouldResemble, []string{"Tuesday", "Wednesday", "Monday", "Friday"})
		})

		Convey("And Top returns at most n days", func() {
			So(p.Top(3), ShouldResemble, []string{"Tuesday", "Wednesday", "Monday"})
			So(p.Top(10), ShouldHaveLength, 4)
			So(p.Top(0), ShouldBeEmpty)
		})
	})

	Convey("Equal conversion rates keep insertion order", t, func() {
		points := []model.DailyPoint{point(6, 100, 5), point(2, 100, 5), point(0, 100, 5)}
		p := Build(points, DayOfWeek)
		So(p.Ranked, ShouldResemble, []string{"Monday", "Wednesday", "Sunday"})
	})
}

func TestBuildHourOfDay(t *testing.T) {
	Convey("Given hourly breakdowns", t, func() {
		hourly := func(cvr map[int]uint64) map[int]model.PerformanceRecord {
			out := make(map[int]model.PerformanceRecord)
			for h, conv := range cvr {
				out[h] = model.PerformanceRecord{Impressions: 1000, Clicks: 100, Conversions: conv}
			}
			return out
		}
		points := []model.DailyPoint{
			{Date: monday, Hourly: hourly(map[int]uint64{22: 9, 3: 8, 14: 7, 9: 6, 18: 5, 1: 4, 12: 3, 20: 2})},
			{Date: monday.AddDate(0, 0, 1)},
		}

		p := Build(points, HourOfDay)

		Convey("Then all 24 hours exist and only hours with data rank", func() {
			So(p.Keys, ShouldHaveLength, 24)
			So(p.Keys[0], ShouldEqual, "0")
			So(p.Ranked, ShouldHaveLength, 8)
			So(p.Ranked[0], ShouldEqual, "22")
		})

		Convey("And the top six hours read chronologically", func() {
			So(p.TopHours(6), ShouldResemble, []int{1, 3, 9, 14, 18, 22})
		})
	})
}

func TestRecommend(t *testing.T) {
	Convey("Given points with daily data but no hourly data", t, func() {
		points := []model.DailyPoint{point(0, 100, 2), point(1, 100, 10)}
		s := Recommend(points, DefaultConfig())

		Convey("Then days come from the ranking", func() {
			So(s.TopDays, ShouldResemble, []string{"Tuesday", "Monday"})
			So(s.DaysFromDefaults, ShouldBeFalse)
		})

		Convey("And hours fall back to the defaults", func() {
			So(s.TopHours, ShouldResemble, []int{9, 12, 15, 18, 21, 22})
			So(s.HoursFromDefaults, ShouldBeTrue)
			So(s.HourOfDay, ShouldHaveLength, 24)
		})
	})

	Convey("Given no points and no defaults", t, func() {
		s := Recommend(nil, Config{TopDays: 3, TopHours: 6})

		Convey("Then both lists are empty", func() {
			So(s.TopDays, ShouldBeEmpty)
			So(s.TopHours, ShouldBeEmpty)
			So(s.DayOfWeek, ShouldHaveLength, 7)
		})
	})

	Convey("Given no points with defaults", t, func() {
		s := Recommend(nil, DefaultConfig())
		So(s.TopDays, ShouldResemble, []string{"Monday", "Wednesday", "Friday"})
		So(s.DaysFromDefaults, ShouldBeTrue)
	})

	Convey("The marketplace calendar has two promotion types", t, func() {
		promos := MarketplacePromotions()
		So(promos, ShouldHaveLength, 2)
		So(promos[0].Type, ShouldEqual, "flash_sale")
		So(promos[1].Days, ShouldHaveLength, 7)
	})
}
