package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	service "github.com/okian/adlens/internal/app"
	"github.com/okian/adlens/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	convey.Convey("Given a started service with a small pool", t, func() {
		svc := service.New(service.WithWorkerCount(4), service.WithQueueSize(64))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When a large batch runs through the workers", func() {
			reqs := make([]model.CampaignRequest, 40)
			for i := range reqs {
				switch i % 4 {
				case 0:
					reqs[i] = facebookCampaign(fmt.Sprintf("c-%02d", i))
				case 1:
					reqs[i] = tiktokCampaign(fmt.Sprintf("c-%02d", i))
				case 2:
					reqs[i] = shopeeCampaign(fmt.Sprintf("c-%02d", i))
				default:
					reqs[i] = model.CampaignRequest{
						Platform:   "instagram",
						CampaignID: fmt.Sprintf("c-%02d", i),
						Analytics:  json.RawMessage(`{"error": "rate limited"}`),
					}
				}
			}

			batch, err := svc.AnalyzeBatch(ctx, reqs)

			convey.Convey("Then results keep input order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(batch.Reports, convey.ShouldHaveLength, 30)
				convey.So(batch.Errors, convey.ShouldHaveLength, 10)
				prev := ""
				for _, r := range batch.Reports {
					convey.So(r.CampaignID > prev, convey.ShouldBeTrue)
					prev = r.CampaignID
				}
				for i, e := range batch.Errors {
					convey.So(e.Index, convey.ShouldEqual, 4*i+3)
					convey.So(e.Message, convey.ShouldEqual, "rate limited")
				}
			})
		})

		convey.Convey("When the batch outgrows the queue", func() {
			small := service.New(service.WithWorkerCount(1), service.WithQueueSize(1))
			convey.So(small.Start(ctx), convey.ShouldBeNil)
			defer small.Stop()

			reqs := make([]model.CampaignRequest, 25)
			for i := range reqs {
				reqs[i] = tiktokCampaign(fmt.Sprintf("t-%02d", i))
			}
			batch, err := small.AnalyzeBatch(ctx, reqs)

			convey.Convey("Then rejected jobs run inline and nothing is lost", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(batch.Reports, convey.ShouldHaveLength, 25)
				convey.So(batch.Errors, convey.ShouldBeEmpty)
				convey.So(small.GetStats()["campaignsAnalyzed"], convey.ShouldEqual, int64(25))
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	convey.Convey("Given concurrent batch callers", t, func() {
		svc := service.New(service.WithWorkerCount(4), service.WithQueueSize(16))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		const callers = 8
		var wg sync.WaitGroup
		counts := make([]int, callers)
		errs := make([]error, callers)
		for c := 0; c < callers; c++ {
			wg.Add(1)
			go func(c int) {
				defer wg.Done()
				reqs := []model.CampaignRequest{facebookCampaign("a"), tiktokCampaign("b"), shopeeCampaign("c")}
				batch, err := svc.AnalyzeBatch(ctx, reqs)
				counts[c], errs[c] = len(batch.Reports), err
			}(c)
		}
		wg.Wait()

		convey.Convey("Then every caller gets its own complete batch", func() {
			for c := 0; c < callers; c++ {
				convey.So(errs[c], convey.ShouldBeNil)
				convey.So(counts[c], convey.ShouldEqual, 3)
			}
			convey.So(svc.GetStats()["campaignsAnalyzed"], convey.ShouldEqual, int64(callers*3))
		})
	})
}
