package loadgen

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/adlens/internal/adapters/http/api"
	app "github.com/okian/adlens/internal/app"
	"github.com/okian/adlens/internal/domain/normalize"
	"github.com/okian/adlens/internal/domain/types"
	"github.com/okian/adlens/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

func TestGenerateCampaigns(t *testing.T) {
	Convey("Given a config for 10 campaigns in batches of 4 failing every 5th", t, func() {
		cfg := &Config{NumCampaigns: 10, BatchSize: 4, Workers: 1, FailureEvery: 5}
		stats := &Stats{}

		batches, err := generateCampaigns(context.Background(), cfg, stats)
		So(err, ShouldBeNil)
		So(stats.CampaignsGenerated, ShouldEqual, 10)

		Convey("Then campaigns are split into ordered batches", func() {
			So(len(batches), ShouldEqual, 3)
			So(len(batches[0].Campaigns), ShouldEqual, 4)
			So(len(batches[2].Campaigns), ShouldEqual, 2)
			So(batches[2].Index, ShouldEqual, 2)
		})

		Convey("Then platforms cycle and injected failures are tracked per batch", func() {
			So(batches[0].Campaigns[0].Platform, ShouldEqual, "facebook")
			So(batches[0].Campaigns[2].Platform, ShouldEqual, "tiktok")
			So(batches[1].Campaigns[0].Platform, ShouldEqual, "facebook")
			// campaigns 4 and 9 fail: batch 1 position 0, batch 2 position 1
			So(batches[1].failing, ShouldResemble, map[int]bool{0: true})
			So(batches[2].failing, ShouldResemble, map[int]bool{1: true})
			So(batches[0].failing, ShouldBeEmpty)
		})

		Convey("Then every payload is understood by the normalizers", func() {
			for _, b := range batches {
				for i, c := range b.Campaigns {
					snap, err := normalize.Decode(c.Platform, c.Analytics)
					if b.failing[i] {
						So(errors.Is(err, normalize.ErrUpstreamAnalytics), ShouldBeTrue)
						continue
					}
					So(err, ShouldBeNil)
					So(snap.Totals.Impressions, ShouldBeGreaterThan, 0)
				}
			}
		})
	})

	Convey("A cancelled context stops generation", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := generateCampaigns(ctx, &Config{NumCampaigns: 3, BatchSize: 2}, &Stats{})
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestVerifyBatch(t *testing.T) {
	Convey("Given a two campaign batch where the second fails", t, func() {
		cfg := &Config{NumCampaigns: 2, BatchSize: 2, FailureEvery: 2}
		batches, err := generateCampaigns(context.Background(), cfg, &Stats{})
		So(err, ShouldBeNil)
		b := batches[0]

		good := batchResult{batch: b, report: types.BatchReport{
			Reports: []types.Report{{CampaignID: b.Campaigns[0].CampaignID}},
			Errors:  []types.EntityError{{Index: 1, Kind: types.KindUpstreamError, Message: "rate limited"}},
		}}

		Convey("A matching answer verifies", func() {
			So(verifyBatch(good), ShouldBeNil)
		})

		Convey("A missing campaign is caught", func() {
			bad := good
			bad.report.Errors = nil
			So(verifyBatch(bad), ShouldNotBeNil)
		})

		Convey("A wrong error kind is caught", func() {
			bad := good
			bad.report.Errors = []types.EntityError{{Index: 1, Kind: types.KindDecodeError}}
			So(verifyBatch(bad), ShouldNotBeNil)
		})

		Convey("A transport failure fails verification", func() {
			stats := &Stats{}
			err := verifyResults(context.Background(), []batchResult{{batch: b, err: errors.New("connection refused")}}, stats)
			So(errors.Is(err, ErrVerification), ShouldBeTrue)
		})
	})
}

func TestRunAgainstService(t *testing.T) {
	Convey("Given a live service behind an HTTP test server", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc := app.New(app.WithWorkerCount(4), app.WithQueueSize(64))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(api.NewServer(svc, svc).Router(ctx))
		defer srv.Close()

		out := filepath.Join(t.TempDir(), "campaigns.json")
		cfg := &Config{
			BaseURL:      srv.URL,
			NumCampaigns: 60,
			BatchSize:    16,
			Workers:      3,
			Timeout:      10 * time.Second,
			FailureEvery: 7,
			OutputFile:   out,
		}

		Convey("When running the load generator", func() {
			stats, err := Run(ctx, cfg)

			Convey("Then every campaign is answered as expected", func() {
				So(err, ShouldBeNil)
				So(stats.BatchesSubmitted, ShouldEqual, 4)
				So(stats.BatchesFailed, ShouldEqual, 0)
				So(stats.ExpectedErrors, ShouldEqual, 8)
				So(stats.EntityErrors, ShouldEqual, 8)
				So(stats.ReportsReceived, ShouldEqual, 52)

				info, statErr := os.Stat(out)
				So(statErr, ShouldBeNil)
				So(info.Size(), ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("An unreachable service fails the health check", t, func() {
		_, err := Run(context.Background(), &Config{BaseURL: "http://127.0.0.1:1", NumCampaigns: 1, Workers: 1, Timeout: time.Second})
		So(err, ShouldNotBeNil)
	})
}
