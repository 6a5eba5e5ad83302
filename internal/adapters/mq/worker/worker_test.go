package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/adlens/internal/adapters/mq/queue"
	worker "github.com/okian/adlens/internal/adapters/mq/worker"
	model "github.com/okian/adlens/internal/domain/model"
	types "github.com/okian/adlens/internal/domain/types"
	logging "github.com/okian/adlens/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	jobs chan queue.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 16)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Job {
	out := make(chan queue.Job)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case j, ok := <-mq.jobs:
				if !ok {
					return
				}
				out <- j
			}
		}
	}()
	return out
}

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

type mockAnalyzer struct {
	mu    sync.Mutex
	fail  map[string]error
	calls int
}

func (ma *mockAnalyzer) Analyze(ctx context.Context, req model.CampaignRequest) (types.Report, error) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.calls++
	if err := ma.fail[req.CampaignID]; err != nil {
		return types.Report{}, err
	}
	return types.Report{Platform: model.Platform(req.Platform), CampaignID: req.CampaignID}, nil
}

func (ma *mockAnalyzer) count() int {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	return ma.calls
}

func receive(ch <-chan queue.Result) (queue.Result, bool) {
	select {
	case r := <-ch:
		return r, true
	case <-time.After(time.Second):
		return queue.Result{}, false
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running InMemoryWorker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		analyzer := &mockAnalyzer{fail: map[string]error{"broken": errors.New("bad payload")}}
		w := worker.NewInMemoryWorker(q, analyzer, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		reply := make(chan queue.Result, 2)

		convey.Convey("When a job succeeds", func() {
			q.jobs <- queue.Job{Index: 3, Request: model.CampaignRequest{Platform: "tiktok", CampaignID: "c-1"}, Reply: reply}
			r, ok := receive(reply)

			convey.Convey("Then the report is replied with its index", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(r.Err, convey.ShouldBeNil)
				convey.So(r.Index, convey.ShouldEqual, 3)
				convey.So(r.Report.CampaignID, convey.ShouldEqual, "c-1")
			})
		})

		convey.Convey("When the analyzer fails", func() {
			q.jobs <- queue.Job{Index: 1, Request: model.CampaignRequest{Platform: "tiktok", CampaignID: "broken"}, Reply: reply}
			r, ok := receive(reply)

			convey.Convey("Then the error is replied", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(r.Err, convey.ShouldNotBeNil)
				convey.So(r.Index, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When shut down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()

			convey.Convey("Then it stops without error", func() {
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a pool over a real queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		analyzer := &mockAnalyzer{}
		pool := worker.NewPool(4, q, analyzer)
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When a batch of jobs is enqueued", func() {
			const n = 20
			reply := make(chan queue.Result, n)
			for i := 0; i < n; i++ {
				convey.So(q.Enqueue(ctx, queue.Job{
					Index:   i,
					Request: model.CampaignRequest{Platform: "facebook", CampaignID: "c"},
					Reply:   reply,
				}), convey.ShouldBeNil)
			}

			seen := map[int]bool{}
			for i := 0; i < n; i++ {
				r, ok := receive(reply)
				convey.So(ok, convey.ShouldBeTrue)
				seen[r.Index] = true
			}

			convey.Convey("Then every job is answered exactly once", func() {
				convey.So(len(seen), convey.ShouldEqual, n)
				convey.So(analyzer.count(), convey.ShouldEqual, n)
				convey.So(pool.Processed(), convey.ShouldEqual, int64(n))
			})

			convey.Convey("Then shutdown drains and stops the pool", func() {
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shut down", func() {
			convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)

			convey.Convey("Then the queue refuses work and shutting down again is harmless", func() {
				err := q.Enqueue(ctx, queue.Job{Request: model.CampaignRequest{Platform: "facebook", CampaignID: "c"}})
				convey.So(errors.Is(err, queue.ErrQueueClosed), convey.ShouldBeTrue)
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("A non-positive worker count falls back to the CPU count", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, newMockQueue(), &mockAnalyzer{})
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
	})
}

func TestWorkerWithoutReply(t *testing.T) {
	convey.Convey("A job without a reply channel is still analyzed", t, func() {
		_ = logging.Init()
		q := newMockQueue()
		analyzer := &mockAnalyzer{}
		w := worker.NewInMemoryWorker(q, analyzer)

		q.jobs <- queue.Job{Request: model.CampaignRequest{Platform: "shopee", CampaignID: "s"}}
		convey.So(q.Close(), convey.ShouldBeNil)
		w.Run(context.Background())

		convey.So(analyzer.count(), convey.ShouldEqual, 1)
		convey.So(w.Processed(), convey.ShouldEqual, 1)
	})
}
