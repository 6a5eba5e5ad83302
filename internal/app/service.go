// Package service wires the analysis engine to the queue and worker pool and
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	jobqueue "github.com/okian/adlens/internal/adapters/mq/queue"
	workerpool "github.com/okian/adlens/internal/adapters/mq/worker"
	"github.com/okian/adlens/internal/domain/allocation"
	"github.com/okian/adlens/internal/domain/insights"
	"github.com/okian/adlens/internal/domain/model"
	"github.com/okian/adlens/internal/domain/types"
	"github.com/okian/adlens/pkg/logger"
	"github.com/okian/adlens/pkg/metrics"
)

const stopTimeout = 10 * time.Second

// Service analyzes campaigns one at a time or in batches spread over a
// worker pool.
type Service struct {
	mu sync.RWMutex

	engine *Engine
	queue  *jobqueue.InMemoryQueue
	pool   *workerpool.Pool

	workerCount int
	queueSize   int
	engineCfg   EngineConfig

	started bool

	analyzed atomic.Int64
	failed   atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending batch jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithEngineConfig replaces the analysis thresholds.
func WithEngineConfig(cfg EngineConfig) Option {
	return func(s *Service) {
		s.engineCfg = cfg
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Service. The global logger must be initialized unless
// WithLogger is given. Analysis works before Start; batches then run inline.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		engineCfg:   DefaultEngineConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.engine = NewEngine(s.engineCfg)
	return s
}

// Start creates the queue and starts the worker pool. The pool keeps
// running after ctx is canceled, until Stop drains it.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting analysis service...")

	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s)
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop closes the queue and waits for workers to drain it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping analysis service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "analysis service stopped")
}

// Analyze runs the full pipeline for one campaign.
func (s *Service) Analyze(ctx context.Context, req model.CampaignRequest) (types.Report, error) {
	report, err := s.engine.Analyze(ctx, req)
	if err != nil {
		s.failed.Add(1)
		s.logger.Debug(ctx, "campaign analysis failed",
			logger.String("platform", req.Platform),
			logger.String("campaign_id", req.CampaignID),
			logger.String("kind", ErrorKind(err)),
			logger.Error(err),
		)
		return types.Report{}, err
	}
	s.analyzed.Add(1)
	return report, nil
}

// AnalyzeBatch analyzes every campaign. Failures are reported per campaign
// and never abort the others.
func (s *Service) AnalyzeBatch(ctx context.Context, reqs []model.CampaignRequest) (types.BatchReport, error) {
	if len(reqs) == 0 {
		return types.BatchReport{}, ErrEmptyBatch
	}
	metrics.RecordBatchSize("analyze_batch", len(reqs))

	reports, errs, err := s.analyzeAll(ctx, reqs)
	if err != nil {
		return types.BatchReport{}, err
	}
	return types.BatchReport{Reports: reports, Errors: errs}, nil
}

// CrossPlatformBudget analyzes each campaign and shares total across the
// successful ones. Without total the budget is their combined spend.
func (s *Service) CrossPlatformBudget(ctx context.Context, reqs []model.CampaignRequest, total *float64) (types.CrossPlatformBudget, error) {
	if len(reqs) == 0 {
		return types.CrossPlatformBudget{}, ErrEmptyBatch
	}
	metrics.RecordBatchSize("cross_platform_budget", len(reqs))

	reports, errs, err := s.analyzeAll(ctx, reqs)
	if err != nil {
		return types.CrossPlatformBudget{}, err
	}
	if len(reports) == 0 {
		return types.CrossPlatformBudget{}, fmt.Errorf("%w: %s", allocation.ErrNoEntitiesToAllocate, firstFailure(errs))
	}

	res, err := s.engine.AllocateAcrossPlatforms(reports, total)
	if err != nil {
		return types.CrossPlatformBudget{}, err
	}
	return types.CrossPlatformBudget{
		TotalBudget:      res.TotalBudget,
		EqualSplit:       res.EqualSplit,
		BudgetAllocation: res.Entries,
		Errors:           errs,
	}, nil
}

// CrossPlatformInsights analyzes each campaign and compares the successful ones.
func (s *Service) CrossPlatformInsights(ctx context.Context, reqs []model.CampaignRequest) (types.CrossPlatformInsights, error) {
	if len(reqs) == 0 {
		return types.CrossPlatformInsights{}, ErrEmptyBatch
	}
	metrics.RecordBatchSize("cross_platform_insights", len(reqs))

	reports, errs, err := s.analyzeAll(ctx, reqs)
	if err != nil {
		return types.CrossPlatformInsights{}, err
	}
	if len(reports) == 0 {
		return types.CrossPlatformInsights{}, fmt.Errorf("%w: %s", insights.ErrNoPlatforms, firstFailure(errs))
	}

	res, err := s.engine.CompareAcrossPlatforms(reports)
	if err != nil {
		return types.CrossPlatformInsights{}, err
	}
	return types.CrossPlatformInsights{Result: res, Errors: errs}, nil
}

// analyzeAll fans reqs out over the pool and returns the successful reports
// in input order alongside one EntityError per failure.
func (s *Service) analyzeAll(ctx context.Context, reqs []model.CampaignRequest) ([]types.Report, []types.EntityError, error) {
	results, err := s.fanOut(ctx, reqs)
	if err != nil {
		return nil, nil, err
	}

	reports := make([]types.Report, 0, len(results))
	errs := []types.EntityError{}
	for i, r := range results {
		if r.Err != nil {
			errs = append(errs, types.EntityError{
				Index:      i,
				Platform:   reqs[i].Platform,
				CampaignID: reqs[i].CampaignID,
				Kind:       ErrorKind(r.Err),
				Message:    r.Err.Error(),
			})
			continue
		}
		reports = append(reports, r.Report)
	}
	return reports, errs, nil
}

// fanOut enqueues one job per request. Jobs the queue rejects, or every job
// when the service is not started, run inline on the caller's goroutine.
func (s *Service) fanOut(ctx context.Context, reqs []model.CampaignRequest) ([]jobqueue.Result, error) {
	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()

	results := make([]jobqueue.Result, len(reqs))
	reply := make(chan jobqueue.Result, len(reqs))
	pending := 0

	for i, req := range reqs {
		if started {
			err := q.Enqueue(ctx, jobqueue.Job{Index: i, Request: req, Reply: reply})
			if err == nil {
				pending++
				continue
			}
			metrics.RecordInlineFallback()
			s.logger.Debug(ctx, "running campaign inline", logger.Int("index", i), logger.Error(err))
		}
		report, err := s.Analyze(ctx, req)
		results[i] = jobqueue.Result{Index: i, Report: report, Err: err}
	}

	for ; pending > 0; pending-- {
		select {
		case r := <-reply:
			results[r.Index] = r
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return results, nil
}

func firstFailure(errs []types.EntityError) string {
	if len(errs) == 0 {
		return "no campaigns analyzed"
	}
	return fmt.Sprintf("campaign %d: %s", errs[0].Index, errs[0].Message)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":           s.started,
		"workerCount":       s.workerCount,
		"queueSize":         s.queueSize,
		"campaignsAnalyzed": s.analyzed.Load(),
		"campaignsFailed":   s.failed.Load(),
	}
	if s.started {
		queueLen := s.queue.Len(context.Background())
		stats["queueLength"] = queueLen
		stats["jobsProcessed"] = s.pool.Processed()
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return stats
}
