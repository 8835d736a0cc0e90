// Package service runs the contract pipeline jobs against an object store.
//
// Every job fetches its input tables once, computes in memory and writes
// its output once. Per-contract failures are collected into the run
// summary; only failures that leave a job without a usable result abort it.
package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rinklabs/contractcomps/internal/adapters/report"
	"github.com/rinklabs/contractcomps/internal/adapters/storage"
	"github.com/rinklabs/contractcomps/internal/config"
	"github.com/rinklabs/contractcomps/internal/domain/features"
	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/similarity"
	"github.com/rinklabs/contractcomps/pkg/logger"
	"github.com/rinklabs/contractcomps/pkg/metrics"
)

// Job names accepted by Run.
const (
	JobDerive    = "derive"
	JobMerge     = "merge"
	JobSkaters   = "skaters"
	JobAdvanced  = "advanced"
	JobAggregate = "aggregate"
	JobRecommend = "recommend"
	// JobAll runs every table job in order, then recommend when contract
	// ids are given.
	JobAll = "all"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// Jobs lists the job names in pipeline order.
func Jobs() []string {
	return []string{JobDerive, JobMerge, JobSkaters, JobAdvanced, JobAggregate, JobRecommend, JobAll}
}

// Service runs pipeline jobs.
type Service struct {
	store   storage.ObjectStore
	set     features.Set
	k       int
	keys    config.Keys
	years   config.Years
	encoder report.Encoder
	workers int

	now   func() time.Time
	runID func() string

	logger logger.Logger
}

// New constructs a Service reading and writing through store.
func New(store storage.ObjectStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		set:     features.Skater,
		k:       similarity.DefaultK,
		keys:    config.New().Keys,
		years:   config.New().Years,
		encoder: report.CSV{},
		workers: runtime.NumCPU(),
		now:     time.Now,
		runID:   uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// step is one job stage. ids are the contract ids passed to Run.
type step func(ctx context.Context, r *run, ids []string) error

// run is the state of one Run call.
type run struct {
	sum    Summary
	log    logger.Logger
	failed map[model.ContractError]bool
}

// fail records per-contract failures once each.
func (r *run) fail(errs ...model.ContractError) {
	for _, e := range errs {
		if r.failed[e] {
			continue
		}
		r.failed[e] = true
		r.sum.Failures = append(r.sum.Failures, e)
	}
}

func (s *Service) steps(job string) ([]step, bool) {
	switch job {
	case JobDerive:
		return []step{s.runDerive}, true
	case JobMerge:
		return []step{s.runMerge}, true
	case JobSkaters:
		return []step{s.runSkaters}, true
	case JobAdvanced:
		return []step{s.runAdvanced}, true
	case JobAggregate:
		return []step{s.runAggregate}, true
	case JobRecommend:
		return []step{s.runRecommend}, true
	case JobAll:
		return []step{s.runDerive, s.runMerge, s.runSkaters, s.runAdvanced, s.runAggregate, s.runRecommendIfAsked}, true
	default:
		return nil, false
	}
}

// Run executes job and writes the run summary under the reports prefix.
// The returned Summary is filled in even when the job fails.
func (s *Service) Run(ctx context.Context, job string, contractIDs []string) (Summary, error) {
	steps, ok := s.steps(job)
	if !ok {
		return Summary{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownJob, job, Jobs())
	}
	if s.store == nil {
		return Summary{}, ErrNoStore
	}

	r := &run{
		sum: Summary{
			RunID:      s.runID(),
			Job:        job,
			StartedAt:  s.now().UTC(),
			FeatureSet: s.set.Name,
			Neighbors:  s.k,
			Outputs:    []string{},
			Failures:   []model.ContractError{},
		},
		failed: make(map[model.ContractError]bool),
	}
	r.log = s.logger.With(logger.String("run_id", r.sum.RunID), logger.String("job", job))
	r.log.Info(ctx, "job started", logger.String("features", s.set.Name), logger.Int("k", s.k))

	start := time.Now()
	var err error
	for _, st := range steps {
		if err = st(ctx, r, contractIDs); err != nil {
			break
		}
	}
	elapsed := time.Since(start)
	r.sum.DurationMS = elapsed.Milliseconds()

	metrics.RecordJobDuration(job, elapsed)
	for _, f := range r.sum.Failures {
		metrics.RecordContractFailure(job, f.Kind)
	}
	metrics.SnapshotRuntime()

	if err != nil {
		r.sum.Status = statusError
		r.sum.Error = err.Error()
		metrics.RecordJobRun(job, statusError)
		metrics.RecordErrorByComponent("service", model.KindOf(err).String())
		r.log.Error(ctx, "job failed", logger.Error(err), logger.Duration("duration", elapsed))
		if werr := s.writeSummary(ctx, r); werr != nil {
			r.log.Warn(ctx, "could not write run summary", logger.Error(werr))
		}
		return r.sum, fmt.Errorf("%s: %w", job, err)
	}

	r.sum.Status = statusOK
	if err := s.writeSummary(ctx, r); err != nil {
		metrics.RecordJobRun(job, statusError)
		return r.sum, fmt.Errorf("%s: %w", job, err)
	}
	metrics.RecordJobRun(job, statusOK)
	metrics.MarkJobSuccess(job, s.now())

	r.log.Info(ctx, "job finished",
		logger.Int("rows_read", r.sum.RowsRead),
		logger.Int("rows_written", r.sum.RowsWritten),
		logger.Int("failures", len(r.sum.Failures)),
		logger.Duration("duration", elapsed),
	)
	return r.sum, nil
}

// Derive adds rate and share columns to the season stats table.
func (s *Service) Derive(ctx context.Context) (Summary, error) {
	return s.Run(ctx, JobDerive, nil)
}

// Merge joins the derived stats with both contract tables.
func (s *Service) Merge(ctx context.Context) (Summary, error) {
	return s.Run(ctx, JobMerge, nil)
}

// Skaters combines the per-year MoneyPuck skater tables into one.
func (s *Service) Skaters(ctx context.Context) (Summary, error) {
	return s.Run(ctx, JobSkaters, nil)
}

// Advanced joins the merged contract stats with the combined MoneyPuck table.
func (s *Service) Advanced(ctx context.Context) (Summary, error) {
	return s.Run(ctx, JobAdvanced, nil)
}

// Aggregate writes one weighted feature row per contract.
func (s *Service) Aggregate(ctx context.Context) (Summary, error) {
	return s.Run(ctx, JobAggregate, nil)
}

// Recommend writes the contract report for contractIDs.
func (s *Service) Recommend(ctx context.Context, contractIDs []string) (Summary, error) {
	return s.Run(ctx, JobRecommend, contractIDs)
}
