// Package reconciler periodically recomputes cached balances from records and
// reports, or optionally repairs, any drift.
package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"github.com/nimasrn/trade-ledger/pkg/worker"
)

const ShutdownTimeout = time.Minute

type ReportService interface {
	Reconcile(ctx context.Context, owner model.OwnerType) ([]*model.Discrepancy, error)
	Repair(ctx context.Context, owner model.OwnerType) ([]*model.Discrepancy, error)
}

type Config struct {
	Interval   time.Duration
	Workers    int
	Repair     bool
	RunTimeout time.Duration
}

// Service runs one reconciliation job per owner type on every tick. Jobs
// are dispatched to a worker pool and guarded by a lock when one is set.
type Service struct {
	reports ReportService
	lock    *Lock
	cfg     Config
	metrics *RunMetrics
	worker  *worker.WorkerManager
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

func NewService(reports ReportService, lock *Lock, cfg Config) *Service {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Second
	}
	owners := len(model.OwnerTypes)
	return &Service{
		reports: reports,
		lock:    lock,
		cfg:     cfg,
		metrics: NewRunMetrics(),
		worker:  worker.NewWorkerManager(owners, cfg.Workers, nil),
	}
}

func (s *Service) Metrics() *RunMetrics {
	return s.metrics
}

// RunOnce reconciles owner synchronously. An empty owner covers both types.
func (s *Service) RunOnce(ctx context.Context, owner model.OwnerType) ([]*model.Discrepancy, error) {
	name := string(owner)
	if name == "" {
		name = "all"
	}
	if s.lock != nil {
		release, err := s.lock.Acquire(ctx, name)
		if err != nil {
			if errors.Is(err, ErrLockHeld) {
				s.metrics.RecordSkip()
			} else {
				s.metrics.RecordFailure()
			}
			return nil, err
		}
		defer release()
	}

	start := time.Now()
	run := s.reports.Reconcile
	if s.cfg.Repair {
		run = s.reports.Repair
	}
	out, err := run(ctx, owner)
	if err != nil {
		s.metrics.RecordFailure()
		logger.Error("reconciliation failed", "owner", name, "error", err)
		return nil, err
	}
	s.metrics.RecordRun(time.Since(start), len(out))
	logger.Info("reconciliation finished", "owner", name, "drifted", len(out), "repaired", s.cfg.Repair, "duration", time.Since(start).String())
	return out, nil
}

// Start launches the worker pool and the ticker. It returns immediately; a
// zero interval disables the schedule.
func (s *Service) Start(ctx context.Context) error {
	if s.cfg.Interval <= 0 {
		logger.Info("scheduled reconciliation disabled")
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.worker.SetWorker(s.workerHandler)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		if err := s.worker.Start(ctx); err != nil && !errors.Is(err, worker.ErrWorkersStopped) {
			logger.Error("reconciliation workers stopped", "error", err)
		}
	}()
	go s.schedule(ctx)

	logger.Info("scheduled reconciliation started", "interval", s.cfg.Interval.String(), "workers", s.cfg.Workers, "repair", s.cfg.Repair)
	return nil
}

func (s *Service) schedule(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, owner := range model.OwnerTypes {
				if !s.worker.TryEnqueue(owner) {
					s.metrics.RecordSkip()
					logger.Warn("reconciliation still running, skipping tick", "owner", owner)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) workerHandler(ctx context.Context, workerIndex int, job interface{}) {
	owner, ok := job.(model.OwnerType)
	if !ok {
		logger.Error("invalid job type in worker", "worker", workerIndex)
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	if _, err := s.RunOnce(runCtx, owner); err != nil && !errors.Is(err, ErrLockHeld) {
		logger.Warn("scheduled reconciliation failed", "worker", workerIndex, "owner", owner, "error", err)
	}
}

// Stop cancels the schedule and waits for running jobs.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	logger.Info("shutting down reconciliation")
	s.cancel()
	s.worker.Exit()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(ShutdownTimeout):
		logger.Warn("timeout waiting for reconciliation to stop")
	}

	logger.Info("reconciliation stopped", "stats", s.metrics.GetStats())
}
