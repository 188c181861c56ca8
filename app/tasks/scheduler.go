package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/sources"
)

const (
	DefaultWorkerCount   = 4
	DefaultInterval      = time.Minute
	DefaultProbeInterval = 15 * time.Minute

	taskQueueSize = 300
	taskTimeout   = 5 * time.Minute
	maxRetryDelay = 30 * time.Second
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type SchedulerConfig struct {
	WorkerCount   int
	Interval      time.Duration // How often stale sources are looked up
	ProbeInterval time.Duration // Sources not fetched for this long get probed
	DisableProbes bool
}

type Scheduler struct {
	registry      *sources.Registry
	sourceRepo    database.SourceRepository
	fetcher       SourceFetcher
	interval      time.Duration
	probeInterval time.Duration
	probes        bool
	workerCount   int
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface
}

func NewScheduler(registry *sources.Registry, sourceRepo database.SourceRepository,
	fetcher SourceFetcher, config SchedulerConfig) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())

	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultWorkerCount
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.ProbeInterval <= 0 {
		config.ProbeInterval = DefaultProbeInterval
	}

	return &Scheduler{
		registry:      registry,
		sourceRepo:    sourceRepo,
		fetcher:       fetcher,
		interval:      config.Interval,
		probeInterval: config.ProbeInterval,
		probes:        !config.DisableProbes,
		workerCount:   config.WorkerCount,
		ctx:           ctx,
		cancel:        cancel,
		taskQueue:     make(chan TaskInterface, taskQueueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

// Stop cancels all workers and waits for them. The queue is never closed;
// EnqueueTask after Stop returns an error.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// RecordOutcomes queues one RecordFetchTask per fetch result. It never
// blocks: when the queue is full the outcome is dropped and logged.
func (s *Scheduler) RecordOutcomes(results []feed.Result) {
	now := time.Now()
	for _, result := range results {
		task := NewRecordFetchTask(outcomeFromResult(result, now), s.sourceRepo)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue RecordFetchTask", "source", result.Source.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	if s.registry == nil {
		return
	}

	srcs := s.registry.All()
	if len(srcs) == 0 {
		slog.Debug("No sources configured")
		return
	}

	slog.Debug("Registering sources", "count", len(srcs))

	if err := s.EnqueueTask(NewSyncSourcesTask(srcs, s.sourceRepo)); err != nil {
		slog.Warn("Failed to enqueue SyncSourcesTask", "error", err)
	}
}

func (s *Scheduler) enqueueTasks() {
	if !s.probes {
		return
	}

	stale, err := s.sourceRepo.GetStaleSources(time.Now().Add(-s.probeInterval))
	if err != nil {
		slog.Warn("Failed to get stale sources", "error", err)
		return
	}
	if len(stale) == 0 {
		slog.Debug("No stale sources")
		return
	}

	slog.Debug("Scheduling probes for stale sources", "count", len(stale))

	for _, health := range stale {
		src := sources.Source{
			Name:       health.Name,
			URL:        health.URL,
			Category:   health.Category,
			RegionCode: health.RegionCode,
		}
		if err := s.EnqueueTask(NewProbeSourceTask(src, s.fetcher, s.sourceRepo)); err != nil {
			slog.Warn("Failed to enqueue ProbeSourceTask", "source", src.Name, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			delay := retryDelay(task.GetRetryCount())

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

			go func() {
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				case <-time.After(delay):
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}

// retryDelay doubles from one second per attempt, capped at 30 seconds.
func retryDelay(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	if retryCount > 6 {
		return maxRetryDelay
	}
	delay := time.Duration(1<<uint(retryCount-1)) * time.Second
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
