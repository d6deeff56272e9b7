package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hearthub/internal/metrics"
	"hearthub/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const (
	reconcileJob      = "reconcile-approvals"
	reindexJob        = "search-reindex"
	limiterCleanupJob = "rate-limiter-cleanup"
)

// Reindexer rebuilds the property search index.
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// Cleaner drops idle per-caller state.
type Cleaner interface {
	Cleanup() int
}

// Settings controls how often each job runs.
type Settings struct {
	ReconcileInterval time.Duration
	ReconcileGrace    time.Duration
	ReindexInterval   time.Duration
	CleanupInterval   time.Duration
}

// JobScheduler manages background jobs
type JobScheduler struct {
	scheduler  gocron.Scheduler
	reconciler services.ReconcileService
	reindexer  Reindexer
	cleaner    Cleaner
	settings   Settings
	log        logrus.FieldLogger
	jobs       map[string]gocron.Job
	order      []string
	mu         sync.RWMutex

	// ctx is handed to every job run and cancelled by Stop.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewJobScheduler registers the reconciliation job and, when given, the
// reindex and limiter cleanup jobs. reindexer and cleaner may be nil.
func NewJobScheduler(reconciler services.ReconcileService, reindexer Reindexer, cleaner Cleaner,
	settings Settings, log logrus.FieldLogger) (*JobScheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler:  scheduler,
		reconciler: reconciler,
		reindexer:  reindexer,
		cleaner:    cleaner,
		settings:   settings,
		log:        log.WithField("component", "jobs"),
		jobs:       make(map[string]gocron.Job),
		ctx:        ctx,
		cancel:     cancel,
	}

	if err := js.registerJobs(); err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.WithField("jobs", js.JobNames()).Info("starting background job scheduler")
	js.scheduler.Start()
}

// Stop cancels running jobs, waits for them to return and stops the scheduler.
func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	if err := js.add(reconcileJob, js.settings.ReconcileInterval, js.ReconcileApprovals); err != nil {
		return err
	}
	if js.reindexer != nil && js.settings.ReindexInterval > 0 {
		if err := js.add(reindexJob, js.settings.ReindexInterval, js.reindexProperties); err != nil {
			return err
		}
	}
	if js.cleaner != nil && js.settings.CleanupInterval > 0 {
		if err := js.add(limiterCleanupJob, js.settings.CleanupInterval, js.cleanupLimiters); err != nil {
			return err
		}
	}
	js.log.WithField("count", len(js.jobs)).Info("registered background jobs")
	return nil
}

func (js *JobScheduler) add(name string, interval time.Duration, task func(context.Context) error) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { js.run(name, task) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}
	js.jobs[name] = job
	js.order = append(js.order, name)
	return nil
}

// run executes one job invocation and records its outcome.
func (js *JobScheduler) run(name string, task func(context.Context) error) {
	start := time.Now()
	err := task(js.ctx)
	duration := time.Since(start)
	metrics.RecordJobRun(name, duration, err == nil)

	entry := js.log.WithFields(logrus.Fields{"job": name, "duration_ms": duration.Milliseconds()})
	if err != nil {
		entry.WithError(err).Error("job failed")
		return
	}
	entry.Debug("job completed")
}

// ReconcileApprovals reverts approved applications that never received a lease.
func (js *JobScheduler) ReconcileApprovals(ctx context.Context) error {
	reverted, err := js.reconciler.RevertOrphanedApprovals(ctx, js.settings.ReconcileGrace)
	if err != nil {
		return err
	}
	if reverted > 0 {
		js.log.WithField("reverted", reverted).Warn("reverted orphaned approvals")
	}
	return nil
}

func (js *JobScheduler) reindexProperties(ctx context.Context) error {
	n, err := js.reindexer.Reindex(ctx)
	if err != nil {
		return err
	}
	js.log.WithField("properties", n).Info("search index rebuilt")
	return nil
}

func (js *JobScheduler) cleanupLimiters(context.Context) error {
	if removed := js.cleaner.Cleanup(); removed > 0 {
		js.log.WithField("removed", removed).Debug("dropped idle rate limiters")
	}
	return nil
}

// JobNames returns the registered job names in registration order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	return append([]string(nil), js.order...)
}
