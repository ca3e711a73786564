package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"library-catalog/internal/config"
	bookJob "library-catalog/internal/domains/book/job"
	"library-catalog/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterMaintenanceJobs đăng ký các cron job của catalog.
// Cron spec rỗng = job bị tắt.
func (s *Scheduler) RegisterMaintenanceJobs() error {
	return s.registerSweepOrphanBooksJob()
}

// ================================================
// Sweep orphan books (JOB_ORPHAN_SWEEP_CRON)
// ================================================
func (s *Scheduler) registerSweepOrphanBooksJob() error {
	if s.jobConfig.OrphanSweepCron == "" {
		logger.Info("Orphan sweep disabled", map[string]interface{}{})
		return nil
	}

	task, err := bookJob.NewSweepOrphanBooksTask(bookJob.SweepOrphanBooksPayload{})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.jobConfig.OrphanSweepCron,
		task,
		asynq.Queue(s.jobConfig.OrphanSweepQueue),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SweepOrphanBooks job", err)
		return fmt.Errorf("register %s: %w", bookJob.TypeSweepOrphanBooks, err)
	}

	logger.Info("✓ Registered SweepOrphanBooks", map[string]interface{}{
		"cron":  s.jobConfig.OrphanSweepCron,
		"queue": s.jobConfig.OrphanSweepQueue,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
