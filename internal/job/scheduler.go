package job

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs periodic jobs on a cron spec with a seconds field
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler creates a scheduler whose jobs recover from panics and never overlap
func NewScheduler(logger *zap.Logger) *Scheduler {
	logger = logger.With(zap.String("system", "cron"))
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			recoverWrapper(logger),
			loggingWrapper(logger),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		),
	)
	return &Scheduler{cron: c, logger: logger}
}

// Register adds job under spec, e.g. "0 */30 * * * *"
func (s *Scheduler) Register(spec string, job cron.Job) error {
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("failed to register %s: %w", jobName(job), err)
	}
	s.logger.Info("Job registered", zap.String("job_name", jobName(job)), zap.String("schedule", spec))
	return nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Cron scheduler started")
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Cron scheduler stopped")
}

func loggingWrapper(logger *zap.Logger) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			jobLogger := logger.With(
				zap.String("job_name", jobName(j)),
				zap.String("execution_id", uuid.NewString()),
			)
			start := time.Now()
			jobLogger.Debug("Job started")
			j.Run()
			jobLogger.Debug("Job finished", zap.Duration("duration", time.Since(start)))
		})
	}
}

func recoverWrapper(logger *zap.Logger) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Job panicked",
						zap.String("job_name", jobName(j)),
						zap.Any("panic", r),
						zap.Stack("stacktrace"))
				}
			}()
			j.Run()
		})
	}
}

func jobName(j cron.Job) string {
	t := reflect.TypeOf(j)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
