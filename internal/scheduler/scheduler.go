// Package scheduler runs the dashboard's periodic background jobs on a single
// gocron scheduler.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// JobName identifies a registered job. Each name can be registered once.
type JobName string

var (
	service     *Service
	serviceOnce sync.Once
	serviceErr  error
)

var (
	ErrNotInitialized = errors.New("scheduler not initialized")
	ErrEmptyJobName   = errors.New("job name is required")
	ErrEmptyCronExpr  = errors.New("cron expression is required")
	ErrDuplicateJob   = errors.New("job already registered")
)

// Task is the body of a job. ctx is cancelled when the scheduler stops.
type Task func(ctx context.Context)

// JobOptions tune a single registration.
type JobOptions struct {
	// RunImmediately runs the job once as soon as the scheduler starts,
	// before the first cron tick.
	RunImmediately bool
}

// Service owns the gocron scheduler and the jobs registered on it.
type Service struct {
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc

	mu   sync.Mutex
	jobs map[JobName]gocron.Job

	stopOnce sync.Once
	stopErr  error
}

// Init initializes the scheduler singleton.
func Init() error {
	serviceOnce.Do(func() {
		svc, err := newService()
		if err != nil {
			serviceErr = err
			return
		}
		service = svc
		log.Info().Msg("Scheduler initialized")
	})
	return serviceErr
}

func newService() (*Service, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error().
						Str("job_id", jobID.String()).
						Str("job_name", jobName).
						Interface("panic", recoverData).
						Msg("Scheduler job panicked")
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		scheduler: sched,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[JobName]gocron.Job),
	}, nil
}

// ServiceInstance returns the initialized scheduler singleton.
func ServiceInstance() (*Service, error) {
	if service == nil && serviceErr == nil {
		return nil, ErrNotInitialized
	}
	return service, serviceErr
}

func Start() error {
	svc, err := ServiceInstance()
	if err != nil {
		return err
	}
	svc.Start()
	return nil
}

func Stop() error {
	svc, err := ServiceInstance()
	if err != nil {
		return err
	}
	return svc.Stop()
}

// AddJob registers a cron job with the singleton scheduler.
func AddJob(name JobName, cronExpr string, task Task, opts JobOptions) (gocron.Job, error) {
	svc, err := ServiceInstance()
	if err != nil {
		return nil, err
	}
	return svc.AddJob(name, cronExpr, task, opts)
}

func (s *Service) Start() {
	if s == nil {
		log.Error().Msg("Scheduler start requested before initialization")
		return
	}
	log.Info().Int("jobs", len(s.Jobs())).Msg("Scheduler starting")
	s.scheduler.Start()
}

// Stop cancels running tasks and shuts the scheduler down. Safe to call twice.
func (s *Service) Stop() error {
	if s == nil {
		return ErrNotInitialized
	}
	s.stopOnce.Do(func() {
		log.Info().Msg("Scheduler stopping")
		s.cancel()
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}

// Jobs returns the registered job names.
func (s *Service) Jobs() []JobName {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]JobName, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

func (s *Service) AddJob(name JobName, cronExpr string, task Task, opts JobOptions) (gocron.Job, error) {
	if s == nil {
		return nil, ErrNotInitialized
	}
	if strings.TrimSpace(string(name)) == "" {
		return nil, ErrEmptyJobName
	}
	if strings.TrimSpace(cronExpr) == "" {
		return nil, ErrEmptyCronExpr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	jobLogger := log.With().Str("job_name", string(name)).Str("cron", cronExpr).Logger()

	run := func() {
		if s.ctx.Err() != nil {
			return
		}
		jobLogger.Debug().Msg("Scheduler job started")
		task(jobLogger.WithContext(s.ctx))
		jobLogger.Debug().Msg("Scheduler job completed")
	}

	jobOpts := []gocron.JobOption{gocron.WithName(string(name))}
	if opts.RunImmediately {
		jobOpts = append(jobOpts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	job, err := s.scheduler.NewJob(gocron.CronJob(cronExpr, false), gocron.NewTask(run), jobOpts...)
	if err != nil {
		jobLogger.Error().Err(err).Msg("Failed to register scheduler job")
		return nil, err
	}
	s.jobs[name] = job
	jobLogger.Info().Bool("run_immediately", opts.RunImmediately).Msg("Scheduler job registered")
	return job, nil
}
