package generator

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"server/internal/domain"
	"server/internal/infra"
)

const defaultPollInterval = 2 * time.Second

// JobStore is the persistence surface the worker drives jobs through.
type JobStore interface {
	ClaimNext(ctx context.Context) (*domain.GenerationJob, error)
	Complete(ctx context.Context, job *domain.GenerationJob, artifactKey string) error
	Fail(ctx context.Context, job *domain.GenerationJob, message string) error
}

// Worker consumes pending jobs with a fixed pool of goroutines. Each claim
// uses skip-locked row selection, so pool members never fight over a job.
type Worker struct {
	jobs         JobStore
	pipeline     *Pipeline
	logger       infra.Logger
	pollInterval time.Duration
	concurrency  int
}

// WorkerOptions configures the pool.
type WorkerOptions struct {
	Jobs         JobStore
	Pipeline     *Pipeline
	Logger       infra.Logger
	PollInterval time.Duration
	Concurrency  int
}

func NewWorker(opts WorkerOptions) *Worker {
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		jobs:         opts.Jobs,
		pipeline:     opts.Pipeline,
		logger:       opts.Logger,
		pollInterval: pollInterval,
		concurrency:  concurrency,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Int("concurrency", w.concurrency).Msg("worker: started")
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.concurrency; i++ {
		id := i
		g.Go(func() error {
			return w.loop(ctx, id)
		})
	}
	return g.Wait()
}

func (w *Worker) loop(ctx context.Context, id int) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		job, err := w.jobs.ClaimNext(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				w.logger.Error().Err(err).Int("worker", id).Msg("worker: claim failed")
			}
			w.sleep(ctx)
			continue
		}
		w.handle(ctx, id, job)
	}
}

func (w *Worker) handle(ctx context.Context, id int, job *domain.GenerationJob) {
	w.logger.Info().Int("worker", id).Str("job_id", job.ID).Str("document_id", job.DocumentID).Msg("worker: picked job")
	artifact, err := w.pipeline.Process(ctx, job)
	if err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID).Msg("worker: job failed")
		if failErr := w.jobs.Fail(ctx, job, err.Error()); failErr != nil {
			w.logger.Error().Err(failErr).Str("job_id", job.ID).Msg("worker: persist failure failed")
		}
		return
	}
	job.ArtifactURL = artifact.URL
	if err := w.jobs.Complete(ctx, job, artifact.Key); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID).Msg("worker: persist completion failed")
		return
	}
	w.logger.Info().Str("job_id", job.ID).Str("artifact", artifact.URL).Msg("worker: job completed")
}

func (w *Worker) sleep(ctx context.Context) {
	timer := time.NewTimer(w.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
