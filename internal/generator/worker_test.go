package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"server/internal/domain"
)

type fakeJobStore struct {
	mu        sync.Mutex
	queue     []*domain.GenerationJob
	completed []string
	failed    map[string]string
}

func (f *fakeJobStore) ClaimNext(ctx context.Context) (*domain.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil, domain.ErrNotFound
	}
	job := f.queue[0]
	f.queue = f.queue[1:]
	job.Status = domain.JobStatusProcessing
	return job, nil
}

func (f *fakeJobStore) Complete(ctx context.Context, job *domain.GenerationJob, artifactKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, job.ID)
	return nil
}

func (f *fakeJobStore) Fail(ctx context.Context, job *domain.GenerationJob, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[job.ID] = message
	return nil
}

func (f *fakeJobStore) snapshot() ([]string, map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.completed...), f.failed
}

func TestWorkerSettlesJobs(t *testing.T) {
	first := answersJob(t)
	second := answersJob(t)
	second.ID = "job-5"
	store := &fakeJobStore{queue: []*domain.GenerationJob{first, second}}

	pipeline := NewPipeline(PipelineOptions{
		Content:  &fakeContent{doc: contentFixture()},
		Renderer: &fakeRenderer{},
		Firms:    &fakeFirms{profile: &domain.FirmProfile{Facts: domain.FirmFacts{FirmName: "Acme Design"}}},
		Store:    &memoryStore{},
		Logger:   discardLogger(),
	})

	worker := NewWorker(WorkerOptions{
		Jobs:         store,
		Pipeline:     pipeline,
		Logger:       discardLogger(),
		PollInterval: 5 * time.Millisecond,
		Concurrency:  2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = worker.Run(ctx)

	completed, failed := store.snapshot()
	if len(failed) != 0 {
		t.Fatalf("failed = %v, want none", failed)
	}
	if len(completed) != 2 {
		t.Fatalf("completed = %v, want both jobs", completed)
	}
}

func TestWorkerRecordsFailureReason(t *testing.T) {
	job := answersJob(t)
	store := &fakeJobStore{queue: []*domain.GenerationJob{job}}
	pipeline := NewPipeline(PipelineOptions{
		Content:  &fakeContent{err: fmt.Errorf("%w: 3 attempts of 20s each", domain.ErrUpstreamTimeout)},
		Renderer: &fakeRenderer{},
		Firms:    &fakeFirms{},
		Store:    &memoryStore{},
		Logger:   discardLogger(),
	})
	worker := NewWorker(WorkerOptions{
		Jobs:         store,
		Pipeline:     pipeline,
		Logger:       discardLogger(),
		PollInterval: 5 * time.Millisecond,
		Concurrency:  1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := worker.Run(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		t.Fatalf("Run: %v", err)
	}

	completed, failed := store.snapshot()
	if len(completed) != 0 {
		t.Fatalf("completed = %v, want none", completed)
	}
	reason, ok := failed[job.ID]
	if !ok {
		t.Fatalf("job %s not marked failed", job.ID)
	}
	if !strings.Contains(reason, "upstream timeout") {
		t.Fatalf("failure reason = %q", reason)
	}
}
