package commit

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"go.uber.org/zap"

	"designer-dashboard-backend/internal/dal"
	"designer-dashboard-backend/internal/editor"
	"designer-dashboard-backend/internal/logging"
	"designer-dashboard-backend/internal/metrics"
	"designer-dashboard-backend/internal/model"
)

// queueDepth is the number of pending jobs each worker buffers.
const queueDepth = 32

// Job is one drag commit.
type Job struct {
	ObjectID string
	Position model.Position
}

// WorkerPool applies drag commits in the background. Jobs for the same
// object always go to the same worker, so they are applied in order.
type WorkerPool struct {
	size   int
	queues []chan Job
	next   editor.Committer
	log    *zap.Logger
	wg     sync.WaitGroup
}

// NewWorkerPool creates a pool of size workers that hand jobs to next.
func NewWorkerPool(size int, next editor.Committer, log *zap.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	wp := &WorkerPool{
		size:   size,
		queues: make([]chan Job, size),
		next:   next,
		log:    logging.OrNop(log),
	}
	for i := range wp.queues {
		wp.queues[i] = make(chan Job, queueDepth)
	}
	return wp
}

// Start launches the worker goroutines. They stop once ctx is cancelled and
// their queue has been drained.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has stopped.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	wp.log.Debug("commit worker started", zap.Int("worker", id))
	queue := wp.queues[id]
	for {
		select {
		case job := <-queue:
			wp.apply(ctx, id, job)
		case <-ctx.Done():
			for {
				select {
				case job := <-queue:
					wp.apply(ctx, id, job)
				default:
					wp.log.Debug("commit worker shutting down", zap.Int("worker", id))
					return
				}
			}
		}
	}
}

// Commit queues a drag commit and returns without waiting for it to be
// applied. It blocks while the object's queue is full, or until ctx is done.
func (wp *WorkerPool) Commit(ctx context.Context, id string, pos model.Position) error {
	select {
	case wp.queues[wp.route(id)] <- Job{ObjectID: id, Position: pos}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (wp *WorkerPool) route(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(wp.size))
}

// apply commits one job. Commits are not abandoned on shutdown.
func (wp *WorkerPool) apply(ctx context.Context, worker int, job Job) {
	err := wp.next.Commit(context.WithoutCancel(ctx), job.ObjectID, job.Position)
	switch {
	case err == nil:
		metrics.DragCommits.WithLabelValues("ok").Inc()
	case errors.Is(err, dal.ErrNotFound):
		metrics.DragCommits.WithLabelValues("not_found").Inc()
		wp.log.Warn("drag commit for deleted object ignored",
			zap.Int("worker", worker), zap.String("id", job.ObjectID))
	default:
		metrics.DragCommits.WithLabelValues("error").Inc()
		wp.log.Error("drag commit failed",
			zap.Int("worker", worker), zap.String("id", job.ObjectID), zap.Error(err))
	}
}
