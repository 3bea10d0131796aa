// Package bgqueue runs fire-and-forget tasks on a fixed pool of workers.
// Callers never block on it: when the queue is full, new tasks are dropped.
package bgqueue

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrQueueClosed = errors.New("background queue is shut down")

var tasksAdded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bgqueue_tasks_added_total",
	Help: "Total number of tasks added to the background queue",
}, []string{"queue"})

var tasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bgqueue_tasks_processed_total",
	Help: "Total number of tasks run by the background queue",
}, []string{"queue"})

var tasksDropped = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bgqueue_tasks_dropped_total",
	Help: "Total number of tasks dropped because the background queue was full",
}, []string{"queue"})

var workersActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "bgqueue_workers_active",
	Help: "Number of running background queue workers",
}, []string{"queue"})

type Task func(ctx context.Context)

type Queue struct {
	ident       string
	concurrency int

	tasks chan Task
	wg    sync.WaitGroup

	// cancelled when Shutdown gives up waiting, so in-flight tasks can bail
	ctx    context.Context
	cancel context.CancelFunc

	lk     sync.RWMutex
	closed bool

	itemsAdded     prometheus.Counter
	itemsProcessed prometheus.Counter
	itemsDropped   prometheus.Counter
	workers        prometheus.Gauge

	log *slog.Logger
}

func New(concurrency, depth int, ident string) *Queue {
	if concurrency < 1 {
		concurrency = 1
	}
	if depth < 0 {
		depth = 0
	}
	ctx, cancel := context.WithCancel(context.Background())

	q := &Queue{
		ident:       ident,
		concurrency: concurrency,
		tasks:       make(chan Task, depth),
		ctx:         ctx,
		cancel:      cancel,

		itemsAdded:     tasksAdded.WithLabelValues(ident),
		itemsProcessed: tasksProcessed.WithLabelValues(ident),
		itemsDropped:   tasksDropped.WithLabelValues(ident),
		workers:        workersActive.WithLabelValues(ident),

		log: slog.Default().With("system", "bgqueue", "queue", ident),
	}

	q.wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go q.worker()
	}
	q.workers.Set(float64(concurrency))

	return q
}

// Add enqueues a task without blocking. It returns ErrQueueClosed after
// Shutdown, and drops the task (returning false) if the queue is full.
func (q *Queue) Add(task Task) (bool, error) {
	q.lk.RLock()
	defer q.lk.RUnlock()

	if q.closed {
		return false, ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		q.itemsAdded.Inc()
		return true, nil
	default:
		q.itemsDropped.Inc()
		q.log.Warn("background queue full, dropping task")
		return false, nil
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for task := range q.tasks {
		q.run(task)
	}
}

func (q *Queue) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("background task panicked", "panic", r)
		}
		q.itemsProcessed.Inc()
	}()
	task(q.ctx)
}

// Shutdown stops accepting tasks and waits for queued and running tasks to
// finish. If ctx ends first, the context handed to tasks is cancelled and
// ctx's error is returned.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.lk.Lock()
	if q.closed {
		q.lk.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.lk.Unlock()

	q.log.Info("shutting down background queue")

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		q.workers.Set(0)
		q.log.Info("background queue shutdown complete")
		return nil
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}
