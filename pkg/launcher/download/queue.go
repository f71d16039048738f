package download

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultWorkers bounds concurrent transfers
	DefaultWorkers = 10

	// DefaultAttempts bounds attempts per task before a failure is fatal
	DefaultAttempts = 3

	// DefaultRetryDelay is the first backoff step; it doubles per retry
	DefaultRetryDelay = 250 * time.Millisecond
)

// Options configures a Queue. Zero values select the defaults.
type Options struct {
	Workers    int
	Attempts   int
	RetryDelay time.Duration
	Client     *http.Client
	OnProgress func(done, total int64)
}

// Queue downloads artifacts with bounded concurrency, verifying
// integrity and settling batches exactly once. One Queue is shared by
// every concurrently active launch; the destination path is the unit
// of mutual exclusion between overlapping transfers.
type Queue struct {
	logger     hclog.Logger
	client     *http.Client
	sem        *semaphore.Weighted
	attempts   int
	retryDelay time.Duration
	onProgress func(done, total int64)

	// flight collapses concurrent work on the same destination path
	flight singleflight.Group

	// mu guards the settlement bookkeeping below
	mu          sync.Mutex
	generation  uint64
	outstanding int
	waiters     []*Batch

	tasksDone  atomic.Int64
	tasksTotal atomic.Int64
	bytesMoved atomic.Int64
}

// NewQueue creates the acquisition queue
func NewQueue(opts Options, logger hclog.Logger) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	return &Queue{
		logger:     logger,
		client:     opts.Client,
		sem:        semaphore.NewWeighted(int64(opts.Workers)),
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
		onProgress: opts.OnProgress,
	}
}

// Progress returns the task counters of the current acquisition window
func (q *Queue) Progress() (done, total, bytes int64) {
	return q.tasksDone.Load(), q.tasksTotal.Load(), q.bytesMoved.Load()
}

// Enqueue submits tasks and returns the settlement handle. Tasks are
// admitted in priority order and run under the shared worker bound.
// The returned batch settles once the whole queue drains, so a batch
// enqueued while earlier tasks are still in flight waits for those
// too. Cancelling ctx aborts this batch's unstarted and in-flight
// tasks without disturbing other callers.
func (q *Queue) Enqueue(ctx context.Context, tasks []Task) *Batch {
	sorted := append([]Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	q.mu.Lock()
	q.generation++
	batch := newBatch(q.generation)

	if err := q.checkDiskSpace(sorted); err != nil {
		q.mu.Unlock()
		q.logger.Error("❌ Refusing batch", "generation", batch.generation, "error", err)
		batch.addErr(err)
		close(batch.done)
		return batch
	}

	if len(sorted) == 0 && q.outstanding == 0 {
		// Nothing submitted and nothing in flight settles immediately
		q.mu.Unlock()
		close(batch.done)
		return batch
	}

	q.outstanding += len(sorted)
	q.waiters = append(q.waiters, batch)
	q.mu.Unlock()

	total := q.tasksTotal.Add(int64(len(sorted)))
	q.emitProgress(q.tasksDone.Load(), total)

	q.logger.Debug("📥 Batch enqueued",
		"generation", batch.generation,
		"tasks", len(sorted),
	)

	go q.admit(ctx, batch, sorted)
	return batch
}

// admit feeds one batch's tasks through the shared worker bound,
// preserving priority order at admission time.
func (q *Queue) admit(ctx context.Context, batch *Batch, tasks []Task) {
	for _, task := range tasks {
		if err := q.sem.Acquire(ctx, 1); err != nil {
			q.finishTask(batch, task, err)
			continue
		}

		go func(t Task) {
			defer q.sem.Release(1)
			q.finishTask(batch, t, q.process(ctx, t))
		}(task)
	}
}

// finishTask records a terminal task and dispatches settlement when
// the queue is simultaneously empty and has zero active workers.
func (q *Queue) finishTask(batch *Batch, task Task, err error) {
	if err != nil {
		batch.addErr(fmt.Errorf("%s: %w", task.Name, err))
		q.logger.Error("❌ Task failed", "task", task.Name, "error", err)
	}

	done := q.tasksDone.Add(1)
	q.emitProgress(done, q.tasksTotal.Load())

	q.mu.Lock()
	q.outstanding--
	if q.outstanding > 0 {
		q.mu.Unlock()
		return
	}

	settled := q.waiters
	q.waiters = nil

	// Fresh counters for the next acquisition window
	q.tasksDone.Store(0)
	q.tasksTotal.Store(0)
	q.bytesMoved.Store(0)
	q.mu.Unlock()

	for _, b := range settled {
		q.logger.Debug("✅ Batch settled", "generation", b.generation)
		close(b.done)
	}
}

func (q *Queue) emitProgress(done, total int64) {
	if q.onProgress != nil {
		q.onProgress(done, total)
	}
}

// checkDiskSpace refuses a batch whose expected bytes exceed the free
// space at the first destination. Called with q.mu held.
func (q *Queue) checkDiskSpace(tasks []Task) error {
	var needed int64
	for _, t := range tasks {
		if t.Size > 0 {
			needed += t.Size
		}
	}
	if needed == 0 {
		return nil
	}

	dir := filepath.Dir(tasks[0].Dest)
	available, err := availableDiskSpace(nearestExisting(dir))
	if err != nil {
		q.logger.Warn("⚠️ Could not check disk space", "error", err)
		return nil // Don't fail if we can't check
	}

	neededGB := float64(needed) / (1024 * 1024 * 1024)
	availableGB := float64(available) / (1024 * 1024 * 1024)
	q.logger.Debug("💾 Disk space check",
		"needed_gb", fmt.Sprintf("%.2f", neededGB),
		"available_gb", fmt.Sprintf("%.2f", availableGB),
	)

	if available < needed {
		return fmt.Errorf("insufficient disk space: need %.2f GB, have %.2f GB", neededGB, availableGB)
	}
	return nil
}
