package download

import (
	"context"
	"errors"
	"sync"
)

// Batch is the settlement handle for one Enqueue call. Done is closed
// exactly once, after every task submitted to the queue up to that
// point has reached a terminal state.
type Batch struct {
	generation uint64
	done       chan struct{}

	mu   sync.Mutex
	errs []error
}

func newBatch(generation uint64) *Batch {
	return &Batch{
		generation: generation,
		done:       make(chan struct{}),
	}
}

// Done returns the settlement channel
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Err returns the combined task failures. Only meaningful once Done
// has closed.
func (b *Batch) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return errors.Join(b.errs...)
}

// Wait blocks until the batch settles or ctx is cancelled
func (b *Batch) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return b.Err()
	}
}

func (b *Batch) addErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errs = append(b.errs, err)
}
