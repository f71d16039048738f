package launch

import "sync"

// defaultRingCapacity bounds the output lines retained per session
const defaultRingCapacity = 1000

// ringBuffer keeps the most recent output lines of a process. Once the
// capacity is reached, each append overwrites the oldest line.
type ringBuffer struct {
	mu      sync.Mutex
	lines   []string
	next    int
	wrapped bool
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity <= 0 {
		capacity = defaultRingCapacity
	}
	return &ringBuffer{lines: make([]string, capacity)}
}

func (r *ringBuffer) Append(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lines[r.next] = line
	r.next++
	if r.next == len(r.lines) {
		r.next = 0
		r.wrapped = true
	}
}

// Tail returns the retained lines in arrival order
func (r *ringBuffer) Tail() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.wrapped {
		out := make([]string, r.next)
		copy(out, r.lines[:r.next])
		return out
	}

	out := make([]string, 0, len(r.lines))
	out = append(out, r.lines[r.next:]...)
	out = append(out, r.lines[:r.next]...)
	return out
}

func (r *ringBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.wrapped {
		return len(r.lines)
	}
	return r.next
}
