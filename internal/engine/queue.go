package engine

import "sync"

// intentQueue is a thread-safe FIFO of actor intents.
//
// Producers (input handlers, agent policies, tests) may enqueue from any
// goroutine; the engine drains it from its single writer at the start of
// each frame step.
type intentQueue struct {
	mu      sync.Mutex
	intents []Intent
	closed  bool
	done    chan struct{}
}

func newIntentQueue() *intentQueue {
	return &intentQueue{
		intents: make([]Intent, 0, 16),
		done:    make(chan struct{}),
	}
}

// Enqueue adds an intent to the back of the queue.
// Returns false if the queue is closed.
func (q *intentQueue) Enqueue(in Intent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.intents = append(q.intents, in)
	return true
}

// Drain removes and returns every queued intent in FIFO order.
func (q *intentQueue) Drain() []Intent {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.intents) == 0 {
		return nil
	}
	out := q.intents
	q.intents = make([]Intent, 0, cap(out))
	return out
}

// Len returns the current queue length.
func (q *intentQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.intents)
}

// Done is closed once the queue is closed.
func (q *intentQueue) Done() <-chan struct{} {
	return q.done
}

// Close rejects further intents and wakes anything waiting on Done.
func (q *intentQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
