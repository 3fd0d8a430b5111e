package node

import (
	"sync"

	"github.com/mosaicnetworks/murmur/src/actor"
	"github.com/mosaicnetworks/murmur/src/message"
)

// Queue is the unbounded FIFO where the transport reader and the actor's own
// background routines drop envelopes for the event loop. Push never blocks;
// Pop blocks until an envelope is available or the Queue is closed and
// drained. There is no flow control: a producer faster than the loop makes
// the Queue grow without limit.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []message.Envelope
	closed bool
}

// NewQueue returns an empty, open Queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push implements actor.Inbox. It returns actor.ErrClosed once the Queue is
// closed.
func (q *Queue) Push(env message.Envelope) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return actor.ErrClosed
	}

	q.items = append(q.items, env)
	q.cond.Signal()

	return nil
}

// Pop removes and returns the oldest envelope. The second result is false
// when the Queue is closed and empty.
func (q *Queue) Pop() (message.Envelope, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.items) == 0 {
		return message.Envelope{}, false
	}

	env := q.items[0]
	q.items[0] = message.Envelope{}
	q.items = q.items[1:]

	return env, true
}

// Close refuses further pushes. Envelopes already queued can still be
// popped.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of queued envelopes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}
