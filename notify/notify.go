// Package notify provides the in-process broadcast primitive behind setting
// change subscriptions. One producer publishes values; any number of
// subscriptions observe every published value in publish order.
//
// Delivery is lossless: each subscription buffers behind its own unbounded
// queue, so a slow consumer delays only itself and Publish never blocks.
package notify

import "sync"

// Notifier fans published values out to its live subscriptions.
// The zero value is not usable; create with New.
type Notifier[T any] struct {
	mu     sync.Mutex
	subs   []*Subscription[T]
	nextID int64
	closed bool
}

// New returns a Notifier with no subscriptions.
func New[T any]() *Notifier[T] {
	return &Notifier[T]{}
}

// Publish enqueues v to every live subscription, in subscription order.
// It never blocks on slow consumers. Publishing after Close is a no-op.
func (n *Notifier[T]) Publish(v T) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	for _, sub := range n.subs {
		sub.enqueue(v)
	}
}

// Subscribe registers a new subscription. Values in prime are enqueued to it
// before any subsequent Publish, letting the caller seed the stream with the
// current state. Nothing published earlier is replayed.
//
// Subscribing to a closed Notifier yields a subscription whose channel is
// already closed.
func (n *Notifier[T]) Subscribe(prime ...T) *Subscription[T] {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	sub := newSubscription[T](n.nextID)
	sub.detach = func() { n.remove(sub.id) }

	if n.closed {
		sub.finish()
		return sub
	}
	for _, v := range prime {
		sub.enqueue(v)
	}
	n.subs = append(n.subs, sub)
	return sub
}

// Close ends all subscriptions. Each channel closes once its queued values
// have been delivered. Close is idempotent.
func (n *Notifier[T]) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for _, sub := range n.subs {
		sub.finish()
	}
	n.subs = nil
}

func (n *Notifier[T]) remove(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, sub := range n.subs {
		if sub.id == id {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}

// Subscription is one observer's view of a Notifier. Values arrive on C in
// publish order.
type Subscription[T any] struct {
	id     int64
	ch     chan T
	stop   chan struct{}
	detach func()
	once   sync.Once

	mu      sync.Mutex
	cond    *sync.Cond
	pending []T
	done    bool
}

func newSubscription[T any](id int64) *Subscription[T] {
	sub := &Subscription[T]{
		id:   id,
		ch:   make(chan T),
		stop: make(chan struct{}),
	}
	sub.cond = sync.NewCond(&sub.mu)
	go sub.deliver()
	return sub
}

// C returns the delivery channel. It is closed after the subscription ends
// (Cancel, or Close on the notifier) and any queued values have drained.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Cancel detaches the subscription from its notifier. Queued but undelivered
// values are discarded and C closes. Safe to call more than once and safe to
// call concurrently with publishes.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() {
		if s.detach != nil {
			s.detach()
		}
		close(s.stop)
		s.mu.Lock()
		s.done = true
		s.pending = nil
		s.mu.Unlock()
		s.cond.Signal()
	})
}

// enqueue appends v to the pending queue. Never blocks.
func (s *Subscription[T]) enqueue(v T) {
	s.mu.Lock()
	if !s.done {
		s.pending = append(s.pending, v)
	}
	s.mu.Unlock()
	s.cond.Signal()
}

// finish marks the subscription done but lets the queue drain before C
// closes.
func (s *Subscription[T]) finish() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
	s.cond.Signal()
}

// deliver drains the pending queue into the channel, one goroutine per
// subscription. Exits when done and drained, or when cancelled mid-send.
func (s *Subscription[T]) deliver() {
	defer close(s.ch)
	for {
		s.mu.Lock()
		for len(s.pending) == 0 && !s.done {
			s.cond.Wait()
		}
		if len(s.pending) == 0 {
			s.mu.Unlock()
			return
		}
		v := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		select {
		case s.ch <- v:
		case <-s.stop:
			return
		}
	}
}
