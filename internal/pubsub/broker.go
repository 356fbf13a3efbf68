package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBufferSize is the per-subscriber queue length used by NewBroker.
const DefaultBufferSize = 16

// Broker fans events out to subscribers without ever blocking the publisher.
//
// When a subscriber's queue is full the oldest queued event is discarded to
// make room, so a slow reader always ends up with the most recent state.
type Broker[T any] struct {
	mu        sync.Mutex
	subs      map[chan Event[T]]struct{}
	closed    bool
	queueSize int
	now       func() time.Time
	coalesced atomic.Int64
}

// NewBroker creates a broker with DefaultBufferSize queues.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](DefaultBufferSize)
}

// NewBrokerWithBuffer creates a broker whose subscriber queues hold size
// events. Sizes below one are raised to one.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	if size < 1 {
		size = 1
	}
	return &Broker[T]{
		subs:      make(map[chan Event[T]]struct{}),
		queueSize: size,
		now:       time.Now,
	}
}

// Subscribe registers a queue that stays open until ctx is done or the
// broker closes. Subscribing to a closed broker returns a closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(chan Event[T], b.queueSize)
	if b.closed {
		close(sub)
		return sub
	}
	b.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		b.unsubscribe(sub)
	}()
	return sub
}

func (b *Broker[T]) unsubscribe(sub chan Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub)
}

// Publish delivers an event to every subscriber.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	event := Event[T]{Type: eventType, Payload: payload, Timestamp: b.now()}
	for sub := range b.subs {
		b.offer(sub, event)
	}
}

// offer enqueues event, evicting the oldest entry when sub is full.
// Publishers hold b.mu, so only readers compete for the queue.
func (b *Broker[T]) offer(sub chan Event[T], event Event[T]) {
	for {
		select {
		case sub <- event:
			return
		default:
		}
		select {
		case <-sub:
			b.coalesced.Add(1)
		default:
		}
	}
}

// Close closes every subscriber queue. Further publishes are ignored.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub)
	}
	clear(b.subs)
}

// Coalesced returns how many queued events were replaced by newer ones.
func (b *Broker[T]) Coalesced() int64 {
	return b.coalesced.Load()
}

// SubscriberCount returns the number of open subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
