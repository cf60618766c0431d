// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package event provides an asynchronous event bus backed by a fixed worker
// pool. Handlers never run on the publisher's goroutine or context, so a
// failing side effect cannot reach the request that triggered it.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Topic names an event stream.
type Topic string

// DeletedTopic returns the topic published after an entity of the given
// kind has been deleted, for example "media:deleted".
func DeletedTopic(kind string) Topic {
	return Topic(kind + ":deleted")
}

// EntityDeleted is the payload of every deletion topic. Snapshot holds the
// entity as it was just before deletion and may be nil.
type EntityDeleted struct {
	Kind     string
	ID       uuid.UUID
	Snapshot any
}

// Handler reacts to one event. The context is owned by the bus and carries
// the handler timeout.
type Handler func(ctx context.Context, payload any) error

// Failure describes a handler that returned an error or panicked.
type Failure struct {
	Topic    Topic
	EntityID uuid.UUID
	Err      error
}

// FailureRecorder persists handler failures. Record errors are logged and
// otherwise ignored.
type FailureRecorder interface {
	Record(ctx context.Context, f Failure) error
}

// Default pool settings.
const (
	DefaultWorkers        = 4
	DefaultBuffer         = 1024
	DefaultHandlerTimeout = 30 * time.Second
)

type envelope struct {
	topic   Topic
	payload any
}

// Bus dispatches published events to subscribed handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
	closed   bool

	events   chan envelope
	wg       sync.WaitGroup
	timeout  time.Duration
	recorder FailureRecorder
}

// New creates a bus and starts its workers. Non-positive sizes fall back to
// the defaults. recorder may be nil.
func New(workers, buffer int, recorder FailureRecorder) *Bus {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	b := &Bus{
		handlers: make(map[Topic][]Handler),
		events:   make(chan envelope, buffer),
		timeout:  DefaultHandlerTimeout,
		recorder: recorder,
	}
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go b.worker()
	}
	return b
}

// SetHandlerTimeout changes the per-handler timeout. Call before publishing.
func (b *Bus) SetHandlerTimeout(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d > 0 {
		b.timeout = d
	}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish queues an event and returns immediately. Events are dropped with
// a warning when the buffer is full or the bus is shut down. It reports
// whether the event was queued.
func (b *Bus) Publish(topic Topic, payload any) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		slog.Warn("event bus closed, dropping event", "topic", topic)
		return false
	}
	select {
	case b.events <- envelope{topic: topic, payload: payload}:
		return true
	default:
		slog.Warn("event buffer full, dropping event", "topic", topic)
		return false
	}
}

// Shutdown stops accepting events, drains the queue and waits for every
// worker to finish.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.events)
	b.mu.Unlock()

	b.wg.Wait()
	slog.Info("event bus stopped")
}

func (b *Bus) worker() {
	defer b.wg.Done()
	for ev := range b.events {
		b.mu.RLock()
		handlers := b.handlers[ev.topic]
		timeout := b.timeout
		b.mu.RUnlock()

		for _, h := range handlers {
			b.supervise(ev, h, timeout)
		}
	}
}

// supervise runs one handler on a fresh context and swallows its failure.
func (b *Bus) supervise(ev envelope, h Handler, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("handler panic: %v", rec)
				slog.Error("event handler panic", "topic", ev.topic, "stack", string(debug.Stack()))
			}
		}()
		return h(ctx, ev.payload)
	}()
	if err == nil {
		return
	}

	f := Failure{Topic: ev.topic, Err: err}
	if d, ok := ev.payload.(EntityDeleted); ok {
		f.EntityID = d.ID
	}
	slog.Error("event handler failed", "topic", ev.topic, "entity_id", f.EntityID, "error", err)

	if b.recorder == nil {
		return
	}
	// The handler context may already be expired.
	rctx, rcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer rcancel()
	if rerr := b.recorder.Record(rctx, f); rerr != nil {
		slog.Warn("failed to record side effect failure", "topic", ev.topic, "error", rerr)
	}
}
