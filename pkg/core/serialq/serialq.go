// Package serialq runs tasks one at a time per key, in the order they were
// submitted. Tasks with different keys run concurrently.
package serialq

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned when submitting to a closed queue
var ErrClosed = errors.New("queue closed")

// Task is a unit of work run on its key's lane
type Task func() error

type job struct {
	run  Task
	done chan error
}

type lane struct {
	pending []job
}

// Queue serialises tasks per key. Each key with pending work owns one goroutine,
// which exits as soon as the key's lane is empty.
type Queue struct {
	mu     sync.Mutex
	lanes  map[string]*lane
	closed bool
	wg     sync.WaitGroup
}

// New creates an empty queue
func New() *Queue {
	return &Queue{lanes: make(map[string]*lane)}
}

// Submit enqueues task on key's lane and returns a channel that receives the
// task's error once it has run
func (q *Queue) Submit(key string, task Task) <-chan error {
	done := make(chan error, 1)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		done <- ErrClosed
		return done
	}

	l, ok := q.lanes[key]
	if !ok {
		l = &lane{}
		q.lanes[key] = l
		q.wg.Add(1)
		go q.drain(key, l)
	}
	l.pending = append(l.pending, job{run: task, done: done})

	return done
}

// Do submits task and waits for it. If ctx ends first Do returns ctx.Err(), but
// the task still runs in its turn: queued writes are never dropped.
func (q *Queue) Do(ctx context.Context, key string, task Task) error {
	done := q.Submit(key, task)
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of tasks queued or running for key
func (q *Queue) Pending(key string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if l, ok := q.lanes[key]; ok {
		return len(l.pending)
	}
	return 0
}

// Close stops accepting tasks and waits for every queued task to finish
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *Queue) drain(key string, l *lane) {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		if len(l.pending) == 0 {
			delete(q.lanes, key)
			q.mu.Unlock()
			return
		}
		next := l.pending[0]
		q.mu.Unlock()

		next.done <- runTask(next.run)

		// The job stays at the head while running so Pending counts it
		q.mu.Lock()
		l.pending = l.pending[1:]
		q.mu.Unlock()
	}
}

func runTask(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task()
}
