// Package workerpool runs blocking tasks on a fixed number of goroutines.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

// ErrClosed is returned for tasks submitted after Close
var ErrClosed = errors.New("worker pool is closed")

// Task is a unit of blocking work
type Task func(ctx context.Context) error

// PanicError is the error a task's Future reports when the task panicked
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Future is the pending result of a submitted task
type Future struct {
	done chan struct{}
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) finish(err error) {
	f.err = err
	close(f.done)
}

// Wait blocks until the task finishes or ctx is done
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the task has finished
func (f *Future) Done() <-chan struct{} {
	return f.done
}

type job struct {
	ctx    context.Context
	task   Task
	future *Future
}

// Pool is a bounded set of goroutines consuming submitted tasks
type Pool struct {
	workers int
	tasks   chan job
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts a pool with the given number of workers (at least one)
func New(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan job),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return p.workers
}

// Submit queues task and returns its Future. Submit blocks until a worker is
// free or ctx is done; a cancelled ctx yields a Future failing with ctx.Err().
func (p *Pool) Submit(ctx context.Context, task Task) *Future {
	f := newFuture()
	if task == nil {
		f.finish(errors.New("nil task"))
		return f
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		f.finish(ErrClosed)
		return f
	}

	select {
	case p.tasks <- job{ctx: ctx, task: task, future: f}:
	case <-ctx.Done():
		f.finish(ctx.Err())
	}
	return f
}

// Close stops accepting tasks and waits for running ones to finish
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.tasks {
		if err := j.ctx.Err(); err != nil {
			j.future.finish(err)
			continue
		}
		j.future.finish(run(j.ctx, j.task))
	}
}

func run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return task(ctx)
}
