/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Event is one pull request occurrence the gate should process.
type Event struct {
	Owner   string
	Repo    string
	Number  int
	Branch  string
	HeadSHA string
	Actor   string
}

func (e Event) String() string {
	return fmt.Sprintf("%s/%s#%d@%s", e.Owner, e.Repo, e.Number, e.Branch)
}

// RunFunc performs one gate run for an event. A non-nil error marks the run
// failed; the event is not retried.
type RunFunc func(ctx context.Context, ev Event) error

// Dispatcher feeds events to a bounded pool of gate workers.
type Dispatcher struct {
	run     RunFunc
	events  chan Event
	workers int
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithWorkers bounds the number of concurrent gate runs.
func WithWorkers(n int) DispatcherOption {
	return func(d *Dispatcher) { d.workers = n }
}

// WithQueueDepth bounds how many events may wait for a worker.
func WithQueueDepth(n int) DispatcherOption {
	return func(d *Dispatcher) { d.events = make(chan Event, n) }
}

// NewDispatcher constructs a Dispatcher invoking run for each event.
func NewDispatcher(run RunFunc, opts ...DispatcherOption) (*Dispatcher, error) {
	if run == nil {
		return nil, errors.New("run function cannot be nil")
	}

	d := &Dispatcher{
		run:     run,
		events:  make(chan Event, 64),
		workers: 4,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.workers < 1 {
		return nil, fmt.Errorf("workers must be positive, got %d", d.workers)
	}
	return d, nil
}

// Enqueue offers an event to the queue without blocking. It reports false
// when the queue is full, in which case the event is dropped; a subsequent
// synchronize delivery for the same pull request will cover it.
func (d *Dispatcher) Enqueue(ctx context.Context, ev Event) bool {
	select {
	case d.events <- ev:
		return true
	default:
		clog.FromContext(ctx).Warnf("Dropping event %s: queue full", ev)
		eventsDropped.Inc()
		return false
	}
}

// Run processes events until ctx is canceled. Individual run failures are
// logged and counted but do not stop the workers; there is no retry.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for range d.workers {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev := <-d.events:
					if err := d.run(ctx, ev); err != nil {
						clog.FromContext(ctx).Errorf("Gate run for %s failed: %v", ev, err)
						runsTotal.WithLabelValues(outcomeError).Inc()
					}
				}
			}
		})
	}
	return g.Wait()
}
