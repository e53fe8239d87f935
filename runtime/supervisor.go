// Package runtime supervises long-lived background workers.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chat-core/errors"
)

const waitBeforeRestart = 200 * time.Millisecond

// Worker is a focused loop that runs until its context is canceled. Workers
// do not protect themselves; the supervisor does.
type Worker interface {
	Run(ctx context.Context) error
}

// Supervisor runs each worker in its own goroutine, recovers panics, and
// restarts crashed workers until the parent context is canceled. A failure
// in one worker never stops the supervisor or its siblings.
type Supervisor struct {
	log     *slog.Logger
	wg      sync.WaitGroup
	workers []Worker
}

func NewSupervisor(log *slog.Logger) *Supervisor {
	return &Supervisor{log: log}
}

func (s *Supervisor) Add(workers ...Worker) *Supervisor {
	s.workers = append(s.workers, workers...)
	return s
}

// Run starts every added worker and blocks until all of them have stopped.
func (s *Supervisor) Run(ctx context.Context) {
	for _, worker := range s.workers {
		s.start(ctx, worker)
	}
	s.wg.Wait()
}

func (s *Supervisor) start(ctx context.Context, worker Worker) {
	s.wg.Add(1)
	name := fmt.Sprintf("%T", worker)

	go func() {
		defer s.wg.Done()
		for {
			if ctx.Err() != nil {
				s.log.Info("Stopping worker", "name", name)
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				s.log.Info("Worker finished", "name", name)
				return
			}
			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", name)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", name, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(waitBeforeRestart):
			}
		}
	}()
}
