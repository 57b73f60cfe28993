// Package scheduler implements the cooperative fiber scheduling model:
// single-threaded interpretation per fiber, explicit yield points at
// back-edges/post-CALL/GC safepoints, FORBID/PERMIT critical sections,
// and an async interrupt flag observed only at those safepoints.
//
// Fibers never run in true parallel inside one VM instance, so a
// worker-pool's channel-based queue shape is replaced here with
// golang.org/x/sync/semaphore bounding how many fiber goroutines may be
// scheduled onto host OS threads concurrently, and golang.org/x/sync/errgroup
// joining the fiber group at shutdown.
package scheduler

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Fiber is one cooperatively scheduled execution context; the VM package
// supplies the Run closure (its own dispatch loop) and polls Forbidden/
// Interrupted at its safepoints.
type Fiber struct {
	ID   int
	Run  func(ctx context.Context) error

	forbidden   int32 // atomic: >0 means FORBID is in effect
	interrupted int32 // atomic: set by an async interrupt request
}

// Forbid enters a critical section: yield points inside it are suppressed
// until the matching Permit. FORBID/PERMIT nest; the fiber stays forbidden
// until the outermost Permit.
func (f *Fiber) Forbid() { atomic.AddInt32(&f.forbidden, 1) }

// Permit leaves one level of critical section.
func (f *Fiber) Permit() {
	if atomic.AddInt32(&f.forbidden, -1) < 0 {
		atomic.StoreInt32(&f.forbidden, 0)
	}
}

// Forbidden reports whether a yield point should be suppressed right now.
func (f *Fiber) Forbidden() bool { return atomic.LoadInt32(&f.forbidden) > 0 }

// Interrupt requests that the fiber observe a user-interrupt the next time
// it reaches a safepoint that is not inside a FORBID section.
func (f *Fiber) Interrupt() { atomic.StoreInt32(&f.interrupted, 1) }

// CheckInterrupt reports and clears a pending interrupt, but only when the
// fiber is not currently forbidden; callers (the VM's safepoint hook) are
// expected to signal a user-interrupt condition when this returns true.
func (f *Fiber) CheckInterrupt() bool {
	if f.Forbidden() {
		return false
	}
	return atomic.CompareAndSwapInt32(&f.interrupted, 1, 0)
}

// Scheduler bounds how many fibers may be actively running at once and
// joins them at Wait. Capacity is ordinarily 1 (exactly one fiber running
// at a time, others parked), set higher only to let independent VM
// instances share a host process.
type Scheduler struct {
	sem *semaphore.Weighted
	grp *errgroup.Group
	ctx context.Context

	spawned  int64
	finished int64
}

func New(ctx context.Context, capacity int64) *Scheduler {
	grp, gctx := errgroup.WithContext(ctx)
	return &Scheduler{
		sem: semaphore.NewWeighted(capacity),
		grp: grp,
		ctx: gctx,
	}
}

// Spawn schedules a fiber to run once a slot is available, blocking the
// caller (not the fiber) until the semaphore is acquired or ctx is
// cancelled.
func (s *Scheduler) Spawn(f *Fiber) error {
	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		return err
	}
	atomic.AddInt64(&s.spawned, 1)
	s.grp.Go(func() error {
		defer s.sem.Release(1)
		defer atomic.AddInt64(&s.finished, 1)
		return f.Run(s.ctx)
	})
	return nil
}

// Wait blocks until every spawned fiber has returned, propagating the
// first non-nil error (errgroup's own contract).
func (s *Scheduler) Wait() error { return s.grp.Wait() }

// Counts returns (spawned, finished) fiber counts for diagnostics.
func (s *Scheduler) Counts() (spawned, finished int64) {
	return atomic.LoadInt64(&s.spawned), atomic.LoadInt64(&s.finished)
}
