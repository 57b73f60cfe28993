package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestForbidPermitNesting(t *testing.T) {
	f := &Fiber{ID: 1}
	if f.Forbidden() {
		t.Fatal("Forbidden() = true before any Forbid")
	}
	f.Forbid()
	f.Forbid()
	if !f.Forbidden() {
		t.Fatal("Forbidden() = false inside nested Forbid")
	}
	f.Permit()
	if !f.Forbidden() {
		t.Fatal("Forbidden() = false after only one matching Permit")
	}
	f.Permit()
	if f.Forbidden() {
		t.Fatal("Forbidden() = true after the outermost Permit")
	}
}

func TestInterruptSuppressedInsideForbid(t *testing.T) {
	f := &Fiber{ID: 1}
	f.Forbid()
	f.Interrupt()
	if f.CheckInterrupt() {
		t.Fatal("CheckInterrupt() = true while forbidden")
	}
	f.Permit()
	if !f.CheckInterrupt() {
		t.Fatal("CheckInterrupt() = false once permitted")
	}
	if f.CheckInterrupt() {
		t.Fatal("CheckInterrupt() did not clear the pending flag")
	}
}

func TestSchedulerSpawnAndWait(t *testing.T) {
	s := New(context.Background(), 2)
	done := make(chan struct{})
	f := &Fiber{ID: 1, Run: func(ctx context.Context) error {
		close(done)
		return nil
	}}
	if err := s.Spawn(f); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fiber never ran")
	}
	if err := s.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	spawned, finished := s.Counts()
	if spawned != 1 || finished != 1 {
		t.Errorf("Counts() = %d, %d, want 1, 1", spawned, finished)
	}
}

func TestSchedulerPropagatesFiberError(t *testing.T) {
	s := New(context.Background(), 1)
	wantErr := context.Canceled
	f := &Fiber{ID: 1, Run: func(ctx context.Context) error { return wantErr }}
	if err := s.Spawn(f); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := s.Wait(); err != wantErr {
		t.Errorf("Wait() = %v, want %v", err, wantErr)
	}
}
