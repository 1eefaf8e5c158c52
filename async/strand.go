package async

import (
	"context"
	"sync"
)

// Strand is itself a Task that wraps its own internal FIFO (§4.H). When the
// owning Queue runs it, it executes one of its own pending tasks and, in
// auto-requeue mode, re-enqueues itself at the back of the owner as long as
// work remains. Strand[T] carries a typed data slot so chained tasks can
// share state, the way series propagates the first error across steps.
type Strand[T any] struct {
	owner       *Queue
	inner       *Queue
	id          uint64
	autoRequeue bool
	data        T

	mu       sync.Mutex
	enqueued bool
}

// NewStrand creates a strand owned by owner. autoRequeue mirrors the
// original's constructor default of true: as long as the strand has
// pending work, the owner keeps re-scheduling it.
func NewStrand[T any](owner *Queue, autoRequeue bool) *Strand[T] {
	return &Strand[T]{
		owner:       owner,
		inner:       NewQueue(owner.threadSafe),
		id:          nextTaskID(),
		autoRequeue: autoRequeue,
	}
}

func (s *Strand[T]) ID() uint64 { return s.id }

// Run executes exactly one of the strand's own pending tasks.
func (s *Strand[T]) Run(ctx context.Context) { s.inner.RunN(ctx, 1) }

// Requeue reports whether the owner should re-schedule this strand. A
// strand is present in the owner's task list at most once at a time (§4.H/
// §8); enqueued tracks that and is cleared here, under the same lock
// markEnqueued uses, the instant no further requeue will happen.
func (s *Strand[T]) Requeue() RequeuePos {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autoRequeue && s.inner.Size() > 0 {
		return RequeueBack
	}
	s.enqueued = false
	return RequeueNone
}

// markEnqueued reports whether the strand was not already scheduled on its
// owner, atomically marking it scheduled if so. Callers only push onto the
// owner when this returns true, preventing the duplicate-entry bug where
// pushing twice before the owner drains leaves two (or more) copies of the
// same strand in the owner's task list.
func (s *Strand[T]) markEnqueued() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enqueued {
		return false
	}
	s.enqueued = true
	return true
}

// Size is the strand's own pending-task count, not 1.
func (s *Strand[T]) Size() int { return s.inner.Size() }

// Data returns the strand's shared data slot.
func (s *Strand[T]) Data() T { return s.data }

// SetData overwrites the strand's shared data slot.
func (s *Strand[T]) SetData(v T) { s.data = v }

// PushBack enqueues fn on the strand's own FIFO; in auto-requeue mode this
// also ensures the strand itself is scheduled on the owner, but only if it
// isn't already (§4.H, §8 "strands remain serial").
func (s *Strand[T]) PushBack(fn TaskFunc) uint64 {
	id := s.inner.PushBack(fn)
	if s.autoRequeue && s.markEnqueued() {
		s.owner.pushBackTask(s)
	}
	return id
}

// PushFront enqueues fn at the front of the strand's own FIFO.
func (s *Strand[T]) PushFront(fn TaskFunc) uint64 {
	id := s.inner.PushFront(fn)
	if s.autoRequeue && s.markEnqueued() {
		s.owner.pushBackTask(s)
	}
	return id
}

// RequeueSelfBack manually re-schedules the strand on its owner (manual-
// requeue mode, for explicit fan-out control per §4.H), unless it is
// already scheduled.
func (s *Strand[T]) RequeueSelfBack() {
	if s.markEnqueued() {
		s.owner.pushBackTask(s)
	}
}

// RequeueSelfFront manually re-schedules the strand at the front of its
// owner, unless it is already scheduled.
func (s *Strand[T]) RequeueSelfFront() {
	if s.markEnqueued() {
		s.owner.pushFrontTask(s)
	}
}
