// Package combinator implements the each/series flow-control helpers of
// §4.J, grounded on original_source/include/pq-async/async.h's
// async::each/async::series signatures.
package combinator

import (
	"context"

	pqasync "github.com/pq-async/pqgo/async"
)

// ItemFunc processes one element; the caller must invoke cont exactly once
// to advance (a non-nil error short-circuits the whole sequence).
type ItemFunc[T any] func(ctx context.Context, item T, cont func(error))

// Each schedules item-cb once per element of items, in order, on q. items
// is a caller-owned snapshot (never a live container reference), resolving
// §9's "iterator invalidated across suspension" Open Question the way the
// spec's own suggested fix does. doneCB fires once, with the first error
// encountered or nil after the last element.
func Each[T any](q *pqasync.Queue, items []T, itemCB ItemFunc[T], doneCB func(error)) {
	snapshot := append([]T(nil), items...)
	var step func(ctx context.Context, idx int)
	step = func(ctx context.Context, idx int) {
		if idx >= len(snapshot) {
			doneCB(nil)
			return
		}
		itemCB(ctx, snapshot[idx], func(err error) {
			if err != nil {
				doneCB(err)
				return
			}
			q.PushBack(func(ctx context.Context) { step(ctx, idx+1) })
		})
	}
	q.PushBack(func(ctx context.Context) { step(ctx, 0) })
}

// StepFunc is one step of a series; it must invoke cont exactly once.
type StepFunc func(ctx context.Context, cont func(error))

// Series runs steps one at a time in order, short-circuiting on the first
// error. It drives the sequence from a strand so steps stay ordered even
// under a parallel-mode scheduler draining q from multiple goroutines
// (§4.J "uses a strand internally").
func Series(q *pqasync.Queue, steps []StepFunc, doneCB func(error)) {
	strand := pqasync.NewStrand[error](q, true)
	var run func(ctx context.Context, idx int)
	run = func(ctx context.Context, idx int) {
		if idx >= len(steps) {
			doneCB(strand.Data())
			return
		}
		steps[idx](ctx, func(err error) {
			if err != nil {
				strand.SetData(err)
				strand.PushBack(func(ctx context.Context) { doneCB(err) })
				return
			}
			strand.PushBack(func(ctx context.Context) { run(ctx, idx+1) })
		})
	}
	strand.PushBack(func(ctx context.Context) { run(ctx, 0) })
}
