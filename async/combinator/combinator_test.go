package combinator

import (
	"context"
	"testing"

	pqasync "github.com/pq-async/pqgo/async"
	perrors "github.com/pq-async/pqgo/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEachVisitsEveryItemInOrder(t *testing.T) {
	q := pqasync.NewQueue(false)
	var seen []int
	var doneErr error
	done := false

	Each(q, []int{10, 20, 30}, func(ctx context.Context, item int, cont func(error)) {
		seen = append(seen, item)
		cont(nil)
	}, func(err error) {
		doneErr = err
		done = true
	})

	q.Run(context.Background(), 0)
	require.True(t, done)
	assert.NoError(t, doneErr)
	assert.Equal(t, []int{10, 20, 30}, seen)
}

func TestEachShortCircuitsOnFirstError(t *testing.T) {
	q := pqasync.NewQueue(false)
	var seen []int
	var doneErr error

	Each(q, []int{1, 2, 3}, func(ctx context.Context, item int, cont func(error)) {
		seen = append(seen, item)
		if item == 2 {
			cont(perrors.New(perrors.KindInvalidArgument, "boom"))
			return
		}
		cont(nil)
	}, func(err error) {
		doneErr = err
	})

	q.Run(context.Background(), 0)
	assert.Equal(t, []int{1, 2}, seen)
	assert.Error(t, doneErr)
}

func TestEachOwnsSnapshotNotLiveSlice(t *testing.T) {
	q := pqasync.NewQueue(false)
	items := []int{1, 2, 3}
	var seen []int
	Each(q, items, func(ctx context.Context, item int, cont func(error)) {
		seen = append(seen, item)
		cont(nil)
	}, func(error) {})

	items[0] = 999 // mutate after scheduling; snapshot must be unaffected
	q.Run(context.Background(), 0)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestSeriesRunsStepsInOrder(t *testing.T) {
	q := pqasync.NewQueue(false)
	var order []int
	var doneErr error
	done := false

	Series(q, []StepFunc{
		func(ctx context.Context, cont func(error)) { order = append(order, 1); cont(nil) },
		func(ctx context.Context, cont func(error)) { order = append(order, 2); cont(nil) },
		func(ctx context.Context, cont func(error)) { order = append(order, 3); cont(nil) },
	}, func(err error) {
		doneErr = err
		done = true
	})

	q.Run(context.Background(), 0)
	require.True(t, done)
	assert.NoError(t, doneErr)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestSeriesShortCircuitsOnFirstError(t *testing.T) {
	q := pqasync.NewQueue(false)
	var order []int
	var doneErr error

	Series(q, []StepFunc{
		func(ctx context.Context, cont func(error)) { order = append(order, 1); cont(nil) },
		func(ctx context.Context, cont func(error)) {
			order = append(order, 2)
			cont(perrors.New(perrors.KindInvalidArgument, "boom"))
		},
		func(ctx context.Context, cont func(error)) { order = append(order, 3); cont(nil) },
	}, func(err error) {
		doneErr = err
	})

	q.Run(context.Background(), 0)
	assert.Equal(t, []int{1, 2}, order)
	assert.Error(t, doneErr)
}
