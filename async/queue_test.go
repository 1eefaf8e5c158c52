package async

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunNExecutesInFIFOOrder(t *testing.T) {
	q := NewQueue(false)
	var order []int
	q.PushBack(func(ctx context.Context) { order = append(order, 1) })
	q.PushBack(func(ctx context.Context) { order = append(order, 2) })
	q.PushBack(func(ctx context.Context) { order = append(order, 3) })

	q.RunN(context.Background(), 2)
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 1, q.Size())

	q.RunN(context.Background(), 5) // more than remaining, runs just the rest
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, q.Size())
}

func TestQueueCancelTaskRemovesNotYetRunTask(t *testing.T) {
	q := NewQueue(false)
	var ran bool
	id := q.PushBack(func(ctx context.Context) { ran = true })
	ok := q.CancelTask(id)
	require.True(t, ok)
	q.RunN(context.Background(), 1)
	assert.False(t, ran)
}

func TestQueueRunDrainsUntilEmpty(t *testing.T) {
	q := NewQueue(false)
	count := 0
	q.PushBack(func(ctx context.Context) {
		count++
		if count < 3 {
			q.PushBack(func(ctx context.Context) { count++ })
		}
	})
	q.Run(context.Background(), 0)
	assert.Equal(t, 2, count)
}

func TestIsRunningOnDetectsNestedExecution(t *testing.T) {
	q := NewQueue(false)
	var nested bool
	q.PushBack(func(ctx context.Context) {
		nested = IsRunningOn(ctx, q)
	})
	q.RunN(context.Background(), 1)
	assert.True(t, nested)
	assert.False(t, IsRunningOn(context.Background(), q))
}

func TestStrandTasksRunInEnqueueOrder(t *testing.T) {
	owner := NewQueue(false)
	strand := NewStrand[int](owner, true)
	var order []int
	strand.PushBack(func(ctx context.Context) { order = append(order, 1) })
	strand.PushBack(func(ctx context.Context) { order = append(order, 2) })
	strand.PushBack(func(ctx context.Context) { order = append(order, 3) })

	// The first push schedules the strand on owner (later pushes find it
	// already scheduled); draining owner drains the strand's own FIFO one
	// task per turn.
	owner.Run(context.Background(), 0)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestStrandPushBackBeforeDrainEnqueuesOnlyOnce(t *testing.T) {
	owner := NewQueue(false)
	strand := NewStrand[int](owner, true)
	strand.PushBack(func(ctx context.Context) {})
	strand.PushBack(func(ctx context.Context) {})
	strand.PushBack(func(ctx context.Context) {})

	count := 0
	for _, task := range owner.tasks {
		if task.ID() == strand.ID() {
			count++
		}
	}
	assert.Equal(t, 1, count, "strand must appear at most once in the owner's task list")
}

func TestStrandConcurrentPushesEnqueueOnlyOnce(t *testing.T) {
	owner := NewQueue(true)
	strand := NewStrand[int](owner, true)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			strand.PushBack(func(ctx context.Context) {})
		}()
	}
	wg.Wait()

	count := 0
	for _, task := range owner.tasks {
		if task.ID() == strand.ID() {
			count++
		}
	}
	assert.Equal(t, 1, count, "concurrent pushes must not leave duplicate entries of the same strand")
	assert.Equal(t, n, strand.Size(), "every pushed task is still queued on the strand itself")
}

func TestStrandDataSlotSharedAcrossTasks(t *testing.T) {
	owner := NewQueue(false)
	strand := NewStrand[string](owner, true)
	strand.PushBack(func(ctx context.Context) { strand.SetData("first") })
	strand.PushBack(func(ctx context.Context) {
		assert.Equal(t, "first", strand.Data())
		strand.SetData("second")
	})
	owner.Run(context.Background(), 0)
	assert.Equal(t, "second", strand.Data())
}
