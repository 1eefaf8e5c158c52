package pool

import (
	"context"
	"testing"
	"time"

	pqcfg "github.com/pq-async/pqgo/config"
	perrors "github.com/pq-async/pqgo/errors"
	"github.com/pq-async/pqgo/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(capacity int, dial func(context.Context, *pqcfg.ConnConfig) (*transport.Conn, error)) *Pool {
	return &Pool{
		cfg:      &pqcfg.ConnConfig{},
		capacity: capacity,
		inUse:    map[*transport.Conn]bool{},
		dial:     dial,
	}
}

func TestAcquireReturnsIdleConnectionWithoutDialing(t *testing.T) {
	dummy := &transport.Conn{}
	p := newTestPool(1, func(ctx context.Context, cfg *pqcfg.ConnConfig) (*transport.Conn, error) {
		t.Fatal("dial should not be called when an idle connection exists")
		return nil, nil
	})
	p.idle = append(p.idle, dummy)

	got, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Same(t, dummy, got)
	assert.Equal(t, Stats{Idle: 0, InUse: 1, Waiting: 0}, p.Stats())
}

func TestAcquireCreatesNewConnectionsUpToCapacity(t *testing.T) {
	var dialCount int
	p := newTestPool(2, func(ctx context.Context, cfg *pqcfg.ConnConfig) (*transport.Conn, error) {
		dialCount++
		return &transport.Conn{}, nil
	})

	c1, err := p.Acquire(context.Background())
	require.NoError(t, err)
	c2, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
	assert.Equal(t, 2, dialCount)
	assert.Equal(t, Stats{Idle: 0, InUse: 2, Waiting: 0}, p.Stats())
}

func TestAcquireQueuesWaiterAtCapacity(t *testing.T) {
	p := newTestPool(1, func(ctx context.Context, cfg *pqcfg.ConnConfig) (*transport.Conn, error) {
		return &transport.Conn{}, nil
	})

	first, err := p.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resultCh := make(chan *transport.Conn, 1)
	go func() {
		c, err := p.Acquire(ctx)
		require.NoError(t, err)
		resultCh <- c
	}()

	require.Eventually(t, func() bool {
		return p.Stats().Waiting == 1
	}, time.Second, time.Millisecond)

	p.Release(first)

	select {
	case got := <-resultCh:
		assert.Same(t, first, got)
	case <-time.After(time.Second):
		t.Fatal("waiter was never handed the released connection")
	}
	assert.Equal(t, Stats{Idle: 0, InUse: 1, Waiting: 0}, p.Stats())
}

func TestAcquireCancellationRemovesWaiter(t *testing.T) {
	p := newTestPool(1, func(ctx context.Context, cfg *pqcfg.ConnConfig) (*transport.Conn, error) {
		return &transport.Conn{}, nil
	})
	_, err := p.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := p.Acquire(ctx)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return p.Stats().Waiting == 1 }, time.Second, time.Millisecond)
	cancel()

	err = <-errCh
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.KindCancelled))
	assert.Equal(t, 0, p.Stats().Waiting)
}

func TestReleaseReturnsToIdleWhenNoWaiters(t *testing.T) {
	p := newTestPool(2, func(ctx context.Context, cfg *pqcfg.ConnConfig) (*transport.Conn, error) {
		return &transport.Conn{}, nil
	})
	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	p.Release(c)
	assert.Equal(t, Stats{Idle: 1, InUse: 0, Waiting: 0}, p.Stats())
}

// TestManyMoreCallersThanCapacityAllComplete exercises §8's concrete
// scenario: 2*capacity+10 concurrent callers against a pool of capacity
// connections all eventually acquire and release without deadlocking or
// ever observing a pool-exhausted error — the pool queues the overflow
// rather than rejecting it.
func TestManyMoreCallersThanCapacityAllComplete(t *testing.T) {
	const capacity = 4
	const callers = 2*capacity + 10

	p := newTestPool(capacity, func(ctx context.Context, cfg *pqcfg.ConnConfig) (*transport.Conn, error) {
		return &transport.Conn{}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	doneCh := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			conn, err := p.Acquire(ctx)
			if err != nil {
				doneCh <- err
				return
			}
			p.Release(conn)
			doneCh <- nil
		}()
	}

	for i := 0; i < callers; i++ {
		require.NoError(t, <-doneCh)
	}
	assert.Equal(t, 0, p.Stats().Waiting)
	assert.LessOrEqual(t, p.Stats().Idle, capacity)
}

func TestDestroyFailsQueuedWaitersWithPoolExhausted(t *testing.T) {
	p := newTestPool(1, func(ctx context.Context, cfg *pqcfg.ConnConfig) (*transport.Conn, error) {
		return &transport.Conn{}, nil
	})
	_, err := p.Acquire(context.Background())
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := p.Acquire(context.Background())
		errCh <- err
	}()
	require.Eventually(t, func() bool { return p.Stats().Waiting == 1 }, time.Second, time.Millisecond)

	destroyCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go p.Destroy(destroyCtx)

	err = <-errCh
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.KindPoolExhausted))
}
