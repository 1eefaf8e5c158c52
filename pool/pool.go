// Package pool implements the bounded connection pool of §4.G: an idle
// stack, an in-use set, and a FIFO of waiters. The original expresses a
// suspended waiter as a strand parked on the event queue until release
// resumes it (original_source/include/pq-async/async.h's connection_pool);
// the idiomatic Go analogue used here is a goroutine blocked on a
// per-waiter channel, which is exactly a suspended continuation without
// needing the scheduler to drive it.
package pool

import (
	"context"
	"sync"

	pqcfg "github.com/pq-async/pqgo/config"
	perrors "github.com/pq-async/pqgo/errors"
	pqlog "github.com/pq-async/pqgo/logging"
	"github.com/pq-async/pqgo/transport"
)

// DefaultCapacity is the pool size used when Config.Capacity is zero (§4.G).
const DefaultCapacity = 20

type waitResult struct {
	conn *transport.Conn
	err  error
}

// Pool is a singleton-per-process bounded set of transport connections.
type Pool struct {
	mu       sync.Mutex
	cfg      *pqcfg.ConnConfig
	capacity int

	idle    []*transport.Conn
	inUse   map[*transport.Conn]bool
	waiters []chan waitResult

	closed bool

	dial func(context.Context, *pqcfg.ConnConfig) (*transport.Conn, error)
}

// Init constructs a pool bound to cfg with the given capacity (<=0 uses
// DefaultCapacity). Init must precede any handle opening (§4.G).
func Init(cfg *pqcfg.ConnConfig, capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{
		cfg:      cfg,
		capacity: capacity,
		inUse:    map[*transport.Conn]bool{},
		dial:     transport.Connect,
	}
}

// Acquire hands out an idle connection, creates a new one if capacity
// allows, or blocks until Release or ctx cancellation (§4.G "Acquire").
func (p *Pool) Acquire(ctx context.Context) (*transport.Conn, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, perrors.New(perrors.KindPoolExhausted, "pool is closed")
	}
	if n := len(p.idle); n > 0 {
		c := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.inUse[c] = true
		p.mu.Unlock()
		return c, nil
	}
	if len(p.inUse)+len(p.idle) < p.capacity {
		// dial under p.mu so concurrent callers cannot overshoot capacity
		c, err := p.dial(ctx, p.cfg)
		if err != nil {
			p.mu.Unlock()
			return nil, err
		}
		p.inUse[c] = true
		pqlog.Debugf("pool: opened new connection (%d/%d)", len(p.inUse), p.capacity)
		p.mu.Unlock()
		return c, nil
	}

	ch := make(chan waitResult, 1)
	p.waiters = append(p.waiters, ch)
	pqlog.Debugf("pool: capacity %d reached, queuing waiter (%d waiting)", p.capacity, len(p.waiters))
	p.mu.Unlock()

	select {
	case res := <-ch:
		return res.conn, res.err
	case <-ctx.Done():
		p.cancelWaiter(ch)
		return nil, perrors.Wrap(perrors.KindCancelled, ctx.Err(), "waiting for pool connection")
	}
}

func (p *Pool) cancelWaiter(ch chan waitResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, w := range p.waiters {
		if w == ch {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			return
		}
	}
}

// Release returns conn to the pool: handed directly to the oldest waiter
// if any are queued, else pushed onto idle (§4.G "Release").
func (p *Pool) Release(conn *transport.Conn) {
	p.mu.Lock()
	if len(p.waiters) > 0 {
		ch := p.waiters[0]
		p.waiters = p.waiters[1:]
		p.mu.Unlock()
		ch <- waitResult{conn: conn}
		return
	}
	if p.closed {
		delete(p.inUse, conn)
		p.mu.Unlock()
		conn.Close()
		return
	}
	delete(p.inUse, conn)
	p.idle = append(p.idle, conn)
	p.mu.Unlock()
}

// Discard removes a broken connection from the pool's in-use set without
// returning it to idle (the caller determined it is no longer usable).
func (p *Pool) Discard(conn *transport.Conn) {
	p.mu.Lock()
	delete(p.inUse, conn)
	p.mu.Unlock()
	conn.Close()
}

// Stats reports the pool's current idle/in-use/waiting counts.
type Stats struct {
	Idle    int
	InUse   int
	Waiting int
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{Idle: len(p.idle), InUse: len(p.inUse), Waiting: len(p.waiters)}
}

// Destroy drains idle connections, fails every queued waiter, and waits for
// in-use connections to be released (bounded by ctx) before closing them
// too (§4.G "Init/teardown").
func (p *Pool) Destroy(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	idle := p.idle
	p.idle = nil
	waiters := p.waiters
	p.waiters = nil
	p.mu.Unlock()

	for _, w := range waiters {
		w <- waitResult{err: perrors.New(perrors.KindPoolExhausted, "pool destroyed")}
	}
	for _, c := range idle {
		c.Close()
	}

	for {
		p.mu.Lock()
		n := len(p.inUse)
		p.mu.Unlock()
		if n == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return perrors.Wrap(perrors.KindCancelled, ctx.Err(), "waiting for in-use connections to drain")
		default:
		}
	}
}
