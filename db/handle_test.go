package db

import (
	"context"
	"testing"

	pqasync "github.com/pq-async/pqgo/async"
	pqcodec "github.com/pq-async/pqgo/internal/codec"
	perrors "github.com/pq-async/pqgo/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindParamsForEncodesPositionalArgsInOrder(t *testing.T) {
	bindParams, oids, err := bindParamsFor([]any{int32(7), "hi", nil})
	require.NoError(t, err)
	require.Len(t, bindParams, 3)
	require.Len(t, oids, 3)
	assert.Equal(t, uint32(pqcodec.OIDInt4), oids[0])
	assert.Equal(t, uint32(pqcodec.OIDText), oids[1])
	assert.Nil(t, bindParams[2].Value)
}

func TestCheckNotReentrantAllowsCallsOffQueue(t *testing.T) {
	h := &Handle{queue: pqasync.NewQueue(false)}
	assert.NoError(t, h.checkNotReentrant(context.Background()))
}

func TestCheckNotReentrantRejectsNestedCallOnOwnQueue(t *testing.T) {
	q := pqasync.NewQueue(false)
	h := &Handle{queue: q}

	var gotErr error
	q.PushBack(func(ctx context.Context) {
		gotErr = h.checkNotReentrant(ctx)
	})
	q.RunN(context.Background(), 1)

	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, perrors.ErrReentrantBlockingCall)
}

func TestOnceErrInvokesCallbackExactlyOnce(t *testing.T) {
	var calls int
	guarded := onceErr(func(err error) { calls++ })

	guarded(nil)
	assert.Equal(t, 1, calls)

	var fataled error
	orig := perrors.FatalHandler
	perrors.FatalHandler = func(err error) { fataled = err }
	defer func() { perrors.FatalHandler = orig }()

	guarded(nil)
	assert.Equal(t, 1, calls, "callback must not run a second time")
	require.Error(t, fataled)
}

func TestOnceValueInvokesCallbackExactlyOnce(t *testing.T) {
	var calls int
	guarded := onceValue(func(v int, err error) { calls++ })

	guarded(1, nil)
	assert.Equal(t, 1, calls)

	var fataled error
	orig := perrors.FatalHandler
	perrors.FatalHandler = func(err error) { fataled = err }
	defer func() { perrors.FatalHandler = orig }()

	guarded(2, nil)
	assert.Equal(t, 1, calls)
	require.Error(t, fataled)
}
