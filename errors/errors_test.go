package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	err := New(KindNullValue, "cell is null")
	assert.True(t, Is(err, KindNullValue))
	assert.False(t, Is(err, KindTypeMismatch))
}

func TestWrapPreservesCauseAndKind(t *testing.T) {
	cause := New(KindConnectionFailure, "dial tcp: refused")
	wrapped := Wrap(KindServerError, cause, "acquiring connection")
	require.Error(t, wrapped)
	assert.Equal(t, KindServerError, wrapped.Kind)
	assert.ErrorIs(t, wrapped, cause)
}

func TestWrapOfNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(KindServerError, nil, "no-op"))
}

func TestWithSQLStateAndHintChain(t *testing.T) {
	err := New(KindServerError, "duplicate key").WithSQLState("23505").WithHint("check unique constraints")
	assert.Equal(t, "23505", err.SQLState)
	assert.Equal(t, "check unique constraints", err.Hint)
	assert.Contains(t, err.Error(), "23505")
}

func TestFatalInvokesHandler(t *testing.T) {
	var got error
	orig := FatalHandler
	FatalHandler = func(err error) { got = err }
	defer func() { FatalHandler = orig }()

	sentinel := New(KindCallbackDoubleFired, "fired twice")
	Fatal(sentinel)
	assert.Same(t, sentinel, got)
}
