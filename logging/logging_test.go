package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevelGatesLowerSeverityEvents(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetLevel(Warning)

	Debugf("should not appear")
	Warnf("should appear: %d", 7)

	out := buf.String()
	assert.False(t, strings.Contains(out, "should not appear"))
	assert.True(t, strings.Contains(out, "should appear: 7"))
}

func TestFatalfInvokesRegisteredHandlerInsteadOfExiting(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetLevel(Trace)

	var called bool
	SetFatalHandler(func() { called = true })
	defer SetFatalHandler(func() { os.Exit(1) })

	Fatalf("fatal: %s", "boom")
	assert.True(t, called)
}

func TestLoggerEmitsValidJSONLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetLevel(Trace)

	Infof("hello %s", "world")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "hello world", decoded["message"])
}
