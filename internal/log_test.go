package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(level LogLevel) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{level: level, sugar: zap.New(core).Sugar()}, logs
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel(" WARN "))
	assert.Equal(t, LogLevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("trace"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLogger_LevelGating(t *testing.T) {
	l, logs := observedLogger(LogLevelWarn)
	l.Error("e %d", 1)
	l.Warn("w %d", 2)
	l.Info("i %d", 3)
	l.Debug("d %d", 4)
	l.Trace("t %d", 5)

	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("e 1").Len())
	assert.Equal(t, 1, logs.FilterMessage("w 2").Len())
}

func TestLogger_TraceIsTaggedDebug(t *testing.T) {
	l, logs := observedLogger(LogLevelTrace)
	l.Named("reader").Trace("column %q", "age")

	entries := logs.FilterMessage(`[TRACE] column "age"`).All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zap.DebugLevel, entries[0].Level)
		assert.Equal(t, "reader", entries[0].LoggerName)
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("ignored")
	assert.NoError(t, l.Sync())
}
