package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebugPrintEvents(t *testing.T) {
	t.Run("indents JSON at debug level", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		DebugPrintEvents(zap.New(core), []byte(`{"type":"chunk"}`))

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "{\n  \"type\": \"chunk\"\n}", logs.All()[0].ContextMap()["event"])
	})

	t.Run("keeps raw bytes that are not JSON", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		DebugPrintEvents(zap.New(core), []byte("not json"))

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "not json", logs.All()[0].ContextMap()["event"])
	})

	t.Run("silent above debug level", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		DebugPrintEvents(zap.New(core), []byte(`{}`))
		assert.Zero(t, logs.Len())
	})

	t.Run("nil logger", func(t *testing.T) {
		assert.NotPanics(t, func() { DebugPrintEvents(nil, []byte(`{}`)) })
	})
}
