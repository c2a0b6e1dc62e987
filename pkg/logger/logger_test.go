package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		log, err := New("production")
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("development", func(t *testing.T) {
		log, err := New("development")
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})
}
