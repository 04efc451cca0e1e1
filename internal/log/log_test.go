package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	// Тест 1: Пустой уровень даёт info
	logger := NewLogger("")
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	// Тест 2: Уровень debug включает отладочные записи
	logger = NewLogger("debug")
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	// Тест 3: Нераспознанный уровень откатывается к info
	logger = NewLogger("loud")
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	// Логгер пригоден к использованию сразу после создания
	logger.Info("test message")
}
