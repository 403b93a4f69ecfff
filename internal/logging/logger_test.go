package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_WhenEnvironmentsAndEncodingsVary_ThenBuildsLogger(t *testing.T) {
	cases := []struct {
		name        string
		environment string
		level       string
		encoding    string
	}{
		{"development console", "development", "debug", "console"},
		{"development json", "development", "debug", "json"},
		{"production json", "production", "info", "json"},
		{"production unknown encoding", "production", "warn", "xml"},
		{"invalid level defaults to info", "production", "invalid-level", "json"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			logger, err := NewLogger(tc.environment, tc.level, tc.encoding)

			// Assert
			require.NoError(t, err)
			require.NotNil(t, logger)
			_ = logger.Sync()
		})
	}
}

func TestZapLogger_With_WhenCalledWithFields_ThenReturnsChildLogger(t *testing.T) {
	// Arrange
	logger, err := NewDevelopmentLogger()
	require.NoError(t, err)
	defer logger.Sync()

	// Act
	child := logger.With(zap.String("request_id", "123"))

	// Assert
	require.NotNil(t, child)
	child.Info("test message", zap.Int("attempt", 1))
	child.Debug("debug message")
	child.Warn("warn message")
}

func TestZapLogger_Zap_WhenCalled_ThenReturnsUnderlyingLogger(t *testing.T) {
	// Arrange
	logger, err := NewLogger("production", "info", "json")
	require.NoError(t, err)

	// Act
	z := logger.Zap()

	// Assert
	assert.NotNil(t, z)
}

func TestNoOpLogger_AllMethods_WhenCalled_ThenDoNothing(t *testing.T) {
	// Arrange
	logger := NewNoOpLogger()

	// Act & Assert (should not panic)
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")

	assert.Same(t, logger, logger.With(zap.String("key", "value")))
	assert.NotNil(t, logger.Zap())
	assert.NoError(t, logger.Sync())
}
