package testutil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	v, ok := messages[0].Field("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error", logging.Err(errors.New("boom")))
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
	assert.Equal(t, 1, logger.CountLevel("error"))
}

func TestMockLogger_ChildrenShareStore(t *testing.T) {
	root := testutil.NewMockLogger()
	child := root.Named("board").Named("memo").With(logging.Int("n", 2))

	child.Warn("evicted")

	msgs := root.GetMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "board.memo", msgs[0].Logger)
	n, ok := msgs[0].Field("n")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

//Personal.AI order the ending
