package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Info("scanning templates", "app", "base")

	assert.Contains(t, buf.String(), "scanning templates")
	assert.Contains(t, buf.String(), "app=base")
}

func TestFromContext_DiscardsWithoutLogger(t *testing.T) {
	t.Parallel()

	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
