package sl_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.NotPanics(t, func() {
		attr := sl.Err(nil)
		assert.Equal(t, "<nil>", attr.Value.String())
	})
}

func TestNew_LevelsByEnv(t *testing.T) {
	assert.True(t, sl.New("local").Handler().Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, sl.New("prod").Handler().Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, sl.New("dev").Handler().Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, sl.Discard().Handler().Enabled(context.Background(), slog.LevelDebug))
}
