package logging

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{name: "debug level", level: "debug"},
		{name: "info level", level: "info"},
		{name: "warn level", level: "warn"},
		{name: "error level", level: "error"},
		{name: "unknown level falls back to info", level: "verbose"},
		{name: "empty level falls back to info", level: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Setup(tt.level)
			assert.NotNil(t, logger)
			assert.Equal(t, logger, slog.Default())
		})
	}
}

func TestErr(t *testing.T) {
	t.Run("non-nil error", func(t *testing.T) {
		attr := Err(errors.New("boom"))
		assert.Equal(t, KeyError, attr.Key)
		assert.Equal(t, "boom", attr.Value.String())
	})

	t.Run("nil error yields empty group", func(t *testing.T) {
		attr := Err(nil)
		assert.Equal(t, "", attr.Key)
		assert.Equal(t, slog.KindGroup, attr.Value.Kind())
		assert.Empty(t, attr.Value.Group())
	})
}

func TestAttributeHelpers(t *testing.T) {
	assert.Equal(t, KeyOperation, Operation("generate").Key)
	assert.Equal(t, "generate", Operation("generate").Value.String())

	assert.Equal(t, KeyMessageID, MessageID("abc123").Key)
	assert.Equal(t, KeyEvent, Event("Quarterly Review").Key)
	assert.Equal(t, KeyStatus, Status(StatusSuccess).Key)

	it := Iteration(2)
	assert.Equal(t, KeyIteration, it.Key)
	assert.Equal(t, int64(2), it.Value.Int64())
}

func TestWithHelpers(t *testing.T) {
	base := slog.Default()
	assert.NotNil(t, WithService(base, "gmail"))
	assert.NotNil(t, WithAccount(base, "default"))
}
