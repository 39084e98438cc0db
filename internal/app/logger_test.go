package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	t.Run("debug records carry their source", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger("debug", "json", &buf).Debug("hello")
		assert.Contains(t, buf.String(), `"source":`)
		assert.Contains(t, buf.String(), "logger_test.go")
	})

	t.Run("info records do not", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger("info", "text", &buf)
		l.Debug("hidden")
		l.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
		assert.NotContains(t, buf.String(), "source=")
	})

	t.Run("level names are case-insensitive", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger("WARN", "text", &buf)
		l.Info("quiet")
		l.Warn("loud")
		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "msg=loud")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger("verbose", "text", &buf)
		l.Debug("hidden")
		l.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})
}
