package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/iceberg/internal/adapters/logger"
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/zerr"
)

func newLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	return logger.NewWithOutput(&buf), &buf
}

func TestLogger_Info(t *testing.T) {
	log, buf := newLogger(t)

	log.Info("listening", "addr", ":3000")

	assert.Equal(t, "listening addr=:3000\n", buf.String())
}

func TestLogger_Warn(t *testing.T) {
	log, buf := newLogger(t)

	log.Warn("identity mode trusts raw headers")

	assert.Equal(t, "! identity mode trusts raw headers\n", buf.String())
}

func TestLogger_DebugRespectsLevel(t *testing.T) {
	log, buf := newLogger(t)

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, log.SetLevel("debug"))
	log.Debug("diff sent", "bytes", 27)
	assert.Equal(t, "diff sent bytes=27\n", buf.String())
}

func TestLogger_SetLevelRejectsUnknown(t *testing.T) {
	log, _ := newLogger(t)

	err := log.SetLevel("loud")
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLogger_ErrorChain(t *testing.T) {
	log, buf := newLogger(t)

	err := zerr.With(zerr.Wrap(domain.ErrUnknownProcedure, "lookup procedure"), "procedure", "nope")
	log.Error(err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "✗ Error: lookup procedure\n"), out)
	assert.Contains(t, out, "  Caused by:\n    → unknown procedure")
}

func TestLogger_ErrorPlain(t *testing.T) {
	log, buf := newLogger(t)

	log.Error(errors.New("boom"))
	log.Error(nil)

	assert.Equal(t, "✗ Error: boom\n", buf.String())
}

func TestLogger_JSON(t *testing.T) {
	log, buf := newLogger(t)
	log.SetJSON(true)

	log.Info("handled", "status", 200)
	log.Error(errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "handled", first["msg"])
	assert.InDelta(t, 200, first["status"], 0)

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "ERROR", second["level"])
	assert.Equal(t, "boom", second["error"])
}

func TestLogger_SetOutputKeepsMode(t *testing.T) {
	log, _ := newLogger(t)
	log.SetJSON(true)

	var other bytes.Buffer
	log.SetOutput(&other)
	log.Info("moved")

	assert.True(t, json.Valid(bytes.TrimSpace(other.Bytes())))
}
