package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer, with NO_COLOR set for deterministic output.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Info("compiling 12 source files")

	g := goldie.New(t)
	g.Assert(t, "info_basic", buf.Bytes())
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("remote cache upload failed")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "simple error",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name: "cycle with metadata",
			err: zerr.With(
				zerr.Wrap(domain.ErrCycleDetected, "compile -> test -> compile"),
				"cycle", "compile -> test -> compile",
			),
			goldenName: "error_cycle",
		},
		{
			name: "three level chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("connection refused"), "remote cache request failed"),
				"failed to download artifact",
			),
			goldenName: "error_chain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Info("hello")
	lg.Error(domain.ErrTaskFailed)

	dec := json.NewDecoder(buf)

	var info map[string]any
	require.NoError(t, dec.Decode(&info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "hello", info["msg"])

	var errLine map[string]any
	require.NoError(t, dec.Decode(&errLine))
	assert.Equal(t, "ERROR", errLine["level"])
	assert.Equal(t, map[string]any{"msg": "task failed"}, errLine["error"])
}

func TestLogger_SetOutputPreservesJSON(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	var buf bytes.Buffer
	lg.SetOutput(&buf)
	lg.Warn("careful")

	assert.Contains(t, buf.String(), `"msg":"careful"`)
}
