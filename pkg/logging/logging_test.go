package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("run", "abc"))
	ctx = AppendCtx(ctx, slog.Group("app", slog.String("name", "ctl")))
	log.InfoContext(ctx, "converted", slog.Int("bytes", 42))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "converted", rec["msg"])
	assert.Equal(t, "abc", rec["run"])
	assert.Equal(t, float64(42), rec["bytes"])
	assert.Equal(t, map[string]any{"name": "ctl"}, rec["app"])
}

func TestAppendCtxDoesNotLeak(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String("a", "1"))
	_ = AppendCtx(parent, slog.String("b", "2"))
	assert.Len(t, Attrs(parent), 1)
	assert.Empty(t, Attrs(context.Background()))
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelWarn)
	log.Info("hidden")
	assert.Zero(t, buf.Len())
	log.With(slog.String("k", "v")).Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "k=v")
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixconv.log")
	w := FileWriter(path, 1, 2)
	Logger(w, false, slog.LevelInfo).Info("to file")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
