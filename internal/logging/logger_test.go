package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRecords(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "json", slog.LevelDebug)
	require.NoError(t, err)

	l.LogStore(context.Background(), "/tmp/a.sav", 42, nil)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "store completed", rec["msg"])
	assert.Equal(t, "/tmp/a.sav", rec["path"])
	assert.Equal(t, float64(42), rec["bytes"])
}

func TestErrorsLogged(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "text", slog.LevelError)
	require.NoError(t, err)

	l.LogLoad(context.Background(), "x.sav", 0, 0, nil)
	require.Empty(t, buf.String(), "debug record filtered")
	l.LogLoad(context.Background(), "x.sav", 0, 0, errors.New("boom"))
	require.Contains(t, buf.String(), "load failed")
	require.Contains(t, buf.String(), "boom")
}

func TestUnknownFormat(t *testing.T) {
	_, err := New(nil, "xml", slog.LevelInfo)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn, "error": slog.LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNoop(t *testing.T) {
	l := NoopLogger()
	require.False(t, l.Enabled(context.Background(), slog.LevelError))
	l.WithPath("p").LogBackup(context.Background(), "p", 1, 1, nil)
}
