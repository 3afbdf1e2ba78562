package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevelFromString("warn")
	defer SetLevel(LevelInfo)

	Info("hidden %d", 1)
	Warn("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, `"level":"warn"`)
}

func TestSetLevelFromStringIgnoresUnknown(t *testing.T) {
	SetLevel(LevelError)
	SetLevelFromString("verbose")
	assert.Equal(t, LevelError, level)
	SetLevel(LevelInfo)
}

func TestInitFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Options{File: true, Dir: dir}))
	defer Close()

	Info("written to file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
