package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/pkg/screen"
)

func TestRunHeadless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.exe")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0644))

	var progress bytes.Buffer
	view, err := runHeadless(context.Background(), path, scan.Options{Seed: 7, Sleeper: scan.NoSleep{}}, &progress)
	require.NoError(t, err)

	assert.Equal(t, screen.PhaseCompleted.String(), view.Phase)
	require.NotNil(t, view.File)
	assert.Equal(t, "test.exe", view.File.Name)
	assert.Equal(t, "2 KB", view.File.SizeText)
	assert.Len(t, view.Rows, len(scan.Roster))
	assert.Equal(t, 100, view.Progress)
	require.NotNil(t, view.Summary)
}

func TestRunHeadlessSeedIsReproducible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.msi")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	opts := scan.Options{Seed: 42, Sleeper: scan.NoSleep{}}
	first, err := runHeadless(context.Background(), path, opts, &bytes.Buffer{})
	require.NoError(t, err)
	second, err := runHeadless(context.Background(), path, opts, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestRunHeadlessMissingFile(t *testing.T) {
	_, err := runHeadless(context.Background(), filepath.Join(t.TempDir(), "nope"), scan.Options{Sleeper: scan.NoSleep{}}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunHeadlessRejectsDirectory(t *testing.T) {
	_, err := runHeadless(context.Background(), t.TempDir(), scan.Options{Sleeper: scan.NoSleep{}}, &bytes.Buffer{})
	require.ErrorIs(t, err, screen.ErrInvalidFile)
}
