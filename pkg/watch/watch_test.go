package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldWatch(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/drop/sample.exe", true},
		{"/drop/report.pdf", true},
		{"/drop/.hidden", false},
		{"/drop/notes.txt~", false},
		{"/drop/big.iso.part", false},
		{"/drop/setup.exe.crdownload", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shouldWatch(tt.path), tt.path)
	}
}

func TestNewRejectsMissingDir(t *testing.T) {
	_, err := New(DefaultOptions(filepath.Join(t.TempDir(), "nope")))
	assert.Error(t, err)
}

func TestDropEmitsNewFile(t *testing.T) {
	dir := t.TempDir()
	w, err := New(Options{Dir: dir, Delay: 20 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	path := filepath.Join(dir, "sample.exe")
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0644))

	select {
	case got := <-w.Drops():
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no drop reported")
	}
}
