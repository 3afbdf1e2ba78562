package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securescan/securescan/pkg/logger"
	"github.com/securescan/securescan/pkg/screen"
)

func TestExecuteClosesLogFileOnError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SECURESCAN_CONFIG", filepath.Join(home, "config.json"))
	t.Cleanup(func() {
		logFile = false
		logger.SetOutput(os.Stderr)
	})

	err := execute([]string{"scan", filepath.Join(home, "missing.exe"), "--log-file"})
	require.Error(t, err)

	logs, err := filepath.Glob(filepath.Join(home, ".securescan", "logs", "securescan-*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	before, err := os.Stat(logs[0])
	require.NoError(t, err)

	logger.Error("written after the command returned")

	after, err := os.Stat(logs[0])
	require.NoError(t, err)
	assert.Equal(t, before.Size(), after.Size())
}

func TestVersionPrintsRosterAndNotice(t *testing.T) {
	t.Setenv("SECURESCAN_CONFIG", filepath.Join(t.TempDir(), "config.json"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	require.NoError(t, execute([]string{"version"}))
	assert.Contains(t, out.String(), "Engines:    20, 5 malware labels")
	assert.Contains(t, out.String(), screen.Notice)
}
