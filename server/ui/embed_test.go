package ui

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetsServeThePage(t *testing.T) {
	assets := Assets()

	for _, name := range []string{"index.html", "app.js", "style.css"} {
		_, err := fs.Stat(assets, name)
		assert.NoError(t, err, name)
	}

	script, err := fs.ReadFile(assets, "app.js")
	require.NoError(t, err)
	assert.Contains(t, string(script), "/ws")
	assert.NotContains(t, string(script), "FileReader")
}
