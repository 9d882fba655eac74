package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout_OverridesOnlyGivenKeys(t *testing.T) {
	layout, err := ParseLayout([]byte("page_size: A4\nbody_size: 10\ntitle: Quarterly Report\n"))
	require.NoError(t, err)

	want := DefaultLayout()
	want.PageSize = "A4"
	want.BodySize = 10
	want.Title = "Quarterly Report"
	assert.Equal(t, want, layout)
}

func TestParseLayout_Empty(t *testing.T) {
	layout, err := ParseLayout(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(), layout)
}

func TestParseLayout_Invalid(t *testing.T) {
	_, err := ParseLayout([]byte("margin: [1, 2]\n"))
	assert.Error(t, err)

	_, err = ParseLayout([]byte("margin: -5\n"))
	assert.Error(t, err)
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("margin: 36\n"), 0o644))

	layout, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, 36.0, layout.Margin)

	_, err = LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRender_A4Layout(t *testing.T) {
	layout, err := ParseLayout([]byte("page_size: A4\n"))
	require.NoError(t, err)
	data, err := Render("TITLE\nbody\n", layout)
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(t, data))
}
