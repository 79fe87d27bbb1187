package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kpfaulkner/annotiff/layer"
	"github.com/kpfaulkner/annotiff/tiffio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANNOTIFF_CONFIG", "")
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Render.Alpha)
	assert.Equal(t, "default", c.Encode.Compression)
	assert.Equal(t, "255,255,255", c.Encode.FillColor)
	assert.Equal(t, "info", c.Log.Level)

	opts, err := c.CodecOptions()
	require.NoError(t, err)
	assert.Equal(t, tiffio.DefaultCompression, opts.CompressionLevel)
	assert.Equal(t, &layer.Color{R: 255, G: 255, B: 255}, opts.FillColor)
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("ANNOTIFF_RENDER_ALPHA", "0.25")
	t.Setenv("ANNOTIFF_ENCODE_COMPRESSION", "none")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.25, c.Render.Alpha)

	opts, err := c.CodecOptions()
	require.NoError(t, err)
	assert.Equal(t, tiffio.NoCompression, opts.CompressionLevel)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "annotiff.toml")
	require.NoError(t, os.WriteFile(path, []byte("[encode]\nfill_color = \"0,0,0\"\n\n[log]\nlevel = \"debug\"\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0,0,0", c.Encode.FillColor)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 1.0, c.Render.Alpha)

	opts, err := c.CodecOptions()
	require.NoError(t, err)
	assert.Equal(t, &layer.Color{}, opts.FillColor)
}

func TestLoadMissingNamedFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, layer.Color{R: 1, G: 2, B: 3}, c)

	for _, bad := range []string{"", "1,2", "1,2,3,4", "256,0,0", "a,b,c", "-1,0,0"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseCompression(t *testing.T) {
	l, err := ParseCompression("Best")
	require.NoError(t, err)
	assert.Equal(t, tiffio.BestCompression, l)

	_, err = ParseCompression("lzw")
	assert.Error(t, err)
}
