package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	conf, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.Port)
	assert.Equal(t, 200.0, conf.RasterDPI)
	assert.Equal(t, 2*time.Minute, conf.ConversionTimeout)
	assert.Equal(t, int64(89478485), conf.MaxPixels)
	assert.Equal(t, filepath.Join(os.TempDir(), "mediaconverter"), conf.WorkDir)
	assert.Equal(t, 50*1024*1024, conf.BodyLimit())
	assert.False(t, conf.JournalEnabled())
	assert.False(t, conf.MirrorEnabled())
}

func TestParse_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WORK_DIR", "/srv/scratch")
	t.Setenv("CONVERSION_TIMEOUT", "15s")
	t.Setenv("RASTER_DPI", "300")
	t.Setenv("MAX_PIXELS", "1000000")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("S3_BUCKET", "artifacts")

	conf, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.Port)
	assert.Equal(t, "/srv/scratch", conf.WorkDir)
	assert.Equal(t, 15*time.Second, conf.ConversionTimeout)
	assert.Equal(t, 300.0, conf.RasterDPI)
	assert.Equal(t, int64(1000000), conf.MaxPixels)
	assert.True(t, conf.JournalEnabled())
	assert.True(t, conf.MirrorEnabled())
}

func TestParse_InvalidValue(t *testing.T) {
	t.Setenv("CONVERSION_TIMEOUT", "soon")

	_, err := Parse()
	assert.Error(t, err)
}

func TestNew_PanicsOnInvalidValue(t *testing.T) {
	t.Setenv("JPEG_QUALITY", "high")

	assert.Panics(t, func() { New() })
}
