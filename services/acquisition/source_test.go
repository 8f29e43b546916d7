package acquisition

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imx415cam/config"
)

func testCaptureConfig(tempDir string) config.CaptureConfig {
	return config.CaptureConfig{
		DevicePath:     "/dev/video9",
		SensorSubdev:   "/dev/v4l-subdev3",
		Width:          8,
		Height:         8,
		Stride:         10,
		GroupsPerRow:   2,
		TempDir:        tempDir,
		TempFileRotate: 4,
	}
}

func TestNewSourceCreatesTempDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "imx415")
	src, err := NewSource(testCaptureConfig(dir))
	require.NoError(t, err)
	defer src.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCloseRemovesTempDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "imx415")
	src, err := NewSource(testCaptureConfig(dir))
	require.NoError(t, err)

	require.NoError(t, src.Close())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestCaptureRawDeviceUnavailableWhenCommandMissing(t *testing.T) {
	dir := t.TempDir()
	cfg := testCaptureConfig(dir)
	src, err := NewSource(cfg)
	require.NoError(t, err)
	defer src.Close()

	// v4l2-ctl against a nonexistent device path fails immediately with a
	// nonzero exit, which CaptureRaw must surface as ErrDeviceUnavailable
	// rather than panicking or hanging.
	_, err = src.CaptureRaw()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeviceUnavailable) || errors.Is(err, ErrRawShort))
}
