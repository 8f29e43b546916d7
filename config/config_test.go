package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Capture.Validate())
}

func TestValidateRejectsBadGroupsPerRow(t *testing.T) {
	cfg := Default().Capture
	cfg.GroupsPerRow = cfg.Width/4 + 1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsShortStride(t *testing.T) {
	cfg := Default().Capture
	cfg.Stride = cfg.GroupsPerRow*5 - 1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadQuality(t *testing.T) {
	cfg := Default().Capture
	cfg.JPEGQuality = 0
	assert.Error(t, cfg.Validate())

	cfg.JPEGQuality = 101
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := Default().Capture
	cfg.Mode = "sepia"
	assert.Error(t, cfg.Validate())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
capture:
  width: 3840
  height: 2160
  stride: 4864
  groups_per_row: 960
  mode: color
  jpeg_quality: 90
  gamma: 2.2
  white_balance: true
  temp_dir: /tmp/test_imx415
  temp_file_rotate: 4
  tick_interval_ms: 33
server:
  bind_addr: 127.0.0.1:9090
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModeColor, cfg.Capture.Mode)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.BindAddr)
}

func TestLoadRejectsInvalidCapture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "capture:\n  width: 0\n  height: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
