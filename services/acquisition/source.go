// Package acquisition owns the v4l2 collaborator: shelling out to
// v4l2-ctl to pull one raw CSI-2 frame per call, the way the teacher's
// services/ingest readers own their respective device or simulator
// collaborators (spec.md §4.1).
package acquisition

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"

	"imx415cam/config"
	"imx415cam/logging"
)

// ErrDeviceUnavailable is returned when the v4l2-ctl capture command
// itself fails (missing device node, busy device, nonzero exit).
var ErrDeviceUnavailable = errors.New("acquisition: device unavailable")

// ErrRawShort is returned when a capture produced fewer bytes than
// stride×height, so the caller cannot trust the frame (spec.md §3, §7).
var ErrRawShort = errors.New("acquisition: raw frame too short")

// Source captures raw frames from a CSI-2 device node via v4l2-ctl,
// rotating through a small pool of temp files the way the original
// capture.rs does, so no single leaked descriptor or partial write can
// accumulate unbounded disk use over a long-running capture loop.
type Source struct {
	devicePath    string
	subdevPath    string
	tempDir       string
	rotate        int
	frameBytes    int
	linkFrequency int

	counter atomic.Uint64
}

// NewSource creates the temp directory used for frame staging and
// returns a Source ready to capture. The directory (and its contents)
// are removed by Close.
func NewSource(cfg config.CaptureConfig) (*Source, error) {
	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("acquisition: create temp dir %s: %w", cfg.TempDir, err)
	}
	rotate := cfg.TempFileRotate
	if rotate < 1 {
		rotate = 1
	}
	return &Source{
		devicePath:    cfg.DevicePath,
		subdevPath:    cfg.SensorSubdev,
		tempDir:       cfg.TempDir,
		rotate:        rotate,
		frameBytes:    cfg.Stride * cfg.Height,
		linkFrequency: cfg.LinkFrequency,
	}, nil
}

// SetupSensor applies one-shot sensor controls (link frequency, fixed
// analogue gain) via v4l2-ctl against the subdevice node. Failures are
// logged and tolerated, not fatal — the sensor may already be configured
// by a prior process or by firmware defaults (spec.md §4.1).
func (s *Source) SetupSensor() {
	if s.subdevPath == "" {
		return
	}
	linkArg := fmt.Sprintf("--set-ctrl=link_frequency=%d", s.linkFrequency)
	if out, err := exec.Command("v4l2-ctl", "-d", s.subdevPath, linkArg).CombinedOutput(); err != nil {
		logging.L().Warn("acquisition: set link_frequency failed: %v (%s)", err, string(out))
	}
	if out, err := exec.Command("v4l2-ctl", "-d", s.subdevPath, "--set-ctrl=analogue_gain=0").CombinedOutput(); err != nil {
		logging.L().Warn("acquisition: set analogue_gain failed: %v (%s)", err, string(out))
	}
}

// CaptureRaw runs one v4l2-ctl capture to a rotating temp file, reads it
// back, and returns exactly stride×height bytes. It implements
// pipeline.RawSource.
func (s *Source) CaptureRaw() ([]byte, error) {
	n := s.counter.Add(1)
	path := filepath.Join(s.tempDir, fmt.Sprintf("frame_%d.raw", n%uint64(s.rotate)))

	cmd := exec.Command("v4l2-ctl",
		"-d", s.devicePath,
		"--stream-mmap=4",
		"--stream-skip=1",
		"--stream-count=1",
		"--stream-to="+path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: %v (%s)", ErrDeviceUnavailable, err, string(out))
	}

	data, err := os.ReadFile(path)
	_ = os.Remove(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read capture file: %v", ErrRawShort, err)
	}
	if len(data) < s.frameBytes {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrRawShort, len(data), s.frameBytes)
	}
	return data[:s.frameBytes], nil
}

// Close removes the temp directory and everything left in it.
func (s *Source) Close() error {
	return os.RemoveAll(s.tempDir)
}
