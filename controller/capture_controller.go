// Package controller owns the capture loop and the HTTP surface on top
// of it, the way the teacher's controller package owns reader lifecycles
// and fusion/recording loops above services/ingest.
package controller

import (
	"context"
	"sync/atomic"
	"time"

	"imx415cam/config"
	"imx415cam/logging"
	"imx415cam/models"
	"imx415cam/pipeline"
	"imx415cam/services/detector"
	"imx415cam/views"
)

// CaptureController runs the fixed-interval capture tick and publishes
// results to a FrameSlot (spec.md §4.7). Mode and detection-enabled are
// mutable at runtime; a ticker naturally drops or slips ticks under
// overload rather than requiring explicit "don't overlap" bookkeeping.
type CaptureController struct {
	capture  *pipeline.Capture
	slot     *models.FrameSlot
	det      *detector.Bridge
	interval time.Duration
	everyN   int
	overlay  [3]uint8

	mode      atomic.Value // config.Mode
	detecting atomic.Bool
	ticks     atomic.Uint64
}

// NewCaptureController wires a Capture, its publication slot, and an
// optional detector bridge (nil when detection is disabled) into one
// controller. initialMode seeds the mutable mode field.
func NewCaptureController(capture *pipeline.Capture, slot *models.FrameSlot, det *detector.Bridge, interval time.Duration, everyN int, overlay [3]uint8, initialMode config.Mode) *CaptureController {
	c := &CaptureController{
		capture:  capture,
		slot:     slot,
		det:      det,
		interval: interval,
		everyN:   everyN,
		overlay:  overlay,
	}
	c.mode.Store(initialMode)
	c.detecting.Store(det != nil)
	return c
}

// Mode returns the currently active render mode.
func (c *CaptureController) Mode() config.Mode {
	return c.mode.Load().(config.Mode)
}

// SetMode switches the render mode effective at the next tick.
func (c *CaptureController) SetMode(m config.Mode) {
	c.mode.Store(m)
}

// DetectionEnabled reports whether detector submission/overlay is active.
func (c *CaptureController) DetectionEnabled() bool {
	return c.det != nil && c.detecting.Load()
}

// SetDetectionEnabled toggles detector submission/overlay. A no-op if no
// detector bridge was configured.
func (c *CaptureController) SetDetectionEnabled(enabled bool) {
	if c.det == nil {
		return
	}
	c.detecting.Store(enabled)
}

// HasDetector reports whether a detector bridge was configured at all.
func (c *CaptureController) HasDetector() bool {
	return c.det != nil
}

// DetectionCount returns the number of detections in the most recent
// detector result, or nil when no detector bridge is configured.
func (c *CaptureController) DetectionCount() *int {
	if c.det == nil {
		return nil
	}
	n := len(c.det.Latest().Detections)
	return &n
}

// Run drives the capture loop on a fixed interval until ctx is canceled.
// It is meant to be run in its own goroutine, typically supervised by an
// errgroup alongside the HTTP server (spec.md §5).
func (c *CaptureController) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.L().Info("capture loop stopped after %d published frames", c.slot.Counter())
			return ctx.Err()
		case <-ticker.C:
			c.tick()
		}
	}
}

func (c *CaptureController) tick() {
	mode := c.Mode()
	jpeg, cs, err := c.capture.Tick(mode)
	if err != nil {
		logging.L().Warn("capture tick failed: %v", err)
		return
	}

	n := c.ticks.Add(1)

	if c.DetectionEnabled() {
		if c.everyN < 1 {
			c.everyN = 1
		}
		if n%uint64(c.everyN) == 0 {
			c.det.Submit(jpeg)
		}
		if result := c.det.Latest(); len(result.Detections) > 0 {
			overlaid, err := views.DrawOverlay(jpeg, result.Detections, c.overlay)
			if err != nil {
				logging.L().Warn("overlay render failed: %v", err)
			} else {
				jpeg = overlaid
			}
		}
	}

	c.slot.Publish(jpeg, cs)
}
