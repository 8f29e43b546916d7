package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"imx415cam/config"
	"imx415cam/logging"
	"imx415cam/models"
	"imx415cam/views"
)

// HTTPController serves the dashboard, snapshot, MJPEG stream, status,
// and control endpoints over a FrameSlot and a CaptureController
// (spec.md §4.10).
type HTTPController struct {
	slot       *models.FrameSlot
	capCtl     *CaptureController
	width      int
	height     int
	instanceID string
	streamTick time.Duration
}

// NewHTTPController builds the HTTP handler set. width/height are the
// configured output resolution, reported verbatim in /status.
func NewHTTPController(slot *models.FrameSlot, capCtl *CaptureController, width, height int, instanceID string, streamTick time.Duration) *HTTPController {
	return &HTTPController{
		slot:       slot,
		capCtl:     capCtl,
		width:      width,
		height:     height,
		instanceID: instanceID,
		streamTick: streamTick,
	}
}

// Mux builds the http.ServeMux wiring every route spec.md §4.10 requires.
func (h *HTTPController) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleDashboard)
	mux.HandleFunc("/frame.jpg", h.handleFrame)
	mux.HandleFunc("/stream", h.handleStream)
	mux.HandleFunc("/status", h.handleStatus)
	mux.HandleFunc("/mode/", h.handleMode)
	mux.HandleFunc("/detect/", h.handleDetect)
	return mux
}

func (h *HTTPController) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(views.Dashboard))
}

func (h *HTTPController) handleFrame(w http.ResponseWriter, r *http.Request) {
	jpeg, ok := h.slot.Snapshot()
	if !ok {
		http.Error(w, "no frame available yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(jpeg)
}

const mjpegBoundary = "frame"

func (h *HTTPController) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mjpegBoundary)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(h.streamTick)
	defer ticker.Stop()

	ctx := r.Context()
	var lastGen uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := h.slot.SnapshotFrame()
			if frame == nil || frame.Generation == lastGen {
				continue
			}
			lastGen = frame.Generation

			if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", mjpegBoundary, len(frame.JPEG)); err != nil {
				return
			}
			if _, err := w.Write(frame.JPEG); err != nil {
				return
			}
			if _, err := w.Write([]byte("\r\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *HTTPController) handleStatus(w http.ResponseWriter, r *http.Request) {
	_, hasFrame := h.slot.Snapshot()
	status := views.StatusResponse{
		FrameCount:       h.slot.Counter(),
		HasFrame:         hasFrame,
		Resolution:       fmt.Sprintf("%dx%d", h.width, h.height),
		Width:            h.width,
		Height:           h.height,
		Mode:             string(h.capCtl.Mode()),
		DetectionEnabled: h.capCtl.DetectionEnabled(),
		DetectionCount:   h.capCtl.DetectionCount(),
		InstanceID:       h.instanceID,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

func (h *HTTPController) handleMode(w http.ResponseWriter, r *http.Request) {
	mode := config.Mode(strings.TrimPrefix(r.URL.Path, "/mode/"))
	if mode != config.ModeGrayscale && mode != config.ModeColor {
		http.Error(w, fmt.Sprintf("unknown mode %q", mode), http.StatusBadRequest)
		return
	}
	h.capCtl.SetMode(mode)
	logging.L().Info("mode switched to %s", mode)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"mode": string(mode), "success": true})
}

func (h *HTTPController) handleDetect(w http.ResponseWriter, r *http.Request) {
	suffix := strings.TrimPrefix(r.URL.Path, "/detect/")
	var enabled bool
	switch suffix {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		http.Error(w, fmt.Sprintf("unknown detect action %q", suffix), http.StatusBadRequest)
		return
	}
	if !h.capCtl.HasDetector() {
		http.Error(w, "no detector configured", http.StatusBadRequest)
		return
	}
	h.capCtl.SetDetectionEnabled(enabled)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"detection_enabled": h.capCtl.DetectionEnabled(), "success": true})
}
