package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imx415cam/config"
	"imx415cam/models"
)

func newTestHTTPController() (*HTTPController, *models.FrameSlot) {
	slot := models.NewFrameSlot()
	capCtl := NewCaptureController(nil, slot, nil, time.Millisecond, 1, [3]uint8{}, config.ModeGrayscale)
	h := NewHTTPController(slot, capCtl, 64, 48, "test-instance", 10*time.Millisecond)
	return h, slot
}

func TestHandleFrameBeforeAnyPublishIsUnavailable(t *testing.T) {
	h, _ := newTestHTTPController()
	req := httptest.NewRequest(http.MethodGet, "/frame.jpg", nil)
	rec := httptest.NewRecorder()
	h.Mux().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleFrameReturnsPublishedJPEG(t *testing.T) {
	h, slot := newTestHTTPController()
	slot.Publish([]byte("fake-jpeg"), models.ColorspaceL8)

	req := httptest.NewRequest(http.MethodGet, "/frame.jpg", nil)
	rec := httptest.NewRecorder()
	h.Mux().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "fake-jpeg", rec.Body.String())
}

func TestHandleStatusReportsModeAndCount(t *testing.T) {
	h, slot := newTestHTTPController()
	slot.Publish([]byte("f"), models.ColorspaceL8)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	h.Mux().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"frame_count":1`)
	assert.Contains(t, rec.Body.String(), `"resolution":"64x48"`)
	assert.Contains(t, rec.Body.String(), `"mode":"grayscale"`)
	assert.Contains(t, rec.Body.String(), `"instance_id":"test-instance"`)
	assert.NotContains(t, rec.Body.String(), `"detection_count"`)
}

func TestHandleModeSwitchesActiveMode(t *testing.T) {
	h, _ := newTestHTTPController()

	req := httptest.NewRequest(http.MethodPost, "/mode/color", nil)
	rec := httptest.NewRecorder()
	h.Mux().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.ModeColor, h.capCtl.Mode())
}

func TestHandleModeRejectsUnknownMode(t *testing.T) {
	h, _ := newTestHTTPController()

	req := httptest.NewRequest(http.MethodPost, "/mode/sepia", nil)
	rec := httptest.NewRecorder()
	h.Mux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDetectWithNoBridgeConfiguredReturnsBadRequest(t *testing.T) {
	h, _ := newTestHTTPController()

	req := httptest.NewRequest(http.MethodPost, "/detect/on", nil)
	rec := httptest.NewRecorder()
	h.Mux().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, h.capCtl.DetectionEnabled())
}

func TestHandleDashboardServesHTML(t *testing.T) {
	h, _ := newTestHTTPController()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Mux().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHandleStreamSendsAtLeastOneFrame(t *testing.T) {
	h, slot := newTestHTTPController()
	slot.Publish([]byte("frame-bytes"), models.ColorspaceL8)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.Mux().ServeHTTP(rec, req)
		close(done)
	}()

	deadline := time.After(500 * time.Millisecond)
	for rec.Body.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for first MJPEG part")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("stream handler did not exit after context cancellation")
	}

	assert.Contains(t, rec.Body.String(), "frame-bytes")
}
