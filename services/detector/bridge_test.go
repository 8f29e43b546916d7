package detector

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartUnknownCommandFails(t *testing.T) {
	_, err := Start("this-binary-does-not-exist-xyz", nil, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSpawnFailed))
}

// fakeChild simulates a detector subprocess speaking the wire protocol:
// a little-endian uint32 length, the JPEG payload, and one JSON response
// line — without actually spawning an OS process.
func fakeChild(t *testing.T, reqR io.Reader, respW io.WriteCloser, response string) {
	t.Helper()
	var lenBuf [4]byte
	if _, err := io.ReadFull(reqR, lenBuf[:]); err != nil {
		return
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(reqR, payload); err != nil {
		return
	}
	_, _ = io.WriteString(respW, response+"\n")
}

func newTestBridge(t *testing.T) (*Bridge, *io.PipeReader, *io.PipeWriter) {
	t.Helper()
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	b := newBridgeForTest(reqW, respR)
	return b, reqR, respW
}

func TestBridgeExchangeRoundTrip(t *testing.T) {
	b, reqR, respW := newTestBridge(t)
	defer b.stopWorkerForTest()

	go fakeChild(t, reqR, respW, `{"width":640,"height":480,"detections":[{"class":"person","confidence":0.9,"bbox":{"x1":1,"y1":2,"x2":3,"y2":4}}]}`)

	b.Submit([]byte("fake-jpeg-bytes"))

	deadline := time.After(2 * time.Second)
	for {
		result := b.Latest()
		if len(result.Detections) > 0 {
			assert.Equal(t, "person", result.Detections[0].Class)
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for detection result")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestBridgeMalformedResponseSetsError(t *testing.T) {
	b, reqR, respW := newTestBridge(t)
	defer b.stopWorkerForTest()

	go fakeChild(t, reqR, respW, `not valid json`)

	b.Submit([]byte("fake-jpeg-bytes"))

	deadline := time.After(2 * time.Second)
	for {
		result := b.Latest()
		if result.Error != "" {
			assert.Contains(t, result.Error, "protocol error")
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for error result")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestBridgeSubmitDropsWhenQueueFull(t *testing.T) {
	b, _, _ := newTestBridge(t)
	defer b.stopWorkerForTest()

	// The worker is never fed a response, so the first submission stays
	// in flight forever; further submissions beyond the buffer must not
	// block the caller.
	for i := 0; i < 10; i++ {
		b.Submit([]byte("frame"))
	}
}
