// Package pipeline implements the frame-processing core described in
// spec.md §2 and §4: unpacking packed 10-bit Bayer data, the grayscale
// byte-4 fast path, Bayer demosaic with gray-world white balance and
// gamma, and JPEG encoding — all operating on buffers owned and reused by
// a single Capture instance.
package pipeline

import "errors"

// RawFrame is the contiguous byte buffer returned by one acquisition call,
// of length stride×height (spec.md §3).
type RawFrame []byte

// ErrEncodeFailed is returned when the JPEG encoder rejects a plane; the
// capture tick fails with no publish (spec.md §4.5, §7).
var ErrEncodeFailed = errors.New("pipeline: jpeg encode failed")

// RawSource is the acquisition collaborator: one call returns one fresh
// raw frame or an error (spec.md §4.1). Implemented by
// services/acquisition.Source.
type RawSource interface {
	CaptureRaw() ([]byte, error)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
