package models

import "sync/atomic"

// Colorspace tags the structural kind of a published JPEG, matching
// spec.md §3's "structurally valid JPEG of either L8 or RGB8 kind."
type Colorspace string

const (
	ColorspaceL8   Colorspace = "L8"
	ColorspaceRGB8 Colorspace = "RGB8"
)

// EncodedFrame is an immutable JPEG payload plus the generation it was
// published at. Readers that load a frame from a FrameSlot may retain this
// value safely after the slot has moved on — it is never mutated in place.
type EncodedFrame struct {
	JPEG       []byte
	Generation uint64
	Colorspace Colorspace
}

// FrameSlot is the single-producer/many-consumer publication point
// described in spec.md §4.6. publish is single-writer; Snapshot is
// lock-free for readers via an atomic pointer swap (spec.md §9's
// "shared-frame publishing" design note).
type FrameSlot struct {
	current atomic.Pointer[EncodedFrame]
	counter atomic.Uint64
}

// NewFrameSlot returns an empty slot with no published frame yet.
func NewFrameSlot() *FrameSlot {
	return &FrameSlot{}
}

// Publish replaces the current slot atomically and advances the counter.
// It is the writer's responsibility to call this only after a successful
// encode — no partial or failed frame is ever published (spec.md §4.5,
// §7).
func (s *FrameSlot) Publish(jpeg []byte, cs Colorspace) uint64 {
	gen := s.counter.Add(1)
	s.current.Store(&EncodedFrame{
		JPEG:       jpeg,
		Generation: gen,
		Colorspace: cs,
	})
	return gen
}

// Snapshot returns the most recently published frame's bytes, or
// (nil, false) if no frame has been published yet.
func (s *FrameSlot) Snapshot() ([]byte, bool) {
	f := s.current.Load()
	if f == nil {
		return nil, false
	}
	return f.JPEG, true
}

// SnapshotFrame returns the most recently published EncodedFrame itself,
// or nil. Useful when a reader needs the colorspace tag alongside the
// bytes (e.g. to validate mode atomicity in tests).
func (s *FrameSlot) SnapshotFrame() *EncodedFrame {
	return s.current.Load()
}

// Counter returns the monotonic publish counter (spec.md §4.6, §8's
// "frame monotonicity" property).
func (s *FrameSlot) Counter() uint64 {
	return s.counter.Load()
}
