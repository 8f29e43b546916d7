package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameSlotEmptyBeforePublish(t *testing.T) {
	s := NewFrameSlot()
	_, ok := s.Snapshot()
	assert.False(t, ok)
	assert.Equal(t, uint64(0), s.Counter())
}

func TestFrameSlotPublishAndSnapshot(t *testing.T) {
	s := NewFrameSlot()
	gen := s.Publish([]byte("jpeg-bytes"), ColorspaceL8)
	assert.Equal(t, uint64(1), gen)

	jpeg, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg-bytes"), jpeg)
	assert.Equal(t, uint64(1), s.Counter())

	frame := s.SnapshotFrame()
	require.NotNil(t, frame)
	assert.Equal(t, ColorspaceL8, frame.Colorspace)
}

func TestFrameSlotCounterMonotonic(t *testing.T) {
	s := NewFrameSlot()
	var last uint64
	for i := 0; i < 100; i++ {
		gen := s.Publish([]byte{byte(i)}, ColorspaceRGB8)
		assert.Greater(t, gen, last)
		last = gen
	}
}

func TestFrameSlotConcurrentPublishAndSnapshot(t *testing.T) {
	s := NewFrameSlot()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Publish([]byte{byte(i)}, ColorspaceL8)
		}
	}()

	for i := 0; i < 1000; i++ {
		_, _ = s.Snapshot() // must never race or panic
	}
	wg.Wait()
	assert.Equal(t, uint64(1000), s.Counter())
}
