package pipeline

import "testing"

func TestWhiteBalanceNeutralGrayUnchanged(t *testing.T) {
	rgb := make([]byte, 4*3)
	for i := range rgb {
		rgb[i] = 128
	}
	WhiteBalance(rgb, 2, 2)
	for i, v := range rgb {
		if v != 128 {
			t.Errorf("byte %d = %d, want 128 (neutral gray, gain 1.0)", i, v)
		}
	}
}

func TestWhiteBalanceGainClampedToRange(t *testing.T) {
	// A channel at a tiny mean relative to the others would demand a gain
	// far outside [0.5, 2.0]; the result must not blow out to pure white
	// or collapse to zero, it must respect the clamp.
	n := 4
	rgb := make([]byte, n*3)
	for i := 0; i < n; i++ {
		rgb[i*3+0] = 250
		rgb[i*3+1] = 250
		rgb[i*3+2] = 1
	}
	WhiteBalance(rgb, 2, 2)

	// gray mean = (250+250+1)/3 = 167; gainB = 167/1 clamped to 2.0.
	wantB := byte(clampInt(int(1*2.0+0.5), 0, 255))
	if rgb[0*3+2] != wantB {
		t.Errorf("B channel = %d, want %d (gain clamped to 2.0)", rgb[0*3+2], wantB)
	}
}

func TestWhiteBalanceZeroMeanChannelLeftUnscaled(t *testing.T) {
	rgb := []byte{0, 100, 100}
	WhiteBalance(rgb, 1, 1)
	if rgb[0] != 0 {
		t.Errorf("zero-mean channel = %d, want 0 (gain defaults to 1.0, no div-by-zero)", rgb[0])
	}
}
