package pipeline

import "math"

// GammaLUT maps 10-bit Bayer-domain samples (0..1023) directly to 8-bit
// gamma-corrected output bytes, built once per Capture from the
// configured gamma value (spec.md §4.4, §3's "gamma LUT (1024→255)").
//
// Gamma is applied immediately after demosaic, indexed by the 10-bit
// per-channel value that demosaic already computed, rather than first
// truncating to 8 bits and applying an 8-bit-indexed curve — see
// SPEC_FULL.md's resolution of the original prose's ordering ambiguity.
// White balance then runs on the resulting 8-bit RGB8 plane.
type GammaLUT [1024]byte

// BuildGammaLUT precomputes out[v] = round(255 * (v/1023)^(1/gamma)).
func BuildGammaLUT(gamma float64) *GammaLUT {
	var lut GammaLUT
	invGamma := 1.0 / gamma
	for v := 0; v < 1024; v++ {
		norm := float64(v) / 1023.0
		out := math.Pow(norm, invGamma) * 255.0
		lut[v] = byte(clampInt(int(out+0.5), 0, 255))
	}
	return &lut
}
