package pipeline

// Unpack10Bit expands a packed 10-bit Bayer row (5 bytes → 4 pixels) into a
// plane of 16-bit samples, as described in spec.md §4.2. raw must be at
// least stride×height bytes; out must be width×height uint16s.
//
// For each row y and each packed group x ∈ [0, width/4), five bytes
// b0..b4 are read at raw[y*stride+5x:+5]. The four 10-bit pixels are
// (b_k<<2) | ((b4>>2k)&0x3) for k ∈ {0,1,2,3}. If a packed group runs past
// len(raw) the row is truncated silently — the partially-unpacked pixels
// from the last complete group stand, and later rows are unaffected.
func Unpack10Bit(raw []byte, width, height, stride int, out []uint16) {
	groupsPerRow := width / 4
	for y := 0; y < height; y++ {
		rowOff := y * stride
		for x := 0; x < groupsPerRow; x++ {
			off := rowOff + 5*x
			if off+5 > len(raw) {
				break
			}
			b0, b1, b2, b3, b4 := raw[off], raw[off+1], raw[off+2], raw[off+3], raw[off+4]
			base := y*width + 4*x
			out[base+0] = uint16(b0)<<2 | uint16(b4>>0&0x3)
			out[base+1] = uint16(b1)<<2 | uint16(b4>>2&0x3)
			out[base+2] = uint16(b2)<<2 | uint16(b4>>4&0x3)
			out[base+3] = uint16(b3)<<2 | uint16(b4>>6&0x3)
		}
	}
}
