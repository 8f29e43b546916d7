package pipeline

// Demosaic reconstructs full RGB from a GBRG-pattern Bayer plane using
// bilinear interpolation of same-channel neighbors (spec.md §4.4). bayer
// is a width×height plane of 10-bit samples (as produced by Unpack10Bit).
// out must be width×height×3 bytes, filled with gamma-corrected R,G,B
// interleaved per pixel via lut.
//
// The GBRG CFA repeats as:
//
//	G B G B ...
//	R G R G ...
//
// so row parity and column parity together select which channel is
// natively sampled at each site, and which neighbors are averaged for the
// other two.
func Demosaic(bayer []uint16, width, height int, lut *GammaLUT, out []byte) {
	at := func(x, y int) uint16 {
		cx := clampInt(x, 0, width-1)
		cy := clampInt(y, 0, height-1)
		return bayer[cy*width+cx]
	}

	for y := 0; y < height; y++ {
		rowEven := y%2 == 0
		for x := 0; x < width; x++ {
			colEven := x%2 == 0
			var r, g, b uint16

			switch {
			case rowEven && colEven:
				// G site on the G-B row.
				g = at(x, y)
				r = avg2(at(x, y-1), at(x, y+1))
				b = avg2(at(x-1, y), at(x+1, y))
			case rowEven && !colEven:
				// B site.
				b = at(x, y)
				r = avg4(at(x-1, y-1), at(x+1, y-1), at(x-1, y+1), at(x+1, y+1))
				g = avg4(at(x, y-1), at(x, y+1), at(x-1, y), at(x+1, y))
			case !rowEven && colEven:
				// R site.
				r = at(x, y)
				g = avg4(at(x, y-1), at(x, y+1), at(x-1, y), at(x+1, y))
				b = avg4(at(x-1, y-1), at(x+1, y-1), at(x-1, y+1), at(x+1, y+1))
			default:
				// G site on the R-G row.
				g = at(x, y)
				r = avg2(at(x-1, y), at(x+1, y))
				b = avg2(at(x, y-1), at(x, y+1))
			}

			base := (y*width + x) * 3
			out[base+0] = lut[clampU16(r)]
			out[base+1] = lut[clampU16(g)]
			out[base+2] = lut[clampU16(b)]
		}
	}
}

func avg2(a, b uint16) uint16 {
	return uint16((uint32(a) + uint32(b)) / 2)
}

func avg4(a, b, c, d uint16) uint16 {
	return uint16((uint32(a) + uint32(b) + uint32(c) + uint32(d)) / 4)
}

func clampU16(v uint16) uint16 {
	if v > 1023 {
		return 1023
	}
	return v
}
