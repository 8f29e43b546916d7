package pipeline

// ExtractGrayAveraged implements the grayscale fast path's sampling step
// (spec.md §4.3): byte index 4 of each 5-byte packed group is already an
// 8-bit luminance-like sample (the low two bits of each 10-bit pixel in
// the group, packed together — close enough to a direct 8-bit read for a
// preview path that never decodes color). Each output row averages the
// byte-4 samples of two consecutive raw rows, halving vertical
// resolution; horizontal resolution is groupsPerRow (one sample per
// packed group, i.e. width/4).
//
// raw must be at least stride×height bytes. out must be groupsPerRow×
// (height/2) bytes, reused by the caller across ticks. Rows that run past
// len(raw) contribute zero for the missing side of the average rather
// than panicking.
func ExtractGrayAveraged(raw []byte, stride, groupsPerRow, height int, out []byte) {
	srcHeight := height / 2
	for oy := 0; oy < srcHeight; oy++ {
		row0 := 2 * oy
		row1 := row0 + 1
		for g := 0; g < groupsPerRow; g++ {
			idx0 := row0*stride + 5*g + 4
			idx1 := row1*stride + 5*g + 4
			v0 := byteAt(raw, idx0)
			v1 := byteAt(raw, idx1)
			out[oy*groupsPerRow+g] = byte((uint16(v0) + uint16(v1)) / 2)
		}
	}
}

func byteAt(b []byte, i int) byte {
	if i < 0 || i >= len(b) {
		return 0
	}
	return b[i]
}

// UpscaleBilinear resamples an 8-bit grayscale plane from srcW×srcH to
// dstW×dstH using Q16 fixed-point bilinear interpolation (spec.md §4.3).
// Endpoints map exactly: output (0,0) equals input (0,0) and output
// (dstW-1,dstH-1) equals input (srcW-1,srcH-1). dst must be dstW×dstH
// bytes.
//
// The original fixed-point derivation accumulates two already-16-bit-
// scaled terms multiplied by a further 16-bit fraction, which overflows
// a 32-bit accumulator at 4K output widths; the accumulation here widens
// to uint64 before the final >>32 shift to avoid that overflow. The
// truncated Q16 ratio alone lands just short of the last source sample,
// so the last output row and column are pinned to the last source row
// and column.
func UpscaleBilinear(src []byte, srcW, srcH int, dst []byte, dstW, dstH int) {
	if srcW == 1 {
		upscale1D(src, srcW, srcH, dst, dstW, dstH, true)
		return
	}
	if srcH == 1 {
		upscale1D(src, srcW, srcH, dst, dstW, dstH, false)
		return
	}

	xRatio := ((uint64(srcW) - 1) << 16) / uint64(dstW-1)
	yRatio := ((uint64(srcH) - 1) << 16) / uint64(dstH-1)

	for dy := 0; dy < dstH; dy++ {
		ySrc := yRatio * uint64(dy)
		y0 := int(ySrc >> 16)
		yFrac := ySrc & 0xFFFF
		if dy == dstH-1 {
			y0, yFrac = srcH-1, 0
		}
		y1 := y0 + 1
		if y1 >= srcH {
			y1 = srcH - 1
		}
		for dx := 0; dx < dstW; dx++ {
			xSrc := xRatio * uint64(dx)
			x0 := int(xSrc >> 16)
			xFrac := xSrc & 0xFFFF
			if dx == dstW-1 {
				x0, xFrac = srcW-1, 0
			}
			x1 := x0 + 1
			if x1 >= srcW {
				x1 = srcW - 1
			}

			p00 := uint64(src[y0*srcW+x0])
			p01 := uint64(src[y0*srcW+x1])
			p10 := uint64(src[y1*srcW+x0])
			p11 := uint64(src[y1*srcW+x1])

			xInv := 0x10000 - xFrac
			yInv := 0x10000 - yFrac

			top := p00*xInv + p01*xFrac
			bot := p10*xInv + p11*xFrac
			val := (top*yInv + bot*yFrac) >> 32

			dst[dy*dstW+dx] = byte(val)
		}
	}
}

// upscale1D handles the degenerate case where the source plane is a
// single row or single column — linear interpolation along the remaining
// axis, replicated along the degenerate one.
func upscale1D(src []byte, srcW, srcH int, dst []byte, dstW, dstH int, singleCol bool) {
	if singleCol {
		ratio := ((uint64(srcH) - 1) << 16) / maxU64(uint64(dstH-1), 1)
		for dy := 0; dy < dstH; dy++ {
			ySrc := ratio * uint64(dy)
			y0 := int(ySrc >> 16)
			yFrac := ySrc & 0xFFFF
			if dy > 0 && dy == dstH-1 {
				y0, yFrac = srcH-1, 0
			}
			y1 := y0 + 1
			if y1 >= srcH {
				y1 = srcH - 1
			}
			v := (uint64(src[y0])*(0x10000-yFrac) + uint64(src[y1])*yFrac) >> 16
			row := byte(v)
			for dx := 0; dx < dstW; dx++ {
				dst[dy*dstW+dx] = row
			}
		}
		return
	}

	ratio := ((uint64(srcW) - 1) << 16) / maxU64(uint64(dstW-1), 1)
	row := make([]byte, dstW)
	for dx := 0; dx < dstW; dx++ {
		xSrc := ratio * uint64(dx)
		x0 := int(xSrc >> 16)
		xFrac := xSrc & 0xFFFF
		if dx > 0 && dx == dstW-1 {
			x0, xFrac = srcW-1, 0
		}
		x1 := x0 + 1
		if x1 >= srcW {
			x1 = srcW - 1
		}
		v := (uint64(src[x0])*(0x10000-xFrac) + uint64(src[x1])*xFrac) >> 16
		row[dx] = byte(v)
	}
	for dy := 0; dy < dstH; dy++ {
		copy(dst[dy*dstW:(dy+1)*dstW], row)
	}
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
