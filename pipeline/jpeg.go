package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"imx415cam/models"
)

// rgbPlane is a zero-copy image.Image over an interleaved 8-bit RGB byte
// slice, matching the way the grayscale path reuses *image.Gray directly:
// no per-pixel copy, no intermediate image.RGBA.
type rgbPlane struct {
	pix    []byte
	stride int
	rect   image.Rectangle
}

func (p *rgbPlane) ColorModel() color.Model { return color.RGBAModel }
func (p *rgbPlane) Bounds() image.Rectangle { return p.rect }

func (p *rgbPlane) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(p.rect)) {
		return color.RGBA{}
	}
	i := (y-p.rect.Min.Y)*p.stride + (x-p.rect.Min.X)*3
	return color.RGBA{R: p.pix[i], G: p.pix[i+1], B: p.pix[i+2], A: 255}
}

// Encode writes plane as a JPEG to w. cs selects whether plane is
// interpreted as an L8 grayscale byte-per-pixel buffer or an interleaved
// RGB8 buffer (spec.md §4.5). Both adapters are zero-copy views over the
// caller's scratch buffer.
func Encode(w io.Writer, plane []byte, width, height int, cs models.Colorspace, quality int) error {
	opts := &jpeg.Options{Quality: quality}

	switch cs {
	case models.ColorspaceL8:
		img := &image.Gray{
			Pix:    plane,
			Stride: width,
			Rect:   image.Rect(0, 0, width, height),
		}
		if err := jpeg.Encode(w, img, opts); err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
		return nil
	case models.ColorspaceRGB8:
		img := &rgbPlane{
			pix:    plane,
			stride: width * 3,
			rect:   image.Rect(0, 0, width, height),
		}
		if err := jpeg.Encode(w, img, opts); err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown colorspace %q", ErrEncodeFailed, cs)
	}
}
