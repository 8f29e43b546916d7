// Package views renders HTML and image output for the HTTP surface: the
// dashboard page, the JSON status document, and the detector bounding-box
// overlay burned into JPEG frames before publication (spec.md §4.8).
package views

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"imx415cam/models"
)

const overlayJPEGQuality = 85

// DrawOverlay decodes jpegData, draws an outlined box and a class+
// confidence label for each detection, and re-encodes the result. With
// no detections it returns jpegData unchanged so a quiet tick never pays
// for a decode/encode round trip.
func DrawOverlay(jpegData []byte, detections []models.Detection, boxColor [3]uint8) ([]byte, error) {
	if len(detections) == 0 {
		return jpegData, nil
	}

	src, err := jpeg.Decode(bytes.NewReader(jpegData))
	if err != nil {
		return nil, fmt.Errorf("views: decode overlay source: %w", err)
	}

	bounds := src.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, src, bounds.Min, draw.Src)

	box := color.RGBA{R: boxColor[0], G: boxColor[1], B: boxColor[2], A: 255}
	labelBG := color.RGBA{A: 200}
	labelFG := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	for _, d := range detections {
		x1 := clamp(d.BBox.X1, bounds.Min.X, bounds.Max.X-1)
		y1 := clamp(d.BBox.Y1, bounds.Min.Y, bounds.Max.Y-1)
		x2 := clamp(d.BBox.X2, bounds.Min.X, bounds.Max.X-1)
		y2 := clamp(d.BBox.Y2, bounds.Min.Y, bounds.Max.Y-1)
		if x2 <= x1 || y2 <= y1 {
			continue
		}

		drawBox(rgba, x1, y1, x2, y2, box, 3)

		label := fmt.Sprintf("%s %d%%", d.Class, int(d.Confidence*100+0.5))
		const scale = 2
		labelW := len(label) * glyphAdvance * scale
		labelH := (7 + 2) * scale

		ly := y1 - labelH
		if ly < bounds.Min.Y {
			ly = y2 + 1
		}
		fillRect(rgba, x1, ly, labelW, labelH, labelBG, bounds)
		drawLabel(rgba, label, x1+scale, ly+scale, labelFG, scale, bounds)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, rgba, &jpeg.Options{Quality: overlayJPEGQuality}); err != nil {
		return nil, fmt.Errorf("views: encode overlay: %w", err)
	}
	return out.Bytes(), nil
}

func drawBox(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA, thickness int) {
	b := img.Bounds()
	fillRect(img, x1, y1, x2-x1, thickness, c, b)
	fillRect(img, x1, y2-thickness, x2-x1, thickness, c, b)
	fillRect(img, x1, y1, thickness, y2-y1, c, b)
	fillRect(img, x2-thickness, y1, thickness, y2-y1, c, b)
}

func fillRect(img *image.RGBA, x, y, w, h int, c color.RGBA, clip image.Rectangle) {
	for dy := 0; dy < h; dy++ {
		py := y + dy
		if py < clip.Min.Y || py >= clip.Max.Y {
			continue
		}
		for dx := 0; dx < w; dx++ {
			px := x + dx
			if px < clip.Min.X || px >= clip.Max.X {
				continue
			}
			img.SetRGBA(px, py, c)
		}
	}
}

func drawLabel(img *image.RGBA, text string, x, y int, c color.RGBA, scale int, clip image.Rectangle) {
	cursor := x
	for _, ch := range text {
		glyph, ok := glyph5x7[ch]
		if ok {
			drawGlyph(img, glyph, cursor, y, c, scale, clip)
		}
		cursor += glyphAdvance * scale
	}
}

func drawGlyph(img *image.RGBA, glyph [7]uint8, x, y int, c color.RGBA, scale int, clip image.Rectangle) {
	for row := 0; row < 7; row++ {
		bits := glyph[row]
		for col := 0; col < 5; col++ {
			if bits>>(4-col)&1 == 0 {
				continue
			}
			fillRect(img, x+col*scale, y+row*scale, scale, scale, c, clip)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
