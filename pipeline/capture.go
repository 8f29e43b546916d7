package pipeline

import (
	"bytes"
	"fmt"

	"imx415cam/config"
	"imx415cam/models"
)

// Capture owns every scratch buffer used to turn one raw acquisition into
// one encoded JPEG (spec.md §3's FrameCapture / native_buffer /
// output_buffer / jpeg_buffer), so a running capture loop reallocates
// none of its scratch planes per tick; apart from the JPEG encoder's own
// working state, the only new buffer per tick is the final published copy.
type Capture struct {
	cfg    config.CaptureConfig
	source RawSource

	bayer      []uint16 // width*height, color path only
	rgb        []byte   // width*height*3, color path only
	grayNative []byte   // groupsPerRow*(height/2), grayscale path only
	grayOut    []byte   // width*height, grayscale path only
	jpegBuf    bytes.Buffer
	gammaLUT   *GammaLUT
}

// NewCapture allocates all scratch buffers up front. cfg must already be
// valid (config.CaptureConfig.Validate).
func NewCapture(cfg config.CaptureConfig, source RawSource) *Capture {
	return &Capture{
		cfg:        cfg,
		source:     source,
		bayer:      make([]uint16, cfg.Width*cfg.Height),
		rgb:        make([]byte, cfg.Width*cfg.Height*3),
		grayNative: make([]byte, cfg.GroupsPerRow*(cfg.Height/2)),
		grayOut:    make([]byte, cfg.Width*cfg.Height),
		gammaLUT:   BuildGammaLUT(cfg.Gamma),
	}
}

// Tick acquires one raw frame and renders it through the path selected by
// mode, returning a freshly-allocated copy of the encoded JPEG ready for
// publication (spec.md §4.7 — only the final encoded bytes are copied;
// every buffer upstream of that is reused across calls).
func (c *Capture) Tick(mode config.Mode) ([]byte, models.Colorspace, error) {
	raw, err := c.source.CaptureRaw()
	if err != nil {
		return nil, "", fmt.Errorf("acquire raw frame: %w", err)
	}

	c.jpegBuf.Reset()

	switch mode {
	case config.ModeColor:
		Unpack10Bit(raw, c.cfg.Width, c.cfg.Height, c.cfg.Stride, c.bayer)
		Demosaic(c.bayer, c.cfg.Width, c.cfg.Height, c.gammaLUT, c.rgb)
		if c.cfg.WhiteBalance {
			WhiteBalance(c.rgb, c.cfg.Width, c.cfg.Height)
		}
		if err := Encode(&c.jpegBuf, c.rgb, c.cfg.Width, c.cfg.Height, models.ColorspaceRGB8, c.cfg.JPEGQuality); err != nil {
			return nil, "", err
		}
		return copyBytes(c.jpegBuf.Bytes()), models.ColorspaceRGB8, nil

	default: // config.ModeGrayscale
		srcHeight := c.cfg.Height / 2
		ExtractGrayAveraged(raw, c.cfg.Stride, c.cfg.GroupsPerRow, c.cfg.Height, c.grayNative)
		UpscaleBilinear(c.grayNative, c.cfg.GroupsPerRow, srcHeight, c.grayOut, c.cfg.Width, c.cfg.Height)
		if err := Encode(&c.jpegBuf, c.grayOut, c.cfg.Width, c.cfg.Height, models.ColorspaceL8, c.cfg.JPEGQuality); err != nil {
			return nil, "", err
		}
		return copyBytes(c.jpegBuf.Bytes()), models.ColorspaceL8, nil
	}
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
