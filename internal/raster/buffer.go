package raster

import (
	"image/color"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // depth per pixel, len = W*H, initialized to -inf; larger is closer
}

// NewFrameBuffer allocates a color buffer filled with bg and a -inf z-buffer.
func NewFrameBuffer(w, h int, bg color.NRGBA) *FrameBuffer {
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	col := make([]uint8, n*4)
	if bg != (color.NRGBA{}) {
		for i := 0; i < n; i++ {
			col[i*4] = bg.R
			col[i*4+1] = bg.G
			col[i*4+2] = bg.B
			col[i*4+3] = bg.A
		}
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  col,
		ZBuf:   zbuf,
	}
}

// depthTest reports whether z is closer than the stored depth at (x, y), and stores it if so.
func (fb *FrameBuffer) depthTest(x, y int, z float64) bool {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return false
	}
	i := y*fb.Width + x
	if z <= fb.ZBuf[i] {
		return false
	}
	fb.ZBuf[i] = z
	return true
}

func (fb *FrameBuffer) set(x, y int, r, g, b, a uint8) {
	i := (y*fb.Width + x) * 4
	fb.Color[i] = r
	fb.Color[i+1] = g
	fb.Color[i+2] = b
	fb.Color[i+3] = a
}
