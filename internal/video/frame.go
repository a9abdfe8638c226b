package video

import (
	"image"
)

// Frame is a packed RGB24 raster as produced by the decoder.
// Readers may reuse Pix between calls, so a Frame is only valid until the
// next read from its Source.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// NewFrame allocates a zeroed frame of the given size.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, FrameSize(width, height)),
	}
}

// FrameSize returns the number of bytes in one RGB24 frame.
func FrameSize(width, height int) int {
	return width * height * 3
}

// Fill paints every pixel with the same color.
func (f *Frame) Fill(r, g, b uint8) {
	for i := 0; i+2 < len(f.Pix); i += 3 {
		f.Pix[i] = r
		f.Pix[i+1] = g
		f.Pix[i+2] = b
	}
}

// RGBA copies the frame into a new *image.RGBA.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for s, d := 0, 0; s+2 < len(f.Pix); s, d = s+3, d+4 {
		img.Pix[d] = f.Pix[s]
		img.Pix[d+1] = f.Pix[s+1]
		img.Pix[d+2] = f.Pix[s+2]
		img.Pix[d+3] = 0xff
	}
	return img
}

// Source yields frames sequentially. Next and Grab return io.EOF once the
// stream is exhausted.
type Source interface {
	// Next decodes and returns the next frame.
	Next() (*Frame, error)
	// Grab advances past the next frame without handing it out.
	Grab() error
	Close() error
}
