// Package motion measures inter-frame motion and turns it into a frame-skip
// decision for the detection loop.
package motion

import (
	"image"

	"github.com/keagan/scenesplit/internal/video"
)

// Policy maps a motion magnitude to the number of frames that may be skipped
// after the current one.
type Policy struct {
	Threshold float64
	MinSkip   int
	MaxSkip   int
}

// Skip returns MinSkip when motion is above the threshold and MaxSkip
// otherwise.
func (p Policy) Skip(motion float64) int {
	if motion > p.Threshold {
		return p.MinSkip
	}
	return p.MaxSkip
}

// GrayInto writes the luma plane of f into dst, reallocating dst when the
// size does not match. Uses the fixed-point BT.601 weights OpenCV applies for
// RGB to gray conversion.
func GrayInto(dst *image.Gray, f *video.Frame) *image.Gray {
	if dst == nil || dst.Rect.Dx() != f.Width || dst.Rect.Dy() != f.Height {
		dst = image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	}
	for s, d := 0, 0; s+2 < len(f.Pix) && d < len(dst.Pix); s, d = s+3, d+1 {
		r := uint32(f.Pix[s])
		g := uint32(f.Pix[s+1])
		b := uint32(f.Pix[s+2])
		dst.Pix[d] = uint8((r*4899 + g*9617 + b*1868 + 8192) >> 14)
	}
	return dst
}

// Gray returns the luma plane of f.
func Gray(f *video.Frame) *image.Gray {
	return GrayInto(nil, f)
}

// MeanAbsDiff returns the mean absolute per-pixel difference between two gray
// planes of equal size, on the 0-255 scale. Planes of different size, or
// empty planes, yield 0.
func MeanAbsDiff(a, b *image.Gray) float64 {
	if a == nil || b == nil || len(a.Pix) != len(b.Pix) || len(a.Pix) == 0 {
		return 0
	}
	var sum uint64
	for i := range a.Pix {
		x, y := a.Pix[i], b.Pix[i]
		if x > y {
			sum += uint64(x - y)
		} else {
			sum += uint64(y - x)
		}
	}
	return float64(sum) / float64(len(a.Pix))
}

// Sampler holds the gray plane of the previous analyzed frame.
type Sampler struct {
	policy Policy
	prev   *image.Gray
	cur    *image.Gray
}

// NewSampler creates a sampler applying p.
func NewSampler(p Policy) *Sampler {
	return &Sampler{policy: p}
}

// Policy returns the skip policy in use.
func (s *Sampler) Policy() Policy { return s.policy }

// Seed stores f as the reference frame without producing a decision.
func (s *Sampler) Seed(f *video.Frame) {
	s.prev = GrayInto(s.prev, f)
}

// Sample measures motion between the reference frame and f, returns the skip
// decision for the frames that follow f, and makes f the new reference.
func (s *Sampler) Sample(f *video.Frame) (float64, int) {
	s.cur = GrayInto(s.cur, f)
	v := MeanAbsDiff(s.prev, s.cur)
	s.prev, s.cur = s.cur, s.prev
	return v, s.policy.Skip(v)
}
