package detect

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"

	"github.com/keagan/scenesplit/internal/video"
)

// hsvPlanes holds 8-bit hue, saturation and value planes using OpenCV's
// ranges (H in 0-179, S and V in 0-255).
type hsvPlanes struct {
	h, s, v []uint8
}

func (p *hsvPlanes) len() int { return len(p.v) }

// toHSV converts f into HSV planes, optionally shrinking it first by the
// integer factor downscale.
func toHSV(dst *hsvPlanes, f *video.Frame, downscale int) *hsvPlanes {
	img := f.RGBA()
	if downscale > 1 && f.Width >= downscale && f.Height >= downscale {
		img = asRGBA(resize.Resize(uint(f.Width/downscale), uint(f.Height/downscale), img, resize.Bilinear))
	}

	n := img.Rect.Dx() * img.Rect.Dy()
	if dst == nil || dst.len() != n {
		dst = &hsvPlanes{h: make([]uint8, n), s: make([]uint8, n), v: make([]uint8, n)}
	}

	i := 0
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		row := img.Pix[img.PixOffset(img.Rect.Min.X, y):]
		for x := 0; x < img.Rect.Dx(); x++ {
			o := x * 4
			dst.h[i], dst.s[i], dst.v[i] = rgbToHSV(row[o], row[o+1], row[o+2])
			i++
		}
	}
	return dst
}

func asRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}

func rgbToHSV(r8, g8, b8 uint8) (uint8, uint8, uint8) {
	r, g, b := int(r8), int(g8), int(b8)
	maxc := max(r, g, b)
	minc := min(r, g, b)
	diff := maxc - minc

	var s int
	if maxc != 0 {
		s = (255*diff + maxc/2) / maxc
	}

	var h float64
	if diff != 0 {
		switch maxc {
		case r:
			h = 60 * float64(g-b) / float64(diff)
		case g:
			h = 120 + 60*float64(b-r)/float64(diff)
		default:
			h = 240 + 60*float64(r-g)/float64(diff)
		}
		if h < 0 {
			h += 360
		}
	}
	h8 := int(h/2 + 0.5)
	if h8 >= 180 {
		h8 -= 180
	}
	return uint8(h8), uint8(s), uint8(maxc)
}

func meanAbsDiff(a, b []uint8) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var sum uint64
	for i := range a {
		if a[i] > b[i] {
			sum += uint64(a[i] - b[i])
		} else {
			sum += uint64(b[i] - a[i])
		}
	}
	return float64(sum) / float64(len(a))
}

// contentScore is the mean of the per-channel mean absolute differences.
func contentScore(prev, cur *hsvPlanes) float64 {
	return (meanAbsDiff(prev.h, cur.h) + meanAbsDiff(prev.s, cur.s) + meanAbsDiff(prev.v, cur.v)) / 3.0
}
