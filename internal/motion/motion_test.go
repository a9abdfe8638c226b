package motion

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keagan/scenesplit/internal/video"
)

func solid(w, h int, r, g, b uint8) *video.Frame {
	f := video.NewFrame(w, h)
	f.Fill(r, g, b)
	return f
}

func TestPolicySkip(t *testing.T) {
	p := Policy{Threshold: 5.0, MinSkip: 0, MaxSkip: 5}

	tests := []struct {
		name   string
		motion float64
		want   int
	}{
		{"high motion", 6.0, 0},
		{"low motion", 3.0, 5},
		{"at threshold", 5.0, 5},
		{"still", 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Skip(tt.motion))
		})
	}
}

func TestGrayMatchesLumaWeights(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    uint8
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 255},
		{255, 0, 0, 76},
		{0, 255, 0, 150},
		{0, 0, 255, 29},
	}
	for _, tt := range tests {
		g := Gray(solid(2, 2, tt.r, tt.g, tt.b))
		require.Len(t, g.Pix, 4)
		assert.Equal(t, tt.want, g.Pix[0], "rgb(%d,%d,%d)", tt.r, tt.g, tt.b)
	}
}

func TestMeanAbsDiff(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 2, 2))
	b := image.NewGray(image.Rect(0, 0, 2, 2))
	copy(a.Pix, []uint8{10, 20, 30, 40})
	copy(b.Pix, []uint8{20, 10, 30, 60})

	assert.InDelta(t, 10.0, MeanAbsDiff(a, b), 1e-9)
	assert.InDelta(t, 10.0, MeanAbsDiff(b, a), 1e-9)
	assert.Zero(t, MeanAbsDiff(a, a))
	assert.Zero(t, MeanAbsDiff(a, nil))
}

func TestSamplerTracksLastAnalyzedFrame(t *testing.T) {
	p := Policy{Threshold: 5.0, MinSkip: 1, MaxSkip: 4}
	s := NewSampler(p)
	assert.Equal(t, p, s.Policy())

	s.Seed(solid(4, 4, 0, 0, 0))

	v, skip := s.Sample(solid(4, 4, 0, 0, 0))
	assert.Zero(t, v)
	assert.Equal(t, 4, skip)

	v, skip = s.Sample(solid(4, 4, 255, 255, 255))
	assert.InDelta(t, 255.0, v, 1e-9)
	assert.Equal(t, 1, skip)

	// The white frame is now the reference.
	v, skip = s.Sample(solid(4, 4, 255, 255, 255))
	assert.Zero(t, v)
	assert.Equal(t, 4, skip)
}
