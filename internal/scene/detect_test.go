package scene

import (
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keagan/scenesplit/internal/motion"
	"github.com/keagan/scenesplit/internal/video"
)

// scriptedDetector reports each injected cut the first time it observes an
// index at or past it, and reports all of them again on Flush.
type scriptedDetector struct {
	cuts     []int
	reported map[int]bool
	observed []int
	flushed  []int
}

func newScriptedDetector(cuts ...int) *scriptedDetector {
	return &scriptedDetector{cuts: cuts, reported: map[int]bool{}}
}

func (d *scriptedDetector) Observe(index int, _ *video.Frame) []int {
	d.observed = append(d.observed, index)
	var out []int
	for _, c := range d.cuts {
		if index >= c && !d.reported[c] {
			d.reported[c] = true
			out = append(out, c)
		}
	}
	return out
}

func (d *scriptedDetector) Flush(finalIndex int) []int {
	d.flushed = append(d.flushed, finalIndex)
	return d.cuts
}

func staticFrames(n int) []*video.Frame {
	frames := make([]*video.Frame, n)
	for i := range frames {
		frames[i] = video.NewFrame(4, 4)
	}
	return frames
}

func newDriver(det CutDetector, p motion.Policy) *Driver {
	return &Driver{
		Sampler:  motion.NewSampler(p),
		Detector: det,
		Logger:   zerolog.Nop(),
	}
}

func TestDriverEndToEnd(t *testing.T) {
	det := newScriptedDetector(90, 210)
	src := video.NewMemorySource(staticFrames(300))
	d := newDriver(det, motion.Policy{Threshold: 5, MinSkip: 0, MaxSkip: 5})

	res, err := d.Run(src)
	require.NoError(t, err)

	assert.Equal(t, []int{90, 210}, res.Cuts)
	assert.Equal(t, 300, res.Frames)
	assert.Equal(t, 300, res.FinalIndex)
	assert.Equal(t, []int{300}, det.flushed)
	for _, idx := range det.observed {
		assert.Equal(t, 1, idx%6, "static content skips MaxSkip frames after each analyzed one")
	}
	assert.Len(t, det.observed, res.Analyzed)

	assert.Equal(t, []Scene{{0, 3.0}, {3.0, 7.0}, {7.0, 10.0}}, res.Scenes(300, 30))
}

func TestDriverFirstFrameOnlySeeds(t *testing.T) {
	det := newScriptedDetector()
	d := newDriver(det, motion.Policy{Threshold: 5, MinSkip: 0, MaxSkip: 0})

	res, err := d.Run(video.NewMemorySource(staticFrames(4)))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, det.observed)
	assert.Equal(t, 3, res.Analyzed)
	assert.Equal(t, 4, res.FinalIndex)
}

func TestDriverHighMotionUsesMinSkip(t *testing.T) {
	frames := make([]*video.Frame, 12)
	for i := range frames {
		frames[i] = video.NewFrame(4, 4)
		if i%2 == 1 {
			frames[i].Fill(255, 255, 255)
		}
	}
	det := newScriptedDetector()
	d := newDriver(det, motion.Policy{Threshold: 5, MinSkip: 1, MaxSkip: 8})

	_, err := d.Run(video.NewMemorySource(frames))
	require.NoError(t, err)

	// Frame 1 is white, frame 3 is white again after skipping the black frame
	// between them, so the second sample sees no motion and switches to MaxSkip.
	assert.Equal(t, []int{1, 3}, det.observed)
}

func TestDriverEmptySource(t *testing.T) {
	det := newScriptedDetector(5)
	d := newDriver(det, motion.Policy{MaxSkip: 5})

	res, err := d.Run(video.NewMemorySource(nil))
	require.NoError(t, err)

	assert.True(t, res.Empty())
	assert.Empty(t, res.Scenes(0, 30))
	assert.Empty(t, det.observed)
	assert.Empty(t, det.flushed)
}

func TestDriverSingleFrameSource(t *testing.T) {
	det := newScriptedDetector()
	d := newDriver(det, motion.Policy{MaxSkip: 5})

	res, err := d.Run(video.NewMemorySource(staticFrames(1)))
	require.NoError(t, err)

	assert.False(t, res.Empty())
	assert.Empty(t, det.observed)
	assert.Equal(t, []int{1}, det.flushed)
	assert.Equal(t, []Scene{{0, 1.0 / 30}}, res.Scenes(1, 30))
}

func TestDriverSkipStopsAtEndOfStream(t *testing.T) {
	src := video.NewMemorySource(staticFrames(5))
	d := newDriver(newScriptedDetector(), motion.Policy{MaxSkip: 100})

	res, err := d.Run(src)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Frames)
	assert.Equal(t, 5, res.FinalIndex)
	assert.Equal(t, 5, src.Position())
}

func TestDriverReportsProgress(t *testing.T) {
	var seen []int
	d := newDriver(newScriptedDetector(), motion.Policy{MaxSkip: 2})
	d.OnFrame = func(index int) { seen = append(seen, index) }

	_, err := d.Run(video.NewMemorySource(staticFrames(10)))
	require.NoError(t, err)
	assert.Equal(t, []int{4, 7, 10}, seen)
}

type failingSource struct {
	video.MemorySource
	err error
}

func (f *failingSource) Next() (*video.Frame, error) { return nil, f.err }

func TestDriverPropagatesReadErrors(t *testing.T) {
	boom := errors.New("decoder crashed")
	d := newDriver(newScriptedDetector(), motion.Policy{})

	_, err := d.Run(&failingSource{err: boom})
	assert.ErrorIs(t, err, boom)

	_, err = d.Run(&failingSource{err: io.EOF})
	assert.NoError(t, err)
}
