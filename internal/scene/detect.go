package scene

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/rs/zerolog"

	"github.com/keagan/scenesplit/internal/motion"
	"github.com/keagan/scenesplit/internal/video"
)

// CutDetector is fed every analyzed frame in order. Observe may report cuts
// at or before index; Flush reports whatever is still pending at the end of
// the stream.
type CutDetector interface {
	Observe(index int, frame *video.Frame) []int
	Flush(finalIndex int) []int
}

// Detection is the outcome of one pass over a source.
type Detection struct {
	// Cuts are sorted and unique.
	Cuts []int
	// Frames is the number of frames consumed from the source, skipped ones
	// included.
	Frames int
	// Analyzed is the number of frames handed to the detector.
	Analyzed int
	// FinalIndex is the index passed to Flush.
	FinalIndex int
}

// Empty reports whether the source yielded no frames at all.
func (d *Detection) Empty() bool {
	return d.Frames == 0
}

// Scenes builds the scene list for the detection. An empty source has no
// scenes.
func (d *Detection) Scenes(totalFrames int, fps float64) []Scene {
	if d.Empty() {
		return nil
	}
	return BuildScenes(d.Cuts, totalFrames, fps)
}

// Driver runs the motion-adaptive sampling loop.
type Driver struct {
	Sampler  *motion.Sampler
	Detector CutDetector
	Logger   zerolog.Logger
	// OnFrame, when set, is called with the index reached after each
	// analyzed frame and its skips.
	OnFrame func(index int)
}

// Run reads src to the end. The first frame only seeds the motion reference;
// every later frame read with Next is analyzed and given to the detector with
// a 1-based index, and the skip decision for it is applied with Grab.
// The caller owns src and closes it.
func (d *Driver) Run(src video.Source) (*Detection, error) {
	det := &Detection{}
	cuts := map[int]struct{}{}

	first, err := src.Next()
	if errors.Is(err, io.EOF) {
		d.Logger.Info().Msg("source has no frames")
		return det, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read first frame: %w", err)
	}
	d.Sampler.Seed(first)
	det.Frames = 1

	policy := d.Sampler.Policy()
	d.Logger.Debug().
		Float64("motion_threshold", policy.Threshold).
		Int("min_skip", policy.MinSkip).
		Int("max_skip", policy.MaxSkip).
		Msg("sampling frames")

	index := 1
	for {
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read frame %d: %w", index, err)
		}
		det.Frames++
		det.Analyzed++

		motionVal, skip := d.Sampler.Sample(frame)
		for _, c := range d.Detector.Observe(index, frame) {
			cuts[c] = struct{}{}
		}

		d.Logger.Trace().
			Int("frame", index).
			Float64("motion", motionVal).
			Int("skip", skip).
			Msg("analyzed frame")

		advanced, err := skipFrames(src, skip)
		if err != nil {
			return nil, fmt.Errorf("failed to skip after frame %d: %w", index, err)
		}
		index += advanced + 1
		det.Frames += advanced

		if d.OnFrame != nil {
			d.OnFrame(index)
		}
	}

	for _, c := range d.Detector.Flush(index) {
		cuts[c] = struct{}{}
	}
	det.FinalIndex = index

	det.Cuts = make([]int, 0, len(cuts))
	for c := range cuts {
		det.Cuts = append(det.Cuts, c)
	}
	slices.Sort(det.Cuts)

	d.Logger.Debug().
		Int("frames", det.Frames).
		Int("analyzed", det.Analyzed).
		Ints("cuts", det.Cuts).
		Msg("detection pass complete")
	return det, nil
}

// skipFrames grabs up to n frames and returns how many were actually
// available.
func skipFrames(src video.Source, n int) (int, error) {
	for i := 0; i < n; i++ {
		err := src.Grab()
		if errors.Is(err, io.EOF) {
			return i, nil
		}
		if err != nil {
			return i, err
		}
	}
	return n, nil
}
