// Package scene turns detected cut frames into time ranges and tidies them up
// before splitting.
package scene

import (
	"fmt"
	"slices"
)

// Scene is a half-open time interval in seconds.
type Scene struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Duration returns End - Start.
func (s Scene) Duration() float64 {
	return s.End - s.Start
}

func (s Scene) String() string {
	return fmt.Sprintf("%.3fs-%.3fs", s.Start, s.End)
}

// Boundaries returns the frame boundary list for cuts: 0, the sorted unique
// cuts strictly inside (0, totalFrames), then totalFrames. Cuts on or outside
// the ends would produce zero-length or inverted scenes and are dropped.
func Boundaries(cuts []int, totalFrames int) []int {
	sorted := slices.Clone(cuts)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	boundaries := make([]int, 0, len(sorted)+2)
	boundaries = append(boundaries, 0)
	for _, c := range sorted {
		if c > 0 && c < totalFrames {
			boundaries = append(boundaries, c)
		}
	}
	return append(boundaries, totalFrames)
}

// BuildScenes converts cut frame indices into contiguous scenes covering
// [0, totalFrames/fps]. fps must be positive. A non-positive totalFrames
// yields no scenes.
func BuildScenes(cuts []int, totalFrames int, fps float64) []Scene {
	boundaries := Boundaries(cuts, totalFrames)
	scenes := make([]Scene, 0, len(boundaries)-1)
	for i := 0; i+1 < len(boundaries); i++ {
		if boundaries[i+1] <= boundaries[i] {
			continue
		}
		scenes = append(scenes, Scene{
			Start: float64(boundaries[i]) / fps,
			End:   float64(boundaries[i+1]) / fps,
		})
	}
	return scenes
}

// MergeShort folds every scene shorter than minDuration into the scene before
// it. The test uses the incoming scene's own duration, not the length of the
// span it would join, so a run of short scenes all collapse into one
// predecessor. The first scene has no predecessor and is kept as is.
func MergeShort(scenes []Scene, minDuration float64) []Scene {
	if len(scenes) == 0 {
		return nil
	}

	merged := []Scene{scenes[0]}
	for _, s := range scenes[1:] {
		if s.Duration() < minDuration {
			merged[len(merged)-1].End = s.End
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// TotalDuration sums the scene durations.
func TotalDuration(scenes []Scene) float64 {
	var total float64
	for _, s := range scenes {
		total += s.Duration()
	}
	return total
}
