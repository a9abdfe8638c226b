// Package detect implements a content-aware cut detector that compares each
// frame's change score against a rolling local average.
package detect

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/keagan/scenesplit/internal/video"
)

const maxAdaptiveRatio = 255.0

// Config tunes the adaptive detector.
type Config struct {
	// AdaptiveThreshold is the score/average ratio a frame must reach to be a
	// cut. Higher is less sensitive.
	AdaptiveThreshold float64
	// WindowWidth is the number of observed frames on each side of the target
	// that form its baseline.
	WindowWidth int
	// MinContentVal is the minimum raw content score for a cut candidate.
	MinContentVal float64
	// MinSceneLen is the minimum distance in frames between two cuts.
	MinSceneLen int
	// Downscale shrinks frames by this integer factor before scoring. 0 or 1
	// scores at full resolution.
	Downscale int
}

// DefaultConfig mirrors the tool's command-line defaults.
func DefaultConfig() Config {
	return Config{
		AdaptiveThreshold: 3.2,
		WindowWidth:       4,
		MinContentVal:     20.0,
		MinSceneLen:       1,
		Downscale:         1,
	}
}

type sample struct {
	index int
	score float64
}

// AdaptiveDetector reports cuts for the frames it observes. State evolves only
// across observed frames; the frame spacing in the source is irrelevant.
type AdaptiveDetector struct {
	cfg    Config
	logger zerolog.Logger

	last    *hsvPlanes
	spare   *hsvPlanes
	buffer  []sample
	started bool
	lastCut int
	// frames at or before evaluated have already been judged as targets.
	evaluated int
}

// NewAdaptiveDetector creates a detector with cfg.
func NewAdaptiveDetector(logger zerolog.Logger, cfg Config) *AdaptiveDetector {
	return &AdaptiveDetector{
		cfg:    cfg,
		logger: logger.With().Str("component", "adaptive-detector").Logger(),
	}
}

// Observe scores frame against the previously observed frame and returns any
// cut confirmed by the now complete window. Returned indices are never
// greater than index.
func (d *AdaptiveDetector) Observe(index int, frame *video.Frame) []int {
	score := d.score(frame)
	if !d.started {
		d.started = true
		d.lastCut = index
		d.evaluated = index
	}

	w := max(d.cfg.WindowWidth, 0)
	required := 1 + 2*w
	d.buffer = append(d.buffer, sample{index: index, score: score})
	if len(d.buffer) < required {
		return nil
	}
	if len(d.buffer) > required {
		d.buffer = append(d.buffer[:0], d.buffer[len(d.buffer)-required:]...)
	}

	target := d.buffer[w]
	var sum float64
	for i, s := range d.buffer {
		if i != w {
			sum += s.score
		}
	}
	var avg float64
	if w > 0 {
		avg = sum / float64(2*w)
	}
	d.evaluated = target.index

	if d.isCut(target, avg, index) {
		return []int{target.index}
	}
	return nil
}

// Flush judges the buffered frames that never became the centre of a full
// window, using whichever neighbours remain within WindowWidth of them.
func (d *AdaptiveDetector) Flush(finalIndex int) []int {
	w := max(d.cfg.WindowWidth, 0)
	var cuts []int
	for pos, s := range d.buffer {
		if s.index <= d.evaluated {
			continue
		}
		var sum float64
		var n int
		for j := max(pos-w, 0); j <= min(pos+w, len(d.buffer)-1); j++ {
			if j != pos {
				sum += d.buffer[j].score
				n++
			}
		}
		d.evaluated = s.index
		if n == 0 {
			continue
		}
		if d.isCut(s, sum/float64(n), s.index) {
			cuts = append(cuts, s.index)
		}
	}

	d.logger.Debug().
		Int("final_index", finalIndex).
		Ints("flushed", cuts).
		Msg("detector flushed")
	return cuts
}

func (d *AdaptiveDetector) isCut(target sample, avg float64, current int) bool {
	var ratio float64
	switch {
	case math.Abs(avg) >= 1e-5:
		ratio = math.Min(target.score/avg, maxAdaptiveRatio)
	case target.score >= d.cfg.MinContentVal:
		ratio = maxAdaptiveRatio
	}

	if ratio < d.cfg.AdaptiveThreshold || target.score < d.cfg.MinContentVal {
		return false
	}
	if current-d.lastCut < d.cfg.MinSceneLen {
		return false
	}

	d.lastCut = target.index
	d.logger.Debug().
		Int("frame", target.index).
		Float64("score", target.score).
		Float64("ratio", ratio).
		Msg("cut detected")
	return true
}

func (d *AdaptiveDetector) score(frame *video.Frame) float64 {
	cur := toHSV(d.spare, frame, d.cfg.Downscale)
	var score float64
	if d.last != nil && d.last.len() == cur.len() {
		score = contentScore(d.last, cur)
	}
	d.last, d.spare = cur, d.last
	return score
}
