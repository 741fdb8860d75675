package fatigue

import "time"

// Blink detection constants, from the standard eye-aspect-ratio method.
const (
	// earThreshold is the EAR below which the eye counts as closed.
	earThreshold = 0.2
	// minConsecClosedFrames filters single-frame noise: an eye closure
	// must span at least this many frames to register as a blink.
	minConsecClosedFrames = 2
	// blinkFlushInterval is the minimum window over which a blink rate
	// is emitted.
	blinkFlushInterval = 60 * time.Second
)

// blinkDetector is the per-session debounced eye-closure state machine.
// Single-writer: the owning detector serializes calls.
type blinkDetector struct {
	closedCounter int
	tally         int
	windowStart   time.Time
	now           func() time.Time
}

func newBlinkDetector(now func() time.Time) *blinkDetector {
	return &blinkDetector{
		windowStart: now(),
		now:         now,
	}
}

// processEAR advances the state machine with one frame's eye aspect ratio
// and returns the blink rate in blinks per second. The rate is 0 until a
// full flush window has elapsed; that zero means "no rate available yet",
// not a measured zero rate.
func (b *blinkDetector) processEAR(ear float64) float64 {
	if ear < earThreshold {
		b.closedCounter++
	} else {
		if b.closedCounter >= minConsecClosedFrames {
			b.tally++
		}
		b.closedCounter = 0
	}

	elapsed := b.now().Sub(b.windowStart)
	if elapsed >= blinkFlushInterval {
		rate := float64(b.tally) / elapsed.Seconds()
		b.tally = 0
		b.windowStart = b.now()
		return rate
	}
	return 0.0
}
