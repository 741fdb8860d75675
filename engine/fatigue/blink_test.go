package fatigue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock advances manually so flush-window behavior is deterministic.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestBlinkDetector_SingleClosedFrameIsNoise(t *testing.T) {
	clock := newFakeClock()
	b := newBlinkDetector(clock.now)

	// One closed frame, then open: below the 2-frame debounce.
	b.processEAR(0.1)
	b.processEAR(0.5)

	clock.advance(61 * time.Second)
	rate := b.processEAR(0.5)
	require.Zero(t, rate, "single-frame closure must not register a blink")
}

func TestBlinkDetector_ThreeClosedFramesRegisterOneBlink(t *testing.T) {
	clock := newFakeClock()
	b := newBlinkDetector(clock.now)

	b.processEAR(0.1)
	b.processEAR(0.1)
	b.processEAR(0.1)
	b.processEAR(0.5) // reopening completes exactly one blink

	clock.advance(100 * time.Second)
	rate := b.processEAR(0.5)
	require.InDelta(t, 1.0/100.0, rate, 1e-9)
}

func TestBlinkDetector_NoRateBeforeFlushWindow(t *testing.T) {
	clock := newFakeClock()
	b := newBlinkDetector(clock.now)

	b.processEAR(0.1)
	b.processEAR(0.1)
	clock.advance(30 * time.Second)
	rate := b.processEAR(0.5)
	require.Zero(t, rate, "no rate before 60s elapsed")
}

func TestBlinkDetector_FlushResetsTally(t *testing.T) {
	clock := newFakeClock()
	b := newBlinkDetector(clock.now)

	b.processEAR(0.1)
	b.processEAR(0.1)
	clock.advance(60 * time.Second)
	rate := b.processEAR(0.5) // blink counted and window flushed together
	require.InDelta(t, 1.0/60.0, rate, 1e-9)

	// Next window starts empty.
	clock.advance(60 * time.Second)
	rate = b.processEAR(0.5)
	require.Zero(t, rate)
}

func TestBlinkDetector_MultipleBlinksAccumulate(t *testing.T) {
	clock := newFakeClock()
	b := newBlinkDetector(clock.now)

	for i := 0; i < 5; i++ {
		b.processEAR(0.1)
		b.processEAR(0.1)
		b.processEAR(0.5)
	}

	clock.advance(120 * time.Second)
	rate := b.processEAR(0.5)
	require.InDelta(t, 5.0/120.0, rate, 1e-9)
}
