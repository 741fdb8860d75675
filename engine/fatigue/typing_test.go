package fatigue

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neuroalign/neuroalign/engine/signal"
)

func keystrokesAt(base time.Time, gaps ...time.Duration) []signal.KeystrokeEvent {
	events := []signal.KeystrokeEvent{{Type: "keypress", Timestamp: base}}
	t := base
	for _, g := range gaps {
		t = t.Add(g)
		events = append(events, signal.KeystrokeEvent{Type: "keypress", Timestamp: t})
	}
	return events
}

func TestTypingSpeed_CharsPerMinute(t *testing.T) {
	base := time.Now()
	// 5 keypresses over 60s -> 5 chars/min.
	ks := keystrokesAt(base, 15*time.Second, 15*time.Second, 15*time.Second, 15*time.Second)
	require.InDelta(t, 5.0, typingSpeed(ks), 1e-9)
}

func TestTypingSpeed_DegradesToZero(t *testing.T) {
	require.Zero(t, typingSpeed(nil))
	require.Zero(t, typingSpeed(keystrokesAt(time.Now())))

	// Two events, identical timestamps: zero elapsed time.
	base := time.Now()
	ks := []signal.KeystrokeEvent{
		{Type: "keypress", Timestamp: base},
		{Type: "keypress", Timestamp: base},
	}
	require.Zero(t, typingSpeed(ks))
}

func TestHesitationScore_FractionOverThreshold(t *testing.T) {
	hs := []signal.HesitationEvent{
		{Duration: 0.2}, {Duration: 0.7}, {Duration: 1.2}, {Duration: 0.4},
	}
	require.InDelta(t, 0.5, hesitationScore(hs, 0.5), 1e-9)
	require.Zero(t, hesitationScore(nil, 0.5))
}

func TestBackspaceFrequency(t *testing.T) {
	ks := keystrokesAt(time.Now(), time.Second, time.Second, time.Second)
	bs := []signal.BackspaceEvent{{Timestamp: time.Now()}, {Timestamp: time.Now()}}
	require.InDelta(t, 0.5, backspaceFrequency(bs, ks), 1e-9)
	require.Zero(t, backspaceFrequency(bs, nil))
}

func TestRhythmVariance_UniformIsZero(t *testing.T) {
	ks := keystrokesAt(time.Now(), time.Second, time.Second, time.Second)
	require.InDelta(t, 0.0, rhythmVariance(ks), 1e-9)
}

func TestRhythmVariance_TwoKeystrokesDegrade(t *testing.T) {
	ks := keystrokesAt(time.Now(), time.Second)
	require.Zero(t, rhythmVariance(ks))
}

func TestRhythmVariance_KnownValue(t *testing.T) {
	// Intervals 1s and 3s: mean 2, population variance 1.
	ks := keystrokesAt(time.Now(), 1*time.Second, 3*time.Second)
	require.InDelta(t, 1.0, rhythmVariance(ks), 1e-9)
}

func TestTypingFatigueScore_AlwaysInUnitInterval(t *testing.T) {
	inputs := [][4]float64{
		{0, 0, 0, 0},
		{1000, 1, 1, 10},
		{0, 1, 0.05, 0.02},
		{50, 0.3, 0.9, 0},
		{math.MaxFloat64, 1, 1, math.MaxFloat64},
	}
	for _, in := range inputs {
		score := typingFatigueScore(in[0], in[1], in[2], in[3])
		require.GreaterOrEqual(t, score, 0.0)
		require.LessOrEqual(t, score, 1.0)
	}
}

func TestFacialFatigueScore_AlwaysInUnitInterval(t *testing.T) {
	inputs := [][4]float64{
		{0, 0, 0, 0},
		{10, 1, 1, 0},
		{0.25, 0.5, 0.5, 1},
	}
	for _, in := range inputs {
		score := facialFatigueScore(in[0], in[1], in[2], in[3], blinkRateNorm)
		require.GreaterOrEqual(t, score, 0.0)
		require.LessOrEqual(t, score, 1.0)
	}
}

func TestFacialFatigueScore_KnownValue(t *testing.T) {
	// blink 0.25/s -> normalized 0.5; 0.4*0.5 + 0.3*0.1 + 0.2*0.3 + 0.1*(1-0.2)
	score := facialFatigueScore(0.25, 0.1, 0.3, 0.2, blinkRateNorm)
	require.InDelta(t, 0.37, score, 1e-9)
}

func TestProcessFrame_BlinkRateThresholdOverride(t *testing.T) {
	// Drive one blink over a 60s window so both detectors see the same
	// blink rate, then compare the facial scores under different
	// saturation points.
	blinkOnce := func(d *Detector, clock *fakeClock) FrameMetrics {
		frame := func(ear float64) signal.FrameSample {
			return signal.FrameSample{FaceDetected: true, EAR: ear, SmileFrequency: 1}
		}
		d.ProcessFrame(frame(0.1))
		d.ProcessFrame(frame(0.1))
		d.ProcessFrame(frame(0.5))
		clock.advance(60 * time.Second)
		return d.ProcessFrame(frame(0.5))
	}

	strictClock := newFakeClock()
	strict := NewDetector(Config{BlinkRateThreshold: 0.01, Now: strictClock.now})
	relaxedClock := newFakeClock()
	relaxed := NewDetector(Config{Now: relaxedClock.now})

	strictMetrics := blinkOnce(strict, strictClock)
	relaxedMetrics := blinkOnce(relaxed, relaxedClock)

	require.InDelta(t, 1.0/60.0, strictMetrics.BlinkRate, 1e-9)
	require.Equal(t, strictMetrics.BlinkRate, relaxedMetrics.BlinkRate)

	// 1/60 blinks/s saturates a 0.01 threshold, so the blink component
	// contributes its full 0.4 weight; the default 0.5 barely registers.
	require.InDelta(t, 0.4, strictMetrics.FacialFatigue, 1e-9)
	require.InDelta(t, 0.4*(1.0/60.0)/blinkRateNorm, relaxedMetrics.FacialFatigue, 1e-9)
}

func TestProcessTypingBatch_EmptyBatchDegrades(t *testing.T) {
	d := NewDetector(Config{})
	sample := d.ProcessTypingBatch(signal.TypingBatch{})
	require.Zero(t, sample.TypingSpeed)
	require.Zero(t, sample.HesitationScore)
	require.Zero(t, sample.BackspaceFrequency)
	require.Zero(t, sample.RhythmVariance)
	// Zero speed still reads as fatigue via the inverted speed term.
	require.InDelta(t, 0.2, sample.TypingFatigue, 1e-9)
}
