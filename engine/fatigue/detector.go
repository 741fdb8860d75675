// Package fatigue implements the fatigue inference engine: the blink
// state machine, the facial and typing scorers and the aggregator.
//
// A Detector is owned by exactly one monitoring session. None of its state
// is synchronized; concurrent events for the same session must be
// serialized by the caller, and independent sessions need independent
// Detector instances.
package fatigue

import (
	"time"

	"github.com/neuroalign/neuroalign/engine/signal"
	"github.com/neuroalign/neuroalign/internal/rolling"
)

// Rolling history capacities.
const (
	facialHistorySize = 60   // one minute of frames at 1 FPS
	typingHistorySize = 1000 // last 1000 typing samples
	scoreHistorySize  = 100  // last 100 overall assessments
	aggregationWindow = 10   // samples blended into the aggregate components
)

// Config tunes a Detector. Zero values fall back to the reference defaults.
type Config struct {
	// HesitationThreshold is the pause duration (seconds) beyond which a
	// hesitation counts toward the hesitation score.
	HesitationThreshold float64

	// BlinkRateThreshold is the blinks-per-second rate at which the blink
	// component of the facial score saturates.
	BlinkRateThreshold float64

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Detector analyzes one session's facial and typing streams.
type Detector struct {
	hesitationThreshold float64
	blinkRateThreshold  float64
	now                 func() time.Time

	blink         *blinkDetector
	facialHistory *rolling.Buffer[FrameMetrics]
	typingHistory *rolling.Buffer[TypingSample]
	scoreHistory  *rolling.Buffer[float64]
}

// NewDetector creates a detector for a single monitoring session.
func NewDetector(cfg Config) *Detector {
	if cfg.HesitationThreshold <= 0 {
		cfg.HesitationThreshold = 0.5
	}
	if cfg.BlinkRateThreshold <= 0 {
		cfg.BlinkRateThreshold = blinkRateNorm
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Detector{
		hesitationThreshold: cfg.HesitationThreshold,
		blinkRateThreshold:  cfg.BlinkRateThreshold,
		now:                 cfg.Now,
		blink:               newBlinkDetector(cfg.Now),
		facialHistory:       rolling.New[FrameMetrics](facialHistorySize),
		typingHistory:       rolling.New[TypingSample](typingHistorySize),
		scoreHistory:        rolling.New[float64](scoreHistorySize),
	}
}

// ProcessFrame runs one normalized frame through the blink state machine
// and the facial scorer. A frame without a detected face yields the
// all-zero sentinel without advancing the state machine.
func (d *Detector) ProcessFrame(sample signal.FrameSample) FrameMetrics {
	if !sample.FaceDetected {
		return FrameMetrics{Timestamp: sample.Timestamp}
	}

	blinkRate := d.blink.processEAR(sample.EAR)
	metrics := FrameMetrics{
		Timestamp:          sample.Timestamp,
		FaceDetected:       true,
		BlinkRate:          blinkRate,
		EyeClosureDuration: sample.EyeClosureDuration,
		FacialTension:      sample.FacialTension,
		SmileFrequency:     sample.SmileFrequency,
	}
	metrics.FacialFatigue = facialFatigueScore(
		blinkRate, sample.EyeClosureDuration, sample.FacialTension, sample.SmileFrequency,
		d.blinkRateThreshold)

	d.facialHistory.Push(metrics)
	return metrics
}

// ProcessTypingBatch scores one typing batch and appends the sample to the
// rolling typing history. Every sub-metric degrades to 0 on insufficient
// data instead of failing.
func (d *Detector) ProcessTypingBatch(batch signal.TypingBatch) TypingSample {
	speed := typingSpeed(batch.Keystrokes)
	hesitation := hesitationScore(batch.Hesitations, d.hesitationThreshold)
	backspaceFreq := backspaceFrequency(batch.Backspaces, batch.Keystrokes)
	rhythm := rhythmVariance(batch.Keystrokes)

	sample := TypingSample{
		Timestamp:          d.now(),
		TypingSpeed:        speed,
		HesitationScore:    hesitation,
		BackspaceFrequency: backspaceFreq,
		RhythmVariance:     rhythm,
	}
	sample.TypingFatigue = typingFatigueScore(speed, hesitation, backspaceFreq, rhythm)

	d.typingHistory.Push(sample)
	return sample
}

// FacialHistory exposes the rolling frame metrics, oldest first.
func (d *Detector) FacialHistory() []FrameMetrics {
	return d.facialHistory.All()
}

// TypingHistory exposes the rolling typing samples, oldest first.
func (d *Detector) TypingHistory() []TypingSample {
	return d.typingHistory.All()
}
