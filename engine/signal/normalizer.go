package signal

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

const eyeContourPoints = 6

// NormalizeFrame validates a frame payload and computes the averaged eye
// aspect ratio from the eye-contour geometry. A payload without a detected
// face normalizes to a no-signal sample rather than an error; a payload
// that claims a face but ships malformed geometry is rejected.
func NormalizeFrame(payload *FramePayload) (FrameSample, error) {
	if payload == nil {
		return FrameSample{}, errors.New("frame payload required")
	}

	sample := FrameSample{
		Timestamp:    payload.Timestamp,
		FaceDetected: payload.FaceDetected,
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now()
	}

	if !payload.FaceDetected {
		return sample, nil
	}

	if len(payload.LeftEye) != eyeContourPoints || len(payload.RightEye) != eyeContourPoints {
		return FrameSample{}, errors.Errorf("expected %d eye-contour points per eye, got %d/%d",
			eyeContourPoints, len(payload.LeftEye), len(payload.RightEye))
	}
	for _, m := range []struct {
		name  string
		value float64
	}{
		{"eye_closure_duration", payload.EyeClosureDuration},
		{"facial_tension", payload.FacialTension},
		{"smile_frequency", payload.SmileFrequency},
	} {
		if m.value < 0 || m.value > 1 || math.IsNaN(m.value) {
			return FrameSample{}, errors.Errorf("%s out of range: %v", m.name, m.value)
		}
	}

	left := eyeAspectRatio(payload.LeftEye)
	right := eyeAspectRatio(payload.RightEye)
	sample.EAR = (left + right) / 2.0
	sample.EyeClosureDuration = payload.EyeClosureDuration
	sample.FacialTension = payload.FacialTension
	sample.SmileFrequency = payload.SmileFrequency
	return sample, nil
}

// eyeAspectRatio computes (|p2-p6| + |p3-p5|) / (2*|p1-p4|) over the six
// contour points. Degenerate geometry (zero eye width) yields 0.
func eyeAspectRatio(eye []Point) float64 {
	a := distance(eye[1], eye[5])
	b := distance(eye[2], eye[4])
	c := distance(eye[0], eye[3])
	if c == 0 {
		return 0
	}
	return (a + b) / (2.0 * c)
}

func distance(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// NormalizeTyping validates a typing batch. Empty lists are fine (the
// scorer degrades to zeros); events with zero timestamps or negative
// hesitation durations are malformed envelopes.
func NormalizeTyping(batch *TypingBatch) (TypingBatch, error) {
	if batch == nil {
		return TypingBatch{}, errors.New("typing batch required")
	}
	for i, k := range batch.Keystrokes {
		if k.Timestamp.IsZero() {
			return TypingBatch{}, errors.Errorf("keystroke %d missing timestamp", i)
		}
	}
	for i, b := range batch.Backspaces {
		if b.Timestamp.IsZero() {
			return TypingBatch{}, errors.Errorf("backspace %d missing timestamp", i)
		}
	}
	for i, h := range batch.Hesitations {
		if h.Duration < 0 || math.IsNaN(h.Duration) {
			return TypingBatch{}, errors.Errorf("hesitation %d has invalid duration %v", i, h.Duration)
		}
	}
	return *batch, nil
}

// NormalizeBiosignal validates a biosignal payload. Missing components are
// legal; present components must be in range.
func NormalizeBiosignal(payload *BiosignalPayload) (BiosignalSample, error) {
	if payload == nil {
		return BiosignalSample{}, errors.New("biosignal payload required")
	}

	sample := BiosignalSample{
		Timestamp:          payload.Timestamp,
		HeartRate:          payload.HeartRate,
		SleepDurationHours: payload.SleepDurationHours,
		SleepQuality:       payload.SleepQuality,
		StepsCount:         payload.StepsCount,
		StressLevel:        payload.StressLevel,
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now()
	}

	if hr := payload.HeartRate; hr != nil && (*hr <= 0 || *hr > 300 || math.IsNaN(*hr)) {
		return BiosignalSample{}, errors.Errorf("heart_rate out of range: %v", *hr)
	}
	if d := payload.SleepDurationHours; d != nil && (*d < 0 || *d > 24 || math.IsNaN(*d)) {
		return BiosignalSample{}, errors.Errorf("sleep_duration out of range: %v", *d)
	}
	if q := payload.SleepQuality; q != nil && (*q < 0 || *q > 1 || math.IsNaN(*q)) {
		return BiosignalSample{}, errors.Errorf("sleep_quality out of range: %v", *q)
	}
	if s := payload.StepsCount; s != nil && *s < 0 {
		return BiosignalSample{}, errors.Errorf("steps_count out of range: %d", *s)
	}
	if s := payload.StressLevel; s != nil && (*s < 0 || *s > 1 || math.IsNaN(*s)) {
		return BiosignalSample{}, errors.Errorf("stress_level out of range: %v", *s)
	}

	return sample, nil
}
