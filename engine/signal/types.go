// Package signal converts raw monitoring payloads into typed samples
// consumed by the analyzers. Validation happens here; everything past the
// normalizer is degraded-but-valid by construction.
package signal

import "time"

// Point is a normalized 2D landmark coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FramePayload is one webcam frame's worth of landmark geometry, as
// delivered by the external landmark extractor. When no face was detected
// the eye contours are absent and FaceDetected is false.
type FramePayload struct {
	Timestamp    time.Time `json:"timestamp"`
	FaceDetected bool      `json:"face_detected"`

	// Six eye-contour points per eye, ordered p1..p6 around the contour.
	LeftEye  []Point `json:"left_eye,omitempty"`
	RightEye []Point `json:"right_eye,omitempty"`

	// Auxiliary per-frame facial metrics supplied by the extractor.
	EyeClosureDuration float64 `json:"eye_closure_duration"`
	FacialTension      float64 `json:"facial_tension"`
	SmileFrequency     float64 `json:"smile_frequency"`
}

// FrameSample is a normalized frame ready for the blink state machine.
type FrameSample struct {
	Timestamp          time.Time
	FaceDetected       bool
	EAR                float64 // averaged eye aspect ratio, 0 when no face
	EyeClosureDuration float64
	FacialTension      float64
	SmileFrequency     float64
}

// KeystrokeEvent is a single key event within a typing batch.
type KeystrokeEvent struct {
	Type      string    `json:"type"` // "keypress" or "keydown" variants; only "keypress" counts toward speed
	Timestamp time.Time `json:"timestamp"`
}

// BackspaceEvent is a correction event within a typing batch.
type BackspaceEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// HesitationEvent is a detected pause within a typing batch.
type HesitationEvent struct {
	Duration float64 `json:"duration"` // seconds
}

// TypingBatch carries the raw event lists of one typing observation window.
type TypingBatch struct {
	Keystrokes  []KeystrokeEvent  `json:"keystrokes"`
	Backspaces  []BackspaceEvent  `json:"backspaces"`
	Hesitations []HesitationEvent `json:"hesitations"`
}

// BiosignalPayload is one wearable reading. All signal fields are optional;
// absent components are omitted from downstream weighting, not defaulted.
type BiosignalPayload struct {
	Timestamp          time.Time `json:"timestamp"`
	HeartRate          *float64  `json:"heart_rate,omitempty"`
	SleepDurationHours *float64  `json:"sleep_duration,omitempty"`
	SleepQuality       *float64  `json:"sleep_quality,omitempty"` // [0,1]
	StepsCount         *int      `json:"steps_count,omitempty"`
	StressLevel        *float64  `json:"stress_level,omitempty"` // [0,1]
}

// BiosignalSample is a validated biosignal reading. Immutable once created.
type BiosignalSample struct {
	Timestamp          time.Time
	HeartRate          *float64
	SleepDurationHours *float64
	SleepQuality       *float64
	StepsCount         *int
	StressLevel        *float64
}

// IsEmpty reports whether the sample carries no signal components at all.
func (s BiosignalSample) IsEmpty() bool {
	return s.HeartRate == nil && s.SleepDurationHours == nil &&
		s.StepsCount == nil && s.StressLevel == nil
}
