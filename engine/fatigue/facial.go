package fatigue

import "time"

// FrameMetrics is the result of analyzing one webcam frame. When no face
// was detected all score fields are zero and FaceDetected is false; that
// all-zero record is a no-signal sentinel, not a measured zero.
type FrameMetrics struct {
	Timestamp          time.Time `json:"timestamp"`
	FaceDetected       bool      `json:"face_detected"`
	FacialFatigue      float64   `json:"facial_fatigue_score"`
	BlinkRate          float64   `json:"blink_rate"` // blinks per second
	EyeClosureDuration float64   `json:"eye_closure_duration"`
	FacialTension      float64   `json:"facial_tension_score"`
	SmileFrequency     float64   `json:"smile_frequency"`
}

// Facial fatigue weighting. Elevated blink rate and reduced smiling are the
// strongest fatigue correlates; weights are fixed design constants.
const (
	facialBlinkWeight   = 0.4
	facialClosureWeight = 0.3
	facialTensionWeight = 0.2
	facialSmileWeight   = 0.1

	// blinkRateNorm maps blinks/second onto [0,1]; 0.5/s saturates.
	blinkRateNorm = 0.5
)

// facialFatigueScore combines the per-frame facial indicators into one
// score in [0,1]. norm is the blink rate that saturates the blink
// component.
func facialFatigueScore(blinkRate, eyeClosure, tension, smileFrequency, norm float64) float64 {
	normalizedBlinkRate := clamp01(blinkRate / norm)
	score := facialBlinkWeight*normalizedBlinkRate +
		facialClosureWeight*eyeClosure +
		facialTensionWeight*tension +
		facialSmileWeight*(1.0-smileFrequency)
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
