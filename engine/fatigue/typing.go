package fatigue

import (
	"time"

	"github.com/neuroalign/neuroalign/engine/signal"
)

// TypingSample is the result of scoring one typing batch. It is also the
// unit stored in the rolling typing history.
type TypingSample struct {
	Timestamp          time.Time `json:"timestamp"`
	TypingFatigue      float64   `json:"typing_fatigue_score"`
	TypingSpeed        float64   `json:"typing_speed"` // characters per minute
	HesitationScore    float64   `json:"hesitation_score"`
	BackspaceFrequency float64   `json:"backspace_frequency"`
	RhythmVariance     float64   `json:"rhythm_variance"`
}

// Typing fatigue weighting and normalization constants.
const (
	typingHesitationWeight = 0.3
	typingBackspaceWeight  = 0.3
	typingRhythmWeight     = 0.2
	typingSpeedWeight      = 0.2

	backspaceNorm   = 10.0  // backspace ratio saturates at 0.1
	rhythmNorm      = 0.1   // rhythm variance (s^2) saturates at 0.1
	typingSpeedNorm = 200.0 // chars/min considered full speed
)

// typingSpeed returns characters per minute across the batch, counting
// only keypress events. Fewer than 2 events or a zero time span degrade
// to 0 rather than failing.
func typingSpeed(keystrokes []signal.KeystrokeEvent) float64 {
	if len(keystrokes) < 2 {
		return 0.0
	}
	duration := keystrokes[len(keystrokes)-1].Timestamp.Sub(keystrokes[0].Timestamp).Minutes()
	if duration <= 0 {
		return 0.0
	}
	charCount := 0
	for _, k := range keystrokes {
		if k.Type == "keypress" {
			charCount++
		}
	}
	return float64(charCount) / duration
}

// hesitationScore returns the fraction of hesitations longer than the
// threshold (seconds).
func hesitationScore(hesitations []signal.HesitationEvent, threshold float64) float64 {
	if len(hesitations) == 0 {
		return 0.0
	}
	long := 0
	for _, h := range hesitations {
		if h.Duration > threshold {
			long++
		}
	}
	return float64(long) / float64(len(hesitations))
}

// backspaceFrequency returns backspaces per keystroke.
func backspaceFrequency(backspaces []signal.BackspaceEvent, keystrokes []signal.KeystrokeEvent) float64 {
	if len(keystrokes) == 0 {
		return 0.0
	}
	return float64(len(backspaces)) / float64(len(keystrokes))
}

// rhythmVariance returns the variance of inter-keystroke intervals in
// seconds squared. Fewer than 3 keystrokes degrade to 0.
func rhythmVariance(keystrokes []signal.KeystrokeEvent) float64 {
	if len(keystrokes) < 3 {
		return 0.0
	}
	intervals := make([]float64, 0, len(keystrokes)-1)
	for i := 1; i < len(keystrokes); i++ {
		intervals = append(intervals, keystrokes[i].Timestamp.Sub(keystrokes[i-1].Timestamp).Seconds())
	}
	mean := 0.0
	for _, v := range intervals {
		mean += v
	}
	mean /= float64(len(intervals))
	variance := 0.0
	for _, v := range intervals {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(intervals))
}

// typingFatigueScore combines the typing sub-metrics into one score in [0,1].
func typingFatigueScore(speed, hesitation, backspaceFreq, rhythm float64) float64 {
	score := typingHesitationWeight*hesitation +
		typingBackspaceWeight*clamp01(backspaceFreq*backspaceNorm) +
		typingRhythmWeight*clamp01(rhythm/rhythmNorm) +
		typingSpeedWeight*(1.0-clamp01(speed/typingSpeedNorm))
	return clamp01(score)
}
