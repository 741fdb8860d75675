package fatigue

import "time"

// Level is the discrete fatigue classification.
type Level string

const (
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Aggregate weighting across the three fatigue sources.
const (
	facialSourceWeight     = 0.4
	typingSourceWeight     = 0.3
	historicalSourceWeight = 0.3

	// confidenceSaturation is the total biosignal history size at which
	// assessment confidence reaches 1.0.
	confidenceSaturation = 100.0
)

// Assessment is the blended fatigue verdict for a session.
type Assessment struct {
	Timestamp       time.Time `json:"timestamp"`
	Overall         float64   `json:"overall_fatigue_score"`
	FacialComponent float64   `json:"facial_fatigue_score"`
	TypingComponent float64   `json:"typing_fatigue_score"`
	Historical      float64   `json:"historical_fatigue_score"`
	Level           Level     `json:"fatigue_level"`
	Confidence      float64   `json:"confidence"`
	Recommendations []string  `json:"recommendations"`
}

// Aggregate blends the facial and typing components (mean of the last 10
// history samples each) with a historical score supplied by the caller's
// storage layer. bioDataPoints is the combined length of the biosignal
// histories and drives the confidence value.
func (d *Detector) Aggregate(historical float64, bioDataPoints int) Assessment {
	facial := meanFacialFatigue(d.facialHistory.Last(aggregationWindow))
	typing := meanTypingFatigue(d.typingHistory.Last(aggregationWindow))

	overall := clamp01(facialSourceWeight*facial +
		typingSourceWeight*typing +
		historicalSourceWeight*clamp01(historical))
	level := ClassifyLevel(overall)

	d.scoreHistory.Push(overall)

	return Assessment{
		Timestamp:       d.now(),
		Overall:         overall,
		FacialComponent: facial,
		TypingComponent: typing,
		Historical:      clamp01(historical),
		Level:           level,
		Confidence:      clamp01(float64(bioDataPoints) / confidenceSaturation),
		Recommendations: Recommendations(level),
	}
}

// ScoreHistory exposes the rolling overall scores, oldest first.
func (d *Detector) ScoreHistory() []float64 {
	return d.scoreHistory.All()
}

// ClassifyLevel maps an overall score onto the discrete fatigue level.
func ClassifyLevel(score float64) Level {
	switch {
	case score < 0.3:
		return LevelLow
	case score < 0.6:
		return LevelModerate
	case score < 0.8:
		return LevelHigh
	default:
		return LevelCritical
	}
}

func meanFacialFatigue(metrics []FrameMetrics) float64 {
	if len(metrics) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, m := range metrics {
		sum += m.FacialFatigue
	}
	return sum / float64(len(metrics))
}

func meanTypingFatigue(samples []TypingSample) float64 {
	if len(samples) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s.TypingFatigue
	}
	return sum / float64(len(samples))
}

// Recommendations returns the static guidance list for a fatigue level.
func Recommendations(level Level) []string {
	switch level {
	case LevelLow:
		return []string{
			"Continue with current activity",
			"Maintain good posture",
			"Take regular short breaks",
		}
	case LevelModerate:
		return []string{
			"Take a 5-minute break",
			"Do some light stretching",
			"Hydrate and have a healthy snack",
		}
	case LevelHigh:
		return []string{
			"Take a 15-minute break",
			"Step away from the screen",
			"Consider switching to less demanding tasks",
			"Practice deep breathing exercises",
		}
	default:
		return []string{
			"Stop current activity immediately",
			"Take a 30-minute break",
			"Consider ending work session",
			"Get some rest or sleep",
		}
	}
}
