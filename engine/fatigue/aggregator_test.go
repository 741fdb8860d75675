package fatigue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neuroalign/neuroalign/engine/signal"
)

func frameWith(tension float64) signal.FrameSample {
	return signal.FrameSample{
		Timestamp:     time.Now(),
		FaceDetected:  true,
		EAR:           0.35,
		FacialTension: tension,
	}
}

func TestClassifyLevel_Thresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0.0, LevelLow},
		{0.29, LevelLow},
		{0.3, LevelModerate},
		{0.59, LevelModerate},
		{0.6, LevelHigh},
		{0.79, LevelHigh},
		{0.8, LevelCritical},
		{1.0, LevelCritical},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ClassifyLevel(tt.score), "score %v", tt.score)
	}
}

func TestAggregate_EmptyHistoriesUseHistoricalOnly(t *testing.T) {
	d := NewDetector(Config{})
	a := d.Aggregate(0.5, 0)
	require.InDelta(t, 0.3*0.5, a.Overall, 1e-9)
	require.Zero(t, a.FacialComponent)
	require.Zero(t, a.TypingComponent)
	require.Equal(t, LevelLow, a.Level)
	require.Zero(t, a.Confidence)
	require.NotEmpty(t, a.Recommendations)
}

func TestAggregate_HistoricalClamped(t *testing.T) {
	d := NewDetector(Config{})
	a := d.Aggregate(5.0, 0)
	require.LessOrEqual(t, a.Overall, 1.0)
	require.InDelta(t, 1.0, a.Historical, 1e-9)
}

func TestAggregate_ConfidenceMonotonic(t *testing.T) {
	d := NewDetector(Config{})
	prev := -1.0
	for _, points := range []int{0, 10, 50, 99, 100, 500} {
		a := d.Aggregate(0, points)
		require.GreaterOrEqual(t, a.Confidence, prev)
		prev = a.Confidence
	}
	require.InDelta(t, 1.0, prev, 1e-9, "confidence caps at 1.0 from 100 points")
}

func TestAggregate_BlendsRecentHistories(t *testing.T) {
	d := NewDetector(Config{})
	for i := 0; i < 15; i++ {
		d.ProcessFrame(frameWith(0.5))
	}
	d.ProcessTypingBatch(signal.TypingBatch{})

	a := d.Aggregate(0.4, 120)
	require.Greater(t, a.FacialComponent, 0.0)
	require.Greater(t, a.TypingComponent, 0.0)
	want := clamp01(0.4*a.FacialComponent + 0.3*a.TypingComponent + 0.3*0.4)
	require.InDelta(t, want, a.Overall, 1e-9)
	require.InDelta(t, 1.0, a.Confidence, 1e-9)
}

func TestProcessFrame_NoFaceSentinel(t *testing.T) {
	d := NewDetector(Config{})
	m := d.ProcessFrame(signal.FrameSample{FaceDetected: false})
	require.False(t, m.FaceDetected)
	require.Zero(t, m.FacialFatigue)
	require.Zero(t, m.BlinkRate)
	require.Empty(t, d.FacialHistory(), "sentinel frames do not enter the history")
}

func TestRecommendations_PerLevel(t *testing.T) {
	for _, level := range []Level{LevelLow, LevelModerate, LevelHigh, LevelCritical} {
		require.NotEmpty(t, Recommendations(level))
	}
	require.Len(t, Recommendations(LevelCritical), 4)
}
