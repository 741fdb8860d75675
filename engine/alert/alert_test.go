package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neuroalign/neuroalign/engine/fatigue"
)

func newTestEngine(t *testing.T, rules []Rule) *Engine {
	t.Helper()
	e, err := NewEngine(rules, nil)
	require.NoError(t, err)
	return e
}

func assessmentWithScore(score float64) fatigue.Assessment {
	return fatigue.Assessment{
		Overall:    score,
		Level:      fatigue.ClassifyLevel(score),
		Confidence: 0.5,
	}
}

func TestEngine_DefaultRulesFireByBand(t *testing.T) {
	cases := []struct {
		score    float64
		wantRule string
	}{
		{0.85, "critical-fatigue"},
		{0.7, "high-fatigue"},
		{0.5, "rising-fatigue"},
	}
	for _, tc := range cases {
		e := newTestEngine(t, DefaultRules())
		alerts := e.Evaluate(assessmentWithScore(tc.score))
		require.Len(t, alerts, 1, "score %v", tc.score)
		require.Equal(t, tc.wantRule, alerts[0].Rule)
	}
}

func TestEngine_LowScoreIsSilent(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	require.Empty(t, e.Evaluate(assessmentWithScore(0.2)))
}

func TestEngine_CooldownSuppressesRepeats(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }

	require.Len(t, e.Evaluate(assessmentWithScore(0.9)), 1)
	require.Empty(t, e.Evaluate(assessmentWithScore(0.9)), "inside cooldown")

	e.now = func() time.Time { return base.Add(6 * time.Minute) }
	require.Len(t, e.Evaluate(assessmentWithScore(0.9)), 1, "cooldown expired")
}

func TestEngine_CustomRuleOverLevelVariable(t *testing.T) {
	e := newTestEngine(t, []Rule{{
		Name:       "low-confidence-critical",
		Severity:   SeverityWarning,
		Expression: `fatigue_level == "critical" && confidence < 0.6`,
		Message:    "Critical reading with low confidence; verify sensors.",
	}})

	alerts := e.Evaluate(assessmentWithScore(0.9))
	require.Len(t, alerts, 1)
	require.Equal(t, SeverityWarning, alerts[0].Severity)
}

func TestNewEngine_RejectsInvalidExpression(t *testing.T) {
	_, err := NewEngine([]Rule{{Name: "broken", Expression: "overall_score >"}}, nil)
	require.Error(t, err)
}
