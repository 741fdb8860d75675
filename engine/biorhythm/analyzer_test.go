package biorhythm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neuroalign/neuroalign/engine/signal"
)

func fixedClock(hour int) func() time.Time {
	t := time.Date(2026, 3, 10, hour, 30, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

func TestPredictEnergy_EmptySampleIsNeutral(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock(10)))
	pred := a.PredictEnergy(signal.BiosignalSample{Timestamp: a.now()})

	require.InDelta(t, 0.5, pred.CurrentEnergy, 1e-9)
	require.Len(t, pred.Forecast, ForecastHours)
	require.Zero(t, pred.Confidence, "empty sample adds no history")
}

func TestCurrentEnergy_SingleComponentKeepsItsWeight(t *testing.T) {
	a := NewAnalyzer()

	// Heart rate at baseline scores 1.0; with only one component present the
	// 0.3 weight divides out and the result is the component itself.
	e := a.currentEnergy(signal.BiosignalSample{HeartRate: f64(70)})
	require.InDelta(t, 1.0, e, 1e-9)
}

func TestCurrentEnergy_TruncatedWeightsAreNotRenormalizedByPosition(t *testing.T) {
	a := NewAnalyzer()

	// Heart rate and stress fill slots 0 and 1, so stress is weighted 0.4
	// even though its canonical weight is 0.1. The positional weighting is
	// part of the output contract.
	e := a.currentEnergy(signal.BiosignalSample{
		HeartRate:   f64(70),  // component 1.0, weight 0.3
		StressLevel: f64(1.0), // component 0.0, weight 0.4
	})
	require.InDelta(t, 0.3/0.7, e, 1e-9)
}

func TestCurrentEnergy_FullSample(t *testing.T) {
	a := NewAnalyzer()

	e := a.currentEnergy(signal.BiosignalSample{
		HeartRate:          f64(70),    // 1.0
		SleepDurationHours: f64(8),     // 1.0 (quality defaults to 1)
		StepsCount:         i(5000),    // 0.5
		StressLevel:        f64(0.2),   // 0.8
	})
	want := 0.3*1.0 + 0.4*1.0 + 0.2*0.5 + 0.1*0.8
	require.InDelta(t, want, e, 1e-9)
}

func TestCircadianFactor_Curve(t *testing.T) {
	cases := map[int]float64{
		0: 0.2, 6: 0.2, 7: 0.7, 9: 0.9, 11: 0.9, 12: 0.7,
		14: 0.4, 16: 0.4, 17: 0.7, 21: 0.7, 22: 0.2, 23: 0.2,
	}
	for hour, want := range cases {
		require.InDelta(t, want, circadianFactor(hour), 1e-9, "hour %d", hour)
	}
}

func TestSleepDebtFactor_FlooredAtPointThree(t *testing.T) {
	a := NewAnalyzer()
	for i := 0; i < 7; i++ {
		a.ingest(signal.BiosignalSample{SleepDurationHours: f64(2)})
	}
	// avg 2h, debt 6h, raw factor 1-6/4 = -0.5, floored.
	require.InDelta(t, 0.3, a.sleepDebtFactor(), 1e-9)
}

func TestSleepDebtFactor_NoHistory(t *testing.T) {
	a := NewAnalyzer()
	require.InDelta(t, 0.5, a.sleepDebtFactor(), 1e-9)
}

func TestForecast_ValuesClampedAndHourlyShaped(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock(9)))
	pred := a.PredictEnergy(signal.BiosignalSample{
		Timestamp: a.now(),
		HeartRate: f64(70),
	})

	for hour, v := range pred.Forecast {
		require.GreaterOrEqual(t, v, 0.0, "hour %d", hour)
		require.LessOrEqual(t, v, 1.0, "hour %d", hour)
	}
	// Morning peak outranks the night trough.
	require.Greater(t, pred.Forecast[10], pred.Forecast[23])
}

func TestConfidence_GrowsWithHistoryAndCaps(t *testing.T) {
	a := NewAnalyzer()
	require.Zero(t, a.Confidence())

	for n := 0; n < 50; n++ {
		a.ingest(signal.BiosignalSample{HeartRate: f64(72)})
	}
	require.InDelta(t, 0.5, a.Confidence(), 1e-9)

	for n := 0; n < 200; n++ {
		a.ingest(signal.BiosignalSample{HeartRate: f64(72)})
	}
	require.InDelta(t, 1.0, a.Confidence(), 1e-9)
}
