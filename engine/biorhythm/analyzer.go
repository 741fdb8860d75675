// Package biorhythm implements the circadian energy predictor, the
// optimal-window detector and the greedy schedule optimizer.
//
// An Analyzer is owned by exactly one monitoring session; its rolling
// histories are unsynchronized per the engine's single-writer discipline.
package biorhythm

import (
	"time"

	"github.com/neuroalign/neuroalign/engine/signal"
	"github.com/neuroalign/neuroalign/internal/rolling"
)

// Rolling history capacities.
const (
	heartRateHistorySize = 1440 // 24h at one sample per minute
	sleepHistorySize     = 30   // 30 days of sleep entries
	activityHistorySize  = 1440 // 24h of activity samples
)

// Personal baselines. These would be personalized per user in a learning
// system; coefficients here are fixed by design.
const (
	baselineHeartRate     = 70.0
	baselineSleepHours    = 8.0
	baselineDailySteps    = 10000.0
	heartRateEnergySpread = 50.0
)

// Component weights for current energy: heart rate, sleep, activity,
// stress. The vector is truncated to the components present and NOT
// renormalized; a sample carrying only heart rate is weighted 0.3/0.3.
// Downstream consumers depend on the resulting magnitudes, so this bias
// is preserved deliberately.
var energyComponentWeights = [4]float64{0.3, 0.4, 0.2, 0.1}

// neutralEnergy is returned when no signal components are present.
const neutralEnergy = 0.5

// Forecast blending weights.
const (
	currentEnergyWeight = 0.3
	circadianWeight     = 0.4
	sleepDebtWeight     = 0.2
	activityWeight      = 0.1
)

// activityFactor stands in for historical-activity modeling, which is not
// implemented. Keep it a stable constant for output compatibility.
const activityFactor = 0.7

// ForecastHours is the prediction horizon.
const ForecastHours = 24

// EnergyForecast is the 24-value hourly forecast, index = hour of day.
type EnergyForecast [ForecastHours]float64

type heartRateEntry struct {
	Timestamp time.Time
	HeartRate float64
}

type sleepEntry struct {
	Timestamp time.Time
	Duration  float64 // hours
	Quality   float64 // [0,1]
}

type activityEntry struct {
	Timestamp time.Time
	Steps     int
}

// Analyzer maintains one session's biosignal histories and produces
// energy forecasts.
type Analyzer struct {
	heartRateHistory *rolling.Buffer[heartRateEntry]
	sleepHistory     *rolling.Buffer[sleepEntry]
	activityHistory  *rolling.Buffer[activityEntry]

	now func() time.Time
}

// Option tunes an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// NewAnalyzer creates an analyzer for a single monitoring session.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		heartRateHistory: rolling.New[heartRateEntry](heartRateHistorySize),
		sleepHistory:     rolling.New[sleepEntry](sleepHistorySize),
		activityHistory:  rolling.New[activityEntry](activityHistorySize),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Prediction is the result of one PredictEnergy call.
type Prediction struct {
	Timestamp       time.Time      `json:"timestamp"`
	CurrentEnergy   float64        `json:"current_energy_level"`
	Forecast        EnergyForecast `json:"future_energy_prediction"`
	OptimalWindows  []Window       `json:"optimal_windows"`
	Recommendations []string       `json:"recommendations"`
	Confidence      float64        `json:"confidence_score"`
}

// PredictEnergy ingests one biosignal sample, updates the rolling
// histories and produces the 24-hour forecast. An empty sample yields the
// neutral 0.5 current energy; the call never fails on missing data.
func (a *Analyzer) PredictEnergy(sample signal.BiosignalSample) Prediction {
	a.ingest(sample)

	currentEnergy := a.currentEnergy(sample)
	forecast := a.forecast(currentEnergy)
	windows := DetectWindows(forecast)

	return Prediction{
		Timestamp:       a.now(),
		CurrentEnergy:   currentEnergy,
		Forecast:        forecast,
		OptimalWindows:  windows,
		Recommendations: energyRecommendations(currentEnergy, windows, a.recentSleepAverage(3)),
		Confidence:      a.Confidence(),
	}
}

func (a *Analyzer) ingest(sample signal.BiosignalSample) {
	ts := sample.Timestamp
	if hr := sample.HeartRate; hr != nil {
		a.heartRateHistory.Push(heartRateEntry{Timestamp: ts, HeartRate: *hr})
	}
	if d := sample.SleepDurationHours; d != nil {
		quality := 1.0
		if sample.SleepQuality != nil {
			quality = *sample.SleepQuality
		}
		a.sleepHistory.Push(sleepEntry{Timestamp: ts, Duration: *d, Quality: quality})
	}
	if s := sample.StepsCount; s != nil {
		a.activityHistory.Push(activityEntry{Timestamp: ts, Steps: *s})
	}
}

// currentEnergy is the weighted average of the components present in the
// sample. Weights are truncated, not renormalized (see
// energyComponentWeights).
func (a *Analyzer) currentEnergy(sample signal.BiosignalSample) float64 {
	components := make([]float64, 0, 4)
	if hr := sample.HeartRate; hr != nil {
		deviation := *hr - baselineHeartRate
		if deviation < 0 {
			deviation = -deviation
		}
		component := 1.0 - deviation/heartRateEnergySpread
		if component < 0 {
			component = 0
		}
		components = append(components, component)
	}
	if d := sample.SleepDurationHours; d != nil {
		component := *d / baselineSleepHours
		if component > 1 {
			component = 1
		}
		if sample.SleepQuality != nil {
			component *= *sample.SleepQuality
		}
		components = append(components, component)
	}
	if s := sample.StepsCount; s != nil {
		component := float64(*s) / baselineDailySteps
		if component > 1 {
			component = 1
		}
		components = append(components, component)
	}
	if s := sample.StressLevel; s != nil {
		components = append(components, 1.0-*s)
	}

	if len(components) == 0 {
		return neutralEnergy
	}

	weightedSum, weightTotal := 0.0, 0.0
	for i, c := range components {
		weightedSum += c * energyComponentWeights[i]
		weightTotal += energyComponentWeights[i]
	}
	return weightedSum / weightTotal
}

// forecast computes the hourly energy values. Each hour is independent:
// the same current energy and sleep-debt factor feed every slot, only the
// circadian term varies.
func (a *Analyzer) forecast(currentEnergy float64) EnergyForecast {
	sleepDebt := a.sleepDebtFactor()
	var out EnergyForecast
	for hour := 0; hour < ForecastHours; hour++ {
		v := currentEnergyWeight*currentEnergy +
			circadianWeight*circadianFactor(hour) +
			sleepDebtWeight*sleepDebt +
			activityWeight*activityFactor
		out[hour] = clamp01(v)
	}
	return out
}

// circadianFactor models the typical daily alertness rhythm: morning peak
// 9-11, afternoon dip 14-16, night trough from 22:00 through 06:00.
func circadianFactor(hour int) float64 {
	switch {
	case hour >= 9 && hour <= 11:
		return 0.9
	case hour >= 14 && hour <= 16:
		return 0.4
	case hour >= 22 || hour <= 6:
		return 0.2
	default:
		return 0.7
	}
}

// sleepDebtFactor reduces predicted energy as the 7-entry sleep average
// falls below the 8h baseline, floored at 0.3. No history yields 0.5.
func (a *Analyzer) sleepDebtFactor() float64 {
	recent := a.sleepHistory.Last(7)
	if len(recent) == 0 {
		return 0.5
	}
	avg := 0.0
	for _, s := range recent {
		avg += s.Duration
	}
	avg /= float64(len(recent))

	debt := baselineSleepHours - avg
	if debt < 0 {
		debt = 0
	}
	factor := 1.0 - debt/4.0
	if factor < 0.3 {
		factor = 0.3
	}
	return factor
}

func (a *Analyzer) recentSleepAverage(n int) float64 {
	recent := a.sleepHistory.Last(n)
	if len(recent) == 0 {
		return baselineSleepHours
	}
	avg := 0.0
	for _, s := range recent {
		avg += s.Duration
	}
	return avg / float64(len(recent))
}

// Confidence grows with accumulated history, capped at 1.0 once the
// combined histories reach 100 entries.
func (a *Analyzer) Confidence() float64 {
	return clamp01(float64(a.DataPoints()) / 100.0)
}

// DataPoints is the combined length of the biosignal histories.
func (a *Analyzer) DataPoints() int {
	return a.heartRateHistory.Len() + a.sleepHistory.Len() + a.activityHistory.Len()
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
