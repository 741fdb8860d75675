package biorhythm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptimizeSchedule_RespectsEnergyRequirement(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock(8)))
	f := forecastWith(map[int]float64{10: 0.9, 15: 0.95})

	out := a.OptimizeSchedule([]PendingTask{{
		ID:                "t1",
		Title:             "deep work",
		DurationHours:     1,
		EnergyRequirement: 0.85,
		Priority:          1,
	}}, f)

	require.Len(t, out, 1)
	require.Equal(t, 15, out[0].ScheduledHour, "highest qualifying energy wins")
	require.InDelta(t, 0.95, out[0].PredictedEnergy, 1e-9)
}

func TestOptimizeSchedule_TieBreaksToEarliestHour(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock(8)))
	f := forecastWith(map[int]float64{9: 0.9, 18: 0.9})

	out := a.OptimizeSchedule([]PendingTask{{
		ID: "t1", DurationHours: 1, EnergyRequirement: 0.8, Priority: 1,
	}}, f)

	require.Equal(t, 9, out[0].ScheduledHour)
}

func TestOptimizeSchedule_FallsBackToCurrentHour(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock(14)))
	var f EnergyForecast // all zeros, nothing qualifies

	out := a.OptimizeSchedule([]PendingTask{{
		ID: "t1", DurationHours: 1, EnergyRequirement: 0.9, Priority: 1,
	}}, f)

	require.Equal(t, 14, out[0].ScheduledHour)
}

func TestOptimizeSchedule_FatigueRiskIsRequirementShortfall(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock(8)))
	f := forecastWith(map[int]float64{10: 0.8, 11: 0.6})

	out := a.OptimizeSchedule([]PendingTask{{
		ID: "t1", DurationHours: 2, EnergyRequirement: 0.8, Priority: 1,
	}}, f)

	require.Equal(t, 10, out[0].ScheduledHour)
	// avg over hours 10-11 is 0.7, shortfall 0.1.
	require.InDelta(t, 0.1, out[0].FatigueRisk, 1e-9)
	require.InDelta(t, 0.8*0.9*1.0, out[0].OptimizationScore, 1e-9)
}

func TestOptimizeSchedule_SortsByOptimizationScoreDescending(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock(8)))
	f := forecastWith(map[int]float64{10: 0.9})

	out := a.OptimizeSchedule([]PendingTask{
		{ID: "low", DurationHours: 1, EnergyRequirement: 0.5, Priority: 0.2},
		{ID: "high", DurationHours: 1, EnergyRequirement: 0.5, Priority: 0.9},
	}, f)

	require.Equal(t, "high", out[0].TaskID)
	require.Equal(t, "low", out[1].TaskID)
}

func TestOptimizeSchedule_ComplexityBoostsPlacementScore(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock(8)))
	// Two qualifying hours; a complex task still prefers the higher-energy
	// hour since complexity scales the score uniformly across hours.
	f := forecastWith(map[int]float64{9: 0.85, 10: 0.9})

	out := a.OptimizeSchedule([]PendingTask{{
		ID: "t1", DurationHours: 1, EnergyRequirement: 0.8, Priority: 1, Complexity: 0.9,
	}}, f)

	require.Equal(t, 10, out[0].ScheduledHour)
}

func TestOptimizeSchedule_ConflictBlindPlacement(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock(8)))
	f := forecastWith(map[int]float64{10: 0.9})

	out := a.OptimizeSchedule([]PendingTask{
		{ID: "a", DurationHours: 1, EnergyRequirement: 0.8, Priority: 1},
		{ID: "b", DurationHours: 1, EnergyRequirement: 0.8, Priority: 1},
	}, f)

	// Both tasks claim the same hour; overlap resolution is left to the user.
	require.Equal(t, out[0].ScheduledHour, out[1].ScheduledHour)
}

func TestNextOccurrence_ProjectsStrictlyForward(t *testing.T) {
	now := fixedClock(14)() // 14:30

	require.Equal(t, 15, nextOccurrence(now, 15).Hour())
	require.Equal(t, now.Day(), nextOccurrence(now, 15).Day())

	// 14:00 is already past 14:30, so it lands tomorrow.
	require.Equal(t, now.Day()+1, nextOccurrence(now, 14).Day())
	// So does an earlier hour.
	require.Equal(t, now.Day()+1, nextOccurrence(now, 9).Day())
}
