package biorhythm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func forecastWith(values map[int]float64) EnergyForecast {
	var f EnergyForecast
	for i := range f {
		f[i] = 0.5
	}
	for hour, v := range values {
		f[hour] = v
	}
	return f
}

func TestDetectWindows_MergesConsecutiveHighHours(t *testing.T) {
	f := forecastWith(map[int]float64{0: 0.8, 1: 0.8, 2: 0.5, 3: 0.9})
	windows := DetectWindows(f)

	require.Equal(t, []Window{
		{StartHour: 0, EndHour: 1, DurationHours: 2, AvgEnergy: 0.8},
		{StartHour: 3, EndHour: 3, DurationHours: 1, AvgEnergy: 0.9},
	}, windows)
}

func TestDetectWindows_ThresholdIsExclusive(t *testing.T) {
	f := forecastWith(map[int]float64{5: 0.7})
	require.Empty(t, DetectWindows(f), "exactly 0.7 does not qualify")
}

func TestDetectWindows_RunEndingAtMidnightCloses(t *testing.T) {
	f := forecastWith(map[int]float64{22: 0.85, 23: 0.75})
	windows := DetectWindows(f)

	require.Len(t, windows, 1)
	require.Equal(t, 22, windows[0].StartHour)
	require.Equal(t, 23, windows[0].EndHour)
	require.InDelta(t, 0.8, windows[0].AvgEnergy, 1e-9)
}

func TestDetectWindows_NoWrapAcrossMidnight(t *testing.T) {
	f := forecastWith(map[int]float64{23: 0.9, 0: 0.9, 1: 0.9})
	windows := DetectWindows(f)

	// Hours 0-1 and hour 23 are reported as two windows even though they
	// would be contiguous on a clock.
	require.Len(t, windows, 2)
	require.Equal(t, 0, windows[0].StartHour)
	require.Equal(t, 1, windows[0].EndHour)
	require.Equal(t, 23, windows[1].StartHour)
	require.Equal(t, 23, windows[1].EndHour)
}
