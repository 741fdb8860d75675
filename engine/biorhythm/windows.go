package biorhythm

// windowEnergyThreshold marks an hour as high-energy.
const windowEnergyThreshold = 0.7

// Window is a run of consecutive high-energy forecast hours.
type Window struct {
	StartHour     int     `json:"start_hour"`
	EndHour       int     `json:"end_hour"`
	DurationHours int     `json:"duration_hours"`
	AvgEnergy     float64 `json:"avg_energy"`
}

// DetectWindows scans the forecast and merges consecutive hours above the
// threshold into windows. Runs do not wrap across midnight: a run touching
// hour 23 and another starting at hour 0 stay separate windows.
func DetectWindows(forecast EnergyForecast) []Window {
	windows := make([]Window, 0, 4)

	start := -1
	sum := 0.0
	for hour := 0; hour < ForecastHours; hour++ {
		if forecast[hour] > windowEnergyThreshold {
			if start < 0 {
				start = hour
				sum = 0
			}
			sum += forecast[hour]
			continue
		}
		if start >= 0 {
			windows = append(windows, makeWindow(start, hour-1, sum))
			start = -1
		}
	}
	if start >= 0 {
		windows = append(windows, makeWindow(start, ForecastHours-1, sum))
	}
	return windows
}

func makeWindow(start, end int, sum float64) Window {
	duration := end - start + 1
	return Window{
		StartHour:     start,
		EndHour:       end,
		DurationHours: duration,
		AvgEnergy:     sum / float64(duration),
	}
}
