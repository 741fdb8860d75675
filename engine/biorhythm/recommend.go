package biorhythm

import "fmt"

// energyRecommendations turns the prediction into short actionable advice.
func energyRecommendations(currentEnergy float64, windows []Window, recentSleepAvg float64) []string {
	recs := make([]string, 0, 3)

	switch {
	case currentEnergy < 0.3:
		recs = append(recs, "Energy is very low. Consider a short break or a 20-minute nap.")
	case currentEnergy < 0.5:
		recs = append(recs, "Energy is below average. Schedule light tasks and take regular breaks.")
	case currentEnergy > 0.8:
		recs = append(recs, "Energy is high. This is a good time for demanding work.")
	}

	if len(windows) > 0 {
		best := windows[0]
		for _, w := range windows[1:] {
			if w.AvgEnergy > best.AvgEnergy {
				best = w
			}
		}
		recs = append(recs, fmt.Sprintf(
			"Your best focus window is %02d:00-%02d:00. Reserve it for your most important task.",
			best.StartHour, best.EndHour+1))
	} else {
		recs = append(recs, "No high-energy windows predicted today. Prioritize rest and recovery.")
	}

	if recentSleepAvg < 7 {
		recs = append(recs, fmt.Sprintf(
			"Recent sleep averages %.1f hours. Aim for at least 7 hours to improve tomorrow's energy.",
			recentSleepAvg))
	}

	return recs
}
