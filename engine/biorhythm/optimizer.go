package biorhythm

import (
	"sort"
	"time"
)

// PendingTask is one unscheduled task submitted to the optimizer.
type PendingTask struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	DurationHours     int     `json:"duration_hours"`
	EnergyRequirement float64 `json:"energy_requirement"`
	Priority          float64 `json:"priority"`
	Complexity        float64 `json:"complexity"`
}

// OptimizedTask is a task placed into a concrete hour slot.
type OptimizedTask struct {
	TaskID            string    `json:"task_id"`
	Title             string    `json:"title"`
	ScheduledHour     int       `json:"scheduled_hour"`
	ScheduledAt       time.Time `json:"scheduled_at"`
	DurationHours     int       `json:"duration_hours"`
	PredictedEnergy   float64   `json:"predicted_energy"`
	FatigueRisk       float64   `json:"fatigue_risk"`
	OptimizationScore float64   `json:"optimization_score"`
}

// OptimizeSchedule places each task independently into the forecast hour
// that maximizes energy*priority*(1+complexity) among the hours meeting the
// task's energy requirement. Tasks are placed conflict-blind: two tasks may
// land on the same hour, leaving the final arbitration to the user. Ties
// resolve to the earliest hour; if no hour satisfies the requirement the
// task falls back to the current hour. Results are sorted by descending
// optimization score.
func (a *Analyzer) OptimizeSchedule(tasks []PendingTask, forecast EnergyForecast) []OptimizedTask {
	now := a.now()
	currentHour := now.Hour()

	out := make([]OptimizedTask, 0, len(tasks))
	for _, task := range tasks {
		bestHour := -1
		bestScore := 0.0
		for hour := 0; hour < ForecastHours; hour++ {
			if forecast[hour] < task.EnergyRequirement {
				continue
			}
			score := forecast[hour] * task.Priority * (1 + task.Complexity)
			if bestHour < 0 || score > bestScore {
				bestHour = hour
				bestScore = score
			}
		}
		if bestHour < 0 {
			bestHour = currentHour
		}

		energy := forecast[bestHour]
		risk := fatigueRisk(task, bestHour, forecast)
		out = append(out, OptimizedTask{
			TaskID:            task.ID,
			Title:             task.Title,
			ScheduledHour:     bestHour,
			ScheduledAt:       nextOccurrence(now, bestHour),
			DurationHours:     task.DurationHours,
			PredictedEnergy:   energy,
			FatigueRisk:       risk,
			OptimizationScore: energy * (1 - risk) * task.Priority,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OptimizationScore > out[j].OptimizationScore
	})
	return out
}

// fatigueRisk is the shortfall between the task's energy requirement and
// the average forecast energy over its duration, clamped to [0,1]. The
// duration window is truncated at the end of the forecast horizon.
func fatigueRisk(task PendingTask, startHour int, forecast EnergyForecast) float64 {
	duration := task.DurationHours
	if duration < 1 {
		duration = 1
	}
	end := startHour + duration
	if end > ForecastHours {
		end = ForecastHours
	}

	sum := 0.0
	for hour := startHour; hour < end; hour++ {
		sum += forecast[hour]
	}
	avg := sum / float64(end-startHour)
	return clamp01(task.EnergyRequirement - avg)
}

// nextOccurrence projects an hour-of-day to the next wall-clock time
// strictly after now.
func nextOccurrence(now time.Time, hour int) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !at.After(now) {
		at = at.Add(24 * time.Hour)
	}
	return at
}
