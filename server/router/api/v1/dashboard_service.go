package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/neuroalign/neuroalign/engine/biorhythm"
	"github.com/neuroalign/neuroalign/engine/signal"
	"github.com/neuroalign/neuroalign/server/auth"
	"github.com/neuroalign/neuroalign/store"
)

type dashboardOverview struct {
	TodayAssessments int               `json:"today_assessments"`
	TodayAverage     float64           `json:"today_average"`
	LatestLevel      string            `json:"latest_level"`
	CurrentEnergy    float64           `json:"current_energy"`
	NextWindow       *biorhythm.Window `json:"next_optimal_window,omitempty"`
	PendingSchedules []*store.Schedule `json:"pending_schedules"`
}

// DashboardOverview aggregates today's fatigue summary, the current
// energy state and the pending tasks into one response.
func (s *APIV1Service) DashboardOverview(c echo.Context) error {
	ctx := c.Request().Context()
	claims := auth.GetClaims(c)

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	records, err := s.Store.ListFatigueRecords(ctx, &store.FindFatigueRecord{
		UserID: &claims.UserID,
		Since:  &midnight,
	})
	if err != nil {
		return internalError(c, s.logger, "dashboard", err)
	}

	overview := dashboardOverview{TodayAssessments: len(records), LatestLevel: "low"}
	if len(records) > 0 {
		sum := 0.0
		for _, r := range records {
			sum += r.Overall
		}
		overview.TodayAverage = sum / float64(len(records))
		overview.LatestLevel = records[0].Level
	}

	sess := s.sessionFor(c)
	var pred biorhythm.Prediction
	sess.WithAnalyzer(func(a *biorhythm.Analyzer) {
		pred = a.PredictEnergy(signal.BiosignalSample{Timestamp: now})
	})
	overview.CurrentEnergy = pred.CurrentEnergy
	overview.NextWindow = nextWindow(pred.OptimalWindows, now.Hour())

	limit := 10
	pending := store.ScheduleStatusPending
	schedules, err := s.Store.ListSchedules(ctx, &store.FindSchedule{
		UserID: &claims.UserID,
		Status: &pending,
		Limit:  &limit,
	})
	if err != nil {
		return internalError(c, s.logger, "dashboard", err)
	}
	overview.PendingSchedules = schedules

	return c.JSON(http.StatusOK, overview)
}

// nextWindow picks the first window starting at or after the current
// hour, falling back to the day's first window.
func nextWindow(windows []biorhythm.Window, hour int) *biorhythm.Window {
	if len(windows) == 0 {
		return nil
	}
	for i := range windows {
		if windows[i].StartHour >= hour {
			return &windows[i]
		}
	}
	return &windows[0]
}
