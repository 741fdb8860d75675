package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/neuroalign/neuroalign/engine/biorhythm"
	"github.com/neuroalign/neuroalign/engine/signal"
	"github.com/neuroalign/neuroalign/server/auth"
	"github.com/neuroalign/neuroalign/store"
)

// PredictEnergy ingests a biosignal sample and returns the 24-hour
// forecast with optimal windows and recommendations.
func (s *APIV1Service) PredictEnergy(c echo.Context) error {
	ctx := c.Request().Context()
	claims := auth.GetClaims(c)
	payload := &signal.BiosignalPayload{}
	if err := c.Bind(payload); err != nil {
		return badRequest("malformed biosignal payload")
	}

	sess := s.sessionFor(c)
	if !sess.AllowEvent() {
		s.Metrics.RecordRejection("rate_limited")
		return echo.NewHTTPError(http.StatusTooManyRequests, errorResponse{Message: "event rate limit exceeded"})
	}

	sample, err := signal.NormalizeBiosignal(payload)
	if err != nil {
		s.Metrics.RecordRejection("invalid_biosignal")
		return badRequest(err.Error())
	}

	started := time.Now()
	var pred biorhythm.Prediction
	sess.WithAnalyzer(func(a *biorhythm.Analyzer) {
		pred = a.PredictEnergy(sample)
	})
	s.Metrics.RecordBiosignal(time.Since(started))
	s.Metrics.SetEnergyLevel(pred.CurrentEnergy)

	forecastJSON, err := json.Marshal(pred.Forecast)
	if err != nil {
		return internalError(c, s.logger, "predict-energy", err)
	}
	if _, err := s.Store.CreateBioRhythmRecord(ctx, &store.BioRhythmRecord{
		UserID:      claims.UserID,
		SessionID:   sess.ID,
		EnergyLevel: pred.CurrentEnergy,
		Confidence:  pred.Confidence,
		Forecast:    string(forecastJSON),
	}); err != nil {
		return internalError(c, s.logger, "predict-energy", err)
	}

	if s.Insight != nil && s.Insight.Enabled() {
		pred.Recommendations = s.Insight.EnergyGuidance(ctx, pred)
	}
	return c.JSON(http.StatusOK, pred)
}

type optimizeScheduleRequest struct {
	Tasks []biorhythm.PendingTask `json:"tasks"`
}

// OptimizeSchedule places the submitted tasks onto the session's current
// forecast.
func (s *APIV1Service) OptimizeSchedule(c echo.Context) error {
	req := &optimizeScheduleRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest("malformed optimize request")
	}
	if len(req.Tasks) == 0 {
		return badRequest("at least one task required")
	}

	sess := s.sessionFor(c)
	var optimized []biorhythm.OptimizedTask
	sess.WithAnalyzer(func(a *biorhythm.Analyzer) {
		pred := a.PredictEnergy(signal.BiosignalSample{Timestamp: time.Now()})
		optimized = a.OptimizeSchedule(req.Tasks, pred.Forecast)
	})

	return c.JSON(http.StatusOK, map[string]any{
		"optimized_tasks": optimized,
		"count":           len(optimized),
	})
}

// OptimalWindows returns the high-energy windows of the current forecast.
func (s *APIV1Service) OptimalWindows(c echo.Context) error {
	sess := s.sessionFor(c)

	var pred biorhythm.Prediction
	sess.WithAnalyzer(func(a *biorhythm.Analyzer) {
		pred = a.PredictEnergy(signal.BiosignalSample{Timestamp: time.Now()})
	})

	return c.JSON(http.StatusOK, map[string]any{
		"optimal_windows": pred.OptimalWindows,
		"forecast":        pred.Forecast,
		"confidence":      pred.Confidence,
	})
}
