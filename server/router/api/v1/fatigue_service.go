package v1

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/neuroalign/neuroalign/engine/alert"
	"github.com/neuroalign/neuroalign/engine/biorhythm"
	"github.com/neuroalign/neuroalign/engine/fatigue"
	"github.com/neuroalign/neuroalign/engine/session"
	"github.com/neuroalign/neuroalign/engine/signal"
	"github.com/neuroalign/neuroalign/server/auth"
	"github.com/neuroalign/neuroalign/store"
)

// historicalWindow is how many stored assessments feed the historical
// component of the overall score.
const historicalWindow = 20

func (s *APIV1Service) sessionFor(c echo.Context) *session.Session {
	claims := auth.GetClaims(c)
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		sessionID = c.Request().Header.Get("X-Session-ID")
	}
	userID := ""
	if claims != nil {
		userID = strconv.Itoa(int(claims.UserID))
	}
	sess := s.Registry.GetOrCreate(sessionID, userID)
	s.Metrics.SetActiveSessions(s.Registry.Len())
	return sess
}

// AnalyzeFrame runs one webcam frame through the fatigue pipeline.
func (s *APIV1Service) AnalyzeFrame(c echo.Context) error {
	payload := &signal.FramePayload{}
	if err := c.Bind(payload); err != nil {
		return badRequest("malformed frame payload")
	}

	sess := s.sessionFor(c)
	if !sess.AllowFrame() {
		s.Metrics.RecordRejection("rate_limited")
		return echo.NewHTTPError(http.StatusTooManyRequests, errorResponse{Message: "frame rate limit exceeded"})
	}

	if err := s.frameSemaphore.Acquire(c.Request().Context(), 1); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, errorResponse{Message: "analysis capacity exhausted"})
	}
	defer s.frameSemaphore.Release(1)

	sample, err := signal.NormalizeFrame(payload)
	if err != nil {
		s.Metrics.RecordRejection("invalid_frame")
		return badRequest(err.Error())
	}

	started := time.Now()
	var metrics fatigue.FrameMetrics
	sess.WithDetector(func(d *fatigue.Detector) {
		metrics = d.ProcessFrame(sample)
	})
	s.Metrics.RecordFrame(sample.FaceDetected, time.Since(started))
	s.Metrics.SetFatigueScore("facial", metrics.FacialFatigue)

	return c.JSON(http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"metrics":    metrics,
	})
}

// AnalyzeTyping scores one typing batch.
func (s *APIV1Service) AnalyzeTyping(c echo.Context) error {
	payload := &signal.TypingBatch{}
	if err := c.Bind(payload); err != nil {
		return badRequest("malformed typing payload")
	}

	sess := s.sessionFor(c)
	if !sess.AllowEvent() {
		s.Metrics.RecordRejection("rate_limited")
		return echo.NewHTTPError(http.StatusTooManyRequests, errorResponse{Message: "event rate limit exceeded"})
	}

	batch, err := signal.NormalizeTyping(payload)
	if err != nil {
		s.Metrics.RecordRejection("invalid_typing")
		return badRequest(err.Error())
	}

	started := time.Now()
	var sample fatigue.TypingSample
	sess.WithDetector(func(d *fatigue.Detector) {
		sample = d.ProcessTypingBatch(batch)
	})
	s.Metrics.RecordTypingBatch(time.Since(started))
	s.Metrics.SetFatigueScore("typing", sample.TypingFatigue)

	return c.JSON(http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"sample":     sample,
	})
}

// OverallScore blends the session's components with the stored history,
// persists the assessment and fires alert rules.
func (s *APIV1Service) OverallScore(c echo.Context) error {
	ctx := c.Request().Context()
	claims := auth.GetClaims(c)
	sess := s.sessionFor(c)

	assessment, err := s.assessAndPersist(ctx, claims.UserID, sess)
	if err != nil {
		return internalError(c, s.logger, "overall-score", err)
	}

	if s.Insight != nil && s.Insight.Enabled() {
		assessment.Recommendations = s.Insight.FatigueGuidance(ctx, assessment)
	}
	return c.JSON(http.StatusOK, assessment)
}

// assessAndPersist computes the overall assessment for a session, writes a
// fatigue record, and routes any fired alerts. Shared with the websocket
// path.
func (s *APIV1Service) assessAndPersist(ctx context.Context, userID int32, sess *session.Session) (fatigue.Assessment, error) {
	historical, err := s.historicalScore(ctx, userID)
	if err != nil {
		return fatigue.Assessment{}, err
	}

	var assessment fatigue.Assessment
	sess.WithBoth(func(d *fatigue.Detector, a *biorhythm.Analyzer) {
		assessment = d.Aggregate(historical, a.DataPoints())
	})
	s.Metrics.SetFatigueScore("overall", assessment.Overall)

	if _, err := s.Store.CreateFatigueRecord(ctx, &store.FatigueRecord{
		UserID:     userID,
		SessionID:  sess.ID,
		Overall:    assessment.Overall,
		Facial:     assessment.FacialComponent,
		Typing:     assessment.TypingComponent,
		Historical: assessment.Historical,
		Level:      string(assessment.Level),
		Confidence: assessment.Confidence,
	}); err != nil {
		return fatigue.Assessment{}, err
	}

	for _, fired := range s.Alerts.Evaluate(assessment) {
		s.Metrics.RecordAlert(string(fired.Severity))
		s.Hub.SendToUser(userID, "alert", fired)
		// In-app delivery is unconditional; external channels only see
		// alerts at or above the configured fatigue threshold.
		if s.shouldPushExternally(fired) {
			for channel, nerr := range s.Notifier.Notify(ctx, fired) {
				s.logger.Warn("alert delivery failed", "channel", channel, "err", nerr)
			}
		}
	}
	return assessment, nil
}

func (s *APIV1Service) shouldPushExternally(fired alert.Alert) bool {
	return s.Notifier != nil && fired.Score >= s.Profile.FatigueThreshold
}

// historicalScore averages the user's recent stored assessments; no
// history contributes a zero component, matching a brand-new account.
func (s *APIV1Service) historicalScore(ctx context.Context, userID int32) (float64, error) {
	limit := historicalWindow
	records, err := s.Store.ListFatigueRecords(ctx, &store.FindFatigueRecord{
		UserID: &userID,
		Limit:  &limit,
	})
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	sum := 0.0
	for _, r := range records {
		sum += r.Overall
	}
	return sum / float64(len(records)), nil
}

func daysParam(c echo.Context) int {
	days, err := strconv.Atoi(c.QueryParam("days"))
	if err != nil || days <= 0 {
		return 7
	}
	return days
}

// FatigueHistory lists the user's stored assessments for the last N days.
func (s *APIV1Service) FatigueHistory(c echo.Context) error {
	claims := auth.GetClaims(c)
	since := time.Now().AddDate(0, 0, -daysParam(c))

	records, err := s.Store.ListFatigueRecords(c.Request().Context(), &store.FindFatigueRecord{
		UserID: &claims.UserID,
		Since:  &since,
	})
	if err != nil {
		return internalError(c, s.logger, "fatigue-history", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

type fatigueStats struct {
	Days             int     `json:"days"`
	Count            int     `json:"count"`
	Average          float64 `json:"average"`
	Max              float64 `json:"max"`
	Min              float64 `json:"min"`
	Trend            string  `json:"trend"`
	HighFatigueCount int     `json:"high_fatigue_count"`
}

// FatigueStats summarizes the user's assessments over the last N days.
func (s *APIV1Service) FatigueStats(c echo.Context) error {
	claims := auth.GetClaims(c)
	days := daysParam(c)
	since := time.Now().AddDate(0, 0, -days)

	records, err := s.Store.ListFatigueRecords(c.Request().Context(), &store.FindFatigueRecord{
		UserID: &claims.UserID,
		Since:  &since,
	})
	if err != nil {
		return internalError(c, s.logger, "fatigue-stats", err)
	}

	stats := fatigueStats{Days: days, Count: len(records), Trend: "stable"}
	if len(records) == 0 {
		return c.JSON(http.StatusOK, stats)
	}

	stats.Min = records[0].Overall
	for _, r := range records {
		stats.Average += r.Overall
		if r.Overall > stats.Max {
			stats.Max = r.Overall
		}
		if r.Overall < stats.Min {
			stats.Min = r.Overall
		}
		if r.Overall >= 0.6 {
			stats.HighFatigueCount++
		}
	}
	stats.Average /= float64(len(records))
	stats.Trend = fatigueTrend(records)

	return c.JSON(http.StatusOK, stats)
}

// fatigueTrend splits the period in half and compares the averages; the
// trend flips only past a 0.1 difference. Records arrive newest first.
func fatigueTrend(records []*store.FatigueRecord) string {
	if len(records) < 2 {
		return "stable"
	}
	mid := len(records) / 2
	recent, older := records[:mid], records[mid:]

	avg := func(rs []*store.FatigueRecord) float64 {
		sum := 0.0
		for _, r := range rs {
			sum += r.Overall
		}
		return sum / float64(len(rs))
	}

	diff := avg(recent) - avg(older)
	switch {
	case diff > 0.1:
		return "increasing"
	case diff < -0.1:
		return "decreasing"
	default:
		return "stable"
	}
}

// FatigueAlerts reports which stored assessments of the period would have
// fired the default alert bands.
func (s *APIV1Service) FatigueAlerts(c echo.Context) error {
	claims := auth.GetClaims(c)
	since := time.Now().AddDate(0, 0, -daysParam(c))

	records, err := s.Store.ListFatigueRecords(c.Request().Context(), &store.FindFatigueRecord{
		UserID: &claims.UserID,
		Since:  &since,
	})
	if err != nil {
		return internalError(c, s.logger, "fatigue-alerts", err)
	}

	alerts := make([]alert.Alert, 0)
	for _, r := range records {
		severity, message := alertBand(r.Overall)
		if severity == "" {
			continue
		}
		alerts = append(alerts, alert.Alert{
			Rule:      "stored-assessment",
			Severity:  severity,
			Message:   message,
			Score:     r.Overall,
			Timestamp: r.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

func alertBand(score float64) (alert.Severity, string) {
	switch {
	case score > 0.8:
		return alert.SeverityCritical, "Critical fatigue detected. Stop working and rest now."
	case score > 0.6:
		return alert.SeverityWarning, "High fatigue detected. Take a break within the next 15 minutes."
	case score > 0.4:
		return alert.SeverityInfo, "Fatigue is rising. Consider a short pause soon."
	default:
		return "", ""
	}
}
