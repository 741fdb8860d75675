// Package v1 implements the REST and websocket API surface.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/neuroalign/neuroalign/ai/insight"
	"github.com/neuroalign/neuroalign/engine/alert"
	"github.com/neuroalign/neuroalign/engine/metrics"
	"github.com/neuroalign/neuroalign/engine/session"
	"github.com/neuroalign/neuroalign/internal/profile"
	"github.com/neuroalign/neuroalign/plugin/notifier"
	"github.com/neuroalign/neuroalign/plugin/wearable"
	"github.com/neuroalign/neuroalign/server/auth"
	"github.com/neuroalign/neuroalign/server/websocket"
	"github.com/neuroalign/neuroalign/store"
)

// maxConcurrentFrameAnalyses bounds CPU spent on landmark math when many
// clients stream at once.
const maxConcurrentFrameAnalyses = 8

// APIV1Service wires the engine, storage and delivery layers to the HTTP
// surface.
type APIV1Service struct {
	Profile  *profile.Profile
	Store    *store.Store
	Registry *session.Registry
	Alerts   *alert.Engine
	Insight  *insight.Generator
	Metrics  *metrics.Exporter
	Hub      *websocket.Hub
	Notifier *notifier.Fanout
	Wearable *wearable.Client
	Secret   string

	frameSemaphore *semaphore.Weighted
	logger         *slog.Logger
}

// Config bundles the dependencies of the API service.
type Config struct {
	Profile  *profile.Profile
	Store    *store.Store
	Registry *session.Registry
	Alerts   *alert.Engine
	Insight  *insight.Generator
	Metrics  *metrics.Exporter
	Hub      *websocket.Hub
	Notifier *notifier.Fanout
	Wearable *wearable.Client
	Logger   *slog.Logger
}

// NewAPIV1Service creates the API service.
func NewAPIV1Service(cfg Config) *APIV1Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &APIV1Service{
		Profile:        cfg.Profile,
		Store:          cfg.Store,
		Registry:       cfg.Registry,
		Alerts:         cfg.Alerts,
		Insight:        cfg.Insight,
		Metrics:        cfg.Metrics,
		Hub:            cfg.Hub,
		Notifier:       cfg.Notifier,
		Wearable:       cfg.Wearable,
		Secret:         cfg.Profile.Secret,
		frameSemaphore: semaphore.NewWeighted(maxConcurrentFrameAnalyses),
		logger:         logger,
	}
}

// RegisterRoutes mounts the API on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	apiV1 := e.Group("/api/v1")

	// Public auth endpoints. The wearable callback is public because the
	// provider redirect carries identity in the signed state parameter.
	apiV1.POST("/auth/register", s.Register)
	apiV1.POST("/auth/login", s.Login)
	apiV1.GET("/wearable/callback", s.WearableCallback)

	// Everything else requires a valid token.
	secured := apiV1.Group("", auth.Middleware(s.Secret))
	secured.GET("/auth/me", s.Me)
	secured.POST("/auth/change-password", s.ChangePassword)

	secured.POST("/fatigue/analyze-frame", s.AnalyzeFrame)
	secured.POST("/fatigue/analyze-typing", s.AnalyzeTyping)
	secured.GET("/fatigue/overall-score", s.OverallScore)
	secured.GET("/fatigue/history", s.FatigueHistory)
	secured.GET("/fatigue/stats", s.FatigueStats)
	secured.GET("/fatigue/alerts", s.FatigueAlerts)
	secured.GET("/fatigue/ws", s.Monitor)

	secured.POST("/scheduling/predict-energy", s.PredictEnergy)
	secured.POST("/scheduling/optimize-schedule", s.OptimizeSchedule)
	secured.GET("/scheduling/optimal-windows", s.OptimalWindows)

	secured.POST("/schedules", s.CreateSchedule)
	secured.GET("/schedules", s.ListSchedules)
	secured.GET("/schedules/:uid", s.GetSchedule)
	secured.PATCH("/schedules/:uid", s.UpdateSchedule)
	secured.DELETE("/schedules/:uid", s.DeleteSchedule)

	secured.GET("/wearable/connect", s.WearableConnect)
	secured.POST("/wearable/sync", s.WearableSync)

	secured.GET("/dashboard/overview", s.DashboardOverview)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Message string `json:"message"`
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errorResponse{Message: message})
}

func internalError(c echo.Context, logger *slog.Logger, action string, err error) error {
	logger.Error("request failed", "action", action, "err", err)
	return echo.NewHTTPError(http.StatusInternalServerError, errorResponse{Message: "internal error"})
}
