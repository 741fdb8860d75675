// Package server assembles the engine, storage and delivery layers into
// one HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/ai/insight"
	"github.com/neuroalign/neuroalign/engine/alert"
	"github.com/neuroalign/neuroalign/engine/biorhythm"
	"github.com/neuroalign/neuroalign/engine/fatigue"
	"github.com/neuroalign/neuroalign/engine/metrics"
	"github.com/neuroalign/neuroalign/engine/session"
	"github.com/neuroalign/neuroalign/internal/profile"
	"github.com/neuroalign/neuroalign/plugin/notifier"
	"github.com/neuroalign/neuroalign/plugin/notifier/telegram"
	"github.com/neuroalign/neuroalign/plugin/wearable"
	apiv1 "github.com/neuroalign/neuroalign/server/router/api/v1"
	"github.com/neuroalign/neuroalign/server/websocket"
	"github.com/neuroalign/neuroalign/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	registry   *session.Registry
	hub        *websocket.Hub
	exporter   *metrics.Exporter
	logger     *slog.Logger
}

func NewServer(_ context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	logger := slog.Default()

	e := echo.New()
	e.Debug = profile.IsDev()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warn("request", "method", v.Method, "uri", v.URI, "status", v.Status, "err", v.Error)
			} else {
				logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			}
			return nil
		},
	}))

	alerts, err := alert.NewEngine(alert.DefaultRules(), logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile alert rules")
	}

	exporter := metrics.NewExporter(metrics.Config{})
	hub := websocket.NewHub(logger)
	go hub.Run()

	registry := session.NewRegistry(session.RegistryConfig{
		IdleTimeout: time.Duration(profile.SessionIdleTimeoutMinutes) * time.Minute,
		Logger:      logger,
		NewDetector: func() *fatigue.Detector {
			return fatigue.NewDetector(fatigue.Config{
				HesitationThreshold: profile.HesitationThreshold,
				BlinkRateThreshold:  profile.BlinkRateThreshold,
			})
		},
		NewAnalyzer: func() *biorhythm.Analyzer {
			return biorhythm.NewAnalyzer()
		},
	})

	var insightConfig *insight.Config
	if profile.IsAIEnabled() {
		insightConfig = &insight.Config{
			Provider: profile.AIProvider,
			APIKey:   profile.AIAPIKey,
			BaseURL:  profile.AIBaseURL,
			Model:    profile.AIModel,
		}
	}
	generator := insight.NewGenerator(insightConfig, logger)

	var wearableClient *wearable.Client
	if profile.IsWearableEnabled() {
		wearableClient, err = wearable.NewClient(wearable.Config{
			Provider:     profile.WearableProvider,
			ClientID:     profile.WearableClientID,
			ClientSecret: profile.WearableClientSecret,
			RedirectURL:  profile.WearableRedirectURL,
			DataURL:      profile.WearableDataURL,
		}, logger)
		if err != nil {
			logger.Warn("wearable connector disabled", "err", err)
		}
	}

	fanout := notifier.NewFanout()
	if profile.IsTelegramEnabled() {
		tg, err := telegram.New(telegram.Config{
			BotToken: profile.TelegramBotToken,
			ChatID:   strconv.FormatInt(profile.TelegramChatID, 10),
		}, logger)
		if err != nil {
			logger.Warn("telegram notifier disabled", "err", err)
		} else {
			fanout.Add(tg)
		}
	}

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
		registry:   registry,
		hub:        hub,
		exporter:   exporter,
		logger:     logger,
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	e.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	apiV1Service := apiv1.NewAPIV1Service(apiv1.Config{
		Profile:  profile,
		Store:    store,
		Registry: registry,
		Alerts:   alerts,
		Insight:  generator,
		Metrics:  exporter,
		Hub:      hub,
		Notifier: fanout,
		Wearable: wearableClient,
		Logger:   logger,
	})
	apiV1Service.RegisterRoutes(e)

	return s, nil
}

func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	return s.echoServer.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Stop accepting new connections first, then drain the background
	// machinery and the database.
	if err := s.echoServer.Shutdown(ctx); err != nil {
		s.logger.Error("failed to shutdown server", "error", err)
	}

	s.registry.Shutdown()
	s.hub.Shutdown()

	if err := s.Store.Close(); err != nil {
		s.logger.Error("failed to close database", "error", err)
	}

	s.logger.Info("neuroalign stopped properly")
}
