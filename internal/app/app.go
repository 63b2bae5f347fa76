package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"SkillTracker/internal/config"
	"SkillTracker/internal/infrastructure/fetcher"
	"SkillTracker/internal/infrastructure/parser"
	"SkillTracker/internal/logging"
	"SkillTracker/internal/metrics"
	"SkillTracker/internal/progress"
	"SkillTracker/internal/transport/httpapi"
	"SkillTracker/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	metrics   *metrics.Metrics
	extractor *parser.ProfileExtractor
	estimator *progress.Estimator
	tracker   *usecase.Tracker
	router    *gin.Engine
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	m := metrics.New()

	extractor := parser.NewProfileExtractor(
		baseLogger.With("component", "extractor"),
		parser.WithRequiredPoints(cfg.Progress.RequiredPoints),
		parser.WithClock(func() time.Time { return time.Now().In(cfg.Progress.Location()) }),
	)
	pageFetcher := fetcher.NewRestyFetcher(cfg.Fetcher, nil, baseLogger.With("component", "fetcher"))
	source := parser.NewProfileSource(pageFetcher, extractor, baseLogger.With("component", "source"))

	estimator := progress.NewEstimator(
		progress.WithPointsPerDay(cfg.Progress.PointsPerDay),
		progress.WithLocation(cfg.Progress.Location()),
	)

	tracker := usecase.NewTracker(usecase.TrackerDeps{
		Source:    source,
		Estimator: estimator,
		Fallbacks: m,
		Scrapes:   m,
		Location:  cfg.Progress.Location(),
		Logger:    baseLogger.With("component", "tracker"),
	})

	switch cfg.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	case "":
	default:
		baseLogger.Warn("unknown server mode, keeping gin default", "mode", cfg.Server.Mode)
	}
	handler := httpapi.NewHandler(tracker, baseLogger.With("component", "http"))
	router := httpapi.NewRouter(handler, m, cfg.RateLimit, baseLogger.With("component", "http"))

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		metrics:   m,
		extractor: extractor,
		estimator: estimator,
		tracker:   tracker,
		router:    router,
	}
}

// Tracker exposes the use case for the CLI.
func (a *Application) Tracker() *usecase.Tracker {
	return a.tracker
}

// Extractor exposes the offline extractor for the CLI.
func (a *Application) Extractor() *parser.ProfileExtractor {
	return a.extractor
}

// Estimator exposes the progress estimator for the CLI.
func (a *Application) Estimator() *progress.Estimator {
	return a.estimator
}

// Handler returns the HTTP handler, mostly for tests.
func (a *Application) Handler() http.Handler {
	return a.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", a.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("server exited")
	return nil
}
