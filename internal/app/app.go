package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/libgate/internal/config"
	"github.com/MrSnakeDoc/libgate/internal/engine/aquabrowser"
	"github.com/MrSnakeDoc/libgate/internal/engine/summon"
	"github.com/MrSnakeDoc/libgate/internal/httpserver"
	"github.com/MrSnakeDoc/libgate/internal/httpserver/deps"
	"github.com/MrSnakeDoc/libgate/internal/logger"
	"github.com/MrSnakeDoc/libgate/internal/ratelimit"
	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/upstream"
	"github.com/MrSnakeDoc/libgate/internal/version"
)

type App struct {
	cfg     *config.Config
	logger  logger.Logger
	server  *httpserver.Server
	service *search.Service
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		loggerClient.Errorf("Failed to load portal settings: %v", err)
		os.Exit(1)
	}
	node := settings.Search()
	loggerClient.Info("portal settings loaded",
		logger.String("file", cfg.SettingsFile),
		logger.Int("page_limit", node.PageLimit),
		logger.Int("page_size", node.PageSize),
		logger.Strings("facet_fields", node.FacetFields))

	service := newService(cfg, settings, loggerClient)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Build:        version.Get(),
		TimeNow:      time.Now,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		Service:      service,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:     cfg,
		logger:  loggerClient,
		server:  server,
		service: service,
	}
}

// newService builds one rate-limited client per engine and registers both
// adapters with the aggregator.
func newService(cfg *config.Config, settings *config.Settings, loggerClient logger.Logger) *search.Service {
	node := settings.Search()

	catalogue := aquabrowser.New(aquabrowser.Config{
		URL:             cfg.AquabrowserURL,
		AvailabilityURL: cfg.AquabrowserAvailabilityURL,
		SuggestionsURL:  cfg.AquabrowserSuggestionsURL,
		FacetsURL:       cfg.AquabrowserFacetsURL,
	}, upstream.New(aquabrowser.Name, cfg.AquabrowserTimeout,
		upstream.WithRateLimiter(ratelimit.New(aquabrowser.Name, cfg.UpstreamRatePerSecond))))

	discovery := summon.New(summon.Config{
		Scheme:       cfg.SummonScheme,
		Host:         cfg.SummonHost,
		Version:      cfg.SummonVersion,
		AuthID:       cfg.SummonAuthID,
		AuthKey:      cfg.SummonAuthKey,
		PageSize:     node.PageSize,
		HoldingsOnly: *node.HoldingsOnly,
		FacetFields:  node.FacetFields,
		FacetLimit:   node.FacetLimit,
		ContentTypes: settings.SummonContentTypes(),
	}, upstream.New(summon.Name, cfg.SummonTimeout,
		upstream.WithRateLimiter(ratelimit.New(summon.Name, cfg.UpstreamRatePerSecond))))

	loggerClient.Info("engines configured",
		logger.String("default", cfg.DefaultEngine),
		logger.Duration("aquabrowser_timeout", cfg.AquabrowserTimeout),
		logger.Duration("summon_timeout", cfg.SummonTimeout))

	return search.NewService(loggerClient, search.Settings{
		PageLimit:        node.PageLimit,
		PaginationWindow: node.PaginationWindow,
		AllowedParams:    node.AllowedParams,
		DefaultEngine:    cfg.DefaultEngine,
	}, discovery, catalogue)
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting LibGate v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("LibGate %s", version.Get())
	a.logger.Info("search engines registered",
		logger.Strings("engines", a.service.Engines()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ LibGate stopped cleanly")
	return nil
}
