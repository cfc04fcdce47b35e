package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/upstic/admin-console/internal/config"
	"github.com/upstic/admin-console/internal/orchestrator"
	agencyService "github.com/upstic/admin-console/internal/service/agency"
	auditService "github.com/upstic/admin-console/internal/service/audit"
	authService "github.com/upstic/admin-console/internal/service/auth"
	dashboardService "github.com/upstic/admin-console/internal/service/dashboard"
	platformService "github.com/upstic/admin-console/internal/service/platform"
	securityService "github.com/upstic/admin-console/internal/service/security"
	userService "github.com/upstic/admin-console/internal/service/user"
	"github.com/upstic/admin-console/internal/session"
	"github.com/upstic/admin-console/pkg/httpclient"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLog := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Output: os.Stderr,
	})
	m := metrics.NewMetrics("upstic_console")

	// Initialize session state
	store := session.NewFileStore(cfg.Session.FilePath)
	manager := session.NewManager(store, appLog, m)

	// Initialize API client; the session manager supplies bearer tokens
	client := httpclient.New(httpclient.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		QuietPaths: []string{"/admin/dashboard"},
	}, manager, appLog, m)

	// Initialize services
	authSvc := authService.NewService(client)
	manager.SetAuthService(authSvc)

	agencySvc := agencyService.NewService(client, appLog, cfg.API.DomainSuffix)
	userSvc := userService.NewService(client, appLog)
	auditSvc := auditService.NewService(client, appLog)
	securitySvc := securityService.NewService(client, appLog, m)
	dashboardSvc := dashboardService.NewService(client, appLog, m)
	platformSvc := platformService.NewService(client, appLog, m, securitySvc)

	if cfg.API.MockMode {
		appLog.Warn("mock mode enabled, degraded reads serve fallback data")
		securitySvc.SetMockMode(true)
		dashboardSvc.SetMockMode(true)
		platformSvc.SetMockMode(true)
	}

	// Initialize orchestrators
	agencies := orchestrator.NewAgencies(agencySvc, appLog, m)
	users := orchestrator.NewUsers(userSvc, appLog, m)
	auditTrail := orchestrator.NewAudit(auditSvc, appLog, m)
	securityView := orchestrator.NewSecurity(securitySvc, appLog)
	overview := orchestrator.NewDashboard(dashboardSvc, appLog, m, cfg.Dashboard.PollInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the overview poller
	go overview.Run(ctx)

	// Warm the resource views; failures here are soft, the views retry on
	// demand
	if err := agencies.Load(ctx); err != nil {
		appLog.Warn("initial agency load failed", "error", err.Error())
	}
	if err := agencies.LoadStats(ctx); err != nil {
		appLog.Warn("initial agency stats load failed", "error", err.Error())
	}
	if err := users.Load(ctx); err != nil {
		appLog.Warn("initial user load failed", "error", err.Error())
	}
	if err := auditTrail.Load(ctx); err != nil {
		appLog.Warn("initial audit load failed", "error", err.Error())
	}
	securityView.Refresh(ctx)

	// Expose metrics
	metricsSrv := &http.Server{
		Addr:    ":9090",
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start metrics server")
		}
	}()

	appLog.Info("console ready",
		"base_url", cfg.API.BaseURL,
		"authenticated", manager.IsAuthenticated())

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down console...")

	cancel()
	overview.Close()
	if err := metricsSrv.Shutdown(context.Background()); err != nil {
		appLog.Error(err, "metrics server forced to shutdown")
	}

	appLog.Info("console exited properly")
}
